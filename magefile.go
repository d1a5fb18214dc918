//go:build mage
// +build mage

package main

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/magefile/mage/mg"
)

const (
	appName = "backoffice"
	distDir = "dist"
)

func Build() error {
	mg.Deps(Test)
	fmt.Println("Building...")

	// Create dist directory if it doesn't exist
	if err := os.MkdirAll(distDir, 0755); err != nil {
		return err
	}

	// Copy config.yaml to dist
	fmt.Println("Copying config file...")
	src, err := os.Open("config.yaml")
	if err != nil {
		return fmt.Errorf("error opening config.yaml: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(distDir, "config.yaml"))
	if err != nil {
		return fmt.Errorf("error creating dist config.yaml: %w", err)
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return fmt.Errorf("error copying config file: %w", err)
	}

	cmd := exec.Command("go", "build", "-o", filepath.Join(distDir, appName), "./cmd/server")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func BuildCLI() error {
	if err := os.MkdirAll(distDir, 0755); err != nil {
		return err
	}
	cmd := exec.Command("go", "build", "-o", filepath.Join(distDir, appName+"-cli"), "./cmd/cli")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func Test() error {
	fmt.Println("Testing...")
	cmd := exec.Command("go", "test", "./...")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func Clean() {
	fmt.Println("Cleaning...")
	os.RemoveAll(distDir)
}
