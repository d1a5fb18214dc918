package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/config"
	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/auth"
	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/database"
	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/models"
	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/repository"
	"github.com/FooTalentGroup/Equipo2-tarde-sp7-sub001/internal/scheduler"
)

var (
	// Command flags
	createUser     = flag.Bool("create", false, "Create a new user")
	grantRole      = flag.Bool("grant-role", false, "Assign a role to a user")
	revokeSessions = flag.Bool("revoke-sessions", false, "Revoke all sessions of a user")
	cleanup        = flag.Bool("cleanup", false, "Sweep expired revocation records")

	// User data flags
	email    = flag.String("email", "", "User's email")
	password = flag.String("password", "", "User's password")
	name     = flag.String("name", "", "User's name")
	role     = flag.String("role", models.RoleAgent, "Role name")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := database.Initialize(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close(db)

	userRepo := repository.NewUserRepository(db)
	roleRepo := repository.NewRoleRepository(db)
	revokedRepo := repository.NewRevokedTokenRepository(db, cfg.Auth.RevokeAllWindow)

	switch {
	case *createUser:
		return handleCreateUser(userRepo, roleRepo)
	case *grantRole:
		return handleGrantRole(userRepo, roleRepo)
	case *revokeSessions:
		return handleRevokeSessions(userRepo, revokedRepo)
	case *cleanup:
		return handleCleanup(revokedRepo)
	default:
		printUsage()
		return nil
	}
}

func handleCreateUser(userRepo *repository.UserRepository, roleRepo *repository.RoleRepository) error {
	if *email == "" || *password == "" || *name == "" {
		return fmt.Errorf("email, password, and name are required")
	}

	r, err := roleRepo.FindByName(*role)
	if err != nil {
		return fmt.Errorf("failed to find role: %w", err)
	}
	if r == nil {
		return fmt.Errorf("role %q not found", *role)
	}

	hashed, err := auth.HashPassword(*password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:    *email,
		Password: hashed,
		Name:     *name,
		RoleID:   r.ID,
		Active:   true,
	}

	if err := userRepo.CreateUser(user); err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("Successfully created user: %s (%s)\n", user.Email, r.Name)
	return nil
}

func handleGrantRole(userRepo *repository.UserRepository, roleRepo *repository.RoleRepository) error {
	if *email == "" {
		return fmt.Errorf("email is required")
	}

	user, err := userRepo.GetUserByEmail(*email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	r, err := roleRepo.FindByName(*role)
	if err != nil {
		return fmt.Errorf("failed to find role: %w", err)
	}
	if r == nil {
		return fmt.Errorf("role %q not found", *role)
	}

	if err := userRepo.UpdateUserRole(user.ID, r.ID); err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}

	fmt.Printf("Successfully granted %s to user: %s\n", r.Name, user.Email)
	return nil
}

func handleRevokeSessions(userRepo *repository.UserRepository, revokedRepo *repository.RevokedTokenRepository) error {
	if *email == "" {
		return fmt.Errorf("email is required")
	}

	user, err := userRepo.GetUserByEmail(*email)
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}
	if user == nil {
		return fmt.Errorf("user not found")
	}

	if _, err := revokedRepo.RevokeAll(user.ID, models.ReasonRevokeAll); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	fmt.Printf("Successfully revoked sessions for user: %s\n", user.Email)
	return nil
}

func handleCleanup(revokedRepo *repository.RevokedTokenRepository) error {
	removed, err := scheduler.RunCleanup(revokedRepo)
	if err != nil {
		return fmt.Errorf("cleanup failed: %w", err)
	}

	stats, err := revokedRepo.Stats()
	if err != nil {
		return fmt.Errorf("failed to read stats: %w", err)
	}

	fmt.Printf("Removed %d expired records (total=%d active=%d expired=%d)\n",
		removed, stats.Total, stats.Active, stats.Expired)
	return nil
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  Create user:      cli -create -email=user@example.com -password=secret -name=\"John Doe\" [-role=agent]")
	fmt.Println("  Grant role:       cli -grant-role -email=user@example.com -role=admin")
	fmt.Println("  Revoke sessions:  cli -revoke-sessions -email=user@example.com")
	fmt.Println("  Cleanup:          cli -cleanup")
}
