package models

import (
	"strings"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleAgent = "agent"
)

type Role struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"uniqueIndex;not null;type:varchar(50)"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime;not null"`
}

// TableName specifies the table name for GORM
func (Role) TableName() string {
	return "roles"
}

// Is reports whether the role has the given name, ignoring case.
func (r *Role) Is(name string) bool {
	return r != nil && strings.EqualFold(r.Name, name)
}
