package models

import "time"

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null;type:varchar(255)"`
	Name      string    `json:"name" gorm:"not null;type:varchar(255)"`
	Password  string    `json:"-" gorm:"type:varchar(255)"`
	RoleID    uint      `json:"roleId" gorm:"not null;index"`
	Role      *Role     `json:"role,omitempty" gorm:"foreignKey:RoleID"`
	Active    bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"createdAt" gorm:"autoCreateTime;not null"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime;not null"`
}

// TableName specifies the table name for GORM
func (User) TableName() string {
	return "users"
}
