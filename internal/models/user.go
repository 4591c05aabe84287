package models

import "time"

type User struct {
	ID        int    `gorm:"primaryKey" json:"id"`
	Username  string `gorm:"size:150;unique;not null" json:"username"`
	Email     string `gorm:"size:254;not null;default:''" json:"email"`
	FirstName string `gorm:"size:150;not null;default:''" json:"first_name"`
	LastName  string `gorm:"size:150;not null;default:''" json:"last_name"`
	Password  string `gorm:"not null" json:"-"` // bcrypt hash
	IsStaff   bool   `gorm:"not null" json:"is_staff"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Username  string `json:"username" binding:"required,max=150"`
	FirstName string `json:"first_name" binding:"max=150"`
	LastName  string `json:"last_name" binding:"max=150"`
	Email     string `json:"email" binding:"omitempty,email"`
}

type AuthResponse struct {
	Token   string `json:"token"`
	User    User   `json:"user"`
	Message string `json:"message"`
}
