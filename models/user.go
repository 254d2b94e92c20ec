package models

import "time"

// Role defines allowed roles in the system
type Role string

const (
	RoleElder  Role = "elder"
	RoleHelper Role = "helper"
	RoleAdmin  Role = "admin"
)

// Language is a user's preferred interface language
type Language string

const (
	LanguageEnglish Language = "English"
	LanguageTamil   Language = "Tamil"
)

// User is the identity record shared by every role. Role-specific fields
// live in ElderProfile / HelperProfile so impossible field combinations
// cannot be represented.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Role         Role      `json:"role" gorm:"not null"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Phone        string    `json:"phone"`
	Age          int       `json:"age"`
	Language     Language  `json:"language" gorm:"not null;default:'English'"`
	Avatar       string    `json:"avatar"` // display glyph, usually the name's initial
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
