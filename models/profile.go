package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// HelperType classifies helpers; Students are steered to small free Basic
// tasks, Part-Time and Volunteer helpers to the paid tiers.
type HelperType string

const (
	HelperStudent   HelperType = "Student"
	HelperPartTime  HelperType = "Part-Time"
	HelperVolunteer HelperType = "Volunteer"
)

// VerificationStatus gates whether a helper may be matched at all
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationVerified VerificationStatus = "verified"
	VerificationRejected VerificationStatus = "rejected"
)

// CategoryList is a set of service categories stored as a JSON column
type CategoryList []ServiceCategory

func (l CategoryList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *CategoryList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported type for CategoryList")
}

// Contains reports whether the helper serves the given category
func (l CategoryList) Contains(c ServiceCategory) bool {
	for _, have := range l {
		if have == c {
			return true
		}
	}
	return false
}

// StringList is a JSON-encoded list of opaque strings (document names)
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return errors.New("unsupported type for StringList")
}

// ElderProfile holds elder-only fields
type ElderProfile struct {
	UserID    uint      `json:"user_id" gorm:"primaryKey"`
	User      User      `json:"-" gorm:"foreignKey:UserID"`
	Address   string    `json:"address"` // default drop-off address
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HelperProfile holds helper-only fields
type HelperProfile struct {
	UserID             uint               `json:"user_id" gorm:"primaryKey"`
	User               User               `json:"-" gorm:"foreignKey:UserID"`
	HelperType         HelperType         `json:"helper_type" gorm:"not null"`
	Categories         CategoryList       `json:"categories" gorm:"type:text"`
	VerificationStatus VerificationStatus `json:"verification_status" gorm:"not null;default:'pending'"`
	Documents          StringList         `json:"documents" gorm:"type:text"` // uploaded identity-document references
	OrgName            string             `json:"org_name"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

// Verified reports whether the helper has passed admin verification
func (p *HelperProfile) Verified() bool {
	return p.VerificationStatus == VerificationVerified
}
