package models

import "time"

// Certificate records an issued performance certificate. Rendering the
// downloadable document is an external concern; this row is the payload
// the renderer needs plus a serial for later lookup.
type Certificate struct {
	ID             string    `json:"id" gorm:"primaryKey"` // uuid serial
	HelperID       uint      `json:"helper_id" gorm:"not null"`
	Helper         User      `json:"helper,omitempty" gorm:"foreignKey:HelperID"`
	Tier           string    `json:"tier" gorm:"not null"`
	ProcessedCount int       `json:"processed_count"`
	AvgRating      float64   `json:"avg_rating"`
	Language       Language  `json:"language"`
	IssuedAt       time.Time `json:"issued_at" gorm:"autoCreateTime"`
}
