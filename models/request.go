package models

import "time"

// ServiceCategory is the kind of care work being requested
type ServiceCategory string

const (
	CategoryBasic     ServiceCategory = "Basic"
	CategoryTechnical ServiceCategory = "Technical"
	CategoryPersonal  ServiceCategory = "Personal"
)

// RequestStatus represents all possible states of a care request
type RequestStatus string

const (
	StatusSearching  RequestStatus = "searching"
	StatusAssigned   RequestStatus = "assigned"
	StatusOnTheWay   RequestStatus = "on_the_way"
	StatusInProgress RequestStatus = "in_progress"
	StatusCompleted  RequestStatus = "completed"
	StatusCancelled  RequestStatus = "cancelled"
)

// ActiveStatuses are the states in which a helper is committed to a request.
// A helper may hold at most one request in any of these at a time.
var ActiveStatuses = []RequestStatus{StatusAssigned, StatusOnTheWay, StatusInProgress}

// Terminal reports whether no transition leaves the given status
func (s RequestStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type CareRequest struct {
	ID            uint                   `json:"id" gorm:"primaryKey"`
	ElderID       uint                   `json:"elder_id" gorm:"not null"`
	Elder         User                   `json:"elder,omitempty" gorm:"foreignKey:ElderID"`
	HelperID      *uint                  `json:"helper_id"`
	Helper        *User                  `json:"helper,omitempty" gorm:"foreignKey:HelperID"`
	Category      ServiceCategory        `json:"category" gorm:"not null"`
	Description   string                 `json:"description" gorm:"not null"`
	Photo         string                 `json:"photo,omitempty"` // opaque attachment reference
	PickupAddress string                 `json:"pickup_address"`
	DropAddress   string                 `json:"drop_address"`
	DistanceKm    int                    `json:"distance_km"`
	Hours         int                    `json:"hours"`
	Status        RequestStatus          `json:"status" gorm:"not null;default:'searching'"`
	Payment       int                    `json:"payment"` // fixed at creation, never recomputed
	IsPaid        bool                   `json:"is_paid" gorm:"default:false"`
	Rating        *int                   `json:"rating,omitempty"` // 1..5, settable once
	Feedback      string                 `json:"feedback,omitempty"`
	StatusHistory []RequestStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:RequestID"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
}

// RequestStatusHistory tracks every status change for the audit trail
type RequestStatusHistory struct {
	ID         uint          `json:"id" gorm:"primaryKey"`
	RequestID  uint          `json:"request_id" gorm:"not null"`
	FromStatus RequestStatus `json:"from_status"`
	ToStatus   RequestStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint          `json:"changed_by"` // user ID who triggered the transition
	Note       string        `json:"note"`
	CreatedAt  time.Time     `json:"created_at"`
}
