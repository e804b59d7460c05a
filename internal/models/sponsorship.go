package models

import "time"

// InterestStatus enumerates the review states of a sponsorship interest.
// Only the default is ever assigned today; the review workflow that would
// move interests to approved/rejected has no endpoint yet.
type InterestStatus string

const (
	InterestStatusPending  InterestStatus = "pending"
	InterestStatusApproved InterestStatus = "approved"
	InterestStatusRejected InterestStatus = "rejected"
)

// SponsorshipInterest records a public visitor's intent to sponsor a student.
type SponsorshipInterest struct {
	ID           string         `db:"id" json:"id"`
	StudentID    string         `db:"student_id" json:"student_id"`
	SponsorName  string         `db:"sponsor_name" json:"sponsor_name"`
	SponsorEmail string         `db:"sponsor_email" json:"sponsor_email"`
	SponsorPhone string         `db:"sponsor_phone" json:"sponsor_phone"`
	Message      string         `db:"message" json:"message,omitempty"`
	Status       InterestStatus `db:"status" json:"status"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// InterestDetail joins an interest with the referenced student for the
// admin listing.
type InterestDetail struct {
	SponsorshipInterest
	StudentName     string `db:"student_name" json:"student_name"`
	StudentIDNumber string `db:"student_id_number" json:"student_id_number"`
}
