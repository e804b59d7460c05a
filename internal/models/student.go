package models

import (
	"time"

	"github.com/lib/pq"
)

// Student represents a child available for sponsorship.
//
// Age is nullable because some records are entered before a verified birth
// date is available; when present it must stay within 3-20.
type Student struct {
	ID                 string         `db:"id" json:"id"`
	IDNumber           string         `db:"id_number" json:"id_number"`
	FullName           string         `db:"full_name" json:"full_name"`
	DateOfBirth        time.Time      `db:"date_of_birth" json:"date_of_birth"`
	Class              string         `db:"class" json:"class"`
	Age                *int           `db:"age" json:"age,omitempty"`
	Personality        string         `db:"personality" json:"personality"`
	AcademicStrengths  string         `db:"academic_strengths" json:"academic_strengths"`
	OverallPerformance string         `db:"overall_performance" json:"overall_performance"`
	FamilyBackground   string         `db:"family_background" json:"family_background"`
	FinancialSituation string         `db:"financial_situation" json:"financial_situation"`
	Aspirations        string         `db:"aspirations" json:"aspirations"`
	SupportNeeded      string         `db:"support_needed" json:"support_needed"`
	Achievements       pq.StringArray `db:"achievements" json:"achievements"`
	IsSponsored        bool           `db:"is_sponsored" json:"is_sponsored"`
	SponsorName        string         `db:"sponsor_name" json:"sponsor_name,omitempty"`
	SponsorEmail       string         `db:"sponsor_email" json:"sponsor_email,omitempty"`
	SponsorPhone       string         `db:"sponsor_phone" json:"sponsor_phone,omitempty"`
	SponsorNotes       string         `db:"sponsor_notes" json:"sponsor_notes,omitempty"`
	PhotoURL           string         `db:"photo_url" json:"image_url"`
	CreatedAt          time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time      `db:"updated_at" json:"updated_at"`
}
