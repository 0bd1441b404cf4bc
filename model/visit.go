package model

import (
	"time"

	"gorm.io/gorm"
)

// Visit is a single clinical encounter belonging to one patient. Visits are
// append-only: once recorded they are never edited, only listed.
type Visit struct {
	gorm.Model
	PatientID   uint      `json:"patient_id" gorm:"index"`
	Date        time.Time `json:"date"`
	Drugs       string    `json:"drugs"`
	Tests       string    `json:"tests"`
	Notes       string    `json:"notes"`
	Outcome     string    `json:"outcome"`
	Temperature float64   `json:"temperature"`
	HeartRate   int       `json:"heart_rate"`
	Systolic    int       `json:"systolic"`
	Diastolic   int       `json:"diastolic"`
}

// DrugList returns the administered drug names recorded on this visit.
func (v Visit) DrugList() []string {
	return SplitList(v.Drugs)
}

// TestList returns the ordered lab test names recorded on this visit.
func (v Visit) TestList() []string {
	return SplitList(v.Tests)
}
