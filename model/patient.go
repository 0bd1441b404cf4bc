package model

import (
	"strings"

	"gorm.io/gorm"
)

// Patient is a registered patient record. List-valued fields (allergies,
// chronic conditions) are stored comma-joined and exposed through the
// *List helpers.
type Patient struct {
	gorm.Model
	FullName          string  `json:"full_name"`
	Age               int     `json:"age"`
	Gender            string  `json:"gender"`
	PhoneNumber       string  `json:"phone_number"`
	Address           string  `json:"address"`
	BloodType         string  `json:"blood_type"`
	Allergies         string  `json:"allergies"`
	ChronicConditions string  `json:"chronic_conditions"`
	Visits            []Visit `json:"visits,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func (p Patient) AllergyList() []string {
	return SplitList(p.Allergies)
}

func (p Patient) ConditionList() []string {
	return SplitList(p.ChronicConditions)
}

// SplitList splits a comma-joined list field into trimmed, non-empty items.
func SplitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// JoinList is the inverse of SplitList for request payloads carrying slices.
func JoinList(items []string) string {
	cleaned := make([]string, 0, len(items))
	for _, it := range items {
		if trimmed := strings.TrimSpace(it); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return strings.Join(cleaned, ",")
}
