package model

import "time"

// Account kinds served by the directory.
const (
	KindDoctor   = "doctor"
	KindPharmacy = "pharmacy"
	KindLab      = "lab"
)

// Account is a doctor, pharmacy or lab directory record. Pharmacy and lab
// accounts hang off an owning doctor via DoctorID. Subscription dates only
// apply to doctors; the derived status is computed on read and never
// stored.
type Account struct {
	ID                string     `json:"id" gorm:"primaryKey;type:varchar(64)"`
	Kind              string     `json:"kind" gorm:"type:varchar(16);index"`
	Name              string     `json:"name"`
	Email             string     `json:"email" gorm:"index"`
	IsActive          bool       `json:"is_active"`
	Speciality        string     `json:"speciality"`
	PhoneNumber       string     `json:"phone_number"`
	DoctorID          string     `json:"doctor_id,omitempty" gorm:"index"`
	AccessCode        string     `json:"access_code,omitempty"`
	SubscriptionStart *time.Time `json:"subscription_start,omitempty"`
	SubscriptionEnd   *time.Time `json:"subscription_end,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
