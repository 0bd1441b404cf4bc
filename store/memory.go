package store

import (
	"sort"
	"sync"
	"time"

	"github.com/ariqfadlan/medpractice/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type memoryDirectory struct {
	mu       sync.RWMutex
	accounts map[string]model.Account
	seq      int
}

// NewMemory returns an empty in-memory Directory. It is safe for
// concurrent use and keeps insertion order in listings.
func NewMemory() Directory {
	return &memoryDirectory{accounts: make(map[string]model.Account)}
}

// NewMemorySeeded returns an in-memory Directory preloaded with the demo
// doctor, pharmacy and lab accounts.
func NewMemorySeeded() Directory {
	dir := NewMemory()
	for _, acc := range demoAccounts() {
		a := acc
		_ = dir.CreateAccount(&a)
	}
	return dir
}

func (d *memoryDirectory) ListAccounts(kind string) ([]model.Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	entries := make([]model.Account, 0, len(d.accounts))
	for _, acc := range d.accounts {
		if kind == "" || acc.Kind == kind {
			entries = append(entries, acc)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries, nil
}

func (d *memoryDirectory) GetAccount(id string) (model.Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	acc, ok := d.accounts[id]
	if !ok {
		return model.Account{}, ErrNotFound
	}
	return acc, nil
}

func (d *memoryDirectory) CreateAccount(acc *model.Account) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if acc.ID == "" {
		acc.ID = uuid.NewString()
	}
	d.seq++
	if acc.CreatedAt.IsZero() {
		// spread creation stamps so listing order stays deterministic
		acc.CreatedAt = time.Now().Add(time.Duration(d.seq) * time.Microsecond)
	}
	acc.UpdatedAt = acc.CreatedAt
	d.accounts[acc.ID] = *acc
	return nil
}

func (d *memoryDirectory) UpdateAccount(acc model.Account) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	existing, ok := d.accounts[acc.ID]
	if !ok {
		return ErrNotFound
	}
	acc.Kind = existing.Kind
	acc.DoctorID = existing.DoctorID
	acc.CreatedAt = existing.CreatedAt
	acc.UpdatedAt = time.Now()
	d.accounts[acc.ID] = acc
	return nil
}

func demoAccounts() []model.Account {
	now := time.Now()
	in200 := now.AddDate(0, 0, 200)
	in20 := now.AddDate(0, 0, 20)
	ago40 := now.AddDate(0, 0, -40)
	yearAgo := now.AddDate(-1, 0, 0)

	sarah := model.Account{
		ID:                "d-1001",
		Kind:              model.KindDoctor,
		Name:              "Dr. Sarah Mahmoud",
		Email:             "sarah.mahmoud@clinic.example",
		IsActive:          true,
		Speciality:        "Cardiology",
		PhoneNumber:       "0501112222",
		SubscriptionStart: &yearAgo,
		SubscriptionEnd:   &in200,
	}
	karim := model.Account{
		ID:                "d-1002",
		Kind:              model.KindDoctor,
		Name:              "Dr. Karim Nassar",
		Email:             "karim.nassar@clinic.example",
		IsActive:          true,
		Speciality:        "Dermatology",
		PhoneNumber:       "0503334444",
		SubscriptionStart: &yearAgo,
		SubscriptionEnd:   &in20,
	}
	lina := model.Account{
		ID:                "d-1003",
		Kind:              model.KindDoctor,
		Name:              "Dr. Lina Haddad",
		Email:             "lina.haddad@clinic.example",
		IsActive:          false,
		Speciality:        "Pediatrics",
		PhoneNumber:       "0505556666",
		SubscriptionStart: &yearAgo,
		SubscriptionEnd:   &ago40,
	}

	return []model.Account{
		sarah,
		karim,
		lina,
		{
			ID:         "p-2001",
			Kind:       model.KindPharmacy,
			Name:       "Central Pharmacy",
			Email:      "pharmacy.sarah@clinic.example",
			IsActive:   true,
			DoctorID:   sarah.ID,
			AccessCode: "PHXQ7W2M",
		},
		{
			ID:         "l-3001",
			Kind:       model.KindLab,
			Name:       "City Medical Lab",
			Email:      "lab.sarah@clinic.example",
			IsActive:   true,
			DoctorID:   sarah.ID,
			AccessCode: "LBKT8N4R",
		},
	}
}

// SeedDemoPatients inserts the demo patients with their visit history into
// the application database when none exist yet. Used by memory-directory
// (demo) deployments so the dashboard has data to aggregate.
func SeedDemoPatients(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Patient{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	parse := func(s string) time.Time {
		d, _ := time.Parse("2006-01-02", s)
		return d
	}

	patients := []model.Patient{
		{
			FullName:    "Ahmed Al-Sayed",
			Age:         34,
			Gender:      "Male",
			PhoneNumber: "0501112222",
			Address:     "12 Corniche Rd",
			BloodType:   "A+",
			Allergies:   "Penicillin",
			Visits: []model.Visit{
				{
					Date:        parse("2025-04-18"),
					Drugs:       "Paracetamol 500 mg",
					Tests:       "CBC",
					Notes:       "Seasonal flu symptoms",
					Outcome:     "Recovered",
					Temperature: 38.2,
					HeartRate:   88,
					Systolic:    122,
					Diastolic:   80,
				},
			},
		},
		{
			FullName:          "Zainab Hussein",
			Age:               58,
			Gender:            "Female",
			PhoneNumber:       "0503334444",
			Address:           "7 Palm St",
			BloodType:         "O-",
			ChronicConditions: "Type 2 Diabetes,Hyperlipidemia",
			Visits: []model.Visit{
				{
					Date:        parse("2025-03-28"),
					Drugs:       "Metformin 850 mg",
					Tests:       "HbA1c",
					Notes:       "Quarterly diabetes review",
					Outcome:     "Stable",
					Temperature: 36.8,
					HeartRate:   76,
					Systolic:    135,
					Diastolic:   85,
				},
				{
					Date:        parse("2025-04-02"),
					Drugs:       "Atorvastatin 20 mg",
					Tests:       "Lipid Panel",
					Notes:       "Cholesterol follow-up",
					Outcome:     "Improving",
					Temperature: 36.6,
					HeartRate:   72,
					Systolic:    130,
					Diastolic:   82,
				},
			},
		},
	}

	return db.Create(&patients).Error
}
