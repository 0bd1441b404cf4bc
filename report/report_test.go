package report

import (
	"testing"
	"time"

	"github.com/ariqfadlan/medpractice/model"
	"github.com/stretchr/testify/assert"
)

func date(value string) time.Time {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return d
}

func datePtr(value string) *time.Time {
	d := date(value)
	return &d
}

func demoPatients() []model.Patient {
	return []model.Patient{
		{FullName: "Ahmed Al-Sayed", PhoneNumber: "0501112222", Address: "12 Corniche Rd", BloodType: "A+"},
		{FullName: "Zainab Hussein", PhoneNumber: "0503334444", Address: "7 Palm St", BloodType: "O-"},
		{FullName: "Omar Khalil", PhoneNumber: "0505556666", Address: "3 Harbour Ave", BloodType: "B+"},
	}
}

func TestFilterPatientsEmptyQueryIsIdentity(t *testing.T) {
	patients := demoPatients()
	got := FilterPatients(patients, "", "name")
	assert.Equal(t, patients, got)

	got = FilterPatients(patients, "", "")
	assert.Equal(t, patients, got)
}

func TestFilterPatientsByNameCaseInsensitive(t *testing.T) {
	got := FilterPatients(demoPatients(), "zain", "name")
	assert.Len(t, got, 1)
	assert.Equal(t, "Zainab Hussein", got[0].FullName)

	got = FilterPatients(demoPatients(), "ZAIN", "name")
	assert.Len(t, got, 1)
	assert.Equal(t, "Zainab Hussein", got[0].FullName)
}

func TestFilterPatientsAllFields(t *testing.T) {
	// "palm" only appears in Zainab's address
	got := FilterPatients(demoPatients(), "palm", "")
	assert.Len(t, got, 1)
	assert.Equal(t, "Zainab Hussein", got[0].FullName)
}

func TestFilterPatientsResultIsStableSubset(t *testing.T) {
	patients := demoPatients()
	got := FilterPatients(patients, "a", "name")
	assert.LessOrEqual(t, len(got), len(patients))

	// matches keep their original relative order
	var names []string
	for _, p := range got {
		names = append(names, p.FullName)
	}
	assert.Equal(t, []string{"Ahmed Al-Sayed", "Zainab Hussein", "Omar Khalil"}, names)
}

func TestFilterPatientsNoMatch(t *testing.T) {
	got := FilterPatients(demoPatients(), "nonexistent", "")
	assert.Empty(t, got)
}

func TestFilterPatientsDoesNotMutateInput(t *testing.T) {
	patients := demoPatients()
	FilterPatients(patients, "zain", "name")
	assert.Equal(t, demoPatients(), patients)
}

func TestFilterAccounts(t *testing.T) {
	accounts := []model.Account{
		{Name: "Dr. Sarah Mahmoud", Email: "sarah@clinic.example", Speciality: "Cardiology"},
		{Name: "Dr. Karim Nassar", Email: "karim@clinic.example", Speciality: "Dermatology"},
	}

	got := FilterAccounts(accounts, "cardio", "speciality")
	assert.Len(t, got, 1)
	assert.Equal(t, "Dr. Sarah Mahmoud", got[0].Name)

	got = FilterAccounts(accounts, "karim", "")
	assert.Len(t, got, 1)
	assert.Equal(t, "Dr. Karim Nassar", got[0].Name)
}

func TestTopDrugsCountsAcrossVisits(t *testing.T) {
	visits := []model.Visit{
		{Drugs: "Paracetamol 500 mg,Amoxicillin 250 mg"},
		{Drugs: "Paracetamol 500 mg"},
		{Drugs: "Ibuprofen 400 mg,Paracetamol 500 mg"},
	}

	got := TopDrugs(visits, 5)
	assert.Equal(t, []ItemCount{
		{Name: "Paracetamol 500 mg", Count: 3},
		{Name: "Amoxicillin 250 mg", Count: 1},
		{Name: "Ibuprofen 400 mg", Count: 1},
	}, got)
}

func TestTopDrugsTruncatesToN(t *testing.T) {
	visits := []model.Visit{
		{Drugs: "A,B,C,D,E,F,G"},
	}

	got := TopDrugs(visits, 5)
	assert.Len(t, got, 5)
	for _, ic := range got {
		assert.GreaterOrEqual(t, ic.Count, 1)
	}
}

func TestTopDrugsTieBreakIsFirstOccurrence(t *testing.T) {
	// all counts equal: ranking must follow first appearance in the input
	visits := []model.Visit{
		{Drugs: "Metformin 850 mg"},
		{Drugs: "Atorvastatin 20 mg"},
		{Drugs: "Paracetamol 500 mg"},
	}

	got := TopDrugs(visits, 5)
	assert.Equal(t, []ItemCount{
		{Name: "Metformin 850 mg", Count: 1},
		{Name: "Atorvastatin 20 mg", Count: 1},
		{Name: "Paracetamol 500 mg", Count: 1},
	}, got)
}

func TestTopDrugsEmptyVisits(t *testing.T) {
	assert.Empty(t, TopDrugs(nil, 5))
	assert.Empty(t, TopDrugs([]model.Visit{}, 5))
	assert.Empty(t, TopDrugs([]model.Visit{{Drugs: ""}}, 5))
}

func TestTopTests(t *testing.T) {
	visits := []model.Visit{
		{Tests: "CBC,Lipid Panel"},
		{Tests: "CBC"},
	}

	got := TopTests(visits, 5)
	assert.Equal(t, []ItemCount{
		{Name: "CBC", Count: 2},
		{Name: "Lipid Panel", Count: 1},
	}, got)
}

func TestTopNSumNeverExceedsOccurrences(t *testing.T) {
	visits := []model.Visit{
		{Drugs: "A,B"},
		{Drugs: "A"},
		{Drugs: "C,B,A"},
	}
	total := 0
	for _, v := range visits {
		total += len(v.DrugList())
	}

	sum := 0
	for _, ic := range TopDrugs(visits, 2) {
		sum += ic.Count
	}
	assert.LessOrEqual(t, sum, total)
}

func TestRecentVisitsSortedDescending(t *testing.T) {
	visits := []model.Visit{
		{Date: date("2025-03-28"), Notes: "follow-up"},
		{Date: date("2025-04-18"), Notes: "checkup"},
		{Date: date("2025-01-02"), Notes: "initial"},
	}

	got := RecentVisits(visits, 5)
	assert.Len(t, got, 3)
	assert.Equal(t, date("2025-04-18"), got[0].Date)
	assert.Equal(t, date("2025-03-28"), got[1].Date)
	assert.Equal(t, date("2025-01-02"), got[2].Date)
}

func TestRecentVisitsLimit(t *testing.T) {
	visits := []model.Visit{
		{Date: date("2025-01-01")},
		{Date: date("2025-01-02")},
		{Date: date("2025-01-03")},
	}

	got := RecentVisits(visits, 2)
	assert.Len(t, got, 2)
	assert.Equal(t, date("2025-01-03"), got[0].Date)
}

func TestRecentVisitsEqualDatesKeepInputOrder(t *testing.T) {
	visits := []model.Visit{
		{Date: date("2025-02-10"), Notes: "first recorded"},
		{Date: date("2025-02-10"), Notes: "second recorded"},
		{Date: date("2025-02-09"), Notes: "older"},
	}

	got := RecentVisits(visits, 5)
	assert.Equal(t, "first recorded", got[0].Notes)
	assert.Equal(t, "second recorded", got[1].Notes)
	assert.Equal(t, "older", got[2].Notes)
}

func TestRecentVisitsDoesNotMutateInput(t *testing.T) {
	visits := []model.Visit{
		{Date: date("2025-01-01")},
		{Date: date("2025-03-01")},
	}

	RecentVisits(visits, 5)
	assert.Equal(t, date("2025-01-01"), visits[0].Date)
}

func TestDeriveStatus(t *testing.T) {
	assert.Equal(t, StatusActive, DeriveStatus("active"))
	assert.Equal(t, StatusInactive, DeriveStatus("Inactive"))
	assert.Equal(t, StatusWarning, DeriveStatus(" warning "))
	assert.Equal(t, StatusExpired, DeriveStatus("EXPIRED"))
	assert.Equal(t, StatusUnknown, DeriveStatus("suspended"))
	assert.Equal(t, StatusUnknown, DeriveStatus(""))
}

func TestDaysLeft(t *testing.T) {
	got := DaysLeft(datePtr("2025-01-01"), datePtr("2025-01-11"), date("2025-01-01"))
	if assert.NotNil(t, got) {
		assert.Equal(t, 10, *got)
	}

	assert.Nil(t, DaysLeft(nil, datePtr("2025-01-11"), date("2025-01-01")))
	assert.Nil(t, DaysLeft(datePtr("2025-01-01"), nil, date("2025-01-01")))
}

func TestDaysLeftNegativeWhenExpired(t *testing.T) {
	got := DaysLeft(datePtr("2025-01-01"), datePtr("2025-01-11"), date("2025-01-20"))
	if assert.NotNil(t, got) {
		assert.Equal(t, -9, *got)
	}
}

func TestSubscriptionStatusThresholds(t *testing.T) {
	today := date("2025-06-01")

	info := Subscription(datePtr("2025-01-01"), datePtr("2026-06-01"), today)
	assert.Equal(t, StatusActive, info.Status)
	assert.Equal(t, "Active", info.Text)
	assert.Equal(t, "green", info.Color)

	info = Subscription(datePtr("2025-01-01"), datePtr("2025-06-20"), today)
	assert.Equal(t, StatusWarning, info.Status)
	assert.Equal(t, "Expiring Soon", info.Text)

	info = Subscription(datePtr("2024-01-01"), datePtr("2025-05-01"), today)
	assert.Equal(t, StatusExpired, info.Status)
	if assert.NotNil(t, info.DaysLeft) {
		assert.Negative(t, *info.DaysLeft)
	}

	info = Subscription(datePtr("2025-01-01"), nil, today)
	assert.Equal(t, StatusUnknown, info.Status)
	assert.Equal(t, "Not Set", info.Text)
	assert.Nil(t, info.DaysLeft)
}

func TestStats(t *testing.T) {
	today := date("2025-06-01")
	doctors := []model.Account{
		{Kind: model.KindDoctor, SubscriptionEnd: datePtr("2026-06-01")},
		{Kind: model.KindDoctor, SubscriptionEnd: datePtr("2025-06-15")},
		{Kind: model.KindDoctor, SubscriptionEnd: datePtr("2025-01-01")},
		{Kind: model.KindDoctor},
	}

	got := Stats(doctors, today)
	assert.Equal(t, DashboardStats{
		TotalDoctors:        4,
		ActiveSubscriptions: 1,
		ExpiringSoon:        1,
		Expired:             1,
	}, got)
}

func TestStatsEmpty(t *testing.T) {
	assert.Equal(t, DashboardStats{}, Stats(nil, time.Now()))
}

// End-to-end example: Ahmed has one visit, Zainab has two; all three drug
// names occur once so the ranking follows first-occurrence order across
// the flattened visit list.
func TestAggregationEndToEnd(t *testing.T) {
	ahmedVisits := []model.Visit{
		{Date: date("2025-04-18"), Drugs: "Paracetamol 500 mg", Tests: "CBC"},
	}
	zainabVisits := []model.Visit{
		{Date: date("2025-03-28"), Drugs: "Metformin 850 mg", Tests: "HbA1c"},
		{Date: date("2025-04-02"), Drugs: "Atorvastatin 20 mg", Tests: "Lipid Panel"},
	}

	all := append(append([]model.Visit{}, ahmedVisits...), zainabVisits...)

	top := TopDrugs(all, 5)
	assert.Equal(t, []ItemCount{
		{Name: "Paracetamol 500 mg", Count: 1},
		{Name: "Metformin 850 mg", Count: 1},
		{Name: "Atorvastatin 20 mg", Count: 1},
	}, top)

	patients := []model.Patient{
		{FullName: "Ahmed Al-Sayed"},
		{FullName: "Zainab Hussein"},
	}
	filtered := FilterPatients(patients, "zain", "name")
	assert.Len(t, filtered, 1)
	assert.Equal(t, "Zainab Hussein", filtered[0].FullName)

	recent := RecentVisits(all, 2)
	assert.Equal(t, date("2025-04-18"), recent[0].Date)
	assert.Equal(t, date("2025-04-02"), recent[1].Date)
}
