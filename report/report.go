// Package report derives read-only projections from patient, visit and
// account collections: text filtering, frequency ranking, recency ranking,
// subscription status derivation and dashboard counters. Every function
// recomputes from the slices it is given, never mutates its input, and
// degrades to empty results on empty or malformed input instead of
// returning an error.
package report

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/ariqfadlan/medpractice/model"
)

// DefaultLimit is the ranking and recency cut-off used when a caller does
// not request one.
const DefaultLimit = 5

// Display categories for account and subscription status. Any stored value
// outside the first four renders as StatusUnknown.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusWarning  = "warning"
	StatusExpired  = "expired"
	StatusUnknown  = "unknown"
)

// filterByText keeps the items whose selected fields contain query as a
// case-insensitive substring. An empty query returns the input unchanged
// and matching preserves input order.
func filterByText[T any](items []T, query string, fields func(T) []string) []T {
	if query == "" {
		return items
	}
	q := strings.ToLower(query)
	matched := make([]T, 0, len(items))
	for _, item := range items {
		for _, f := range fields(item) {
			if strings.Contains(strings.ToLower(f), q) {
				matched = append(matched, item)
				break
			}
		}
	}
	return matched
}

// FilterPatients filters patients by a case-insensitive substring match on
// the named field ("name", "phone_number", "address", "blood_type") or on
// all of them when field is empty or unrecognized.
func FilterPatients(patients []model.Patient, query, field string) []model.Patient {
	return filterByText(patients, query, func(p model.Patient) []string {
		switch field {
		case "name":
			return []string{p.FullName}
		case "phone_number":
			return []string{p.PhoneNumber}
		case "address":
			return []string{p.Address}
		case "blood_type":
			return []string{p.BloodType}
		default:
			return []string{p.FullName, p.PhoneNumber, p.Address, p.BloodType}
		}
	})
}

// FilterAccounts filters directory records by the named field ("name",
// "email", "speciality", "phone_number") or all of them when field is
// empty or unrecognized.
func FilterAccounts(accounts []model.Account, query, field string) []model.Account {
	return filterByText(accounts, query, func(a model.Account) []string {
		switch field {
		case "name":
			return []string{a.Name}
		case "email":
			return []string{a.Email}
		case "speciality":
			return []string{a.Speciality}
		case "phone_number":
			return []string{a.PhoneNumber}
		default:
			return []string{a.Name, a.Email, a.Speciality, a.PhoneNumber}
		}
	})
}

// ItemCount is a ranked (name, occurrence count) pair.
type ItemCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TopDrugs ranks the n most administered drug names across visits.
func TopDrugs(visits []model.Visit, n int) []ItemCount {
	return topN(visits, model.Visit.DrugList, n)
}

// TopTests ranks the n most ordered lab test names across visits.
func TopTests(visits []model.Visit, n int) []ItemCount {
	return topN(visits, model.Visit.TestList, n)
}

// topN counts every named item yielded by pick across the visits and
// returns the n highest counts. Equal counts keep first-occurrence order:
// the ranking starts in discovery order and the sort is stable, so the
// result is deterministic for a given input order. Fewer than n distinct
// items yields fewer pairs; no visits yields an empty ranking.
func topN(visits []model.Visit, pick func(model.Visit) []string, n int) []ItemCount {
	if n <= 0 {
		n = DefaultLimit
	}
	counts := make(map[string]int)
	var order []string
	for _, v := range visits {
		for _, name := range pick(v) {
			if _, seen := counts[name]; !seen {
				order = append(order, name)
			}
			counts[name]++
		}
	}
	ranked := make([]ItemCount, 0, len(order))
	for _, name := range order {
		ranked = append(ranked, ItemCount{Name: name, Count: counts[name]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// RecentVisits returns the limit most recent visits sorted non-increasing
// by date. Visits sharing an identical date keep their input order (stable
// sort). The input slice is not modified.
func RecentVisits(visits []model.Visit, limit int) []model.Visit {
	if limit <= 0 {
		limit = DefaultLimit
	}
	recent := make([]model.Visit, len(visits))
	copy(recent, visits)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	if len(recent) > limit {
		recent = recent[:limit]
	}
	return recent
}

// DeriveStatus maps a stored status value to its display category. The
// four recognized values pass through; anything else, including the empty
// string, renders as StatusUnknown. Never fails.
func DeriveStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case StatusActive:
		return StatusActive
	case StatusInactive:
		return StatusInactive
	case StatusWarning:
		return StatusWarning
	case StatusExpired:
		return StatusExpired
	default:
		return StatusUnknown
	}
}

// DaysLeft returns the number of whole days from today until end, negative
// once the window has passed, or nil when either date is absent. A
// negative result is a valid value and must render as expired, not be
// suppressed.
func DaysLeft(start, end *time.Time, today time.Time) *int {
	if start == nil || end == nil {
		return nil
	}
	days := int(math.Floor(end.Sub(today).Hours() / 24))
	return &days
}

// SubscriptionInfo is the derived display state of a subscription window.
type SubscriptionInfo struct {
	DaysLeft *int   `json:"days_left"`
	Status   string `json:"status"`
	Text     string `json:"status_text"`
	Color    string `json:"status_color"`
}

// Subscription derives display info from a subscription window: no end
// date means unknown/"Not Set"; fewer than zero days left is expired, up
// to 30 is expiring soon, anything beyond is active.
func Subscription(start, end *time.Time, today time.Time) SubscriptionInfo {
	if end == nil {
		return SubscriptionInfo{Status: StatusUnknown, Text: "Not Set", Color: "gray"}
	}
	days := int(math.Floor(end.Sub(today).Hours() / 24))
	info := SubscriptionInfo{DaysLeft: &days}
	switch {
	case days < 0:
		info.Status, info.Text, info.Color = StatusExpired, "Expired", "red"
	case days <= 30:
		info.Status, info.Text, info.Color = StatusWarning, "Expiring Soon", "yellow"
	default:
		info.Status, info.Text, info.Color = StatusActive, "Active", "green"
	}
	return info
}

// DashboardStats summarizes the doctor directory for the dashboard.
type DashboardStats struct {
	TotalDoctors        int `json:"total_doctors"`
	ActiveSubscriptions int `json:"active_subscriptions"`
	ExpiringSoon        int `json:"expiring_soon"`
	Expired             int `json:"expired"`
}

// Stats counts doctors by derived subscription status as of today.
func Stats(doctors []model.Account, today time.Time) DashboardStats {
	stats := DashboardStats{TotalDoctors: len(doctors)}
	for _, d := range doctors {
		switch Subscription(d.SubscriptionStart, d.SubscriptionEnd, today).Status {
		case StatusActive:
			stats.ActiveSubscriptions++
		case StatusWarning:
			stats.ExpiringSoon++
		case StatusExpired:
			stats.Expired++
		}
	}
	return stats
}
