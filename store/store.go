// Package store provides the account directory behind the management
// endpoints. Exactly one implementation is selected at startup: the
// gorm-backed store against the live database, or the seeded in-memory
// store for demo deployments and tests. Both satisfy the same interface,
// so handlers never branch on which one they talk to.
package store

import (
	"errors"

	"github.com/ariqfadlan/medpractice/model"
)

// ErrNotFound is returned when a directory record does not exist.
var ErrNotFound = errors.New("account not found")

// Directory is the account directory contract.
type Directory interface {
	// ListAccounts returns all accounts of the given kind, or every
	// account when kind is empty.
	ListAccounts(kind string) ([]model.Account, error)
	GetAccount(id string) (model.Account, error)
	CreateAccount(acc *model.Account) error
	UpdateAccount(acc model.Account) error
}
