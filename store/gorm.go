package store

import (
	"errors"

	"github.com/ariqfadlan/medpractice/model"
	"gorm.io/gorm"
)

type gormDirectory struct {
	db *gorm.DB
}

// NewGorm returns a Directory backed by the application database.
func NewGorm(db *gorm.DB) Directory {
	return &gormDirectory{db: db}
}

func (d *gormDirectory) ListAccounts(kind string) ([]model.Account, error) {
	var accounts []model.Account
	query := d.db.Order("created_at ASC")
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if err := query.Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (d *gormDirectory) GetAccount(id string) (model.Account, error) {
	var acc model.Account
	if err := d.db.Where("id = ?", id).First(&acc).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Account{}, ErrNotFound
		}
		return model.Account{}, err
	}
	return acc, nil
}

func (d *gormDirectory) CreateAccount(acc *model.Account) error {
	return d.db.Create(acc).Error
}

func (d *gormDirectory) UpdateAccount(acc model.Account) error {
	result := d.db.Model(&model.Account{}).Where("id = ?", acc.ID).Updates(map[string]interface{}{
		"name":               acc.Name,
		"email":              acc.Email,
		"is_active":          acc.IsActive,
		"speciality":         acc.Speciality,
		"phone_number":       acc.PhoneNumber,
		"access_code":        acc.AccessCode,
		"subscription_start": acc.SubscriptionStart,
		"subscription_end":   acc.SubscriptionEnd,
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
