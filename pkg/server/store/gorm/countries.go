package gorm

import (
	"context"

	"gorm.io/gorm"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

const entityCountry = "country"

// Ensure CountriesStore implements store.CountriesStore
var _ store.CountriesStore = (*CountriesStore)(nil)

// CountriesStore implements store.CountriesStore using GORM
type CountriesStore struct {
	db *gorm.DB
}

// NewCountriesStore creates a new CountriesStore
func NewCountriesStore(db *gorm.DB) *CountriesStore {
	return &CountriesStore{db: db}
}

func (s *CountriesStore) ListCountries(ctx context.Context) ([]model.Country, error) {
	var countries []model.Country
	err := s.db.WithContext(ctx).Order("country_name").Find(&countries).Error
	return countries, translateError(entityCountry, nil, err)
}

func (s *CountriesStore) GetCountry(ctx context.Context, id uint) (*model.Country, error) {
	var country model.Country
	if err := findOne(s.db.WithContext(ctx), &country, entityCountry, id, "country_id = ?", id); err != nil {
		return nil, err
	}
	return &country, nil
}

func (s *CountriesStore) GetCountryByCode(ctx context.Context, code string) (*model.Country, error) {
	var country model.Country
	if err := findOne(s.db.WithContext(ctx), &country, entityCountry, code, "country_code = ?", code); err != nil {
		return nil, err
	}
	return &country, nil
}

func (s *CountriesStore) CreateCountry(ctx context.Context, country *model.Country) error {
	return translateError(entityCountry, country.CountryCode, s.db.WithContext(ctx).Create(country).Error)
}

func (s *CountriesStore) UpdateCountry(ctx context.Context, country *model.Country) error {
	return updateRow(s.db.WithContext(ctx), country, entityCountry, "country_id", country.CountryID)
}

func (s *CountriesStore) DeleteCountry(ctx context.Context, id uint) error {
	return deleteRow(s.db.WithContext(ctx), &model.Country{}, entityCountry, id)
}
