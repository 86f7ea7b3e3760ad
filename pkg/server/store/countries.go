package store

import (
	"context"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
)

// CountriesStore abstracts country storage operations
type CountriesStore interface {
	ListCountries(ctx context.Context) ([]model.Country, error)
	GetCountry(ctx context.Context, id uint) (*model.Country, error)
	GetCountryByCode(ctx context.Context, code string) (*model.Country, error)
	CreateCountry(ctx context.Context, country *model.Country) error
	UpdateCountry(ctx context.Context, country *model.Country) error

	// DeleteCountry deletes a country together with its tenants and branches.
	DeleteCountry(ctx context.Context, id uint) error
}
