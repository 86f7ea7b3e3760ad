package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
)

// CountryInput is the writable shape of a country. Nil fields are absent.
type CountryInput struct {
	CountryCode *string `json:"country_code" create:"present,min=2,max=6" update:"omitnil,min=2,max=6"`
	CountryName *string `json:"country_name" create:"present,max=255" update:"omitnil,notblank,max=255"`
	Status      *string `json:"status"`
}

// CountryService manages country reference data
type CountryService struct{ *base }

func parseStatus(v *report, field string, s *string, allowed []model.Status) model.Status {
	if s == nil {
		return model.StatusActive
	}
	status, err := model.StatusString(strings.TrimSpace(*s))
	if err != nil || !status.AllowedFor(allowed) {
		names := make([]string, len(allowed))
		for i, a := range allowed {
			names[i] = a.String()
		}
		v.add(field, oneOf(names))
	}
	return status
}

// validate checks the shape of in. The code is measured without
// surrounding spaces.
func (in CountryInput) validate(partial bool) (*report, model.Status) {
	if in.CountryCode != nil {
		code := strings.TrimSpace(*in.CountryCode)
		in.CountryCode = &code
	}
	v := checkInput(in, partial)
	status := parseStatus(v, "status", in.Status, model.BranchStatuses)
	return v, status
}

func (s *CountryService) List(ctx context.Context) ([]model.Country, error) {
	return s.store.ListCountries(ctx)
}

func (s *CountryService) Get(ctx context.Context, id uint) (*model.Country, error) {
	c, err := s.store.GetCountry(ctx, id)
	return c, translate(err, "Country", id)
}

func (s *CountryService) checkCode(ctx context.Context, code string, self uint) error {
	existing, err := s.store.GetCountryByCode(ctx, code)
	found, err := exists(err)
	if err != nil {
		return err
	}
	if found && existing.CountryID != self {
		return duplicate("country_code", fmt.Sprintf("Country code '%s' already exists.", code))
	}
	return nil
}

func (s *CountryService) Create(ctx context.Context, in CountryInput) (*model.Country, error) {
	v, status := in.validate(false)
	if err := v.err(); err != nil {
		return nil, err
	}

	country := &model.Country{
		CountryCode: strings.ToUpper(trimmed(in.CountryCode)),
		CountryName: trimmed(in.CountryName),
		Status:      status,
	}
	if err := s.checkCode(ctx, country.CountryCode, 0); err != nil {
		return nil, err
	}

	err := translate(s.store.CreateCountry(ctx, country), "Country", country.CountryCode)
	s.recordChange(ctx, "country", strconv.FormatUint(uint64(country.CountryID), 10), "create", err)
	if err != nil {
		return nil, err
	}
	return country, nil
}

func (s *CountryService) Update(ctx context.Context, id uint, in CountryInput) (*model.Country, error) {
	country, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	v, status := in.validate(true)
	if err := v.err(); err != nil {
		return nil, err
	}

	if in.CountryCode != nil {
		code := strings.ToUpper(trimmed(in.CountryCode))
		if code != country.CountryCode {
			if err := s.checkCode(ctx, code, id); err != nil {
				return nil, err
			}
		}
		country.CountryCode = code
	}
	if in.CountryName != nil {
		country.CountryName = trimmed(in.CountryName)
	}
	if in.Status != nil {
		country.Status = status
	}

	err = translate(s.store.UpdateCountry(ctx, country), "Country", id)
	s.recordChange(ctx, "country", strconv.FormatUint(uint64(id), 10), "update", err)
	if err != nil {
		return nil, err
	}
	return country, nil
}

// Delete removes a country; its tenants and branches go with it
func (s *CountryService) Delete(ctx context.Context, id uint) error {
	err := translate(s.store.DeleteCountry(ctx, id), "Country", id)
	s.recordChange(ctx, "country", strconv.FormatUint(uint64(id), 10), "delete", err)
	return err
}
