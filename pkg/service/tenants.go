package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

// TenantInput is the writable shape of a tenant. Nil fields are absent.
// Updates replace every field except organization_code and sub_domain,
// which keep their stored value when absent.
type TenantInput struct {
	OrganizationCode *string `json:"organization_code" create:"present,max=50" update:"omitnil,notblank,max=50"`
	TenantName       *string `json:"tenant_name" create:"present,max=100" update:"present,max=100"`
	SubDomain        *string `json:"sub_domain" create:"present,max=50" update:"omitnil,notblank,max=50"`
	DefaultCurrency  *string `json:"default_currency" create:"present,currency" update:"present,currency"`
	Description      *string `json:"description" create:"required,max=500" update:"required,max=500"`
	Status           *string `json:"status" create:"required" update:"required"`
	CountryID        *int    `json:"country_id" create:"required" update:"required"`
}

// TenantSummary is the list representation of a tenant
type TenantSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

const invalidCountry = "Invalid country_id provided or country does not exist."

// TenantService manages tenants, addressed by their composite key
type TenantService struct{ *base }

// validate checks the shape of in and parses its status
func (in TenantInput) validate(update bool) (*report, model.Status) {
	v := checkInput(in, update)

	var status model.Status
	if in.Status != nil {
		status = parseStatus(v, "status", in.Status, model.TenantStatuses)
	}
	return v, status
}

// List returns every tenant as {id, name}, ordered by name
func (s *TenantService) List(ctx context.Context) ([]TenantSummary, error) {
	tenants, err := s.store.ListTenants(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TenantSummary, len(tenants))
	for i, t := range tenants {
		out[i] = TenantSummary{ID: t.TenantID, Name: t.TenantName}
	}
	return out, nil
}

// Get looks a tenant up by its composite key
func (s *TenantService) Get(ctx context.Context, key model.TenantKey) (*model.Tenant, error) {
	t, err := s.store.GetTenantByKey(ctx, key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &Error{
				Kind:    store.ErrNotFound,
				Message: fmt.Sprintf("Tenant with ID %d, organization code '%s' and sub-domain '%s' not found.", key.TenantID, key.OrganizationCode, key.SubDomain),
				Err:     err,
			}
		}
		return nil, err
	}
	return t, nil
}

func (s *TenantService) checkCountry(ctx context.Context, id int) error {
	if id <= 0 {
		return invalid("country_id", invalidCountry)
	}
	_, err := s.store.GetCountry(ctx, uint(id))
	found, err := exists(err)
	if err != nil {
		return err
	}
	if !found {
		return invalid("country_id", invalidCountry)
	}
	return nil
}

func (s *TenantService) checkOrganizationCode(ctx context.Context, code string, self uint) error {
	existing, err := s.store.GetTenantByOrganizationCode(ctx, code)
	found, err := exists(err)
	if err != nil {
		return err
	}
	if found && existing.TenantID != self {
		msg := fmt.Sprintf("Organization code '%s' already exists.", code)
		if self != 0 {
			msg = fmt.Sprintf("Organization code '%s' already exists for another tenant.", code)
		}
		return duplicate("organization_code", msg)
	}
	return nil
}

func (s *TenantService) checkSubDomain(ctx context.Context, subDomain string, self uint) error {
	existing, err := s.store.GetTenantBySubDomain(ctx, subDomain)
	found, err := exists(err)
	if err != nil {
		return err
	}
	if found && existing.TenantID != self {
		msg := fmt.Sprintf("Sub-domain '%s' already exists.", subDomain)
		if self != 0 {
			msg = fmt.Sprintf("Sub-domain '%s' already exists for another tenant.", subDomain)
		}
		return duplicate("sub_domain", msg)
	}
	return nil
}

// Create validates and stores a new tenant
func (s *TenantService) Create(ctx context.Context, in TenantInput) (*model.Tenant, error) {
	v, status := in.validate(false)
	if err := v.err(); err != nil {
		return nil, err
	}

	tenant := &model.Tenant{
		OrganizationCode: trimmed(in.OrganizationCode),
		TenantName:       trimmed(in.TenantName),
		SubDomain:        trimmed(in.SubDomain),
		DefaultCurrency:  strings.ToUpper(trimmed(in.DefaultCurrency)),
		Description:      value(in.Description),
		Status:           status,
		CountryID:        uint(*in.CountryID),
	}

	if err := s.checkOrganizationCode(ctx, tenant.OrganizationCode, 0); err != nil {
		return nil, err
	}
	if err := s.checkSubDomain(ctx, tenant.SubDomain, 0); err != nil {
		return nil, err
	}
	if err := s.checkCountry(ctx, *in.CountryID); err != nil {
		return nil, err
	}

	err := translate(s.store.CreateTenant(ctx, tenant), "Tenant", tenant.OrganizationCode)
	s.recordChange(ctx, "tenant", strconv.FormatUint(uint64(tenant.TenantID), 10), "create", err)
	if err != nil {
		return nil, err
	}
	s.log(ctx).Info("tenant created",
		zap.Uint("tenant_id", tenant.TenantID),
		zap.String("organization_code", tenant.OrganizationCode))
	return tenant, nil
}

// Update replaces the mutable fields of the tenant addressed by key
func (s *TenantService) Update(ctx context.Context, key model.TenantKey, in TenantInput) (*model.Tenant, error) {
	tenant, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	v, status := in.validate(true)
	if err := v.err(); err != nil {
		return nil, err
	}

	if in.OrganizationCode != nil {
		code := trimmed(in.OrganizationCode)
		if code != tenant.OrganizationCode {
			if err := s.checkOrganizationCode(ctx, code, tenant.TenantID); err != nil {
				return nil, err
			}
		}
		tenant.OrganizationCode = code
	}
	if in.SubDomain != nil {
		subDomain := trimmed(in.SubDomain)
		if subDomain != tenant.SubDomain {
			if err := s.checkSubDomain(ctx, subDomain, tenant.TenantID); err != nil {
				return nil, err
			}
		}
		tenant.SubDomain = subDomain
	}
	if uint(*in.CountryID) != tenant.CountryID || *in.CountryID <= 0 {
		if err := s.checkCountry(ctx, *in.CountryID); err != nil {
			return nil, err
		}
	}

	tenant.TenantName = trimmed(in.TenantName)
	tenant.DefaultCurrency = strings.ToUpper(trimmed(in.DefaultCurrency))
	tenant.Description = value(in.Description)
	tenant.Status = status
	tenant.CountryID = uint(*in.CountryID)

	err = translate(s.store.UpdateTenant(ctx, tenant), "Tenant", tenant.TenantID)
	s.recordChange(ctx, "tenant", strconv.FormatUint(uint64(tenant.TenantID), 10), "update", err)
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

// Delete removes the tenant addressed by key together with its branches,
// their module configuration and its feature overrides
func (s *TenantService) Delete(ctx context.Context, key model.TenantKey) (*model.Tenant, error) {
	tenant, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	err = translate(s.store.DeleteTenant(ctx, tenant.TenantID), "Tenant", tenant.TenantID)
	s.recordChange(ctx, "tenant", strconv.FormatUint(uint64(tenant.TenantID), 10), "delete", err)
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

// Branches lists the branches of a tenant
func (s *TenantService) Branches(ctx context.Context, tenantID uint) ([]model.Branch, error) {
	if _, err := s.store.GetTenant(ctx, tenantID); err != nil {
		return nil, translate(err, "Tenant", tenantID)
	}
	return s.store.ListBranchesByTenant(ctx, tenantID)
}
