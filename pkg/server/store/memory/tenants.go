package memory

import (
	"context"
	"sort"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

func (s *Store) ListCountries(ctx context.Context) ([]model.Country, error) {
	if err := s.lock("ListCountries"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	countries := values(s.data.countries, nil)
	sort.SliceStable(countries, func(i, j int) bool { return countries[i].CountryName < countries[j].CountryName })
	return countries, nil
}

func (s *Store) GetCountry(ctx context.Context, id uint) (*model.Country, error) {
	if err := s.lock("GetCountry"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	c, ok := s.data.countries[id]
	if !ok {
		return nil, store.NewNotFound("country", id)
	}
	return &c, nil
}

func (s *Store) GetCountryByCode(ctx context.Context, code string) (*model.Country, error) {
	if err := s.lock("GetCountryByCode"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	for _, c := range values(s.data.countries, nil) {
		if c.CountryCode == code {
			return &c, nil
		}
	}
	return nil, store.NewNotFound("country", code)
}

func (s *Store) checkCountry(c *model.Country) error {
	for id, other := range s.data.countries {
		if id != c.CountryID && other.CountryCode == c.CountryCode {
			return duplicate("country", "country_country_code_key")
		}
	}
	return nil
}

func (s *Store) CreateCountry(ctx context.Context, country *model.Country) error {
	if err := s.lockWrite("CreateCountry"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if err := s.checkCountry(country); err != nil {
		return err
	}
	country.CountryID = s.data.nextID("country")
	s.data.countries[country.CountryID] = *country
	return nil
}

func (s *Store) UpdateCountry(ctx context.Context, country *model.Country) error {
	if err := s.lockWrite("UpdateCountry"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if _, ok := s.data.countries[country.CountryID]; !ok {
		return store.NewNotFound("country", country.CountryID)
	}
	if err := s.checkCountry(country); err != nil {
		return err
	}
	s.data.countries[country.CountryID] = *country
	return nil
}

func (s *Store) DeleteCountry(ctx context.Context, id uint) error {
	if err := s.lockWrite("DeleteCountry"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if _, ok := s.data.countries[id]; !ok {
		return store.NewNotFound("country", id)
	}
	delete(s.data.countries, id)
	for tid, t := range s.data.tenants {
		if t.CountryID == id {
			s.deleteTenant(tid)
		}
	}
	for bid, b := range s.data.branches {
		if b.CountryID == id {
			s.deleteBranch(bid)
		}
	}
	return nil
}

func (s *Store) ListTenants(ctx context.Context) ([]model.Tenant, error) {
	if err := s.lock("ListTenants"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	tenants := values(s.data.tenants, nil)
	sort.SliceStable(tenants, func(i, j int) bool { return tenants[i].TenantName < tenants[j].TenantName })
	return tenants, nil
}

func (s *Store) GetTenant(ctx context.Context, id uint) (*model.Tenant, error) {
	if err := s.lock("GetTenant"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	t, ok := s.data.tenants[id]
	if !ok {
		return nil, store.NewNotFound("tenant", id)
	}
	return &t, nil
}

func (s *Store) GetTenantByKey(ctx context.Context, key model.TenantKey) (*model.Tenant, error) {
	if err := s.lock("GetTenantByKey"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	t, ok := s.data.tenants[key.TenantID]
	if !ok || !key.Matches(&t) {
		return nil, store.NewNotFound("tenant", key.TenantID)
	}
	return &t, nil
}

func (s *Store) findTenant(method string, match func(model.Tenant) bool, id interface{}) (*model.Tenant, error) {
	if err := s.lock(method); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	found := values(s.data.tenants, match)
	if len(found) == 0 {
		return nil, store.NewNotFound("tenant", id)
	}
	return &found[0], nil
}

func (s *Store) GetTenantByOrganizationCode(ctx context.Context, code string) (*model.Tenant, error) {
	return s.findTenant("GetTenantByOrganizationCode", func(t model.Tenant) bool { return t.OrganizationCode == code }, code)
}

func (s *Store) GetTenantBySubDomain(ctx context.Context, subDomain string) (*model.Tenant, error) {
	return s.findTenant("GetTenantBySubDomain", func(t model.Tenant) bool { return t.SubDomain == subDomain }, subDomain)
}

// LockTenant only checks existence; Transaction already serializes writers.
func (s *Store) LockTenant(ctx context.Context, id uint) (*model.Tenant, error) {
	return s.GetTenant(ctx, id)
}

func (s *Store) checkTenant(t *model.Tenant) error {
	if _, ok := s.data.countries[t.CountryID]; !ok {
		return missingReference("tenant", "tenant_country_id_fkey")
	}
	for id, other := range s.data.tenants {
		if id == t.TenantID {
			continue
		}
		if other.OrganizationCode == t.OrganizationCode {
			return duplicate("tenant", "tenant_organization_code_key")
		}
		if other.SubDomain == t.SubDomain {
			return duplicate("tenant", "tenant_sub_domain_key")
		}
	}
	return nil
}

func (s *Store) CreateTenant(ctx context.Context, tenant *model.Tenant) error {
	if err := s.lockWrite("CreateTenant"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if err := s.checkTenant(tenant); err != nil {
		return err
	}
	tenant.TenantID = s.data.nextID("tenant")
	s.data.tenants[tenant.TenantID] = *tenant
	return nil
}

func (s *Store) UpdateTenant(ctx context.Context, tenant *model.Tenant) error {
	if err := s.lockWrite("UpdateTenant"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if _, ok := s.data.tenants[tenant.TenantID]; !ok {
		return store.NewNotFound("tenant", tenant.TenantID)
	}
	if err := s.checkTenant(tenant); err != nil {
		return err
	}
	s.data.tenants[tenant.TenantID] = *tenant
	return nil
}

func (s *Store) DeleteTenant(ctx context.Context, id uint) error {
	if err := s.lockWrite("DeleteTenant"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if _, ok := s.data.tenants[id]; !ok {
		return store.NewNotFound("tenant", id)
	}
	s.deleteTenant(id)
	return nil
}

func (s *Store) deleteTenant(id uint) {
	delete(s.data.tenants, id)
	for bid, b := range s.data.branches {
		if b.TenantID == id {
			s.deleteBranch(bid)
		}
	}
	for tfid, tf := range s.data.tenantFeatures {
		if tf.TenantID == id {
			delete(s.data.tenantFeatures, tfid)
		}
	}
}

func (s *Store) ListBranchesByTenant(ctx context.Context, tenantID uint) ([]model.Branch, error) {
	if err := s.lock("ListBranchesByTenant"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	return values(s.data.branches, func(b model.Branch) bool { return b.TenantID == tenantID }), nil
}

func (s *Store) GetBranch(ctx context.Context, id uint) (*model.Branch, error) {
	if err := s.lock("GetBranch"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	b, ok := s.data.branches[id]
	if !ok {
		return nil, store.NewNotFound("branch", id)
	}
	return &b, nil
}

func (s *Store) GetBranchByCode(ctx context.Context, tenantID uint, code string) (*model.Branch, error) {
	if err := s.lock("GetBranchByCode"); err != nil {
		return nil, err
	}
	defer s.mu.Unlock()
	for _, b := range values(s.data.branches, nil) {
		if b.TenantID == tenantID && b.Code == code {
			return &b, nil
		}
	}
	return nil, store.NewNotFound("branch", code)
}

// LockBranch only checks existence; Transaction already serializes writers.
func (s *Store) LockBranch(ctx context.Context, id uint) (*model.Branch, error) {
	return s.GetBranch(ctx, id)
}

func (s *Store) checkBranch(b *model.Branch) error {
	if _, ok := s.data.tenants[b.TenantID]; !ok {
		return missingReference("branch", "branch_tenant_id_fkey")
	}
	if _, ok := s.data.countries[b.CountryID]; !ok {
		return missingReference("branch", "branch_country_id_fkey")
	}
	for id, other := range s.data.branches {
		if id != b.BranchID && other.TenantID == b.TenantID && other.Code == b.Code {
			return duplicate("branch", "uq_branch_tenant_code")
		}
	}
	return nil
}

func (s *Store) CreateBranch(ctx context.Context, branch *model.Branch) error {
	if err := s.lockWrite("CreateBranch"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if err := s.checkBranch(branch); err != nil {
		return err
	}
	branch.BranchID = s.data.nextID("branch")
	s.data.branches[branch.BranchID] = *branch
	return nil
}

func (s *Store) UpdateBranch(ctx context.Context, branch *model.Branch) error {
	if err := s.lockWrite("UpdateBranch"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if _, ok := s.data.branches[branch.BranchID]; !ok {
		return store.NewNotFound("branch", branch.BranchID)
	}
	if err := s.checkBranch(branch); err != nil {
		return err
	}
	s.data.branches[branch.BranchID] = *branch
	return nil
}

func (s *Store) DeleteBranch(ctx context.Context, id uint) error {
	if err := s.lockWrite("DeleteBranch"); err != nil {
		return err
	}
	defer s.mu.Unlock()
	if _, ok := s.data.branches[id]; !ok {
		return store.NewNotFound("branch", id)
	}
	s.deleteBranch(id)
	return nil
}

func (s *Store) deleteBranch(id uint) {
	delete(s.data.branches, id)
	for bpmID, bpm := range s.data.bpms {
		if bpm.BranchID == id {
			delete(s.data.bpms, bpmID)
		}
	}
}
