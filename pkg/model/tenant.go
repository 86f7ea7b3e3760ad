package model

// DefaultCurrency is applied when a tenant is stored without a currency.
const DefaultCurrency = "USD"

// Tenant is a customer organization. Externally it is addressed by the
// composite key (TenantID, OrganizationCode, SubDomain).
type Tenant struct {
	TenantID         uint   `gorm:"column:tenant_id;primaryKey" json:"tenant_id"`
	OrganizationCode string `gorm:"column:organization_code;size:50;not null;uniqueIndex" json:"organization_code"`
	TenantName       string `gorm:"column:tenant_name;size:100" json:"tenant_name"`
	SubDomain        string `gorm:"column:sub_domain;size:50;not null;uniqueIndex" json:"sub_domain"`
	DefaultCurrency  string `gorm:"column:default_currency;size:3;not null" json:"default_currency"`
	Description      string `gorm:"column:description;size:500" json:"description"`
	Status           Status `gorm:"column:status;type:varchar(16);not null" json:"status"`
	CountryID        uint   `gorm:"column:country_id;not null" json:"country_id"`
}

func (Tenant) TableName() string {
	return "tenant"
}

// TenantKey is the composite key used by the tenant endpoints.
type TenantKey struct {
	TenantID         uint
	OrganizationCode string
	SubDomain        string
}

// Matches reports whether t is the tenant addressed by k.
func (k TenantKey) Matches(t *Tenant) bool {
	return t != nil &&
		t.TenantID == k.TenantID &&
		t.OrganizationCode == k.OrganizationCode &&
		t.SubDomain == k.SubDomain
}
