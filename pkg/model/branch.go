package model

// Branch is a tenant's operating location. Code is unique within a tenant.
type Branch struct {
	BranchID    uint   `gorm:"column:branch_id;primaryKey" json:"branch_id"`
	TenantID    uint   `gorm:"column:tenant_id;not null;uniqueIndex:uq_branch_tenant_code,priority:1" json:"tenant_id"`
	CountryID   uint   `gorm:"column:country_id;not null" json:"country_id"`
	Name        string `gorm:"column:name;size:50" json:"name"`
	Description string `gorm:"column:description;size:500" json:"description"`
	Status      Status `gorm:"column:status;type:varchar(16);not null" json:"status"`
	Code        string `gorm:"column:code;size:50;uniqueIndex:uq_branch_tenant_code,priority:2" json:"code"`
}

func (Branch) TableName() string {
	return "branch"
}
