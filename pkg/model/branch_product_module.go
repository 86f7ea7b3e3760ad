package model

import (
	"time"

	"gorm.io/datatypes"
)

// BranchProductModule records that a product module is enabled at a branch.
// (BranchID, ProductModuleID) is unique.
type BranchProductModule struct {
	ID                uint           `gorm:"column:tenant_product_module;primaryKey" json:"id"`
	BranchID          uint           `gorm:"column:branch_id;not null;uniqueIndex:uq_branch_product_module,priority:1" json:"branch_id"`
	ProductModuleID   uint           `gorm:"column:product_module_id;not null;uniqueIndex:uq_branch_product_module,priority:2" json:"product_module_id"`
	CreatedBy         string         `gorm:"column:created_by;size:50" json:"created_by"`
	CreatedAt         time.Time      `gorm:"column:created_at;not null" json:"created_at"`
	EligibilityConfig datatypes.JSON `gorm:"column:eligibility_config;type:jsonb" json:"eligibility_config"`
}

func (BranchProductModule) TableName() string {
	return "branch_product_module"
}

// EmptyEligibilityConfig is stored on rows created by reconciliation.
func EmptyEligibilityConfig() datatypes.JSON {
	return datatypes.JSON("{}")
}
