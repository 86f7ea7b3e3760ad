package model

import "time"

type Feature struct {
	FeatureID   uint    `gorm:"column:feature_id;primaryKey" json:"feature_id" yaml:"-"`
	Name        string  `gorm:"column:name;size:50;uniqueIndex" json:"name" yaml:"name"`
	Code        *string `gorm:"column:code;size:50;uniqueIndex" json:"code,omitempty" yaml:"code,omitempty"`
	Description string  `gorm:"column:description;size:500" json:"description" yaml:"description"`
	ModuleID    *uint   `gorm:"column:module_id" json:"module_id,omitempty" yaml:"-"`
	CreatedBy   string  `gorm:"column:created_by;size:50" json:"created_by" yaml:"created_by"`
}

func (Feature) TableName() string {
	return "feature"
}

// TenantFeature overrides a feature for one tenant. A missing row means the
// feature is enabled.
type TenantFeature struct {
	TenantFeatureID uint       `gorm:"column:tenant_feature_id;primaryKey" json:"tenant_feature_id"`
	TenantID        uint       `gorm:"column:tenant_id;not null;uniqueIndex:uq_tenant_feature,priority:1" json:"tenant_id"`
	FeatureID       uint       `gorm:"column:feature_id;not null;uniqueIndex:uq_tenant_feature,priority:2" json:"feature_id"`
	IsEnabled       bool       `gorm:"column:is_enabled" json:"is_enabled"`
	CreatedOn       time.Time  `gorm:"column:created_on;not null" json:"created_on"`
	ModifiedOn      *time.Time `gorm:"column:modified_on" json:"modified_on,omitempty"`
}

func (TenantFeature) TableName() string {
	return "tenant_feature"
}
