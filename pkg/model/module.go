package model

import "gorm.io/datatypes"

// Module is a capability unit. DependentModules is free-form JSON; nothing
// traverses it.
type Module struct {
	ModuleID         uint           `gorm:"column:module_id;primaryKey" json:"module_id" yaml:"-"`
	Name             string         `gorm:"column:name;size:50" json:"name" yaml:"name"`
	Description      string         `gorm:"column:description;size:255" json:"description" yaml:"description"`
	CreatedBy        string         `gorm:"column:created_by;size:50" json:"created_by" yaml:"created_by"`
	Code             string         `gorm:"column:code;size:50" json:"code" yaml:"code"`
	DependentModules datatypes.JSON `gorm:"column:dependent_modules;type:jsonb" json:"dependent_modules,omitempty" yaml:"-"`
}

func (Module) TableName() string {
	return "module"
}
