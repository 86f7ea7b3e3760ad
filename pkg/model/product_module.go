package model

// ProductModule links a module to a product. (ProductID, ModuleID) is unique.
type ProductModule struct {
	ProductModuleID uint   `gorm:"column:product_module_id;primaryKey" json:"product_module_id"`
	ModuleID        uint   `gorm:"column:module_id;not null;uniqueIndex:uq_product_module,priority:2" json:"module_id"`
	ProductID       uint   `gorm:"column:product_id;not null;uniqueIndex:uq_product_module,priority:1" json:"product_id"`
	Code            string `gorm:"column:code;size:50" json:"code"`
	Sequence        *int   `gorm:"column:sequence" json:"sequence,omitempty"`
}

func (ProductModule) TableName() string {
	return "product_module"
}
