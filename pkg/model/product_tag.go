package model

type ProductTag struct {
	ProductTagID uint   `gorm:"column:product_tag_id;primaryKey" json:"product_tag_id" yaml:"-"`
	Code         string `gorm:"column:code;size:50;not null;uniqueIndex" json:"code" yaml:"code"`
	Name         string `gorm:"column:name;size:50;not null" json:"name" yaml:"name"`
	Sequence     *int   `gorm:"column:sequence" json:"sequence,omitempty" yaml:"sequence,omitempty"`
}

func (ProductTag) TableName() string {
	return "product_tag"
}
