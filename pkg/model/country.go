package model

// Country is reference data. Deleting a country cascades to its tenants and branches.
type Country struct {
	CountryID   uint   `gorm:"column:country_id;primaryKey" json:"country_id" yaml:"-"`
	CountryCode string `gorm:"column:country_code;size:6;not null;uniqueIndex" json:"country_code" yaml:"country_code"`
	CountryName string `gorm:"column:country_name;size:255;not null" json:"country_name" yaml:"country_name"`
	Status      Status `gorm:"column:status;type:varchar(16);not null" json:"status" yaml:"status"`
}

func (Country) TableName() string {
	return "country"
}
