package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Product is a configurable product. It may have a parent product and a tag;
// both are set to NULL when the referenced row is deleted.
type Product struct {
	ProductID            uint        `gorm:"column:product_id;primaryKey" json:"product_id"`
	Name                 string      `gorm:"column:name;size:50" json:"name"`
	Code                 string      `gorm:"column:code;size:50;uniqueIndex" json:"code"`
	Description          string      `gorm:"column:description;size:500" json:"description"`
	Tag                  string      `gorm:"column:tag;size:50" json:"tag"`
	Sequence             *int        `gorm:"column:sequence" json:"sequence,omitempty"`
	ParentProductID      *uint       `gorm:"column:parent_product_id" json:"parent_product_id"`
	IsInbound            bool        `gorm:"column:is_inbound" json:"is_inbound"`
	ProductTagID         *uint       `gorm:"column:product_tag_id" json:"product_tag_id"`
	SupportedFileFormats FileFormats `gorm:"column:supported_file_formats;type:varchar(250)" json:"supported_file_formats"`
}

func (Product) TableName() string {
	return "product"
}

// FileFormats is stored as a comma-delimited string and exposed as a list.
type FileFormats []string

// ParseFileFormats splits a comma-delimited list, trimming entries and
// dropping empty ones.
func ParseFileFormats(s string) FileFormats {
	parts := strings.Split(s, ",")
	formats := make(FileFormats, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			formats = append(formats, p)
		}
	}
	return formats
}

// String returns the stored, comma-delimited form.
func (f FileFormats) String() string {
	return strings.Join(f, ",")
}

func (f FileFormats) Value() (driver.Value, error) {
	if len(f) == 0 {
		return nil, nil
	}
	return f.String(), nil
}

func (f *FileFormats) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*f = FileFormats{}
	case []byte:
		*f = ParseFileFormats(string(v))
	case string:
		*f = ParseFileFormats(v)
	default:
		return fmt.Errorf("invalid value of FileFormats: %[1]T(%[1]v)", value)
	}
	return nil
}

func (f FileFormats) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(f))
}

// UnmarshalJSON accepts either a JSON list or a comma-delimited string.
func (f *FileFormats) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*f = ParseFileFormats(strings.Join(list, ","))
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("supported_file_formats must be a list or a comma-separated string")
	}
	*f = ParseFileFormats(s)
	return nil
}
