package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
)

func TestCheckInput(t *testing.T) {
	tests := []struct {
		name    string
		in      interface{}
		update  bool
		message string
		details map[string]string
	}{
		{
			name:    "blank and absent required fields are missing",
			in:      ProductTagInput{Code: str("   ")},
			message: "Missing fields: code, name",
			details: map[string]string{"code": missingField, "name": missingField},
		},
		{
			name:    "updates skip absent fields",
			in:      ProductTagInput{},
			update:  true,
			message: "",
		},
		{
			name:    "updates reject blank values",
			in:      ProductTagInput{Name: str(" ")},
			update:  true,
			message: "Invalid data provided.",
			details: map[string]string{"name": "Must not be blank."},
		},
		{
			name:    "lengths count characters",
			in:      ModuleInput{Name: str(strings.Repeat("é", 50)), Code: str(strings.Repeat("x", 51))},
			message: "Invalid data provided.",
			details: map[string]string{"code": "Length must be at most 50."},
		},
		{
			name: "branch name and code patterns",
			in: BranchInput{
				Name:        str("Main/East"),
				Description: str(""),
				Status:      str("Active"),
				Code:        str("bad code"),
				CountryID:   num(1),
			},
			message: "Invalid data provided.",
			details: map[string]string{
				"name": "Name may contain only letters, digits, spaces, underscores and hyphens.",
				"code": "Code may contain only letters, digits, underscores and hyphens.",
			},
		},
		{
			name:    "ids must be positive",
			in:      ProductModuleInput{ProductID: num(0), ModuleID: num(3)},
			message: "Invalid data provided.",
			details: map[string]string{"product_id": "Must be a positive integer."},
		},
		{
			name:    "references must not be negative",
			in:      ProductInput{Name: str("POS"), Code: str("POS"), ParentProductID: num(-1)},
			message: "Invalid data provided.",
			details: map[string]string{"parent_product_id": "Must not be negative."},
		},
		{
			name: "file formats are measured as stored",
			in: ProductInput{
				Name:                 str("POS"),
				Code:                 str("POS"),
				SupportedFileFormats: &model.FileFormats{strings.Repeat("x", 200), strings.Repeat("y", 60)},
			},
			message: "Invalid data provided.",
			details: map[string]string{"supported_file_formats": "Length must be at most 250."},
		},
		{
			name:    "country codes are 2 to 6 characters",
			in:      CountryInput{CountryCode: str("K"), CountryName: str("Kenya")},
			message: "Invalid data provided.",
			details: map[string]string{"country_code": "Length must be at least 2."},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := checkInput(tc.in, tc.update).err()
			if tc.message == "" {
				assert.NoError(t, err)
				return
			}
			e := serviceError(t, err, ErrValidation)
			assert.Equal(t, tc.message, e.Message)
			assert.Equal(t, tc.details, e.Details)
		})
	}
}

func TestCountryInputTrimsCode(t *testing.T) {
	v, status := CountryInput{CountryCode: str("  k  "), CountryName: str("Kenya")}.validate(false)
	e := serviceError(t, v.err(), ErrValidation)
	assert.Equal(t, "Length must be at least 2.", e.Details["country_code"])
	assert.Equal(t, model.StatusActive, status)

	v, _ = CountryInput{CountryCode: str(" ke ")}.validate(true)
	require.NoError(t, v.err())
}

func TestReportSingleField(t *testing.T) {
	r := &report{}
	r.check("dependent_modules", false, "Must be valid JSON.")
	e := serviceError(t, r.err(), ErrValidation)
	assert.Equal(t, "dependent_modules", e.Field)
	assert.Equal(t, "Invalid data provided.", e.Message)

	assert.NoError(t, (&report{}).err())
}
