package seed

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-multierror"
	"gopkg.in/yaml.v3"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
)

// File is the reference data held by a seed file. Entries refer to each
// other by code, never by id.
type File struct {
	Countries      []model.Country    `yaml:"countries"`
	ProductTags    []model.ProductTag `yaml:"product_tags"`
	Modules        []Module           `yaml:"modules"`
	Products       []Product          `yaml:"products"`
	ProductModules []ProductModule    `yaml:"product_modules"`
	Features       []Feature          `yaml:"features"`
}

// Module is a module entry. DependentModules lists module codes and is
// stored as the JSON list of their ids.
type Module struct {
	model.Module     `yaml:",inline"`
	DependentModules []string `yaml:"dependent_modules"`
}

// Product is a product entry. Parent and ProductTag are codes.
type Product struct {
	Name                 string   `yaml:"name"`
	Code                 string   `yaml:"code"`
	Description          string   `yaml:"description"`
	Tag                  string   `yaml:"tag"`
	Sequence             *int     `yaml:"sequence"`
	IsInbound            bool     `yaml:"is_inbound"`
	SupportedFileFormats []string `yaml:"supported_file_formats"`
	Parent               string   `yaml:"parent"`
	ProductTag           string   `yaml:"product_tag"`
}

// ProductModule links a product code to a module code
type ProductModule struct {
	Product  string `yaml:"product"`
	Module   string `yaml:"module"`
	Code     string `yaml:"code"`
	Sequence *int   `yaml:"sequence"`
}

// Feature is a feature entry. Module is an optional module code.
type Feature struct {
	model.Feature `yaml:",inline"`
	Module        string `yaml:"module"`
}

// Parse reads a seed file and checks that every entry carries its key and
// that codes refer to entries of the same file
func Parse(r io.Reader) (*File, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &f, nil
		}
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate reports every problem in f at once
func (f *File) Validate() error {
	var result *multierror.Error
	fail := func(format string, args ...interface{}) {
		result = multierror.Append(result, fmt.Errorf(format, args...))
	}

	for i, c := range f.Countries {
		if n := len(strings.TrimSpace(c.CountryCode)); n < 2 || n > 6 {
			fail("countries[%d]: country_code must be 2 to 6 characters", i)
		}
		if strings.TrimSpace(c.CountryName) == "" {
			fail("countries[%d]: country_name is required", i)
		}
		if !c.Status.AllowedFor(model.BranchStatuses) {
			fail("countries[%d]: status %s is not allowed", i, c.Status)
		}
	}

	tags := map[string]bool{}
	for i, t := range f.ProductTags {
		if t.Code == "" || t.Name == "" {
			fail("product_tags[%d]: code and name are required", i)
		}
		tags[t.Code] = true
	}

	modules := map[string]bool{}
	for i, m := range f.Modules {
		if m.Code == "" || m.Name == "" {
			fail("modules[%d]: code and name are required", i)
		}
		if modules[m.Code] {
			fail("modules[%d]: duplicate code %q", i, m.Code)
		}
		modules[m.Code] = true
	}
	for i, m := range f.Modules {
		for _, dep := range m.DependentModules {
			if !modules[dep] {
				fail("modules[%d]: unknown dependent module %q", i, dep)
			}
		}
	}

	products := map[string]bool{}
	for i, p := range f.Products {
		if p.Code == "" || p.Name == "" {
			fail("products[%d]: code and name are required", i)
		}
		if products[p.Code] {
			fail("products[%d]: duplicate code %q", i, p.Code)
		}
		products[p.Code] = true
	}
	for i, p := range f.Products {
		if p.Parent != "" && (p.Parent == p.Code || !products[p.Parent]) {
			fail("products[%d]: invalid parent %q", i, p.Parent)
		}
		if p.ProductTag != "" && !tags[p.ProductTag] {
			fail("products[%d]: unknown product_tag %q", i, p.ProductTag)
		}
	}

	for i, pm := range f.ProductModules {
		if !products[pm.Product] {
			fail("product_modules[%d]: unknown product %q", i, pm.Product)
		}
		if !modules[pm.Module] {
			fail("product_modules[%d]: unknown module %q", i, pm.Module)
		}
	}

	for i, ft := range f.Features {
		if ft.Name == "" {
			fail("features[%d]: name is required", i)
		}
		if ft.Module != "" && !modules[ft.Module] {
			fail("features[%d]: unknown module %q", i, ft.Module)
		}
	}

	return result.ErrorOrNil()
}
