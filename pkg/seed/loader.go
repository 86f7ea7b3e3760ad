package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/doodlesbykumbi/tenant-config/pkg/logger"
	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
)

var errDryRun = errors.New("dry run")

// LoadResult counts the rows a load touched, by table
type LoadResult struct {
	Created   map[string]int `json:"created"`
	Updated   map[string]int `json:"updated"`
	Unchanged map[string]int `json:"unchanged"`
	DryRun    bool           `json:"dry_run"`
}

func (r *LoadResult) count(table string, created, changed bool) {
	switch {
	case created:
		r.Created[table]++
	case changed:
		r.Updated[table]++
	default:
		r.Unchanged[table]++
	}
}

// Loader upserts seed files into a store. Rows are matched by alternate
// key so loading the same file twice changes nothing.
type Loader struct {
	store     store.Store
	createdBy string
	dryRun    bool
}

// NewLoader creates a loader writing to st
func NewLoader(st store.Store) *Loader {
	return &Loader{store: st, createdBy: "System"}
}

// WithCreatedBy sets the created_by label of new modules and features
func (l *Loader) WithCreatedBy(createdBy string) *Loader {
	if createdBy != "" {
		l.createdBy = createdBy
	}
	return l
}

// WithDryRun sets whether to roll the load back after computing the result
func (l *Loader) WithDryRun(dryRun bool) *Loader {
	l.dryRun = dryRun
	return l
}

// LoadFromReader parses and loads a seed file
func (l *Loader) LoadFromReader(ctx context.Context, r io.Reader) (*LoadResult, error) {
	f, err := Parse(r)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, f)
}

// Load applies f in one transaction. Entities are written in dependency
// order: countries, product tags, modules, products, product modules,
// features.
func (l *Loader) Load(ctx context.Context, f *File) (*LoadResult, error) {
	result := &LoadResult{
		Created:   map[string]int{},
		Updated:   map[string]int{},
		Unchanged: map[string]int{},
		DryRun:    l.dryRun,
	}

	err := l.store.Transaction(ctx, func(tx store.Store) error {
		ld := &loadContext{ctx: ctx, tx: tx, loader: l, result: result,
			tags: map[string]uint{}, modules: map[string]uint{}, products: map[string]uint{}}

		steps := []func(*File) error{
			ld.loadCountries,
			ld.loadProductTags,
			ld.loadModules,
			ld.loadProducts,
			ld.loadProductModules,
			ld.loadFeatures,
		}
		for _, step := range steps {
			if err := step(f); err != nil {
				return err
			}
		}
		if l.dryRun {
			return errDryRun
		}
		return nil
	})
	if err != nil && !errors.Is(err, errDryRun) {
		return nil, err
	}

	logger.FromContext(ctx).Info("seed loaded",
		zap.Any("created", result.Created),
		zap.Any("updated", result.Updated),
		zap.Bool("dry_run", l.dryRun))
	return result, nil
}

type loadContext struct {
	ctx    context.Context
	tx     store.Store
	loader *Loader
	result *LoadResult

	// code -> id of rows seen in this load
	tags     map[string]uint
	modules  map[string]uint
	products map[string]uint
}

// found reports whether a lookup matched a row. Errors other than not
// found are returned.
func found(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	return false, err
}

func (ld *loadContext) loadCountries(f *File) error {
	for _, c := range f.Countries {
		want := c
		want.CountryCode = strings.ToUpper(strings.TrimSpace(c.CountryCode))

		existing, err := ld.tx.GetCountryByCode(ld.ctx, want.CountryCode)
		ok, err := found(err)
		if err != nil {
			return fmt.Errorf("country %s: %w", want.CountryCode, err)
		}
		if !ok {
			if err := ld.tx.CreateCountry(ld.ctx, &want); err != nil {
				return fmt.Errorf("country %s: %w", want.CountryCode, err)
			}
			ld.result.count("country", true, false)
			continue
		}

		want.CountryID = existing.CountryID
		changed := !reflect.DeepEqual(*existing, want)
		if changed {
			if err := ld.tx.UpdateCountry(ld.ctx, &want); err != nil {
				return fmt.Errorf("country %s: %w", want.CountryCode, err)
			}
		}
		ld.result.count("country", false, changed)
	}
	return nil
}

func (ld *loadContext) loadProductTags(f *File) error {
	for _, t := range f.ProductTags {
		want := t

		existing, err := ld.tx.GetProductTagByCode(ld.ctx, want.Code)
		ok, err := found(err)
		if err != nil {
			return fmt.Errorf("product tag %s: %w", want.Code, err)
		}
		if !ok {
			if err := ld.tx.CreateProductTag(ld.ctx, &want); err != nil {
				return fmt.Errorf("product tag %s: %w", want.Code, err)
			}
			ld.tags[want.Code] = want.ProductTagID
			ld.result.count("product_tag", true, false)
			continue
		}

		want.ProductTagID = existing.ProductTagID
		changed := !reflect.DeepEqual(*existing, want)
		if changed {
			if err := ld.tx.UpdateProductTag(ld.ctx, &want); err != nil {
				return fmt.Errorf("product tag %s: %w", want.Code, err)
			}
		}
		ld.tags[want.Code] = want.ProductTagID
		ld.result.count("product_tag", false, changed)
	}
	return nil
}

// loadModules writes the modules first and their dependency lists second,
// so a module may depend on one listed after it
func (ld *loadContext) loadModules(f *File) error {
	rows := make([]model.Module, len(f.Modules))
	wants := make([]model.Module, len(f.Modules))
	created := make([]bool, len(f.Modules))

	for i, m := range f.Modules {
		want := m.Module
		if want.CreatedBy == "" {
			want.CreatedBy = ld.loader.createdBy
		}

		existing, err := ld.tx.GetModuleByCode(ld.ctx, want.Code)
		ok, err := found(err)
		if err != nil {
			return fmt.Errorf("module %s: %w", want.Code, err)
		}
		if ok {
			want.ModuleID = existing.ModuleID
			want.DependentModules = existing.DependentModules
			if m.CreatedBy == "" {
				want.CreatedBy = existing.CreatedBy
			}
			rows[i] = *existing
		} else {
			if err := ld.tx.CreateModule(ld.ctx, &want); err != nil {
				return fmt.Errorf("module %s: %w", want.Code, err)
			}
			rows[i] = want
			created[i] = true
		}
		ld.modules[want.Code] = want.ModuleID
		wants[i] = want
	}

	for i, m := range f.Modules {
		want := wants[i]
		if len(m.DependentModules) > 0 {
			ids := make([]uint, 0, len(m.DependentModules))
			for _, code := range m.DependentModules {
				ids = append(ids, ld.modules[code])
			}
			raw, err := json.Marshal(ids)
			if err != nil {
				return err
			}
			want.DependentModules = datatypes.JSON(raw)
		}

		changed := !created[i] && !reflect.DeepEqual(rows[i], want)
		dependenciesSet := created[i] && len(m.DependentModules) > 0
		if changed || dependenciesSet {
			if err := ld.tx.UpdateModule(ld.ctx, &want); err != nil {
				return fmt.Errorf("module %s: %w", want.Code, err)
			}
		}
		ld.result.count("module", created[i], changed)
	}
	return nil
}

// loadProducts writes the products first and their parents second, so a
// product may name a parent listed after it
func (ld *loadContext) loadProducts(f *File) error {
	type pending struct {
		existing *model.Product
		want     model.Product
		parent   string
	}
	rows := make([]pending, 0, len(f.Products))

	for _, p := range f.Products {
		want := model.Product{
			Name:                 p.Name,
			Code:                 p.Code,
			Description:          p.Description,
			Tag:                  p.Tag,
			Sequence:             p.Sequence,
			IsInbound:            p.IsInbound,
			SupportedFileFormats: model.FileFormats(p.SupportedFileFormats),
		}
		if len(want.SupportedFileFormats) == 0 {
			want.SupportedFileFormats = model.FileFormats{}
		}
		if p.ProductTag != "" {
			id := ld.tags[p.ProductTag]
			want.ProductTagID = &id
		}

		existing, err := ld.tx.GetProductByCode(ld.ctx, want.Code)
		ok, err := found(err)
		if err != nil {
			return fmt.Errorf("product %s: %w", want.Code, err)
		}
		if ok {
			want.ProductID = existing.ProductID
		} else {
			if err := ld.tx.CreateProduct(ld.ctx, &want); err != nil {
				return fmt.Errorf("product %s: %w", want.Code, err)
			}
			existing = nil
		}
		ld.products[want.Code] = want.ProductID
		rows = append(rows, pending{existing: existing, want: want, parent: p.Parent})
	}

	for _, row := range rows {
		want := row.want
		if row.parent != "" {
			id := ld.products[row.parent]
			want.ParentProductID = &id
		}

		created := row.existing == nil
		changed := !created && !sameProduct(*row.existing, want)
		if changed || (created && want.ParentProductID != nil) {
			if err := ld.tx.UpdateProduct(ld.ctx, &want); err != nil {
				return fmt.Errorf("product %s: %w", want.Code, err)
			}
		}
		ld.result.count("product", created, changed)
	}
	return nil
}

// sameProduct compares products treating nil and empty file format lists
// as equal
func sameProduct(a, b model.Product) bool {
	if a.SupportedFileFormats.String() != b.SupportedFileFormats.String() {
		return false
	}
	a.SupportedFileFormats, b.SupportedFileFormats = nil, nil
	return reflect.DeepEqual(a, b)
}

func (ld *loadContext) loadProductModules(f *File) error {
	for _, pm := range f.ProductModules {
		want := model.ProductModule{
			ProductID: ld.products[pm.Product],
			ModuleID:  ld.modules[pm.Module],
			Code:      pm.Code,
			Sequence:  pm.Sequence,
		}

		existing, err := ld.tx.GetProductModuleByPair(ld.ctx, want.ProductID, want.ModuleID)
		ok, err := found(err)
		if err != nil {
			return fmt.Errorf("product module %s/%s: %w", pm.Product, pm.Module, err)
		}
		if !ok {
			if err := ld.tx.CreateProductModule(ld.ctx, &want); err != nil {
				return fmt.Errorf("product module %s/%s: %w", pm.Product, pm.Module, err)
			}
			ld.result.count("product_module", true, false)
			continue
		}

		want.ProductModuleID = existing.ProductModuleID
		changed := !reflect.DeepEqual(*existing, want)
		if changed {
			if err := ld.tx.UpdateProductModule(ld.ctx, &want); err != nil {
				return fmt.Errorf("product module %s/%s: %w", pm.Product, pm.Module, err)
			}
		}
		ld.result.count("product_module", false, changed)
	}
	return nil
}

func (ld *loadContext) loadFeatures(f *File) error {
	for _, ft := range f.Features {
		want := ft.Feature
		if want.Code != nil && strings.TrimSpace(*want.Code) == "" {
			want.Code = nil
		}
		if ft.Module != "" {
			id := ld.modules[ft.Module]
			want.ModuleID = &id
		}

		existing, err := ld.tx.GetFeatureByName(ld.ctx, want.Name)
		ok, err := found(err)
		if err != nil {
			return fmt.Errorf("feature %s: %w", want.Name, err)
		}
		if !ok {
			if want.CreatedBy == "" {
				want.CreatedBy = ld.loader.createdBy
			}
			if err := ld.tx.CreateFeature(ld.ctx, &want); err != nil {
				return fmt.Errorf("feature %s: %w", want.Name, err)
			}
			ld.result.count("feature", true, false)
			continue
		}

		want.FeatureID = existing.FeatureID
		if want.CreatedBy == "" {
			want.CreatedBy = existing.CreatedBy
		}
		changed := !reflect.DeepEqual(*existing, want)
		if changed {
			if err := ld.tx.UpdateFeature(ld.ctx, &want); err != nil {
				return fmt.Errorf("feature %s: %w", want.Name, err)
			}
		}
		ld.result.count("feature", false, changed)
	}
	return nil
}
