package store

import (
	"context"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
)

// ProductTagsStore abstracts product tag storage operations
type ProductTagsStore interface {
	ListProductTags(ctx context.Context) ([]model.ProductTag, error)
	GetProductTag(ctx context.Context, id uint) (*model.ProductTag, error)
	GetProductTagByCode(ctx context.Context, code string) (*model.ProductTag, error)
	GetProductTagByName(ctx context.Context, name string) (*model.ProductTag, error)
	CreateProductTag(ctx context.Context, tag *model.ProductTag) error
	UpdateProductTag(ctx context.Context, tag *model.ProductTag) error
	DeleteProductTag(ctx context.Context, id uint) error
}

// ProductsStore abstracts product storage operations
type ProductsStore interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	GetProductByCode(ctx context.Context, code string) (*model.Product, error)
	CreateProduct(ctx context.Context, product *model.Product) error
	UpdateProduct(ctx context.Context, product *model.Product) error
	DeleteProduct(ctx context.Context, id uint) error
}

// ModulesStore abstracts module storage operations
type ModulesStore interface {
	ListModules(ctx context.Context) ([]model.Module, error)
	GetModule(ctx context.Context, id uint) (*model.Module, error)
	GetModuleByName(ctx context.Context, name string) (*model.Module, error)
	GetModuleByCode(ctx context.Context, code string) (*model.Module, error)
	CreateModule(ctx context.Context, module *model.Module) error
	UpdateModule(ctx context.Context, module *model.Module) error
	DeleteModule(ctx context.Context, id uint) error
}

// LinkedModule is a module reachable from a product through a product module.
type LinkedModule struct {
	ProductModuleID uint
	ModuleID        uint
	ModuleName      string
	ModuleCode      string
}

// ProductModulesStore abstracts product module storage operations
type ProductModulesStore interface {
	ListProductModules(ctx context.Context) ([]model.ProductModule, error)
	GetProductModule(ctx context.Context, id uint) (*model.ProductModule, error)

	// GetProductModuleByPair finds the link between a product and a module
	GetProductModuleByPair(ctx context.Context, productID, moduleID uint) (*model.ProductModule, error)

	// ListModulesForProduct returns the modules linked to a product in link
	// creation order
	ListModulesForProduct(ctx context.Context, productID uint) ([]LinkedModule, error)

	CreateProductModule(ctx context.Context, pm *model.ProductModule) error
	UpdateProductModule(ctx context.Context, pm *model.ProductModule) error
	DeleteProductModule(ctx context.Context, id uint) error
}

// FeaturesStore abstracts feature storage operations
type FeaturesStore interface {
	ListFeatures(ctx context.Context) ([]model.Feature, error)

	// ListFeaturesByIDs returns the features that exist among ids
	ListFeaturesByIDs(ctx context.Context, ids []uint) ([]model.Feature, error)
	GetFeature(ctx context.Context, id uint) (*model.Feature, error)
	GetFeatureByName(ctx context.Context, name string) (*model.Feature, error)
	GetFeatureByCode(ctx context.Context, code string) (*model.Feature, error)
	CreateFeature(ctx context.Context, feature *model.Feature) error
	UpdateFeature(ctx context.Context, feature *model.Feature) error
	DeleteFeature(ctx context.Context, id uint) error
}
