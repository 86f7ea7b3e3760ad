package endpoints

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server"
	"github.com/doodlesbykumbi/tenant-config/pkg/service"
)

// crudService is the shape shared by the reference-data services. L is
// the list element, T the entity and I the create/update input.
type crudService[L, T, I any] interface {
	List(ctx context.Context) ([]L, error)
	Get(ctx context.Context, id uint) (*T, error)
	Create(ctx context.Context, in I) (*T, error)
	Update(ctx context.Context, id uint, in I) (*T, error)
	Delete(ctx context.Context, id uint) error
}

// collection describes one CRUD resource mounted at path, with single
// items at path/{param}
type collection[L, T, I any] struct {
	path    string
	param   string
	entity  string
	created string
	updated string
	svc     crudService[L, T, I]
}

func (c collection[L, T, I]) register(router *mux.Router) {
	item := fmt.Sprintf("%s/{%s}", c.path, c.param)

	router.HandleFunc(c.path, c.list).Methods("GET")
	router.HandleFunc(c.path, c.create).Methods("POST")
	router.HandleFunc(item, c.get).Methods("GET")
	router.HandleFunc(item, c.update).Methods("PUT")
	router.HandleFunc(item, c.delete).Methods("DELETE")
}

func (c collection[L, T, I]) list(w http.ResponseWriter, r *http.Request) {
	items, err := c.svc.List(r.Context())
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	if items == nil {
		items = []L{}
	}
	respondWithData(w, http.StatusOK, "", items)
}

func (c collection[L, T, I]) get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, c.param)
	if !ok {
		return
	}
	item, err := c.svc.Get(r.Context(), id)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithData(w, http.StatusOK, "", item)
}

func (c collection[L, T, I]) create(w http.ResponseWriter, r *http.Request) {
	var in I
	if !decodeJSON(w, r, &in) {
		return
	}
	item, err := c.svc.Create(r.Context(), in)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	msg := c.created
	if msg == "" {
		msg = c.entity + " created successfully"
	}
	respondWithData(w, http.StatusCreated, msg, item)
}

func (c collection[L, T, I]) update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, c.param)
	if !ok {
		return
	}
	var in I
	if !decodeJSON(w, r, &in) {
		return
	}
	item, err := c.svc.Update(r.Context(), id, in)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	msg := c.updated
	if msg == "" {
		msg = c.entity + " updated successfully"
	}
	respondWithData(w, http.StatusOK, msg, item)
}

func (c collection[L, T, I]) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, c.param)
	if !ok {
		return
	}
	if err := c.svc.Delete(r.Context(), id); err != nil {
		respondWithError(w, r, err)
		return
	}
	respondWithMessage(w, http.StatusOK, fmt.Sprintf("%s with ID %d deleted successfully.", c.entity, id))
}

// RegisterProductsEndpoints registers product CRUD. The list holds
// summaries only.
func RegisterProductsEndpoints(s *server.Server) {
	collection[service.ProductSummary, model.Product, service.ProductInput]{
		path:    "/api/products",
		param:   "product_id",
		entity:  "Product",
		created: "Product created",
		updated: "Product updated",
		svc:     s.Services.Products,
	}.register(s.Router)
}

// RegisterCatalogEndpoints registers CRUD for the reference data: modules,
// features, product tags, countries and product-module links
func RegisterCatalogEndpoints(s *server.Server) {
	svcs := s.Services

	collection[model.Module, model.Module, service.ModuleInput]{
		path: "/api/modules", param: "module_id", entity: "Module", svc: svcs.Modules,
	}.register(s.Router)
	collection[model.Feature, model.Feature, service.FeatureInput]{
		path: "/api/features", param: "feature_id", entity: "Feature", svc: svcs.Features,
	}.register(s.Router)
	collection[model.ProductTag, model.ProductTag, service.ProductTagInput]{
		path: "/api/product-tags", param: "product_tag_id", entity: "Product tag", svc: svcs.ProductTags,
	}.register(s.Router)
	collection[model.Country, model.Country, service.CountryInput]{
		path: "/api/countries", param: "country_id", entity: "Country", svc: svcs.Countries,
	}.register(s.Router)
	collection[model.ProductModule, model.ProductModule, service.ProductModuleInput]{
		path: "/api/product-modules", param: "product_module_id", entity: "Product module", svc: svcs.ProductModules,
	}.register(s.Router)
}
