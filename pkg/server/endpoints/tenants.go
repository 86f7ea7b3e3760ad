package endpoints

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/tenant-config/pkg/model"
	"github.com/doodlesbykumbi/tenant-config/pkg/server"
	"github.com/doodlesbykumbi/tenant-config/pkg/service"
)

// RegisterTenantsEndpoints registers the tenant endpoints. A single tenant
// is addressed by its composite key.
func RegisterTenantsEndpoints(s *server.Server) {
	tenants := s.Services.Tenants
	key := "/api/tenants/{tenant_id}/{organization_code}/{sub_domain}"

	s.Router.HandleFunc("/api/tenants", handleListTenants(tenants)).Methods("GET")
	s.Router.HandleFunc("/api/tenants", handleCreateTenant(tenants)).Methods("POST")
	s.Router.HandleFunc("/api/tenants/{tenant_id}/branches", handleTenantBranches(tenants)).Methods("GET")
	s.Router.HandleFunc(key, handleGetTenant(tenants)).Methods("GET")
	s.Router.HandleFunc(key, handleUpdateTenant(tenants)).Methods("PUT")
	s.Router.HandleFunc(key, handleDeleteTenant(tenants)).Methods("DELETE")
}

// tenantKey reads the composite key from the path
func tenantKey(w http.ResponseWriter, r *http.Request) (model.TenantKey, bool) {
	id, ok := pathID(w, r, "tenant_id")
	if !ok {
		return model.TenantKey{}, false
	}
	vars := mux.Vars(r)
	org, err := url.PathUnescape(vars["organization_code"])
	if err != nil {
		respondWithStatus(w, http.StatusBadRequest, "organization_code is not a valid path segment.")
		return model.TenantKey{}, false
	}
	sub, err := url.PathUnescape(vars["sub_domain"])
	if err != nil {
		respondWithStatus(w, http.StatusBadRequest, "sub_domain is not a valid path segment.")
		return model.TenantKey{}, false
	}
	return model.TenantKey{TenantID: id, OrganizationCode: org, SubDomain: sub}, true
}

func handleListTenants(tenants *service.TenantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := tenants.List(r.Context())
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithData(w, http.StatusOK, "", list)
	}
}

func handleCreateTenant(tenants *service.TenantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in service.TenantInput
		if !decodeJSON(w, r, &in) {
			return
		}
		tenant, err := tenants.Create(r.Context(), in)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithData(w, http.StatusCreated, "Tenant created successfully", tenant)
	}
}

func handleGetTenant(tenants *service.TenantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := tenantKey(w, r)
		if !ok {
			return
		}
		tenant, err := tenants.Get(r.Context(), key)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithData(w, http.StatusOK, "", tenant)
	}
}

func handleUpdateTenant(tenants *service.TenantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := tenantKey(w, r)
		if !ok {
			return
		}
		var in service.TenantInput
		if !decodeJSON(w, r, &in) {
			return
		}
		tenant, err := tenants.Update(r.Context(), key, in)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithData(w, http.StatusOK, "Tenant updated successfully", tenant)
	}
}

func handleDeleteTenant(tenants *service.TenantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := tenantKey(w, r)
		if !ok {
			return
		}
		tenant, err := tenants.Delete(r.Context(), key)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithData(w, http.StatusOK, "Tenant deleted successfully.", tenant)
	}
}

func handleTenantBranches(tenants *service.TenantService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "tenant_id")
		if !ok {
			return
		}
		branches, err := tenants.Branches(r.Context(), id)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		if branches == nil {
			branches = []model.Branch{}
		}
		respondWithData(w, http.StatusOK, "", branches)
	}
}

// RegisterBranchesEndpoints registers the branch endpoints. Branches are
// created under a tenant's composite key and addressed by id afterwards.
func RegisterBranchesEndpoints(s *server.Server) {
	branches := s.Services.Branches

	s.Router.HandleFunc("/api/branches/create/{tenant_id}/{organization_code}/{sub_domain}", handleCreateBranch(branches)).Methods("POST")
	s.Router.HandleFunc("/api/branches/{branch_id}", handleGetBranch(branches)).Methods("GET")
	s.Router.HandleFunc("/api/branches/{branch_id}", handleUpdateBranch(branches)).Methods("PUT")
	s.Router.HandleFunc("/api/branches/{branch_id}", handleDeleteBranch(branches)).Methods("DELETE")
}

func handleCreateBranch(branches *service.BranchService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key, ok := tenantKey(w, r)
		if !ok {
			return
		}
		var in service.BranchInput
		if !decodeJSON(w, r, &in) {
			return
		}
		branch, err := branches.Create(r.Context(), key, in)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithData(w, http.StatusCreated, "Branch created successfully", branch)
	}
}

func handleGetBranch(branches *service.BranchService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "branch_id")
		if !ok {
			return
		}
		branch, err := branches.Get(r.Context(), id)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithData(w, http.StatusOK, "", branch)
	}
}

func handleUpdateBranch(branches *service.BranchService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "branch_id")
		if !ok {
			return
		}
		var in service.BranchInput
		if !decodeJSON(w, r, &in) {
			return
		}
		branch, err := branches.Update(r.Context(), id, in)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithData(w, http.StatusOK, "Branch updated successfully", branch)
	}
}

func handleDeleteBranch(branches *service.BranchService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := pathID(w, r, "branch_id")
		if !ok {
			return
		}
		branch, err := branches.Delete(r.Context(), id)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithData(w, http.StatusOK, fmt.Sprintf("Branch with ID %d deleted successfully.", id), branch)
	}
}
