package endpoints

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/doodlesbykumbi/tenant-config/pkg/server"
	"github.com/doodlesbykumbi/tenant-config/pkg/service"
)

const (
	msgInvalidSaveIDs = "Missing or invalid Tenant, Branch, or Product ID format."

	// createdByForm labels configuration rows written through the HTTP API
	createdByForm = "WebForm"

	maxFormMemory = 1 << 20
)

// RegisterConfigurationEndpoints registers the branch/product module
// configuration endpoints
func RegisterConfigurationEndpoints(s *server.Server) {
	cfg := s.Services.Configuration

	s.Router.HandleFunc("/api/products/{product_id}/modules", handleAvailableModules(cfg)).Methods("GET")
	s.Router.HandleFunc("/api/branches/{branch_id}/products/{product_id}/configured-modules", handleConfiguredModules(cfg)).Methods("GET")
	s.Router.HandleFunc("/api/branches/{branch_id}/products/{product_id}/modules/{module_id}", handleUnconfigureModule(cfg)).Methods("DELETE")
	s.Router.HandleFunc("/api/config/save-product-modules", handleSaveProductModules(cfg)).Methods("POST")
}

func handleAvailableModules(cfg *service.ConfigurationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, ok := pathID(w, r, "product_id")
		if !ok {
			return
		}

		var branchID *uint
		if raw := r.URL.Query().Get("branch_id"); raw != "" {
			id, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				respondWithStatus(w, http.StatusBadRequest, "branch_id must be an integer.")
				return
			}
			v := uint(id)
			branchID = &v
		}

		modules, err := cfg.AvailableModules(r.Context(), productID, branchID)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		if modules == nil {
			modules = []service.AvailableModule{}
		}
		respondWithData(w, http.StatusOK, "", modules)
	}
}

func handleConfiguredModules(cfg *service.ConfigurationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		branchID, ok := pathID(w, r, "branch_id")
		if !ok {
			return
		}
		productID, ok := pathID(w, r, "product_id")
		if !ok {
			return
		}

		modules, err := cfg.ConfiguredModules(r.Context(), branchID, productID)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		if modules == nil {
			modules = []service.ConfiguredModule{}
		}
		respondWithData(w, http.StatusOK, "", modules)
	}
}

func handleUnconfigureModule(cfg *service.ConfigurationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		branchID, ok := pathID(w, r, "branch_id")
		if !ok {
			return
		}
		productID, ok := pathID(w, r, "product_id")
		if !ok {
			return
		}
		moduleID, ok := pathID(w, r, "module_id")
		if !ok {
			return
		}

		result, err := cfg.UnconfigureModule(r.Context(), branchID, productID, moduleID)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, Response{Status: result.Status, Message: result.Message})
	}
}

// saveModulesForm holds the raw fields of a save-product-modules request,
// whichever encoding it arrived in
type saveModulesForm struct {
	tenantID, branchID, productID interface{}

	hidden    *string
	moduleIDs []interface{}
}

// readSaveModulesForm reads a JSON, urlencoded or multipart body
func readSaveModulesForm(r *http.Request) (*saveModulesForm, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if mediaType == "multipart/form-data" {
			if err := r.ParseMultipartForm(maxFormMemory); err != nil {
				return nil, err
			}
		} else if err := r.ParseForm(); err != nil {
			return nil, err
		}

		form := &saveModulesForm{
			tenantID:  r.PostForm.Get("tenant_id"),
			branchID:  r.PostForm.Get("branch_id"),
			productID: r.PostForm.Get("product_id"),
		}
		if values, ok := r.PostForm["module_ids_hidden"]; ok {
			joined := strings.Join(values, ",")
			form.hidden = &joined
		}
		for _, v := range r.PostForm["module_ids"] {
			form.moduleIDs = append(form.moduleIDs, v)
		}
		return form, nil
	}

	body, err := decodeObject(r.Body)
	if err != nil {
		return nil, err
	}
	form := &saveModulesForm{
		tenantID:  body["tenant_id"],
		branchID:  body["branch_id"],
		productID: body["product_id"],
	}
	switch v := body["module_ids_hidden"].(type) {
	case string:
		form.hidden = &v
	case json.Number:
		s := v.String()
		form.hidden = &s
	case []interface{}:
		form.moduleIDs = v
	}
	if ids, ok := body["module_ids"].([]interface{}); ok && form.hidden == nil && form.moduleIDs == nil {
		form.moduleIDs = ids
	}
	return form, nil
}

// moduleIDList returns the submitted module ids. A comma-separated hidden
// field wins over a module_ids list; tokens that are not ids are dropped.
func (f *saveModulesForm) moduleIDList() []uint {
	ids := []uint{}
	if f.hidden != nil {
		for _, tok := range strings.Split(*f.hidden, ",") {
			if id, ok := parseID(strings.TrimSpace(tok)); ok {
				ids = append(ids, id)
			}
		}
		return ids
	}
	for _, v := range f.moduleIDs {
		if id, ok := parseID(v); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func handleSaveProductModules(cfg *service.ConfigurationService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := readSaveModulesForm(r)
		if err != nil {
			if errors.Is(err, io.EOF) {
				respondWithStatus(w, http.StatusBadRequest, msgNoInput)
				return
			}
			respondWithStatus(w, http.StatusBadRequest, "Request body could not be parsed.")
			return
		}

		tenantID, okTenant := parseID(form.tenantID)
		branchID, okBranch := parseID(form.branchID)
		productID, okProduct := parseID(form.productID)
		if !okTenant || !okBranch || !okProduct || tenantID == 0 || branchID == 0 || productID == 0 {
			respondWithStatus(w, http.StatusBadRequest, msgInvalidSaveIDs)
			return
		}

		result, err := cfg.ReconcileModules(r.Context(), service.ReconcileModulesRequest{
			TenantID:  &tenantID,
			BranchID:  branchID,
			ProductID: productID,
			ModuleIDs: form.moduleIDList(),
			CreatedBy: createdByForm,
		})
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, Response{
			Status:  result.Status,
			Message: result.Message,
			Data: map[string][]uint{
				"added":   result.Added,
				"removed": result.Removed,
			},
		})
	}
}

// decodeObject reads a JSON object keeping numbers as json.Number
func decodeObject(body io.Reader) (map[string]interface{}, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, io.EOF
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var obj map[string]interface{}
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	return obj, nil
}

// parseID accepts a non-negative integer given as a JSON number or a
// string of digits
func parseID(v interface{}) (uint, bool) {
	var s string
	switch t := v.(type) {
	case json.Number:
		s = t.String()
	case string:
		s = strings.TrimSpace(t)
	default:
		return 0, false
	}
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}
