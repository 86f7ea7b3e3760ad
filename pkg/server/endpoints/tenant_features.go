package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/doodlesbykumbi/tenant-config/pkg/server"
	"github.com/doodlesbykumbi/tenant-config/pkg/service"
)

// RegisterTenantFeaturesEndpoints registers the per-tenant feature
// switches
func RegisterTenantFeaturesEndpoints(s *server.Server) {
	features := s.Services.TenantFeatures

	s.Router.HandleFunc("/api/tenant_features/{tenant_id}", handleGetTenantFeatures(features)).Methods("GET")
	s.Router.HandleFunc("/api/configurations/tenant-features", handleConfigureTenantFeatures(features)).Methods("POST")
}

func handleGetTenantFeatures(features *service.TenantFeatureService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tenantID, ok := pathID(w, r, "tenant_id")
		if !ok {
			return
		}
		status, err := features.FeatureStatus(r.Context(), tenantID)
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithData(w, http.StatusOK, "", status)
	}
}

// featureIDs reads an optional id list. Digit strings count as ids and
// other strings are skipped. ok is false when the value is not a list or
// holds something other than numbers and strings.
func featureIDs(v interface{}) (ids []uint, isList bool, ok bool) {
	if v == nil {
		return []uint{}, true, true
	}
	list, isList := v.([]interface{})
	if !isList {
		return nil, false, false
	}
	ids = []uint{}
	for _, item := range list {
		switch item.(type) {
		case json.Number:
			id, valid := parseID(item)
			if !valid {
				return nil, true, false
			}
			ids = append(ids, id)
		case string:
			if id, valid := parseID(item); valid {
				ids = append(ids, id)
			}
		default:
			return nil, true, false
		}
	}
	return ids, true, true
}

func handleConfigureTenantFeatures(features *service.TenantFeatureService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := decodeObject(r.Body)
		if err != nil || len(body) == 0 {
			respondWithStatus(w, http.StatusBadRequest, "Request body must be JSON and not empty")
			return
		}

		rawTenant, present := body["tenant_id"]
		if !present || rawTenant == nil {
			respondWithStatus(w, http.StatusBadRequest, "Please provide a tenant_id to configure features.")
			return
		}
		tenantID, ok := parseID(rawTenant)
		if !ok || tenantID == 0 {
			respondWithStatus(w, http.StatusBadRequest, "tenant_id must be an integer or convertible string")
			return
		}

		lists := make(map[string][]uint, 2)
		for _, field := range []string{"enabled_feature_ids", "disabled_feature_ids"} {
			ids, isList, ok := featureIDs(body[field])
			switch {
			case !isList:
				respondWithStatus(w, http.StatusBadRequest, field+" must be a list")
				return
			case !ok:
				respondWithStatus(w, http.StatusBadRequest, "Feature ID lists must contain only integers or string representations of integers")
				return
			}
			lists[field] = ids
		}

		result, err := features.ReconcileFeatures(r.Context(), tenantID, lists["enabled_feature_ids"], lists["disabled_feature_ids"])
		if err != nil {
			respondWithError(w, r, err)
			return
		}
		respondWithJSON(w, http.StatusOK, Response{
			Status:  result.Status,
			Message: result.Message,
			Data: map[string][]uint{
				"enabled":  result.Enabled,
				"disabled": result.Disabled,
			},
		})
	}
}
