package endpoints

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/doodlesbykumbi/tenant-config/pkg/audit"
	"github.com/doodlesbykumbi/tenant-config/pkg/logger"
	"github.com/doodlesbykumbi/tenant-config/pkg/server/store"
	"github.com/doodlesbykumbi/tenant-config/pkg/service"
)

const (
	msgNoInput  = "No input data provided"
	msgInternal = "An internal server error occurred"
)

// Response is the body of every successful response
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ErrorResponse is the body of every failed response
type ErrorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Code    int               `json:"code"`
	Details map[string]string `json:"details,omitempty"`
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

func respondWithData(w http.ResponseWriter, code int, message string, data interface{}) {
	respondWithJSON(w, code, Response{Status: service.StatusSuccess, Message: message, Data: data})
}

func respondWithMessage(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, Response{Status: service.StatusSuccess, Message: message})
}

func respondWithStatus(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Status: "error", Message: message, Code: code})
}

// statusFor maps an error kind to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrDuplicate), errors.Is(err, store.ErrReferenced):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondWithError writes err in the error envelope. Internal errors are
// logged and replaced by a generic message.
func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	body := ErrorResponse{Status: "error", Message: err.Error(), Code: code}

	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		body.Message = svcErr.Message
		if len(svcErr.Details) > 0 {
			body.Details = svcErr.Details
		}
	}

	if code == http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err))
		body.Message = msgInternal
		body.Details = nil
	}
	respondWithJSON(w, code, body)
}

// pathID reads a positive integer path parameter. On failure it writes a
// 400 and returns false.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		respondWithStatus(w, http.StatusBadRequest, fmt.Sprintf("%s must be a positive integer.", name))
		return 0, false
	}
	return uint(id), true
}

// decodeJSON reads the request body into dst. An empty or malformed body
// writes a 400 and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil:
		return true
	case errors.Is(err, io.EOF):
		respondWithStatus(w, http.StatusBadRequest, msgNoInput)
	default:
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field != "" {
			respondWithJSON(w, http.StatusBadRequest, ErrorResponse{
				Status:  "error",
				Message: "Invalid data provided.",
				Code:    http.StatusBadRequest,
				Details: map[string]string{typeErr.Field: "Must be of type " + typeErr.Type.String() + "."},
			})
			return false
		}
		respondWithStatus(w, http.StatusBadRequest, "Request body must be valid JSON.")
	}
	return false
}

// withActor records the caller on the request context so audit events can
// name them
func withActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			ip = host
		}
		if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
			ip = fwd
		}
		actor := audit.Actor{
			ClientIP:  ip,
			RequestID: logger.RequestID(r.Context()),
		}
		next.ServeHTTP(w, r.WithContext(service.WithActor(r.Context(), actor)))
	})
}
