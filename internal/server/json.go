package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mtunzisteven/foodStorageManager/internal/models"
	"github.com/mtunzisteven/foodStorageManager/internal/service"
)

// userJSON is the wire representation of a user. The password hash never
// leaves the service layer.
type userJSON struct {
	ID         int64  `json:"id"`
	Email      string `json:"email"`
	FamilySize int    `json:"familySize"`
}

func toUserJSON(u *models.User) userJSON {
	return userJSON{ID: u.SequenceID, Email: u.Email, FamilySize: u.FamilySize}
}

// productJSON is the wire representation of a product, keyed by its public
// integer id.
type productJSON struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Servings   string `json:"servings"`
	AddedDate  int64  `json:"addedDate"`
	ExpiryDate int64  `json:"expiryDate"`
}

func toProductJSON(p *models.Product) productJSON {
	return productJSON{
		ID:         p.SequenceID,
		Name:       p.Name,
		Servings:   p.Servings,
		AddedDate:  p.AddedDate,
		ExpiryDate: p.ExpiryDate,
	}
}

type errorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps a service failure to its stable (kind, message) pair and
// HTTP status. Anything not in the taxonomy is reported as internal.
func writeError(w http.ResponseWriter, err error) {
	kind, status := classify(err)
	message := err.Error()
	if kind == "internal" {
		// Do not leak lower-layer detail to callers.
		message = service.ErrInternal.Error()
	}
	writeJSON(w, status, map[string]errorBody{"error": {Kind: kind, Message: message}})
}

func classify(err error) (string, int) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return "validation", http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrAuthentication):
		return "authentication", http.StatusUnauthorized
	case errors.Is(err, service.ErrAuthorization):
		return "authorization", http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return "not_found", http.StatusNotFound
	case errors.Is(err, service.ErrDuplicateEmail):
		return "duplicate_email", http.StatusConflict
	case errors.Is(err, service.ErrAllocation):
		return "allocation", http.StatusServiceUnavailable
	default:
		return "internal", http.StatusInternalServerError
	}
}
