package visit

import (
	"encoding/json"
	"net/http"

	"github.com/WailSalutem-Health-Care/care-report-service/internal/auth"
	"github.com/gorilla/mux"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type DetailResponse struct {
	Success       bool     `json:"success"`
	Visit         *Detail  `json:"visit"`
	SectionErrors []string `json:"section_errors,omitempty"`
}

// GetVisit returns one visit record with its tasks, medications, vitals
// and events. Sections that failed to load are listed in section_errors;
// the rest of the record still renders.
func (h *Handler) GetVisit(w http.ResponseWriter, r *http.Request) {
	_, ok := auth.FromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	vars := mux.Vars(r)
	id := vars["id"]

	if id == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "Visit record ID is required")
		return
	}

	detail, sectionErrors, err := h.service.Detail(r.Context(), id)
	if err != nil {
		respondError(w, http.StatusNotFound, "not_found", err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DetailResponse{
		Success:       true,
		Visit:         detail,
		SectionErrors: sectionErrors,
	})
}

func respondError(w http.ResponseWriter, statusCode int, errorType, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errorType,
		Message: message,
	})
}
