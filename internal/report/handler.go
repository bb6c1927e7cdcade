package report

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/WailSalutem-Health-Care/care-report-service/internal/auth"
	"github.com/WailSalutem-Health-Care/care-report-service/internal/pagination"
	"github.com/gorilla/mux"
)

// AdminRole is the role whose holders review reports and see every
// submission; everyone else is pinned to their own.
const AdminRole = "ORG_ADMIN"

type Handler struct {
	service ServiceInterface
}

func NewHandler(service ServiceInterface) *Handler {
	return &Handler{service: service}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

type SubmitResponse struct {
	Success bool          `json:"success"`
	Result  *SubmitResult `json:"result"`
}

type ReportResponse struct {
	Success bool           `json:"success"`
	Report  *ServiceReport `json:"report"`
}

type ListResponse struct {
	Success    bool            `json:"success"`
	Reports    []ServiceReport `json:"reports"`
	Pagination pagination.Meta `json:"pagination"`
}

type DataResponse struct {
	Success bool  `json:"success"`
	Data    *Data `json:"data"`
}

// SubmitReport commits a report form: the aggregate fields plus every
// accumulated change in one request. Partial row failures come back as
// warnings on a 200; validation failures reject the whole submission.
func (h *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON in request body")
		return
	}

	result, err := h.service.Submit(r.Context(), actor, req)
	if err != nil {
		var vErr *ValidationError
		switch {
		case errors.As(err, &vErr):
			respondFieldError(w, http.StatusBadRequest, vErr)
		case errors.Is(err, ErrReportNotFound):
			respondError(w, http.StatusNotFound, "not_found", err.Error())
		case errors.Is(err, ErrReportApproved):
			respondError(w, http.StatusConflict, "report_approved", err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "Failed to submit report")
		}
		return
	}

	status := http.StatusCreated
	if req.ReportID != "" {
		status = http.StatusOK
	}
	respondJSON(w, status, SubmitResponse{Success: true, Result: result})
}

// GetReport returns one report, visible to its author and to admins.
func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	id := mux.Vars(r)["id"]
	report, err := h.service.Get(r.Context(), actor, id)
	if err != nil {
		if errors.Is(err, ErrReportNotFound) {
			respondError(w, http.StatusNotFound, "not_found", "Report not found")
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", "Failed to get report")
		return
	}

	respondJSON(w, http.StatusOK, ReportResponse{Success: true, Report: report})
}

// ListReports returns a page of reports. client_id and status filters are
// honored; non-admin callers only ever see their own submissions.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	params := pagination.ParseParams(r)
	params.Validate()

	filter := ListFilter{
		ClientID: r.URL.Query().Get("client_id"),
		Status:   r.URL.Query().Get("status"),
	}
	if actor.IsAdmin {
		filter.StaffID = r.URL.Query().Get("staff_id")
	}

	reports, total, err := h.service.List(r.Context(), actor, params.Limit, params.CalculateOffset(), filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "Failed to list reports")
		return
	}
	if reports == nil {
		reports = []ServiceReport{}
	}

	respondJSON(w, http.StatusOK, ListResponse{
		Success:    true,
		Reports:    reports,
		Pagination: params.CalculateMeta(total),
	})
}

// ReviewReport applies an admin decision to a pending report.
func (h *Handler) ReviewReport(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	var req ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON in request body")
		return
	}

	id := mux.Vars(r)["id"]
	report, err := h.service.Review(r.Context(), actor, id, req)
	if err != nil {
		var vErr *ValidationError
		switch {
		case errors.As(err, &vErr):
			respondFieldError(w, http.StatusBadRequest, vErr)
		case errors.Is(err, ErrReportNotFound):
			respondError(w, http.StatusNotFound, "not_found", "Report not found")
		case errors.Is(err, ErrInvalidTransition):
			respondError(w, http.StatusConflict, "invalid_transition", err.Error())
		default:
			respondError(w, http.StatusInternalServerError, "internal_error", "Failed to review report")
		}
		return
	}

	respondJSON(w, http.StatusOK, ReportResponse{Success: true, Report: report})
}

// GetReportData returns the aggregated view backing the report form for a
// client, resolving or lazily creating the visit record as needed.
func (h *Handler) GetReportData(w http.ResponseWriter, r *http.Request) {
	_, ok := actorFrom(r)
	if !ok {
		respondError(w, http.StatusUnauthorized, "unauthenticated", "User not authenticated")
		return
	}

	clientID := mux.Vars(r)["clientId"]
	if clientID == "" {
		respondError(w, http.StatusBadRequest, "validation_error", "Client ID is required")
		return
	}

	query := r.URL.Query()
	data, err := h.service.Data(r.Context(),
		clientID,
		query.Get("booking_id"),
		query.Get("visit_record_id"),
		query.Get("edit") == "true",
	)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal_error", "Failed to load report data")
		return
	}

	respondJSON(w, http.StatusOK, DataResponse{Success: true, Data: data})
}

func actorFrom(r *http.Request) (Actor, bool) {
	pr, ok := auth.FromContext(r.Context())
	if !ok {
		return Actor{}, false
	}
	actor := Actor{UserID: pr.UserID, BranchID: pr.OrgID}
	for _, role := range pr.Roles {
		if role == AdminRole {
			actor.IsAdmin = true
			break
		}
	}
	return actor, true
}

func respondJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, statusCode int, errorType, message string) {
	respondJSON(w, statusCode, ErrorResponse{Error: errorType, Message: message})
}

func respondFieldError(w http.ResponseWriter, statusCode int, vErr *ValidationError) {
	respondJSON(w, statusCode, ErrorResponse{
		Error:   "validation_error",
		Message: vErr.Message,
		Field:   vErr.Field,
	})
}
