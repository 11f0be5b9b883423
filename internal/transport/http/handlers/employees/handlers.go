package employeeshandler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/authz"
	"hrportal/internal/domain/employees"
	"hrportal/internal/platform/requestctx"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
)

type Store interface {
	List(ctx context.Context, limit, offset int) ([]employees.Employee, error)
	Get(ctx context.Context, id string) (employees.Employee, error)
	Update(ctx context.Context, id string, firstName, lastName, jobTitle string) error
}

type Handler struct {
	Store      Store
	Authorizer *authz.Authorizer
}

func NewHandler(store Store, authorizer *authz.Authorizer) *Handler {
	return &Handler{Store: store, Authorizer: authorizer}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	viewReq := authz.Any(authz.PermEmployeeViewOwn, authz.PermEmployeeViewTeam, authz.PermEmployeeViewAny)
	r.With(middleware.RequireAuthz(h.Authorizer, viewReq)).Get("/employees", h.HandleList)
	r.With(middleware.RequireAuthz(h.Authorizer, viewReq)).Get("/employees/{id}", h.HandleGet)
	r.With(middleware.RequireAuthz(h.Authorizer, authz.Single(authz.PermEmployeeUpdateAny))).Put("/employees/{id}", h.HandleUpdate)
}

// canView decides record visibility: view_any / view_team go through
// the facade with the record's department as the resource, and the
// narrower self-access rule (own record via view_own) is applied here,
// outside the scope engine.
func (h *Handler) canView(subject *authz.Subject, e employees.Employee) bool {
	resource := &authz.Resource{Department: e.DepartmentID}
	if h.Authorizer.Authorize(subject, authz.Single(authz.PermEmployeeViewAny), resource) {
		return true
	}
	if h.Authorizer.Authorize(subject, authz.Single(authz.PermEmployeeViewTeam), resource) {
		return true
	}
	if e.UserID == subject.UserID && h.Authorizer.Authorize(subject, authz.Single(authz.PermEmployeeViewOwn), nil) {
		return true
	}
	return false
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.GetSubject(r.Context())
	if !ok {
		api.Unauthorized(w, requestctx.GetRequestID(r.Context()))
		return
	}

	limit, offset := parsePagination(r)
	all, err := h.Store.List(r.Context(), limit, offset)
	if err != nil {
		api.Fail(w, http.StatusInternalServerError, "list_error", "failed to list employees", requestctx.GetRequestID(r.Context()))
		return
	}

	visible := make([]employees.Employee, 0, len(all))
	for _, e := range all {
		if h.canView(subject, e) {
			visible = append(visible, e)
		}
	}
	api.Success(w, visible, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.GetSubject(r.Context())
	if !ok {
		api.Unauthorized(w, requestctx.GetRequestID(r.Context()))
		return
	}

	record, err := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestctx.GetRequestID(r.Context()))
		return
	}
	if !h.canView(subject, record) {
		api.Forbidden(w, requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, record, requestctx.GetRequestID(r.Context()))
}

type updateRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	JobTitle  string `json:"jobTitle"`
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.GetSubject(r.Context())
	if !ok {
		api.Unauthorized(w, requestctx.GetRequestID(r.Context()))
		return
	}

	record, err := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestctx.GetRequestID(r.Context()))
		return
	}

	// The route guard already checked update_any; this re-check adds the
	// record's department so scoped roles cannot update outside their
	// assignments.
	if !h.Authorizer.Authorize(subject, authz.Single(authz.PermEmployeeUpdateAny), &authz.Resource{Department: record.DepartmentID}) {
		api.Forbidden(w, requestctx.GetRequestID(r.Context()))
		return
	}

	var payload updateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}
	if payload.FirstName == "" || payload.LastName == "" {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "first and last name are required", requestctx.GetRequestID(r.Context()))
		return
	}

	if err := h.Store.Update(r.Context(), record.ID, payload.FirstName, payload.LastName, payload.JobTitle); err != nil {
		api.Fail(w, http.StatusInternalServerError, "update_error", "failed to update employee", requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, map[string]bool{"updated": true}, requestctx.GetRequestID(r.Context()))
}

func parsePagination(r *http.Request) (int, int) {
	limit := 50
	offset := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if raw := r.URL.Query().Get("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}
