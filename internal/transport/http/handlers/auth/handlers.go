package authhandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/authz"
	"hrportal/internal/identity"
	"hrportal/internal/platform/requestctx"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/gate"
	"hrportal/internal/transport/http/middleware"
)

type Handler struct {
	Identity *identity.Service
	Catalog  *authz.Catalog
	Secure   bool
}

func NewHandler(identitySvc *identity.Service, catalog *authz.Catalog, secure bool) *Handler {
	return &Handler{Identity: identitySvc, Catalog: catalog, Secure: secure}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
	r.Post("/auth/logout", h.HandleLogout)
	r.Get("/me/capabilities", h.HandleCapabilities)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		api.Fail(w, http.StatusBadRequest, "invalid_payload", "invalid request payload", requestctx.GetRequestID(r.Context()))
		return
	}

	token, user, err := h.Identity.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestctx.GetRequestID(r.Context()))
			return
		}
		api.Fail(w, http.StatusInternalServerError, "login_error", "failed to log in", requestctx.GetRequestID(r.Context()))
		return
	}

	if err := h.Identity.Store.UpdateLastLogin(r.Context(), user.ID); err != nil {
		slog.Warn("update last_login failed", "userId", user.ID, "err", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.Identity.TokenTTL.Seconds()),
	})

	api.Success(w, map[string]any{
		"token": token,
		"user":  map[string]string{"id": user.ID, "email": user.Email, "role": user.RoleName},
	}, requestctx.GetRequestID(r.Context()))
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.Secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	api.Success(w, map[string]bool{"loggedOut": true}, requestctx.GetRequestID(r.Context()))
}

// HandleCapabilities returns the subject's role, granted permission keys
// and assignments so the front end renders gates from the same catalog
// the server enforces.
func (h *Handler) HandleCapabilities(w http.ResponseWriter, r *http.Request) {
	subject, ok := middleware.GetSubject(r.Context())
	if !ok {
		api.Unauthorized(w, requestctx.GetRequestID(r.Context()))
		return
	}
	api.Success(w, gate.CapabilitiesFor(h.Catalog, subject), requestctx.GetRequestID(r.Context()))
}
