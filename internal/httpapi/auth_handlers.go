package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"lexora.org/internal/audit"
	"lexora.org/internal/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	pair, principal, err := a.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		_ = audit.LogEvent(r.Context(), "auth.login.failed", map[string]any{
			"email": strings.TrimSpace(strings.ToLower(req.Email)),
			"ip":    clientIP(r),
		})
		writeError(w, r, http.StatusUnauthorized, "invalid credentials")
		return
	}

	a.trail.Record(r.Context(), audit.Entry{
		UserID:     principal.UserID,
		Action:     "auth.login",
		EntityType: "user",
		EntityID:   principal.UserID,
		Details:    map[string]any{"ip": clientIP(r), "role": string(principal.Role)},
	})
	writeJSON(w, http.StatusOK, pair)
}

func (a *API) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}
	var req refreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	pair, principal, err := a.auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		_ = audit.LogEvent(r.Context(), "auth.refresh.failed", map[string]any{
			"ip":     clientIP(r),
			"reason": auth.FailureKind(err),
		})
		status := http.StatusUnauthorized
		if errors.Is(err, auth.ErrUnauthorized) {
			status = http.StatusForbidden
		}
		writeError(w, r, status, "invalid refresh token")
		return
	}

	a.trail.Record(r.Context(), audit.Entry{
		UserID:     principal.UserID,
		Action:     "auth.refresh",
		EntityType: "user",
		EntityID:   principal.UserID,
		Details:    map[string]any{"ip": clientIP(r)},
	})
	writeJSON(w, http.StatusOK, pair)
}
