package handler

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/http/middleware"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/http/response"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/observability"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/security"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/service"
)

type AuthHandler struct {
	authSvc   service.AuthServiceInterface
	cookieMgr *security.CookieManager
}

func NewAuthHandler(authSvc service.AuthServiceInterface, cookieMgr *security.CookieManager) *AuthHandler {
	return &AuthHandler{authSvc: authSvc, cookieMgr: cookieMgr}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "invalid json body", nil)
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", "email and password are required", nil)
		return
	}

	result, err := h.authSvc.Login(r.Context(), req.Email, req.Password, clientIP(r))
	if err != nil {
		reason := "internal"
		status, code, msg := http.StatusInternalServerError, "INTERNAL", "login failed"
		if errors.Is(err, service.ErrInvalidCredentials) {
			reason = "invalid_credentials"
			status, code, msg = http.StatusUnauthorized, "UNAUTHORIZED", "invalid credentials"
		}
		observability.Audit(r, observability.AuditInput{
			EventName:  "auth.login",
			TargetType: "session",
			Action:     "login",
			Outcome:    "failure",
			Reason:     reason,
		})
		response.Error(w, r, status, code, msg, nil)
		return
	}

	h.cookieMgr.SetAccessCookie(w, result.AccessToken, time.Until(result.ExpiresAt))
	observability.Audit(r, observability.AuditInput{
		EventName:   "auth.login",
		ActorUserID: strconv.FormatUint(uint64(result.User.ID), 10),
		TargetType:  "session",
		Action:      "login",
		Outcome:     "success",
	})
	response.JSON(w, r, http.StatusOK, map[string]any{"user": result.User, "expires_at": result.ExpiresAt})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	actor := ""
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		actor = claims.Subject
	}
	h.cookieMgr.ClearAccessCookie(w)
	observability.Audit(r, observability.AuditInput{
		EventName:   "auth.logout",
		ActorUserID: actor,
		TargetType:  "session",
		Action:      "logout",
		Outcome:     "success",
	})
	response.JSON(w, r, http.StatusOK, map[string]bool{"logged_out": true})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
