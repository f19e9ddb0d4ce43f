package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/http/middleware"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/http/response"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/observability"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/service"
)

type DashboardHandler struct {
	dashboards service.DashboardServiceInterface
	authz      service.AbilityAuthorizer
}

func NewDashboardHandler(dashboards service.DashboardServiceInterface, authz service.AbilityAuthorizer) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, authz: authz}
}

// Listing serves a single listing. The route is expected to be guarded by
// RequireAbility for the same listing name.
func (h *DashboardHandler) Listing(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := h.dashboards.Build(r.Context(), name, r.URL.Query())
		if err != nil {
			h.buildFailed(w, r, name, err)
			return
		}
		h.audit(r, name, "success", "")
		response.JSON(w, r, http.StatusOK, res)
	}
}

// Dashboard renders every listing the principal may administer, all parsed
// from the same query string. Listings the principal may not administer are
// left out; having none is a 403.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	values := r.URL.Query()
	listings := make([]any, 0, len(h.dashboards.Definitions()))
	for _, def := range h.dashboards.Definitions() {
		err := h.authz.Authorize(r.Context(), claims, service.ActionAdminister, def.Name())
		if errors.Is(err, service.ErrForbidden) {
			continue
		}
		if err != nil {
			slog.ErrorContext(r.Context(), "authorization failed", "listing", def.Name(), "error", err)
			response.Error(w, r, http.StatusServiceUnavailable, "AUTHZ_UNAVAILABLE", "authorization temporarily unavailable", nil)
			return
		}
		res, err := h.dashboards.Build(r.Context(), def.Name(), values)
		if err != nil {
			h.buildFailed(w, r, def.Name(), err)
			return
		}
		h.audit(r, def.Name(), "success", "")
		listings = append(listings, res)
	}
	if len(listings) == 0 {
		observability.Audit(r, observability.AuditInput{
			EventName:   "admin.dashboard.viewed",
			ActorUserID: claims.Subject,
			TargetType:  "dashboard",
			Action:      "view",
			Outcome:     "denied",
			Reason:      "no_administrable_listing",
		})
		response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "insufficient permission", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"listings": listings})
}

func (h *DashboardHandler) buildFailed(w http.ResponseWriter, r *http.Request, name string, err error) {
	if errors.Is(err, service.ErrUnknownListing) {
		response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "unknown listing", nil)
		return
	}
	slog.ErrorContext(r.Context(), "listing build failed", "listing", name, "error", err)
	h.audit(r, name, "failure", "source_error")
	response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load listing", nil)
}

func (h *DashboardHandler) audit(r *http.Request, name, outcome, reason string) {
	actor := ""
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		actor = claims.Subject
	}
	observability.Audit(r, observability.AuditInput{
		EventName:   "admin.listing.viewed",
		ActorUserID: actor,
		TargetType:  "listing",
		TargetID:    name,
		Action:      "view",
		Outcome:     outcome,
		Reason:      reason,
	})
}
