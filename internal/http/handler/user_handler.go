package handler

import (
	"errors"
	"net/http"

	"github.com/sandeepkv93/admin-listing-dashboards/internal/http/middleware"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/http/response"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/repository"
	"github.com/sandeepkv93/admin-listing-dashboards/internal/service"
)

type UserHandler struct {
	userSvc service.UserServiceInterface
}

func NewUserHandler(userSvc service.UserServiceInterface) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// Me returns the signed-in user and the permission tokens its role grants.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return
	}
	id, err := claims.UserID()
	if err != nil {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid user", nil)
		return
	}
	u, perms, err := h.userSvc.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			response.Error(w, r, http.StatusNotFound, "NOT_FOUND", "user not found", nil)
			return
		}
		response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "failed to load user", nil)
		return
	}
	response.JSON(w, r, http.StatusOK, map[string]any{"user": u, "permissions": perms})
}
