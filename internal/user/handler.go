package user

import (
	"net/http"

	"github.com/frahmantamala/recibox/internal/auth"
	"github.com/frahmantamala/recibox/internal/transport"
)

type ServiceAPI interface {
	GetUser(id int64) (*User, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

// GetCurrentUser serves /users/me for the profile screen and the dashboard
// greeting.
func (h *Handler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	authUser, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	u, err := h.Service.GetUser(authUser.ID)
	if err != nil {
		h.WriteError(w, http.StatusInternalServerError, "failed to load user")
		return
	}
	if u == nil {
		h.WriteError(w, http.StatusNotFound, "user not found")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"id":           u.ID,
		"email":        u.Email,
		"name":         u.Name,
		"display_name": u.DisplayName(),
		"created_at":   u.CreatedAt,
	})
}
