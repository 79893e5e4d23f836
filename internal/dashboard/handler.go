package dashboard

import (
	"net/http"
	"time"

	"github.com/frahmantamala/recibox/internal/auth"
	"github.com/frahmantamala/recibox/internal/transport"
)

type ServiceAPI interface {
	GetDashboard(userID int64, now time.Time) *Dashboard
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

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		h.WriteError(w, http.StatusUnauthorized, "user not found in context")
		return
	}

	h.WriteJSON(w, http.StatusOK, h.Service.GetDashboard(user.ID, time.Now()))
}
