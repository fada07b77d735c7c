package handler

import (
	"net/http"

	"aichat-backend/internal/config"
	"aichat-backend/internal/service"
	"aichat-backend/internal/utils"
	"aichat-backend/internal/websocket"
)

type WsHandler struct {
	Hub            *websocket.Hub
	ContactService *service.ContactService
	Config         *config.Config
}

func NewWsHandler(hub *websocket.Hub, contactService *service.ContactService, cfg *config.Config) *WsHandler {
	return &WsHandler{Hub: hub, ContactService: contactService, Config: cfg}
}

// ServeContact subscribes a websocket to one contact's thread. Browsers cannot
// set headers on the upgrade request, so the session token travels as ?token=.
func (h *WsHandler) ServeContact(w http.ResponseWriter, r *http.Request) {
	contactID, ok := pathID(r, "id")
	if !ok {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid contact id")
		return
	}
	if h.Config.AuthRequired {
		if _, err := utils.ParseSessionToken(r.URL.Query().Get("token"), h.Config.JWTSecret); err != nil {
			utils.ErrorResponse(w, http.StatusUnauthorized, "invalid or expired session token")
			return
		}
	}
	if _, err := h.ContactService.Get(r.Context(), contactID); err != nil {
		writeError(w, r, err)
		return
	}
	websocket.ServeWs(h.Hub, w, r, contactID, h.Config.AllowedOrigins)
}
