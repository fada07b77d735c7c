package handler

import (
	"net/http"

	"aichat-backend/internal/config"
	"aichat-backend/internal/metrics"
	"aichat-backend/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Account *AccountHandler
	Contact *ContactHandler
	Message *MessageHandler
	Ws      *WsHandler
	Health  *HealthHandler
}

// NewRouter mounts the API under cfg.APIPrefix. Every route also accepts
// OPTIONS so CORS preflights reach the middleware chain.
func NewRouter(cfg *config.Config, mw *middleware.Middleware, h Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(mw.RequestID, mw.AccessLog, metrics.Middleware, mw.CORS)

	r.HandleFunc("/healthz", h.Health.Healthz).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.NewRoute().Subrouter()
	if cfg.APIPrefix != "" {
		api = r.PathPrefix(cfg.APIPrefix).Subrouter()
	}
	api.Use(mw.RateLimitMiddleware)

	api.HandleFunc("/register", h.Account.Register).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/login", h.Account.Login).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/ws/contacts/{id}", h.Ws.ServeContact).Methods(http.MethodGet)

	api.Handle("/me", mw.RequireSession(http.HandlerFunc(h.Account.Me))).Methods(http.MethodGet, http.MethodOptions)

	protected := api.NewRoute().Subrouter()
	protected.Use(mw.SessionMiddleware)

	protected.HandleFunc("/contacts", h.Contact.ListContacts).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/contacts", h.Contact.AddContact).Methods(http.MethodPost)
	protected.HandleFunc("/contacts/{id}", h.Contact.GetContact).Methods(http.MethodGet)
	protected.HandleFunc("/contacts/{id}", h.Contact.RenameContact).Methods(http.MethodPut, http.MethodOptions)
	protected.HandleFunc("/contacts/{id}", h.Contact.DeleteContact).Methods(http.MethodDelete)

	protected.HandleFunc("/messages", h.Message.SendMessage).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/messages/single/{messageId}/forward", h.Message.ForwardMessage).Methods(http.MethodPost, http.MethodOptions)
	protected.HandleFunc("/messages/single/{messageId}", h.Message.DeleteMessage).Methods(http.MethodDelete, http.MethodOptions)
	protected.HandleFunc("/messages/{contactId}/stats", h.Message.GetStats).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/messages/{contactId}", h.Message.ListMessages).Methods(http.MethodGet, http.MethodOptions)
	protected.HandleFunc("/messages/{contactId}", h.Message.ClearChat).Methods(http.MethodDelete)

	return r
}
