package handler

import (
	"net/http"

	"aichat-backend/internal/middleware"
	"aichat-backend/internal/model"
	"aichat-backend/internal/service"
	"aichat-backend/internal/utils"
)

type AccountHandler struct {
	AccountService *service.AccountService
}

func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{AccountService: accountService}
}

type accountResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Token string `json:"token,omitempty"`
}

func newAccountResponse(a *model.Account, token string) accountResponse {
	return accountResponse{ID: a.ID, Name: a.Name, Phone: a.Phone, Token: token}
}

func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		utils.MessageResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, account, err := h.AccountService.Register(r.Context(), req.Name, req.Phone, req.Password)
	if err != nil {
		writeAccountError(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusCreated, newAccountResponse(account, token))
}

func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Phone    string `json:"phone"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		utils.MessageResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, account, err := h.AccountService.Login(r.Context(), req.Phone, req.Password)
	if err != nil {
		writeAccountError(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, newAccountResponse(account, token))
}

func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		utils.ErrorResponse(w, http.StatusUnauthorized, "Missing session token")
		return
	}

	account, err := h.AccountService.GetAccount(r.Context(), session.AccountID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, newAccountResponse(account, ""))
}
