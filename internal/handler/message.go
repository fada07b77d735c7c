package handler

import (
	"fmt"
	"net/http"

	"aichat-backend/internal/service"
	"aichat-backend/internal/utils"
)

type MessageHandler struct {
	MessageService *service.MessageService
}

func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{MessageService: messageService}
}

// autoReply defaults to true when the field is omitted.
func autoReply(v *bool) bool {
	return v == nil || *v
}

func (h *MessageHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ContactID int64  `json:"contact_id"`
		Sender    string `json:"sender"`
		Receiver  string `json:"receiver"`
		Content   string `json:"content"`
		AutoReply *bool  `json:"auto_reply"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, err := h.MessageService.Send(r.Context(), service.SendMessageInput{
		ContactID: req.ContactID,
		Sender:    req.Sender,
		Receiver:  req.Receiver,
		Content:   req.Content,
		AutoReply: autoReply(req.AutoReply),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, msg)
}

func (h *MessageHandler) ForwardMessage(w http.ResponseWriter, r *http.Request) {
	messageID, ok := pathID(r, "messageId")
	if !ok {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid message id")
		return
	}
	var req struct {
		ContactID int64  `json:"contact_id"`
		Sender    string `json:"sender"`
		Receiver  string `json:"receiver"`
		AutoReply *bool  `json:"auto_reply"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg, err := h.MessageService.Forward(r.Context(), messageID, service.ForwardMessageInput{
		ContactID: req.ContactID,
		Sender:    req.Sender,
		Receiver:  req.Receiver,
		AutoReply: autoReply(req.AutoReply),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, msg)
}

func (h *MessageHandler) ListMessages(w http.ResponseWriter, r *http.Request) {
	contactID, ok := pathID(r, "contactId")
	if !ok {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid contact id")
		return
	}

	messages, err := h.MessageService.List(r.Context(), contactID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, messages)
}

func (h *MessageHandler) ClearChat(w http.ResponseWriter, r *http.Request) {
	contactID, ok := pathID(r, "contactId")
	if !ok {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid contact id")
		return
	}

	n, err := h.MessageService.ClearChat(r.Context(), contactID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"message":      fmt.Sprintf("Cleared %d messages", n),
		"deletedCount": n,
	})
}

func (h *MessageHandler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	messageID, ok := pathID(r, "messageId")
	if !ok {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid message id")
		return
	}

	deleted, err := h.MessageService.Delete(r.Context(), messageID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"message":        "Message deleted successfully",
		"deletedMessage": deleted,
	})
}

func (h *MessageHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	contactID, ok := pathID(r, "contactId")
	if !ok {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid contact id")
		return
	}

	stats, err := h.MessageService.Stats(r.Context(), contactID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	utils.JSONResponse(w, http.StatusOK, stats)
}
