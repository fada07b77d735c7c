package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"aichat-backend/internal/apperr"
	"aichat-backend/internal/utils"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// writeError maps err onto a status and an {"error"} body. Internal causes
// are logged and replaced by a generic message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	utils.ErrorResponse(w, status, apperr.PublicMessage(err))
}

// writeAccountError is writeError for the account endpoints, which report
// failures as {"message"}.
func writeAccountError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("account request failed")
		utils.MessageResponse(w, status, "Internal server error")
		return
	}
	utils.MessageResponse(w, status, apperr.PublicMessage(err))
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(v)
}
