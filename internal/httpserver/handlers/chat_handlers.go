package handlers

import (
	"net/http"
	"strconv"

	"siar/internal/portal"

	"go.uber.org/zap"
)

// Chat lists conversations, or the thread with ?contactId= when given.
func Chat(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.URL.Query().Get("contactId")
		if raw == "" {
			contacts, err := svc.Conversations(r.Context(), actor(r))
			if err != nil {
				respondError(w, r, lg, err)
				return
			}
			respondJSON(w, contacts)
			return
		}
		contactID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || contactID == 0 {
			respondMessage(w, http.StatusBadRequest, "contactId tidak valid")
			return
		}
		thread, err := svc.Thread(r.Context(), actor(r), uint(contactID))
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondJSON(w, thread)
	}
}

func SendMessage(svc *portal.Service, lg *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req portal.MessageInput
		if err := decodeJSON(w, r, &req); err != nil {
			respondError(w, r, lg, err)
			return
		}
		msg, err := svc.SendMessage(r.Context(), actor(r), req)
		if err != nil {
			respondError(w, r, lg, err)
			return
		}
		respondStatus(w, http.StatusCreated, msg)
	}
}
