package pkg

import (
	"encoding/json"
	"net/http"

	log "github.com/sirupsen/logrus"
)

var ContentType = struct {
	JSON string
	Text string
}{
	JSON: "application/json",
	Text: "text/plain; charset=utf-8",
}

// MessageResponse is the body of every non-validation error answered by the API.
type MessageResponse struct {
	Message string `json:"message"`
}

func WriteResponse(w http.ResponseWriter, contentType, message string, status int) {
	WriteResponseBytes(w, contentType, []byte(message), status)
}

func WriteResponseBytes(w http.ResponseWriter, contentType string, message []byte, status int) {
	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(status)

	if _, err := w.Write(message); err != nil {
		log.Errorf("failed to write response [%s]: %s", message, err)
	}
}

func WriteTextResponseOK(w http.ResponseWriter, message string) {
	WriteResponse(w, ContentType.Text, message, http.StatusOK)
}

// WriteJSON marshals v and writes it with the given status.
// A marshal failure is answered with a generic 500.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Errorf("marshal response: %s", err)
		WriteMessage(w, http.StatusInternalServerError, "Something went wrong!")
		return
	}
	WriteResponseBytes(w, ContentType.JSON, body, status)
}

func WriteMessage(w http.ResponseWriter, status int, message string) {
	body, _ := json.Marshal(MessageResponse{Message: message})
	WriteResponseBytes(w, ContentType.JSON, body, status)
}
