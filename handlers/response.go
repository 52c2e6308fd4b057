package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/lohszeying/api-task-assignment/interfaces"
	"github.com/lohszeying/api-task-assignment/logging"
	"github.com/lohszeying/api-task-assignment/services"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Logger.Errorf("Event ID: RESPONSE_ENCODE_FAILED, Description: Failed to encode response: %v", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Message: message})
}

// handleError writes domain errors with their own status and hides everything else behind fallback.
func handleError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if se, ok := services.AsServiceError(err); ok {
		if se.Status >= http.StatusInternalServerError {
			logging.Logger.Errorf("Event ID: REQUEST_FAILED, Description: %s %s: %v", r.Method, r.URL.Path, err)
		}
		writeMessage(w, se.Status, se.Message)
		return
	}

	logging.Logger.Errorf("Event ID: REQUEST_FAILED, Description: %s %s: %s: %v", r.Method, r.URL.Path, fallback, err)
	writeMessage(w, http.StatusInternalServerError, fallback)
}

// serveQuery writes the query result as JSON with 200.
func serveQuery(w http.ResponseWriter, r *http.Request, q interfaces.Query, fallback string) {
	result, err := q.Execute(r.Context())
	if err != nil {
		handleError(w, r, err, fallback)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// readObject returns the request body when it is a JSON object.
func readObject(r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return nil, false
	}
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return nil, false
	}
	return trimmed, true
}
