// Package http carries the reply exchange over HTTP: a resty-based
// [chatbot.Replier] client and a chi-based server that answers it.
//
// The wire format is a JSON object {"message": "..."} answered by
// {"reply": "..."}. Error responses use the same "reply" field with a
// non-success status.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

// ChatRequest is the body of POST /chat.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the body of a /chat response, successful or not.
type ChatResponse struct {
	Reply string `json:"reply"`
	Error string `json:"error,omitempty"`
}

// HistoryEntry is one element of GET /history.
type HistoryEntry struct {
	User      string `json:"user"`
	Bot       string `json:"bot"`
	Timestamp string `json:"timestamp"`
}

// HistoryResponse is the body of GET /history.
type HistoryResponse struct {
	History []HistoryEntry `json:"history"`
	Error   string         `json:"error,omitempty"`
}

// DeleteRequest is the body of POST /delete. A missing Index clears the
// whole history.
type DeleteRequest struct {
	Index *int `json:"index,omitempty"`
}

// StatusResponse is the body of POST /delete.
type StatusResponse struct {
	Status string `json:"status"`
}

// codedError pairs an error with the status and body to send for it.
type codedError struct {
	err  error
	code int
	body any
}

func (e *codedError) Error() string {
	return e.err.Error()
}

func (e *codedError) Unwrap() error {
	return e.err
}

func codedErrorBody(code int, err error, body any) error {
	return &codedError{err: err, code: code, body: body}
}

// restHandler adapts a handler returning a value or error into a JSON
// endpoint.
func restHandler(logger *slog.Logger, handler func(r *http.Request) (any, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := handler(r)
		if err != nil {
			var cerr *codedError
			if errors.As(err, &cerr) {
				if cerr.code >= http.StatusInternalServerError {
					logger.Error("internal server error in endpoint", "path", r.URL.Path, "error", err)
				}
				writeJSON(logger, w, cerr.code, cerr.body)
				return
			}
			logger.Error("received non coded error from endpoint", "path", r.URL.Path, "error", err)
			writeJSON(logger, w, http.StatusInternalServerError, ChatResponse{Error: err.Error()})
			return
		}
		if res == nil {
			res = struct{}{}
		}
		writeJSON(logger, w, http.StatusOK, res)
	}
}

func writeJSON(logger *slog.Logger, w http.ResponseWriter, code int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("error serializing response body", "error", err)
	}
}
