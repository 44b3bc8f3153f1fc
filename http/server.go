package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/JyothikaKancharla/chatbot"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// User-facing replies sent by the server.
const (
	ReplyEmptyMessage  = "Please enter a message."
	ReplyNotConfigured = "AI service not configured properly."
	ReplyInternalError = "An internal error occurred. Please try again."
)

const historyTimeLayout = "2006-01-02 15:04:05"

// Server answers the reply exchange and exposes the recorded chat log.
type Server struct {
	replier chatbot.Replier
	chats   chatbot.ChatLog
	logger  *slog.Logger
	router  chi.Router
}

// ServerOption configures a [Server].
type ServerOption func(*Server)

// WithLogger sets the server logger. Default is slog.Default().
func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) { s.logger = l }
}

// NewServer builds the router. A nil replier makes /chat answer 503, so a
// server without model credentials still serves history.
func NewServer(replier chatbot.Replier, chats chatbot.ChatLog, opts ...ServerOption) *Server {
	s := &Server{
		replier: replier,
		chats:   chats,
		logger:  slog.Default(),
	}
	for _, o := range opts {
		o(s)
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(&middleware.DefaultLogFormatter{
		Logger:  slog.NewLogLogger(s.logger.Handler(), slog.LevelInfo),
		NoColor: true,
	}))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Post("/chat", restHandler(s.logger, s.handleChat))
	r.Get("/history", restHandler(s.logger, s.handleHistory))
	r.Post("/delete", restHandler(s.logger, s.handleDelete))
	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("reply server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) handleChat(r *http.Request) (any, error) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return nil, codedErrorBody(http.StatusInternalServerError,
			fmt.Errorf("parse request body: %w", err),
			ChatResponse{Reply: ReplyInternalError})
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, codedErrorBody(http.StatusBadRequest, chatbot.ErrValidation, ChatResponse{Reply: ReplyEmptyMessage})
	}
	if s.replier == nil {
		return nil, codedErrorBody(http.StatusServiceUnavailable,
			errors.New("no reply backend configured"),
			ChatResponse{Reply: ReplyNotConfigured})
	}

	s.logger.Info("received message", "length", len(message))
	reply, err := s.replier.Reply(r.Context(), message)
	if err != nil {
		return nil, codedErrorBody(http.StatusInternalServerError,
			fmt.Errorf("generate reply: %w", err),
			ChatResponse{Reply: ReplyInternalError})
	}

	if err := s.chats.Record(r.Context(), message, reply); err != nil {
		s.logger.Error("error saving chat", "error", err)
	}
	return ChatResponse{Reply: reply}, nil
}

func (s *Server) handleHistory(r *http.Request) (any, error) {
	records, err := s.chats.History(r.Context())
	if err != nil {
		return nil, codedErrorBody(http.StatusInternalServerError,
			fmt.Errorf("load history: %w", err),
			HistoryResponse{History: []HistoryEntry{}, Error: "Could not load history"})
	}
	entries := make([]HistoryEntry, len(records))
	for i, rec := range records {
		entries[i] = HistoryEntry{
			User:      rec.UserMessage,
			Bot:       rec.BotReply,
			Timestamp: rec.Timestamp.Format(historyTimeLayout),
		}
	}
	return HistoryResponse{History: entries}, nil
}

func (s *Server) handleDelete(r *http.Request) (any, error) {
	var req DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return nil, codedErrorBody(http.StatusBadRequest,
			fmt.Errorf("parse request body: %w", err),
			StatusResponse{Status: "error"})
	}

	var err error
	if req.Index != nil {
		err = s.chats.DeleteAt(r.Context(), *req.Index)
		if err == nil {
			s.logger.Info("deleted chat", "index", *req.Index)
		}
	} else {
		err = s.chats.DeleteAll(r.Context())
		if err == nil {
			s.logger.Info("cleared all chat history")
		}
	}
	switch {
	case errors.Is(err, chatbot.ErrValidation):
		return nil, codedErrorBody(http.StatusBadRequest, err, StatusResponse{Status: "error"})
	case err != nil:
		return nil, codedErrorBody(http.StatusInternalServerError, err, StatusResponse{Status: "error"})
	}
	return StatusResponse{Status: "success"}, nil
}
