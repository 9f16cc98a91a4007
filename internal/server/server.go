// Package server exposes ranking over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/huangsam/topsis/core"
	"github.com/huangsam/topsis/core/algo"
	"github.com/huangsam/topsis/internal/contract"
	"github.com/huangsam/topsis/internal/outwriter"
	"github.com/huangsam/topsis/internal/tableio"
)

// Form fields accepted by POST /rank.
const (
	fieldInputFile = "input_file"
	fieldWeights   = "weights"
	fieldImpacts   = "impacts"
	fieldEmail     = "email"
	fieldFormat    = "format"
)

// shutdownTimeout bounds how long in-flight requests may finish after shutdown starts.
const shutdownTimeout = 10 * time.Second

// Server serves the ranking API.
type Server struct {
	cfg    *contract.Config
	mgr    contract.CacheManager
	mailer contract.Mailer
	logger *slog.Logger
}

// New returns a Server. mgr and mailer may be nil to disable persistence and email.
func New(cfg *contract.Config, mgr contract.CacheManager, mailer contract.Mailer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, mgr: mgr, mailer: mailer, logger: logger}
}

// Handler returns the HTTP routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /rank", s.handleRank)
	mux.HandleFunc("GET /health", s.handleHealth)
	return mux
}

// ListenAndServe serves on cfg.ServeAddr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.ServeAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.cfg.ServeAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down http server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	}
}

// rankResponse is the JSON body of a successful POST /rank.
type rankResponse struct {
	Message string                `json:"message,omitempty"`
	Result  outwriter.JSONRanking `json:"result"`
}

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRank(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("invalid multipart form: %w", err))
		return
	}

	file, _, err := r.FormFile(fieldInputFile)
	if err != nil {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("%s is required", fieldInputFile))
		return
	}
	defer func() { _ = file.Close() }()

	weightsRaw := strings.TrimSpace(r.FormValue(fieldWeights))
	impactsRaw := strings.TrimSpace(r.FormValue(fieldImpacts))
	if weightsRaw == "" || impactsRaw == "" {
		s.fail(w, http.StatusBadRequest, fmt.Errorf("%s and %s are required", fieldWeights, fieldImpacts))
		return
	}
	weights, err := tableio.ParseWeights(weightsRaw)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}
	impacts := tableio.ParseImpacts(impactsRaw)

	email := strings.TrimSpace(r.FormValue(fieldEmail))
	if email != "" {
		if err := contract.ValidateEmailAddress(email); err != nil {
			s.fail(w, http.StatusBadRequest, err)
			return
		}
	}

	matrix, err := tableio.ReadDecisionMatrix(file, s.cfg.Delimiter)
	if err != nil {
		s.fail(w, http.StatusBadRequest, err)
		return
	}

	result, err := core.RankAlternatives(r.Context(), core.RankRequest{
		Matrix:  matrix,
		Weights: weights,
		Impacts: impacts,
		Source:  "http",
	}, s.mgr)
	if err != nil {
		status := http.StatusInternalServerError
		if algo.IsInputError(err) {
			status = http.StatusUnprocessableEntity
		}
		s.fail(w, status, err)
		return
	}

	var message string
	if email != "" {
		if err := core.DeliverResult(r.Context(), s.mailer, email, result, s.cfg.Precision); err != nil {
			s.fail(w, http.StatusInternalServerError, err)
			return
		}
		message = core.DeliveredMessage
	}

	s.logger.Info("ranking completed",
		"alternatives", len(result.Rows),
		"criteria", len(result.Criteria),
		"emailed", email != "",
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if strings.EqualFold(r.FormValue(fieldFormat), "csv") {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+core.MailAttachmentName+`"`)
		if err := outwriter.WriteRankingCSV(w, result, s.cfg.Precision); err != nil {
			s.logger.Error("failed to write CSV response", "error", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, rankResponse{Message: message, Result: outwriter.NewJSONRanking(result)})
}

// fail logs err and writes it as a JSON error body.
func (s *Server) fail(w http.ResponseWriter, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error("ranking request failed", "status", status, "error", err)
	} else {
		s.logger.Warn("ranking request rejected", "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
