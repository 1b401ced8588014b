package public

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/aeolus87/currency-converter/deploy/config"
	mwLogger "github.com/aeolus87/currency-converter/internal/converter/ports/http/public/middleware/logger"
	"github.com/aeolus87/currency-converter/internal/entities"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	Server  *http.Server
	cfg     *config.Config
	service Service
}

func NewServer(server *http.Server, cfg *config.Config, service Service) *Server {
	return &Server{
		Server:  server,
		cfg:     cfg,
		service: service,
	}
}

func StartServer(ctx context.Context, service Service, cfg *config.Config) <-chan struct{} {

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mwLogger.New())
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())

	serverConfig := &http.Server{
		Addr:         ":" + cfg.HTTPServer.Port,
		Handler:      r,
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	server := NewServer(serverConfig, cfg, service)

	r.Get("/currencies", server.GetCurrencies)
	r.Get("/rates/{base}", server.GetRates)
	r.Get("/convert", server.GetConversion)

	doneChan := make(chan struct{})

	go func() {
		if err := server.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Http server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Failed to stop server", "error", err)
		}

		close(doneChan)
	}()

	return doneChan
}

func (s *Server) GetCurrencies(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	currencies, err := s.service.LoadCurrencies(ctx)
	if err != nil {
		RespondWithError(w, http.StatusBadGateway, err.Error())
		return
	}

	RespondWithJSON(w, http.StatusOK, currencies)
}

func (s *Server) GetRates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	base := chi.URLParam(r, "base")

	force := r.URL.Query().Get("force") == "true"

	if err := s.service.LoadRates(ctx, base, force); err != nil {
		RespondWithError(w, http.StatusBadGateway, s.service.LastError(), err.Error())
		return
	}

	snapshot, ok := s.service.RatesFor(base)
	if !ok {
		RespondWithError(w, http.StatusNotFound, "no rates for "+base)
		return
	}

	RespondWithJSON(w, http.StatusOK, snapshot)
}

func (s *Server) GetConversion(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")

	amount, err := strconv.ParseFloat(r.URL.Query().Get("amount"), 64)
	if err != nil {
		RespondWithError(w, http.StatusBadRequest, "invalid amount")
		return
	}

	if from == "" || to == "" {
		RespondWithError(w, http.StatusBadRequest, "from and to are required")
		return
	}

	// Warm the source base before deriving so a cold cache still answers.
	if err := s.service.LoadRates(ctx, from, false); err != nil {
		RespondWithError(w, http.StatusBadGateway, s.service.LastError(), err.Error())
		return
	}

	conversion, err := s.service.Convert(ctx, amount, from, to)
	if err != nil {
		switch {
		case errors.Is(err, entities.ErrInvalidAmount):
			RespondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, entities.ErrUnknownCurrency):
			RespondWithError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, entities.ErrRatesPending):
			RespondWithError(w, http.StatusAccepted, "rates are loading, retry shortly")
		default:
			RespondWithError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	RespondWithJSON(w, http.StatusOK, conversion)
}

func RespondWithJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")

	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to encode response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func RespondWithError(w http.ResponseWriter, code int, message string, details ...string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)

	errorText := message
	if len(details) > 0 {
		errorText += "\nDetails: " + details[0]
	}

	if _, err := w.Write([]byte(errorText)); err != nil {
		slog.Error("Failed to write error response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
