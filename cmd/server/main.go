package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"waybackspam/internal/analyzer"
	"waybackspam/internal/config"
	"waybackspam/internal/extract"
	"waybackspam/internal/scorer"
	"waybackspam/internal/wayback"
	"waybackspam/pkg/logger"
)

type analyzeReq struct {
	Domain       string   `json:"domain"`
	StopWords    []string `json:"stopWords"`
	MaxSnapshots int      `json:"maxSnapshots"`
}

type batchReq struct {
	Domains      []string `json:"domains"`
	StopWords    []string `json:"stopWords"`
	MaxSnapshots int      `json:"maxSnapshots"`
}

const defaultMaxSnapshots = 10

func main() {
	l := logger.New()
	cfg := config.Load()
	mux := http.NewServeMux()

	client := wayback.NewClient(cfg.ArchiveBaseURL, cfg.RequestTimeout, cfg.DialTimeout, cfg.MaxBodySize)
	sc := scorer.New(extract.New())
	sc.Threshold = cfg.SpamThreshold

	an := analyzer.New(client, sc)
	an.SnapshotDelay = cfg.SnapshotDelay
	an.DomainDelay = cfg.DomainDelay
	an.Progress = l.Progress()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// POST /analyze  { "domain": "...", "stopWords": [...], "maxSnapshots": 10 }
	mux.HandleFunc("/analyze", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		var req analyzeReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Domain == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		if req.MaxSnapshots <= 0 {
			req.MaxSnapshots = defaultMaxSnapshots
		}

		result, err := an.AnalyzeDomain(r.Context(), req.Domain, req.StopWords, req.MaxSnapshots)
		if err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, result)
	})

	// POST /analyze/batch  { "domains": ["...", "..."], "stopWords": [...] }
	// Domains are processed one at a time with pacing between them; large
	// batches take proportionally long.
	mux.HandleFunc("/analyze/batch", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
			return
		}
		var req batchReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Domains) == 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
			return
		}
		if req.MaxSnapshots <= 0 {
			req.MaxSnapshots = defaultMaxSnapshots
		}

		reports := an.AnalyzeDomains(r.Context(), req.Domains, req.StopWords, req.MaxSnapshots)
		writeJSON(w, http.StatusOK, reports)
	})

	srv := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      logRequest(l, mux),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Minute, // batches are paced, responses are slow
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		l.Infof("server listening on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			l.Errorf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	l.Infof("shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	l.Infof("bye")
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func logRequest(l *logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		l.Infof("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}
