package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/trustlens/internal/model"
	"github.com/sells-group/trustlens/internal/pipeline"
	"github.com/sells-group/trustlens/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the results API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("serve"); err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := newEnv(ctx, true)
		if err != nil {
			return err
		}
		defer env.Close()

		queue := &analysisQueue{run: env.Pipeline.Run}
		analyze := func(url string) { queue.enqueue(ctx, url) }

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}
		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(env.Store, analyze),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

// analysisQueue runs async pipeline runs one at a time. Every run
// drives the same browser session, so concurrent runs would steal the
// page from each other mid-scrape.
type analysisQueue struct {
	mu  sync.Mutex
	run func(ctx context.Context, url string) (*model.PipelineResult, error)
}

// enqueue schedules a run and returns immediately.
func (q *analysisQueue) enqueue(ctx context.Context, url string) {
	go func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		result, err := q.run(ctx, url)
		if err != nil {
			zap.L().Error("async analysis failed",
				zap.String("url", url), zap.Error(err))
			return
		}
		zap.L().Info("async analysis complete",
			zap.String("url", url),
			zap.String("product_id", result.ProductID))
	}()
}

// newRouter builds the API surface. analyze enqueues a full pipeline
// run for a URL and returns immediately.
func newRouter(st store.Store, analyze func(url string)) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/products", func(w http.ResponseWriter, req *http.Request) {
		products, err := st.ListProducts(req.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, products)
	})

	r.Get("/products/{id}", func(w http.ResponseWriter, req *http.Request) {
		stats, err := pipeline.Stats(req.Context(), st, chi.URLParam(req, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, err)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	})

	r.Get("/products/{id}/evaluation", func(w http.ResponseWriter, req *http.Request) {
		eval, err := st.GetEvaluation(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if eval == nil {
			writeError(w, http.StatusNotFound, eris.New("no evaluation"))
			return
		}
		writeJSON(w, http.StatusOK, eval)
	})

	r.Get("/products/{id}/claims", func(w http.ResponseWriter, req *http.Request) {
		claims, err := st.GetClaimsAnalysis(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		if claims == nil {
			writeError(w, http.StatusNotFound, eris.New("no claims analysis"))
			return
		}
		writeJSON(w, http.StatusOK, claims)
	})

	r.Post("/analyze", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			URL string `json:"url"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, eris.New("invalid request body"))
			return
		}
		if body.URL == "" {
			writeError(w, http.StatusBadRequest, eris.New("url is required"))
			return
		}
		analyze(body.URL)
		writeJSON(w, http.StatusAccepted, map[string]string{
			"status": "accepted",
			"url":    body.URL,
		})
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
