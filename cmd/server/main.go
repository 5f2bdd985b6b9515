package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/closset/closset/engine-go/internal/auth"
	"github.com/closset/closset/engine-go/internal/config"
	"github.com/closset/closset/engine-go/internal/design"
	"github.com/closset/closset/engine-go/internal/export"
	"github.com/closset/closset/engine-go/internal/live"
	mw "github.com/closset/closset/engine-go/internal/middleware"
	"github.com/closset/closset/engine-go/internal/render"
	"github.com/closset/closset/engine-go/internal/rendercache"
	"github.com/closset/closset/engine-go/internal/store"
	"github.com/closset/closset/engine-go/internal/studio"
	"github.com/closset/closset/engine-go/internal/typeid"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	st := store.New(pool)
	if err := st.Migrate(ctx); err != nil {
		slog.Error("migrate database", "error", err)
		os.Exit(1)
	}

	authService := auth.NewService(st, cfg.JWTSecret)
	authHandler := auth.NewHandler(authService)

	studioService := studio.NewService(st, cfg.CanvasWidth, cfg.CanvasHeight)
	studioHandler := studio.NewHandler(studioService)

	cache := rendercache.New(cfg.RenderCacheSize, time.Duration(cfg.RenderCacheTTLSeconds)*time.Second)
	renderer := render.New(slog.Default(), cfg.CanvasWidth, cfg.CanvasHeight, cache)
	exportHandler := export.NewHandler(renderer)

	// Document loader for the live hub. Runs in the hub goroutine, so it
	// carries a background context.
	loadDesign := func(ctx context.Context, designID string) (*design.Design, error) {
		snap, err := st.GetLatestSnapshot(ctx, designID)
		if err != nil {
			return nil, err
		}
		var d design.Design
		if err := json.Unmarshal(snap.Document, &d); err != nil {
			return nil, fmt.Errorf("unmarshal document: %w", err)
		}
		return &d, nil
	}

	saveDesign := func(ctx context.Context, designID string, d *design.Design) error {
		doc, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("marshal document: %w", err)
		}
		_, err = st.CreateSnapshot(ctx, typeid.NewSnapshotID(), designID, doc)
		return err
	}

	hub := live.NewHub(live.Options{
		HistoryLimit: cfg.HistoryLimit,
		LoadDesign:   loadDesign,
		SaveDesign:   saveDesign,
	})
	go hub.Run()

	allowedOrigins := strings.Split(cfg.AllowedOrigins, ",")
	liveHandler := live.NewHandler(hub, authService, st, originPatterns(allowedOrigins))

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(allowedOrigins))

	// Auth routes (public)
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Export endpoints (public — used by playground and authenticated users)
	r.HandleFunc("/export/png", exportHandler.ExportPNG).Methods("POST", "OPTIONS")
	r.HandleFunc("/export/stitches", exportHandler.ExportStitches).Methods("POST", "OPTIONS")
	r.HandleFunc("/import/stitches", exportHandler.ImportStitches).Methods("POST", "OPTIONS")

	// Protected API routes
	api := r.PathPrefix("/api").Subrouter()
	api.Use(authService.AuthMiddleware)

	api.HandleFunc("/auth/me", authHandler.Me).Methods("GET")
	api.HandleFunc("/designs", studioHandler.List).Methods("GET")
	api.HandleFunc("/designs", studioHandler.Create).Methods("POST")
	api.HandleFunc("/designs/{designId}", studioHandler.Get).Methods("GET")
	api.HandleFunc("/designs/{designId}", studioHandler.Delete).Methods("DELETE")
	api.HandleFunc("/designs/{designId}/invite", studioHandler.Invite).Methods("POST")
	api.HandleFunc("/designs/{designId}/members", studioHandler.ListMembers).Methods("GET")
	api.HandleFunc("/designs/{designId}/members/{userId}", studioHandler.RemoveMember).Methods("DELETE")
	api.HandleFunc("/designs/{designId}/snapshots", studioHandler.SaveSnapshot).Methods("POST")
	api.HandleFunc("/designs/{designId}/snapshots/latest", studioHandler.GetLatestSnapshot).Methods("GET")

	// WebSocket endpoint
	r.HandleFunc("/ws/design/{designId}", liveHandler.Serve)

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		// Stop hub first to save all open documents
		slog.Info("saving all documents...")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// originPatterns strips schemes so configured origins match the host
// patterns websocket.AcceptOptions expects.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		o = strings.TrimPrefix(o, "http://")
		o = strings.TrimPrefix(o, "https://")
		if o != "" {
			patterns = append(patterns, o)
		}
	}
	return patterns
}
