package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"gallery-backend/config"
	"gallery-backend/gallery"
	"gallery-backend/handlers"
	"gallery-backend/media"
	"gallery-backend/metadata"
	"gallery-backend/metrics"
	"gallery-backend/session"
	"gallery-backend/workers"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Printf("Info: No .env file found or error loading: %v", err)
	}
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("FATAL: Failed to load configuration: %v", err)
	}

	log.Printf("Ensuring thumbnail directory exists: %s", cfg.ThumbnailsDir)
	if err := os.MkdirAll(cfg.ThumbnailsDir, 0o755); err != nil {
		log.Fatalf("FATAL: Failed to create thumbnail directory %s: %v", cfg.ThumbnailsDir, err)
	}

	cache := metadata.NewCache(cfg.CacheFile)
	cache.Load()

	keywords, err := metadata.NewKeywordReader()
	if err != nil {
		log.Printf("Info: exiftool unavailable, keyword extraction disabled: %v", err)
		keywords = nil
	}

	metaService := &metadata.Service{
		Cache:     cache,
		Extractor: &metadata.Extractor{Keywords: keywords},
	}
	scanner := gallery.NewScanner(cfg, metaService)
	thumbs := &media.ThumbnailStore{
		Root:     cfg.ThumbnailsDir,
		MaxWidth: cfg.ThumbnailMaxWidth,
		Quality:  cfg.ThumbnailQuality,
	}
	sessions := session.NewStore()

	log.Printf("Initializing sweep worker pool (Workers: %d, Queue Size: %d)...", cfg.NumSweepWorkers, cfg.SweepQueueSize)
	sweeper := workers.NewSweeper(cfg, metaService, thumbs)
	go sweeper.Run()

	var watcher *workers.Watcher
	if cfg.WatchFilesystem {
		watcher, err = workers.NewWatcher(sweeper)
		if err != nil {
			log.Printf("Info: filesystem watching disabled: %v", err)
		}
	}

	log.Printf("Serving photos from: %s", cfg.PhotosDir)
	log.Printf("Storing thumbnails in: %s", cfg.ThumbnailsDir)
	log.Printf("Thumbnail max width: %dpx", cfg.ThumbnailMaxWidth)

	r := chi.NewRouter()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-API-Key"},
		AllowCredentials: true,
		MaxAge:           300,
	})

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsHandler.Handler)
	r.Use(metrics.Middleware)

	portfolioHandler := &handlers.PortfolioHandler{Scanner: scanner}
	albumHandler := &handlers.AlbumHandler{Cfg: cfg, Scanner: scanner, Sessions: sessions}
	authHandler := &handlers.AuthHandler{Scanner: scanner, Sessions: sessions}
	imageHandler := &handlers.ImageHandler{Cfg: cfg, Thumbs: thumbs}
	libraryHandler := &handlers.LibraryHandler{Scanner: scanner}
	manageHandler := &handlers.ManageHandler{Cfg: cfg, Thumbs: thumbs}

	r.Route("/api", func(r chi.Router) {
		r.Get("/portfolio", portfolioHandler.Get)

		r.Route("/albums", func(r chi.Router) {
			r.Get("/", albumHandler.List)
			r.Get("/*", albumHandler.Detail)
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/check", authHandler.Check)
			r.Post("/unlock", authHandler.Unlock)
		})

		r.Route("/images", func(r chi.Router) {
			r.Get("/thumbnail/*", imageHandler.Thumbnail)
			r.Get("/full/*", imageHandler.Full)
			r.Get("/download/*", imageHandler.Download)
			r.Get("/video/*", imageHandler.Video)
		})

		r.Get("/map", libraryHandler.Map)
		r.Get("/search", libraryHandler.Search)
		r.Get("/tags", libraryHandler.Tags)
		r.Get("/timeline", libraryHandler.Timeline)

		r.Route("/stats", func(r chi.Router) {
			r.Get("/", libraryHandler.Stats(cfg))
			r.Get("/filter", libraryHandler.StatsFilter)
		})

		r.Route("/manage", func(r chi.Router) {
			r.Use(handlers.RequireAPIKey(cfg.APIKey))
			r.Post("/delete", manageHandler.Delete)
			r.Post("/password", manageHandler.SetPassword)
			r.Post("/cover", manageHandler.SetCover)
			r.Get("/ignorestats", manageHandler.GetIgnoreStats)
			r.Post("/ignorestats", manageHandler.SetIgnoreStats)
			r.Get("/readme", manageHandler.GetReadme)
			r.Post("/readme", manageHandler.SetReadme)
			r.Get("/caption", manageHandler.GetCaption)
			r.Post("/caption", manageHandler.SetCaption)
			r.Get("/tripdays", manageHandler.GetTripDays)
			r.Post("/tripdays", manageHandler.ToggleTripDays)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	serverAddr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Server listening on %s", serverAddr)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop
		log.Printf("Shutting down...")
		if watcher != nil {
			watcher.Close()
		}
		sweeper.Stop()
		if keywords != nil {
			keywords.Close()
		}
		os.Exit(0)
	}()

	log.Fatal(server.ListenAndServe())
}
