package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/HugeKC01/Botnoi-Indo/internal/api"
	"github.com/HugeKC01/Botnoi-Indo/internal/cache"
	"github.com/HugeKC01/Botnoi-Indo/internal/catalog"
	"github.com/HugeKC01/Botnoi-Indo/internal/config"
	"github.com/HugeKC01/Botnoi-Indo/internal/i18n"
	"github.com/HugeKC01/Botnoi-Indo/internal/services"
	"github.com/HugeKC01/Botnoi-Indo/internal/session"
)

func main() {
	log.Println("Starting Botnoi-Indo API...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Load message catalogs
	bundle, err := i18n.New(cfg.DefaultLanguage)
	if err != nil {
		log.Fatalf("Failed to load locales: %v", err)
	}

	// Connect to Redis cache if configured (downloads work without it)
	var audioCache *cache.Cache
	if cfg.RedisURL != "" {
		audioCache, err = cache.New(cfg.RedisURL, 15*time.Minute)
		if err != nil {
			log.Fatalf("Failed to connect to cache: %v", err)
		}
		defer audioCache.Close()
		log.Println("Connected to Redis cache")
	}

	// Load the speaker catalog in the background; the form falls back to a
	// free-form speaker field until it arrives.
	cat := catalog.New(cfg.SpeakerCatalogURL)
	go cat.Load(context.Background())

	// Initialize services
	voiceSvc := services.NewVoiceService(cfg.VoiceAPIURL, time.Duration(cfg.SynthesisTimeout)*time.Second)
	dashboardSvc := services.NewDashboardService(cfg.AuthExchangeURL, cfg.DashboardAPIURL)
	mediaSvc := services.NewMediaService(time.Duration(cfg.DownloadTimeout)*time.Second, audioCache, cfg.VoiceAPIURL)

	sessions := session.NewManager(dashboardSvc)

	// Create API handler
	handler := api.NewHandler(voiceSvc, mediaSvc, cat, sessions, bundle)
	router := api.NewRouter(handler, api.RouterConfig{
		BackendAPIKey:      cfg.BackendAPIKey,
		CorsAllowedOrigins: cfg.CorsAllowedOrigins,
	})

	if cfg.BackendAPIKey != "" {
		log.Println("API key authentication enabled")
	} else {
		log.Println("WARNING: No BACKEND_API_KEY set — API is unprotected (dev mode)")
	}

	// Start HTTP server
	server := &http.Server{
		Addr:    ":" + cfg.APIPort,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Printf("API server listening on :%s", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Shutdown HTTP server
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
