package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/rizkan1982/dado-stream/internal/analytics"
	"github.com/rizkan1982/dado-stream/internal/api"
	"github.com/rizkan1982/dado-stream/internal/auth"
	"github.com/rizkan1982/dado-stream/internal/config"
	"github.com/rizkan1982/dado-stream/internal/database"
	"github.com/rizkan1982/dado-stream/internal/providers"
	"github.com/rizkan1982/dado-stream/internal/proxy"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	log.Println("Starting dado-stream API server...")

	cfg := config.Load()

	// Database is optional. Without DATABASE_URL the service runs degraded:
	// content routes work, login uses the configured admin pair, analytics
	// are acknowledged but not stored.
	var users api.UserDirectory
	var events api.EventStore
	if cfg.DatabaseURL != "" {
		db, err := database.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		userStore, err := database.NewUserStore(db)
		if err != nil {
			log.Fatalf("Failed to initialize user store: %v", err)
		}
		analyticsStore, err := database.NewAnalyticsStore(db)
		if err != nil {
			log.Fatalf("Failed to initialize analytics store: %v", err)
		}
		// Assign only when non-nil so the interfaces stay nil otherwise.
		users = userStore
		events = analyticsStore
		log.Println("Database connection established")
	} else {
		log.Println("DATABASE_URL not set, running without persistence")
	}

	geo, err := analytics.OpenGeoIP(cfg.GeoIPDBPath)
	if err != nil {
		log.Printf("Warning: GeoIP disabled: %v", err)
	}
	if geo != nil {
		defer geo.Close()
	}
	collector := analytics.NewCollector(geo)

	tokens := auth.NewService(cfg.JWTSecret, 24*time.Hour)

	dramabox := providers.NewDramaboxClient(cfg.DramaboxAPIURL)
	anime := providers.NewAnimeClient(cfg.AnimeAPIURL)
	komik := providers.NewKomikClient(cfg.KomikAPIURL, cfg.KomikProvider)

	handler := api.NewHandler(cfg, dramabox, anime, komik, tokens, users, events, collector)
	router := api.SetupRoutes(handler, proxy.NewHandler())

	// Long write timeout: the video proxy streams large files.
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 180 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
