package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/rizkan1982/dado-stream/internal/proxy"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler, byteProxy *proxy.Handler) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/api/health", handler.HealthCheck).Methods("GET")

	// Dramabox
	dramabox := r.PathPrefix("/api/dramabox").Subrouter()
	dramabox.HandleFunc("/latest", handler.DramaboxLatest).Methods("GET")
	dramabox.HandleFunc("/trending", handler.DramaboxTrending).Methods("GET")
	dramabox.HandleFunc("/vip", handler.DramaboxVIP).Methods("GET")
	dramabox.HandleFunc("/foryou", handler.DramaboxForYou).Methods("GET")
	dramabox.HandleFunc("/dubindo", handler.DramaboxDubIndo).Methods("GET")
	dramabox.HandleFunc("/search", handler.DramaboxSearch).Methods("GET")
	dramabox.HandleFunc("/detail", handler.DramaboxDetail).Methods("GET")
	dramabox.HandleFunc("/allepisode", handler.DramaboxAllEpisodes).Methods("GET")

	// Anime
	anime := r.PathPrefix("/api/anime").Subrouter()
	anime.HandleFunc("/latest", handler.AnimeLatest).Methods("GET")
	anime.HandleFunc("/trending", handler.AnimeTrending).Methods("GET")
	anime.HandleFunc("/popular", handler.AnimeTrending).Methods("GET")
	anime.HandleFunc("/ongoing", handler.AnimeOngoing).Methods("GET")
	anime.HandleFunc("/movie", handler.AnimeMovies).Methods("GET")
	anime.HandleFunc("/search", handler.AnimeSearch).Methods("GET")
	anime.HandleFunc("/detail", handler.AnimeDetail).Methods("GET")
	anime.HandleFunc("/getvideo", handler.AnimeVideo).Methods("GET")

	// Komik
	komik := r.PathPrefix("/api/komik").Subrouter()
	komik.HandleFunc("/recommended", handler.KomikPopular).Methods("GET")
	komik.HandleFunc("/popular", handler.KomikPopular).Methods("GET")
	komik.HandleFunc("/search", handler.KomikSearch).Methods("GET")
	komik.HandleFunc("/detail", handler.KomikDetail).Methods("GET")
	komik.HandleFunc("/chapterlist", handler.KomikChapterList).Methods("GET")
	komik.HandleFunc("/getimage", handler.KomikImages).Methods("GET")

	// Byte proxy
	r.HandleFunc("/api/proxy/image", byteProxy.Image).Methods("GET")
	r.HandleFunc("/api/proxy/video", byteProxy.Video).Methods("GET")

	// Auth
	r.HandleFunc("/api/auth/login", handler.Login).Methods("POST")
	r.HandleFunc("/api/auth/verify", handler.Verify).Methods("GET")
	r.HandleFunc("/api/auth/logout", handler.Logout).Methods("POST")

	// Analytics ingest (public, called by the frontend)
	r.HandleFunc("/api/analytics/track", handler.Track).Methods("POST")
	r.HandleFunc("/api/analytics/heartbeat", handler.Heartbeat).Methods("POST")

	// Admin (Bearer token required)
	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(handler.tokens.Middleware)
	admin.HandleFunc("/dashboard", handler.AdminDashboard).Methods("GET")
	admin.HandleFunc("/watchers", handler.AdminWatchers).Methods("GET")
	admin.HandleFunc("/stats", handler.AdminStats).Methods("GET")
	admin.HandleFunc("/users", handler.AdminUsers).Methods("GET")
	admin.HandleFunc("/users", handler.AdminCreateUser).Methods("POST")

	// Unknown routes and actions answer JSON, not the default text page.
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// Outermost wrappers, not router middleware: preflight requests and
	// 404s must still get CORS headers and panic recovery.
	return corsMiddleware(recoverMiddleware(loggingMiddleware(r)))
}

// corsMiddleware adds open CORS headers and short-circuits preflight.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// recoverMiddleware turns a handler panic into a generic 500.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[panic] %s %s: %v", r.Method, r.URL.Path, rec)
				respondError(w, http.StatusInternalServerError, "Internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs all HTTP requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s (%s)", r.Method, r.URL.Path, time.Since(start).Round(time.Millisecond))
	})
}
