package config

import (
	"os"
	"strconv"
)

type Config struct {
	// Server
	ServerPort int
	Host       string

	// Database (optional - the service runs degraded without it)
	DatabaseURL string

	// Upstream content APIs
	DramaboxAPIURL string
	AnimeAPIURL    string
	KomikAPIURL    string
	KomikProvider  string

	// Auth
	JWTSecret     string
	AdminUsername string
	AdminPassword string

	// Analytics
	GeoIPDBPath string

	// Debug
	Debug bool
}

// Load reads configuration from environment variables with sensible defaults.
// DATABASE_URL is intentionally empty by default: without it the service
// skips persistence and falls back to the configured admin credential pair.
func Load() *Config {
	return &Config{
		ServerPort: getEnvInt("PORT", 8080),
		Host:       getEnv("HOST", "0.0.0.0"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		DramaboxAPIURL: getEnv("DRAMABOX_API_URL", "https://api.sansekai.my.id/api"),
		AnimeAPIURL:    getEnv("ANIME_API_URL", "https://www.sankavollerei.com/anime/samehadaku"),
		KomikAPIURL:    getEnv("KOMIK_API_URL", "https://api-manga-five.vercel.app"),
		KomikProvider:  getEnv("KOMIK_PROVIDER", "shinigami"),

		JWTSecret:     getEnv("JWT_SECRET", ""),
		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "dadostream"),

		GeoIPDBPath: getEnv("GEOIP_DB_PATH", ""),

		Debug: getEnv("DEBUG", "") == "true",
	}
}

// getEnv returns the value of an environment variable or a default value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
