package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Mirror HTTP server
	MirrorPort string

	// Mirror database (MariaDB/MySQL)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Portal
	PortalPort     string
	MirrorBaseURL  string
	HydrateTimeout time.Duration
	StatePath      string
	JWTSecret      string
	JWTExpiresIn   time.Duration

	// Seeded admin account
	AdminName     string
	AdminEmail    string
	AdminPassword string
}

func Load() *Config {
	return &Config{
		MirrorPort: getenv("MIRROR_PORT", "3001"),

		DBHost:     getenv("DB_HOST", "localhost"),
		DBPort:     getenv("DB_PORT", "3306"),
		DBUser:     getenv("DB_USER", "root"),
		DBPassword: getenv("DB_PASS", ""),
		DBName:     getenv("DB_NAME", "acportal_db"),

		PortalPort:     getenv("PORTAL_PORT", "8080"),
		MirrorBaseURL:  getenv("MIRROR_URL", "http://localhost:3001"),
		HydrateTimeout: getSeconds("HYDRATE_TIMEOUT_SECONDS", 4),
		StatePath:      getenv("STATE_PATH", "acportal-state.json"),
		JWTSecret:      getenv("JWT_SECRET", "supersecret_change_me"),
		JWTExpiresIn:   getMinutes("JWT_EXPIRES_IN", 12*60),

		AdminName:     getenv("ADMIN_NAME", "HOD / Admin"),
		AdminEmail:    getenv("ADMIN_EMAIL", "admin123@gmail.com"),
		AdminPassword: getenv("ADMIN_PASSWORD", "Admin@861"),
	}
}

func getenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func getSeconds(key string, fallback int) time.Duration {
	return time.Duration(getInt(key, fallback)) * time.Second
}

func getMinutes(key string, fallback int) time.Duration {
	return time.Duration(getInt(key, fallback)) * time.Minute
}

func getInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
