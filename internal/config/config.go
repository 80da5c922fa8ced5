package config

import (
	"os"
	"strconv"
	"strings"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type Config struct {
	Mode     Mode
	HTTPAddr string

	DBDriver string
	DBDSN    string

	BlobBasePath string // saved grade files and reports

	AuthSecret         string
	AdminUser          string
	AdminPassHash      string // bcrypt; empty skips the admin bootstrap
	EnableRegistration bool

	CORSOriginsOnline  []string
	CORSOriginsOffline []string

	// Accepted numeric grade range for entered or imported courses.
	GradeMin float64
	GradeMax float64

	OptimizerMaxElectives int

	LogLevel      string
	EnableMetrics bool
}

func FromEnv() Config {
	mode := Mode(os.Getenv("MODE"))
	if mode == "" {
		mode = ModeOffline
	}
	return Config{
		Mode:                  mode,
		HTTPAddr:              envOr("HTTP_ADDR", ":8080"),
		DBDriver:              envOr("DB_DRIVER", "sqlite"),
		DBDSN:                 envOr("DB_DSN", ""),
		BlobBasePath:          envOr("BLOB_BASE_PATH", "./data"),
		AuthSecret:            envOr("AUTH_HMAC_SECRET", "supersecret-dev-key"),
		AdminUser:             envOr("ADMIN_USER", "admin"),
		AdminPassHash:         envOr("ADMIN_PASS_HASH", ""),
		EnableRegistration:    envBool("ENABLE_REGISTRATION", mode == ModeOffline),
		CORSOriginsOnline:     csvOr("CORS_ORIGINS_ONLINE", "https://grades.mindengage.ai"),
		CORSOriginsOffline:    csvOr("CORS_ORIGINS_OFFLINE", "http://localhost:3000,http://localhost:3010"),
		GradeMin:              envFloat("GRADE_MIN", 60),
		GradeMax:              envFloat("GRADE_MAX", 100),
		OptimizerMaxElectives: envInt("OPTIMIZER_MAX_ELECTIVES", 24),
		LogLevel:              envOr("LOG_LEVEL", "info"),
		EnableMetrics:         envBool("ENABLE_METRICS", true),
	}
}

// CORSOrigins picks the origin list for the configured mode.
func (c Config) CORSOrigins() []string {
	if c.Mode == ModeOnline {
		return c.CORSOriginsOnline
	}
	return c.CORSOriginsOffline
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	if v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(k))); err == nil {
		return v
	}
	return def
}
func envFloat(k string, def float64) float64 {
	if v, err := strconv.ParseFloat(strings.TrimSpace(os.Getenv(k)), 64); err == nil {
		return v
	}
	return def
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
