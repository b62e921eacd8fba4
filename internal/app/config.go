package app

import (
	"strings"
	"time"

	"github.com/yungbote/promptlib-backend/internal/platform/envutil"
	"github.com/yungbote/promptlib-backend/internal/platform/logger"
)

type Config struct {
	Port           string
	ServiceName    string
	Environment    string
	Version        string
	JWTSecretKey   string
	AllowedOrigins []string

	IdentityBaseURL  string
	IdentityToken    string
	IdentityTimeout  time.Duration
	IdentityCacheTTL time.Duration
}

func LoadConfig(log *logger.Logger) Config {
	jwtSecretKey := envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", nil)
	identityTimeoutSeconds := envutil.GetEnvAsInt("IDENTITY_TIMEOUT_SECONDS", 10, log)
	identityCacheTTLSeconds := envutil.GetEnvAsInt("IDENTITY_CACHE_TTL_SECONDS", 600, log)
	return Config{
		Port:             envutil.GetEnv("PORT", "8080", log),
		ServiceName:      envutil.GetEnv("SERVICE_NAME", "promptlib", log),
		Environment:      envutil.GetEnv("ENVIRONMENT", "development", log),
		Version:          envutil.GetEnv("SERVICE_VERSION", "dev", log),
		JWTSecretKey:     jwtSecretKey,
		AllowedOrigins:   splitList(envutil.GetEnv("CORS_ALLOWED_ORIGINS", "", log)),
		IdentityBaseURL:  strings.TrimSpace(envutil.GetEnv("IDENTITY_BASE_URL", "", log)),
		IdentityToken:    envutil.GetEnv("IDENTITY_TOKEN", "", nil),
		IdentityTimeout:  time.Duration(identityTimeoutSeconds) * time.Second,
		IdentityCacheTTL: time.Duration(identityCacheTTLSeconds) * time.Second,
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
