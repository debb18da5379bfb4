package config

import (
	"log/slog"
	"strings"
	"time"

	"github.com/lalitjoshi007/FMT/internal/oauth"
	"github.com/lalitjoshi007/FMT/internal/pkg/env"
)

type Config struct {
	HTTP      httpConfig
	JWT       jwtConfig
	Mongo     mongoConfig
	Providers []string
	LogLevel  slog.Level
}

type httpConfig struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

type jwtConfig struct {
	Secret    string
	Algorithm string
	AccessTTL time.Duration
}

type mongoConfig struct {
	URI             string
	DB              string
	UsersCollection string
	ConnectTimeout  time.Duration
	EnsureIndexes   bool
}

func FromEnv() Config {
	return Config{
		HTTP: httpConfig{
			ListenAddr:      env.String("HTTP_LISTEN_ADDR", ":8080"),
			ReadTimeout:     env.Duration("HTTP_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    env.Duration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:     env.Duration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout: env.Duration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		JWT: jwtConfig{
			Secret:    env.RequireString("JWT_SECRET"),
			Algorithm: env.String("JWT_ALGORITHM", "HS256"),
			AccessTTL: env.Duration("JWT_ACCESS_TTL", 30*time.Minute),
		},
		Mongo: mongoConfig{
			URI:             env.String("MONGO_URI", "mongodb://localhost:27017"),
			DB:              env.String("MONGO_DB", "fmt_auth"),
			UsersCollection: env.String("MONGO_USERS_COLLECTION", "users"),
			ConnectTimeout:  env.Duration("MONGO_CONNECT_TIMEOUT", 10*time.Second),
			EnsureIndexes:   env.Bool("MONGO_ENSURE_INDEXES", true),
		},
		Providers: env.Strings("OAUTH_PROVIDERS", []string{oauth.Google, oauth.Facebook}),
		LogLevel:  parseLevel(env.String("LOG_LEVEL", "info")),
	}
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return lvl
}
