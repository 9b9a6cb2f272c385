package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"moviecatalog/pkg/config"
	"moviecatalog/pkg/jwt"

	"github.com/google/uuid"
)

func main() {
	var (
		userID string
		email  string
	)
	flag.StringVar(&userID, "user", "", "User id to put in the token subject (random when empty)")
	flag.StringVar(&email, "email", "", "Optional email claim")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("load config failed", "error", err)
		os.Exit(1)
	}
	if cfg.Auth.JWTSecret == "" {
		slog.Error("AUTH_JWT_SECRET is not set")
		os.Exit(1)
	}

	id := uuid.New()
	if userID != "" {
		id, err = uuid.Parse(userID)
		if err != nil {
			slog.Error("invalid user id", "user", userID, "error", err)
			os.Exit(1)
		}
	}

	ttl := time.Duration(cfg.Auth.TokenTTL) * time.Second
	token, err := jwt.NewJWTProvider(cfg.Auth.JWTSecret, ttl).GenerateAccessToken(id, email)
	if err != nil {
		slog.Error("cannot sign token", "error", err)
		os.Exit(1)
	}

	slog.Info("issued access token", "user", id, "expires_in", ttl)
	fmt.Println(token)
}
