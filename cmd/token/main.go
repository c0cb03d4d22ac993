package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/vendorscore-backend/pkg/auth"
	"github.com/angelmondragon/vendorscore-backend/pkg/config"
	"github.com/angelmondragon/vendorscore-backend/pkg/logger"
)

// Mints a bearer token for API clients using the configured signing secret.
func main() {
	logg := logger.New(logger.Options{ServiceName: "token"})
	_ = godotenv.Load()

	subject := flag.String("subject", "", "token subject identifying the client")
	ttl := flag.Duration("ttl", 0, "token lifetime (default: VENDORSCORE_JWT_EXPIRATION_MINUTES)")
	flag.Parse()

	if *subject == "" {
		fmt.Fprintln(os.Stderr, "missing -subject")
		os.Exit(1)
	}

	cfg, err := config.LoadJWT()
	if err != nil {
		logg.Error(context.Background(), "failed to load jwt config", err)
		os.Exit(1)
	}
	if *ttl > 0 {
		cfg.ExpirationMinutes = int(ttl.Minutes())
		if cfg.ExpirationMinutes < 1 {
			cfg.ExpirationMinutes = 1
		}
	}

	token, err := auth.MintAccessToken(cfg, time.Now(), auth.AccessTokenPayload{Subject: *subject})
	if err != nil {
		logg.Error(context.Background(), "failed to mint token", err)
		os.Exit(1)
	}

	ctx := logg.WithFields(context.Background(), map[string]any{
		"subject":    *subject,
		"expires_in": cfg.Expiration().String(),
	})
	logg.Info(ctx, "token minted")
	fmt.Println(token)
}
