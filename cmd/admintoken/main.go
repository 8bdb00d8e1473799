package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/Rrens/reply-assistant/internal/config"
	"github.com/Rrens/reply-assistant/internal/security"
	"github.com/joho/godotenv"
)

// admintoken mints an access token for the person management API
func main() {
	accountID := flag.String("account", "", "directory account id the token is scoped to")
	email := flag.String("email", "", "account email recorded in the token")
	flag.Parse()

	if *accountID == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Auth.JWTSecret == "" {
		fmt.Fprintln(os.Stderr, "auth.jwt_secret (JWT_SECRET) is not set")
		os.Exit(1)
	}

	token, err := security.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL).GenerateAccessToken(*accountID, *email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate token: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(token)
}
