// Command admintoken mints a bearer token for the operator endpoints.
//
//	ADMIN_TOKEN_SECRET=... admintoken -sub alice
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/firehawk/backend/internal/config"
	"github.com/firehawk/backend/internal/logging"
	"github.com/firehawk/backend/pkg/auth"
)

func main() {
	subject := flag.String("sub", "", "operator identifier recorded in the token (required)")
	ttl := flag.Duration("ttl", 0, "token lifetime; defaults to ADMIN_TOKEN_TTL")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Setup("INFO")
		logging.Fatal("failed to load config", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	if *subject == "" {
		flag.Usage()
		os.Exit(2)
	}
	lifetime := cfg.AdminTokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	tokens, err := auth.NewTokenManager([]byte(cfg.AdminTokenSecret), lifetime)
	if err != nil {
		logging.Fatal("invalid ADMIN_TOKEN_SECRET", "error", err)
	}
	token, err := tokens.Issue(*subject, []string{auth.CapabilityManageContacts})
	if err != nil {
		logging.Fatal("sign token failed", "error", err)
	}
	fmt.Println(token)
}
