// Command tokengen issues a caller token for one account address.
package main

import (
	"flag"
	"fmt"
	"os"

	jwttoken "secreg/internal/jwt_token"
	"secreg/internal/platform/config"
	"secreg/pkg/domain"
)

func main() {
	address := flag.String("address", "", "caller account address (0x + 40 hex)")
	ttl := flag.Duration("ttl", 0, "token lifetime; defaults to SECREG_AUTH_TOKEN_TTL")
	configFile := flag.String("config", "", "optional config file (yaml, json or toml)")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	caller, err := domain.ParseAddress(*address)
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid -address:", err)
		os.Exit(2)
	}
	lifetime := cfg.Auth.TokenTTL
	if *ttl > 0 {
		lifetime = *ttl
	}

	token, err := jwttoken.NewJWTService(cfg.Auth.JWTSigningKey, cfg.Auth.Issuer).GenerateCallerToken(caller, lifetime)
	if err != nil {
		fmt.Fprintln(os.Stderr, "generate token:", err)
		os.Exit(1)
	}
	fmt.Println(token)
}
