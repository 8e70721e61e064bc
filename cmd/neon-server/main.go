/*
Neon-server runs internal/compilesvc, an HTTP front end for the compiler that
records every submitted build in a SQLite history and gates the submit/poll
routes behind a bearer token.

Usage:

	neon-server [flags]

If a token secret is not given, one is generated and seeded from crypto/rand.
As a consequence, in this mode of operation every token issued becomes
invalid as soon as the server exits; this is fine for local testing but the
secret must be set explicitly for any deployment that restarts.

The flags are:

	-c, --config FILE
		Load server settings from a TOML config file (internal/config). CLI
		flags of the same name override whatever the file specifies.

	-l, --listen ADDRESS
		Listen on the given address, in ADDRESS:PORT or :PORT form.

	-s, --secret TOKEN_SECRET
		Use the given secret for signing JWT tokens instead of generating
		one.

	--db PATH
		Path to the SQLite build-history database.
*/
package main

import (
	"crypto/rand"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/spf13/pflag"

	"github.com/piilip/neon/internal/buildstore"
	"github.com/piilip/neon/internal/compilesvc"
	"github.com/piilip/neon/internal/config"
)

var (
	flagConfig = pflag.StringP("config", "c", "", "path to a TOML config file")
	flagListen = pflag.StringP("listen", "l", "", "listen address (overrides config)")
	flagSecret = pflag.StringP("secret", "s", "", "JWT signing secret (overrides config)")
	flagDB     = pflag.String("db", "", "SQLite build-history database path (overrides config)")
)

func main() {
	pflag.Parse()

	cfg := config.Default()
	if *flagConfig != "" {
		loaded, err := config.Load(*flagConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: loading config: %s\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if *flagListen != "" {
		cfg.Server.ListenAddress = *flagListen
	}
	if *flagSecret != "" {
		cfg.Server.TokenSecret = *flagSecret
	}
	if *flagDB != "" {
		cfg.Server.DatabasePath = *flagDB
	}

	secret := []byte(cfg.Server.TokenSecret)
	if len(secret) == 0 {
		secret = make([]byte, 64)
		if _, err := rand.Read(secret); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not generate token secret: %s\n", err)
			os.Exit(1)
		}
		log.Printf("WARN  using generated token secret; all tokens issued will become invalid at shutdown")
	}

	store, err := buildstore.Open(cfg.Server.DatabasePath)
	if err != nil {
		log.Fatalf("FATAL could not open build store: %s", err)
	}
	defer store.Close()

	users := compilesvc.NewMemoryUsers()
	adminPassword := os.Getenv("NEON_ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "password"
		log.Printf("WARN  no NEON_ADMIN_PASSWORD set; defaulting admin password to %q", adminPassword)
	}
	users.Add("admin", adminPassword)

	svc := compilesvc.New(users, store, secret)

	addr := cfg.Server.ListenAddress
	if addr == "" {
		addr = ":8080"
	}
	log.Printf("INFO  neon-server listening on %s", addr)
	if err := http.ListenAndServe(addr, svc); err != nil {
		log.Fatalf("FATAL server exited: %s", err)
	}
}
