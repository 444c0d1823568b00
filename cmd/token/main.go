package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/johnquangdev/capnotes/pkg/config"
	pkgjwt "github.com/johnquangdev/capnotes/pkg/jwt"
)

func main() {
	emails := flag.String("emails", "alice@test.local,bob@test.local", "comma separated emails to issue tokens for")
	dev := flag.Bool("dev", false, "issue long-lived tokens using JWT_DEV_ACCESS_EXPIRY")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	jwtManager := pkgjwt.NewManager(cfg.JWT.AccessSecret, cfg.JWT.AccessExpiry)
	expiry := cfg.JWT.AccessExpiry
	if *dev {
		expiry = cfg.JWT.DevAccessExpiry
	}

	log.Println("🔑 Issuing access tokens...")

	for i, email := range strings.Split(*emails, ",") {
		email = strings.TrimSpace(email)
		if email == "" {
			continue
		}

		userID := uuid.New()
		var token string
		if *dev {
			token, err = jwtManager.GenerateDevToken(userID, email, expiry)
		} else {
			token, err = jwtManager.GenerateAccessTokenWithExpiry(userID, email, expiry)
		}
		if err != nil {
			log.Printf("❌ Failed to generate access token for %s: %v", email, err)
			continue
		}

		fmt.Printf("═══════════════════════════════════════════════════════════════\n")
		fmt.Printf("🟢 User %d\n", i+1)
		fmt.Printf("Email:        %s\n", email)
		fmt.Printf("User ID:      %s\n", userID)
		fmt.Printf("Expiry:       %v\n", expiry)
		fmt.Printf("\n📋 Access Token:\n%s\n", token)
		fmt.Printf("───────────────────────────────────────────────────────────────\n\n")
	}

	log.Println("💡 Usage: set header Authorization: Bearer <access_token>")
}
