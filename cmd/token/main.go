package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shitcoingarden/garden.go/lib/garden"
	"github.com/shitcoingarden/garden.go/lib/tokens"
)

type tokenConfig struct {
	JWTSecret            []byte `envconfig:"JWT_SECRET" required:"true"`
	JWTAccessTokenExpiry int    `envconfig:"JWT_ACCESS_EXPIRY" default:"172800"`
	AddressPrefix        string `envconfig:"ADDRESS_PREFIX" default:"neutron"`
}

// Mints a caller token for local testing:
//
//	go run ./cmd/token neutron1...
func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <address>", os.Args[0])
	}
	address := os.Args[1]

	err := godotenv.Load(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load .env file")
	}
	c := &tokenConfig{}
	if err = envconfig.Process("", c); err != nil {
		log.Fatalf("Error loading environment variables: %v", err)
	}
	if err = (garden.Bech32Validator{Prefix: c.AddressPrefix}).ValidateAddress(address); err != nil {
		log.Fatal(err)
	}
	token, err := tokens.GenerateAccessToken(c.JWTSecret, c.JWTAccessTokenExpiry, address)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}
