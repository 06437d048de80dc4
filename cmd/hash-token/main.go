package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/playmatatu/billiards/internal/auth"
)

// Prints the OPERATOR_TOKEN_HASH value for a plain operator token, read from
// the first argument or OPERATOR_TOKEN.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	token := os.Getenv("OPERATOR_TOKEN")
	if len(os.Args) > 1 {
		token = os.Args[1]
	}
	if token == "" {
		log.Fatal("usage: hash-token <operator-token> (or set OPERATOR_TOKEN)")
	}
	if len(token) < 12 {
		log.Printf("WARNING: operator token is short; use at least 12 characters in production")
	}

	hash, err := auth.HashOperatorToken(token)
	if err != nil {
		log.Fatalf("Failed to hash token: %v", err)
	}

	fmt.Printf("OPERATOR_TOKEN_HASH=%s\n", hash)
}
