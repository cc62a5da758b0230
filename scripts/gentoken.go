//go:build ignore

// Prints a console session token for local development.
//
//	JWT_SECRET=dev go run scripts/gentoken.go -user 7 -role RECRUITER
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"thinqor-ats/pkg/auth"
)

func main() {
	userID := flag.Int64("user", 1, "user id placed in the sub claim")
	role := flag.String("role", "RECRUITER", "role claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	secret := os.Getenv("JWT_SECRET")
	token, err := auth.IssueToken(secret, auth.Identity{UserID: *userID, Role: *role}, *ttl)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	fmt.Printf("User: %d\nRole: %s\nToken: %s\n", *userID, *role, token)
}
