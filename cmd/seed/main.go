// seed inserts a test user and a batch of bookmarks into the local dev
// database. Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/bookmarks-rocks/api/internal/infrastructure/postgres"
	"golang.org/x/crypto/bcrypt"
)

const (
	seedEmail    = "seed@test.local"
	seedPassword = "seed-password"
)

var urls = []string{
	// Real pages — the enricher should pick these up and fill in titles
	"https://go.dev/blog/error-handling-and-go",
	"https://go.dev/blog/context",
	"https://go.dev/doc/effective_go",
	"https://www.postgresql.org/docs/current/sql-insert.html",
	"https://redis.io/docs/latest/",

	// Will fail enrichment — unreachable hosts
	"https://nonexistent.invalid/page",
	"https://also-not-a-host.invalid/",

	// Slow page — may hit the fetch timeout depending on config
	"https://httpbin.org/delay/35",
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set — run: direnv allow")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		pool.Close()
		log.Fatalf("hash password: %v", err)
	}

	// Upsert test user
	var userID string
	err = pool.QueryRow(ctx, `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		ON CONFLICT (email) DO UPDATE SET updated_at = NOW()
		RETURNING id`,
		seedEmail, string(hash),
	).Scan(&userID)
	if err != nil {
		pool.Close()
		log.Fatalf("upsert user: %v", err)
	}

	// Insert bookmarks, skip any that already exist (idempotent re-runs)
	var inserted, skipped int
	var bookmarkIDs []string

	for _, u := range urls {
		var id string
		err := pool.QueryRow(ctx, `
			INSERT INTO bookmarks (user_id, url, fetch_state)
			VALUES ($1, $2, 'pending')
			ON CONFLICT (user_id, url) DO NOTHING
			RETURNING id`,
			userID, u,
		).Scan(&id)
		if err != nil {
			pool.Close()
			log.Fatalf("insert bookmark %s: %v", u, err)
		}
		if id == "" {
			skipped++
		} else {
			bookmarkIDs = append(bookmarkIDs, id)
			inserted++
		}
	}

	pool.Close()

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  User:              %s / %s\n", seedEmail, seedPassword)
	fmt.Printf("  User ID:           %s\n", userID)
	fmt.Printf("  Bookmarks created: %d  (skipped %d already existing)\n", inserted, skipped)
	fmt.Println()

	if len(bookmarkIDs) > 0 {
		fmt.Println("  Sample bookmark IDs:")
		limit := 5
		if len(bookmarkIDs) < limit {
			limit = len(bookmarkIDs)
		}
		for _, id := range bookmarkIDs[:limit] {
			fmt.Printf("    %s\n", id)
		}
	}

	fmt.Println()
	fmt.Println("How to test:")
	fmt.Println()
	fmt.Println("  Step 1 — get a JWT for the seed user:")
	fmt.Println()
	fmt.Printf("    curl -s -X POST http://localhost:8080/users/token \\\n")
	fmt.Printf("      -H 'Content-Type: application/json' \\\n")
	fmt.Printf("      -d '{\"email\":\"%s\",\"password\":\"%s\"}'\n", seedEmail, seedPassword)
	fmt.Println("    # → {\"token\":\"eyJ...\"}")
	fmt.Println()
	fmt.Println("  Step 2 — list bookmarks:")
	fmt.Println()
	fmt.Println("    export JWT=eyJ...")
	fmt.Println("    curl -s http://localhost:8080/bookmarks -H \"Authorization: Bearer $JWT\"")
	fmt.Println()
	fmt.Println("  Step 3 — start the enricher and watch titles fill in:")
	fmt.Println()
	fmt.Println("    go run ./cmd/enricher")
	fmt.Println()
	fmt.Println("  What to expect:")
	fmt.Println("    go.dev / postgresql.org / redis.io  →  title + description populated")
	fmt.Println("    *.invalid                           →  fetch_state = failed")
	fmt.Println("    httpbin delay                       →  failed once the fetch timeout fires")
}
