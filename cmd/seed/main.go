// seed inserts test users, friendships, and invitations into the local
// dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dentalking/geulpi-calendar/internal/infrastructure/postgres"
)

type userSpec struct {
	id    string
	email string
	name  string
}

var users = []userSpec{
	{"seed-alice", "alice@test.local", "Alice"},
	{"seed-bob", "bob@test.local", "Bob"},
	{"seed-carol", "carol@test.local", "Carol"},
}

type invitationSpec struct {
	code         string
	inviterID    string
	inviteeEmail string
	message      string
	status       string
	createdAgo   time.Duration
}

var invitations = []invitationSpec{
	// Fresh and pending — resolves normally
	{"seedcode-fresh-000000000000000a", "seed-alice", "dave@test.local", "join my calendar", "pending", time.Hour},
	{"seedcode-fresh-000000000000000b", "seed-bob", "erin@test.local", "", "pending", 2 * time.Hour},

	// Past the 7-day window — lookup flips these to expired
	{"seedcode-stale-000000000000000a", "seed-alice", "frank@test.local", "old invite", "pending", 8 * 24 * time.Hour},
	{"seedcode-stale-000000000000000b", "seed-carol", "grace@test.local", "", "pending", 30 * 24 * time.Hour},

	// Terminal states
	{"seedcode-used-0000000000000000a", "seed-bob", "carol@test.local", "", "accepted", 3 * 24 * time.Hour},
	{"seedcode-gone-0000000000000000a", "seed-alice", "heidi@test.local", "", "revoked", 24 * time.Hour},
}

type activitySpec struct {
	userID  string
	summary string
	ago     time.Duration
}

var activity = []activitySpec{
	{"seed-bob", "added 3 events to Team Offsite", 2 * time.Hour},
	{"seed-carol", "shared calendar \"Book Club\"", 5 * time.Hour},
	{"seed-bob", "RSVP'd to Quarterly Review", 30 * time.Hour}, // outside the 24h window
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
	defer pool.Close()

	for _, u := range users {
		_, err := pool.Exec(ctx, `
			INSERT INTO users (id, email, name)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO UPDATE SET updated_at = NOW()`,
			u.id, u.email, u.name,
		)
		if err != nil {
			log.Fatalf("seed user %s: %v", u.id, err)
		}
	}

	// Everyone is friends with alice so her login brief has friend
	// updates to show.
	for _, friendID := range []string{"seed-bob", "seed-carol"} {
		_, err := pool.Exec(ctx, `
			INSERT INTO friendships (user_id, friend_id)
			VALUES ($1, $2)
			ON CONFLICT DO NOTHING`,
			"seed-alice", friendID,
		)
		if err != nil {
			log.Fatalf("seed friendship: %v", err)
		}
	}

	for _, a := range activity {
		_, err := pool.Exec(ctx, `
			INSERT INTO friend_activity (user_id, summary, created_at)
			VALUES ($1, $2, NOW() - $3::interval)`,
			a.userID, a.summary, a.ago,
		)
		if err != nil {
			log.Fatalf("seed activity: %v", err)
		}
	}

	for _, inv := range invitations {
		_, err := pool.Exec(ctx, `
			INSERT INTO invitations (code, inviter_id, invitee_email, message, status, created_at)
			VALUES ($1, $2, $3, $4, $5, NOW() - $6::interval)
			ON CONFLICT (code) DO NOTHING`,
			inv.code, inv.inviterID, inv.inviteeEmail, inv.message, inv.status, inv.createdAgo,
		)
		if err != nil {
			log.Fatalf("seed invitation %s: %v", inv.code, err)
		}
	}

	fmt.Printf("seeded %d users, %d invitations, %d activity rows\n", len(users), len(invitations), len(activity))
}
