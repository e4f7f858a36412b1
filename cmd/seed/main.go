// Command seed resets the data layer: it writes the knowledge base JSON file
// and rebuilds the tickets database with sample rows for demos and testing.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/supportpilot/supportpilot/pkg/config"
	"github.com/supportpilot/supportpilot/pkg/db"
	"github.com/supportpilot/supportpilot/pkg/identity"
	"github.com/supportpilot/supportpilot/pkg/kb"
	"github.com/supportpilot/supportpilot/pkg/tickets"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load("supportpilot.yaml")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.KBPath), 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	writeKnowledgeBase(cfg.KBPath)
	seedTickets(cfg.DBPath)

	log.Println("Data layer initialized.")
}

func writeKnowledgeBase(path string) {
	data, err := json.MarshalIndent(kb.SeedArticles(), "", "    ")
	if err != nil {
		log.Fatalf("Failed to marshal knowledge base: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		log.Fatalf("Failed to write knowledge base: %v", err)
	}
	log.Printf("Knowledge base written: %s (%d articles)", path, len(kb.SeedArticles()))
}

func seedTickets(path string) {
	// Factory reset: drop any previous database file.
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove old database: %v", err)
	}

	sqlDB, err := db.Open(path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer sqlDB.Close()

	if err := db.Migrate(sqlDB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Tickets table is ready.")

	ctx := context.Background()
	store := tickets.NewStore(sqlDB, nil)
	agent := identity.User{ID: "seed", Role: identity.RoleServiceDesk}

	samples := []struct {
		owner       string
		description string
		priority    tickets.Priority
		status      tickets.Status
	}{
		{"user_123", "Laptop screen flickering", tickets.PriorityNormal, tickets.StatusOpen},
		{"user_123", "Need access to Marketing folder", tickets.PriorityLow, tickets.StatusClosed},
		{"user_456", "Wifi not working on 2nd floor", tickets.PriorityHigh, tickets.StatusInProgress},
	}
	for _, s := range samples {
		id, err := store.Create(ctx, s.owner, s.description, s.priority)
		if err != nil {
			log.Fatalf("Failed to seed ticket: %v", err)
		}
		if s.status != tickets.StatusOpen {
			if _, err := store.UpdateStatus(ctx, id, string(s.status), agent); err != nil {
				log.Fatalf("Failed to set seed ticket status: %v", err)
			}
		}
	}
	log.Printf("Ticket database seeded: %s (%d tickets)", path, len(samples))
}
