package main

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/totempos/kiosk/internal/config"
	"github.com/totempos/kiosk/internal/station"
	"github.com/totempos/kiosk/internal/store"
)

// The prep runner hosts the kitchen station: it mirrors the active
// collection and exposes the Prep coordinator to the attached board
// renderer.
func main() {
	godotenv.Load()
	cfg := config.Load()

	stationID := cfg.StationID
	if stationID == "" {
		stationID = "prep-" + uuid.NewString()
	}

	client := store.NewClient(cfg.StoreURL, stationID)
	client.PollInterval = cfg.PollInterval

	prep := station.NewPrep(client)

	ctx := context.Background()
	if err := prep.Refresh(ctx); err != nil {
		log.Printf("ERROR: initial refresh: %v", err)
	}

	events, err := client.Subscribe(ctx)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("Prep station %s up, store %s", stationID, cfg.StoreURL)
	for ev := range events {
		if ev.Key != store.KeyActiveOrders {
			continue
		}
		if err := prep.Refresh(ctx); err != nil {
			log.Printf("ERROR: refresh: %v", err)
			continue
		}
		for _, o := range prep.Orders() {
			log.Printf("board: %s %s [%s]", o.CreatedAt, o.CustomerName, o.Status)
		}
	}
	log.Print("store subscription ended")
}
