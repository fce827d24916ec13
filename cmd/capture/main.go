package main

import (
	"context"
	"log"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/totempos/kiosk/internal/config"
	"github.com/totempos/kiosk/internal/menu"
	"github.com/totempos/kiosk/internal/station"
	"github.com/totempos/kiosk/internal/store"
)

// The capture runner hosts the order-taking station: it loads the catalog,
// keeps the shared-store view fresh, and exposes the Capture coordinator to
// the attached rendering layer.
func main() {
	godotenv.Load()
	cfg := config.Load()

	stationID := cfg.StationID
	if stationID == "" {
		stationID = "capture-" + uuid.NewString()
	}

	client := store.NewClient(cfg.StoreURL, stationID)
	client.PollInterval = cfg.PollInterval

	m := menu.LoadOrDefault(cfg.MenuPath)
	capture := station.NewCapture(client, m)

	ctx := context.Background()
	if err := capture.Refresh(ctx); err != nil {
		log.Printf("ERROR: initial refresh: %v", err)
	}

	events, err := client.Subscribe(ctx)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("Capture station %s up, store %s, %d categories", stationID, cfg.StoreURL, len(m.Categories))
	for ev := range events {
		if ev.Key != store.KeyActiveOrders {
			continue
		}
		if err := capture.Refresh(ctx); err != nil {
			log.Printf("ERROR: refresh: %v", err)
			continue
		}
		log.Printf("active orders: %d", len(capture.Orders()))
	}
	log.Print("store subscription ended")
}
