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

// The settlement runner hosts the cashier station: READY orders awaiting
// finalization plus the running day totals.
func main() {
	godotenv.Load()
	cfg := config.Load()

	stationID := cfg.StationID
	if stationID == "" {
		stationID = "settlement-" + uuid.NewString()
	}

	client := store.NewClient(cfg.StoreURL, stationID)
	client.PollInterval = cfg.PollInterval

	settlement := station.NewSettlement(client)

	ctx := context.Background()
	if err := settlement.Refresh(ctx); err != nil {
		log.Printf("ERROR: initial refresh: %v", err)
	}

	events, err := client.Subscribe(ctx)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("Settlement station %s up, store %s", stationID, cfg.StoreURL)
	for range events {
		// History changes move the revenue figure, so both keys refresh.
		if err := settlement.Refresh(ctx); err != nil {
			log.Printf("ERROR: refresh: %v", err)
			continue
		}
		sum, err := settlement.Summarize(ctx)
		if err != nil {
			log.Printf("ERROR: summarize: %v", err)
			continue
		}
		log.Printf("ready: %d, completed: %d, revenue: %s",
			sum.ReadyCount, sum.CompletedCount, sum.Revenue.StringFixed(2))
	}
	log.Print("store subscription ended")
}
