package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	"github.com/totempos/kiosk/internal/config"
	"github.com/totempos/kiosk/internal/storeserver"
)

func main() {
	godotenv.Load()
	cfg := config.Load()

	db, err := storeserver.OpenDB(cfg.DatabasePath)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	hub := storeserver.NewHub()
	go hub.Run()

	srv := storeserver.NewServer(db, hub)

	log.Printf("Starting shared order store on :%s (db %s)", cfg.Port, cfg.DatabasePath)
	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), srv.Router()); err != nil {
		log.Fatal(err)
	}
}
