package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"
	"github.com/moneytrack-io/moneytrack/internal/api"
	"github.com/moneytrack-io/moneytrack/internal/config"
	"github.com/moneytrack-io/moneytrack/internal/database"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "app.yml", "Path to configuration file")
	flag.Parse()

	// Local .env support; absence is not an error.
	_ = godotenv.Load()

	log.Printf("Starting MoneyTrack API v%s with config: %s", version, *configPath)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Open(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	a := api.NewApi(*cfg, db)
	log.Fatal(a.Serve())
}
