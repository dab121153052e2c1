package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"hanbridge/config"
	"hanbridge/db"
	"hanbridge/models"
	"hanbridge/services"
)

func main() {
	// Parse command line flags
	count := flag.Int("count", 5, "Number of problems to generate")
	field := flag.String("field", "일상", "Topic field for the problems")
	difficulty := flag.String("difficulty", "중", "Difficulty tier: 하, 중 or 상")
	prompt := flag.String("prompt", "", "Optional custom generation prompt")
	configPath := flag.String("config", "config/config.prod.yml", "Path to config file")
	flag.Parse()

	tier := models.Difficulty(*difficulty)
	if tier != models.DifficultyLow && tier != models.DifficultyMid && tier != models.DifficultyHigh {
		fmt.Println("Error: difficulty must be 하, 중 or 상")
		os.Exit(1)
	}

	// Load config
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := services.InitAIServices(cfg); err != nil {
		log.Fatalf("Failed to initialize AI services: %v", err)
	}

	// Connect to MongoDB
	if err := db.ConnectMongoDB(cfg.Database.URI); err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer db.MongoClient.Disconnect(context.Background())

	problems := services.GenerateProblems(context.Background(), *count, *field, tier, *prompt)
	if len(problems) == 0 {
		log.Fatal("No problems generated")
	}

	if err := db.InsertProblems(context.Background(), problems); err != nil {
		log.Fatalf("Failed to store problems: %v", err)
	}

	fmt.Printf("Stored %d problems (field=%s, difficulty=%s)\n", len(problems), *field, tier)
	for _, p := range problems {
		fmt.Printf("  %s: %s\n", p.ID, p.Korean)
	}
}
