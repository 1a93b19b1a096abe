// sla-sweep re-materializes the overdue flags on deadlines and submissions.
// Run it from cron; the API never trusts the materialized flags for
// classification, so a delayed sweep only leaves the dashboards stale.
package main

import (
	"log"
	"time"

	"journal-management-api/config"
	"journal-management-api/services"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	config.InitDB()

	start := time.Now()
	if err := services.RefreshOverdueFlags(config.DB, start); err != nil {
		log.Fatalf("overdue sweep failed: %v", err)
	}
	log.Printf("overdue sweep completed in %s", time.Since(start))
}
