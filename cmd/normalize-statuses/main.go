// Migration script that folds legacy event status labels into the governance states.
// cmd/normalize-statuses/main.go
package main

import (
	"flag"
	"log"

	"campus-governance-api/config"
	"campus-governance-api/models"
	"campus-governance-api/utils"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "only report what would change")
	flag.Parse()

	if err := config.Load(); err != nil {
		log.Fatal("Invalid configuration:", err)
	}
	config.InitDB()

	var events []models.Event
	if err := config.DB.Find(&events).Error; err != nil {
		log.Fatal("Failed to fetch events:", err)
	}

	changed, unknown := 0, 0
	for _, event := range events {
		if utils.IsGovernanceStatus(event.Status) {
			continue
		}

		status, ok := utils.CanonicalEventStatus(event.Status)
		if !ok {
			log.Printf("Event %d has unknown status %q, skipping\n", event.EventID, event.Status)
			unknown++
			continue
		}

		updates := map[string]interface{}{"status": status.Governance}
		if status.Display != "" && event.DisplayStatus == "" {
			updates["display_status"] = status.Display
		}

		if *dryRun {
			log.Printf("Event %d: %q -> %v\n", event.EventID, event.Status, updates)
			changed++
			continue
		}

		if err := config.DB.Model(&models.Event{}).
			Where("event_id = ? AND status = ?", event.EventID, event.Status).
			Updates(updates).Error; err != nil {
			log.Printf("Failed to update event %d: %v\n", event.EventID, err)
			continue
		}

		log.Printf("Event %d: %q -> %s\n", event.EventID, event.Status, status.Governance)
		changed++
	}

	log.Printf("Status normalization completed: %d changed, %d unknown\n", changed, unknown)
}
