package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	modelIDs := seedModels(ctx, pool)
	serviceIDs := seedServices(ctx, pool)
	optionIDs := seedOptions(ctx, pool, serviceIDs)
	seedOverrides(ctx, pool, modelIDs, serviceIDs, optionIDs)
	seedComboRules(ctx, pool, serviceIDs)

	log.Println("Seeding completed successfully!")
}

func seedModels(ctx context.Context, pool *pgxpool.Pool) map[string]string {
	models := []struct {
		Slug  string
		Name  string
		Order int
	}{
		{"dualsense", "DualSense", 1},
		{"dualsense-edge", "DualSense Edge", 2},
		{"xbox-series", "Xbox Series Controller", 3},
		{"xbox-elite-2", "Xbox Elite Series 2", 4},
		{"joycon-pair", "Joy-Con Pair", 5},
		{"switch-pro", "Switch Pro Controller", 6},
	}

	fmt.Println("Seeding Controller Models...")
	ids := make(map[string]string, len(models))
	for _, m := range models {
		var id string
		err := pool.QueryRow(ctx, `
			INSERT INTO controller_models (slug, name, active, display_order)
			VALUES ($1, $2, TRUE, $3)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, display_order = EXCLUDED.display_order
			RETURNING id;
		`, m.Slug, m.Name, m.Order).Scan(&id)
		if err != nil {
			log.Printf("Failed to seed model %s: %v", m.Slug, err)
			continue
		}
		ids[m.Slug] = id
	}
	return ids
}

func seedServices(ctx context.Context, pool *pgxpool.Pool) map[string]string {
	services := []struct {
		Slug  string
		Name  string
		Price int64
		Order int
	}{
		{"hall-effect-sticks", "Hall Effect Stick Replacement", 25000, 1},
		{"clicky-buttons", "Clicky Button Mod", 25000, 2},
		{"back-buttons", "Back Button Install", 20000, 3},
		{"shell-swap", "Custom Shell Swap", 30000, 4},
		{"battery-replacement", "Battery Replacement", 15000, 5},
		{"deep-clean", "Deep Clean & Relube", 10000, 6},
	}

	fmt.Println("Seeding Repair Services...")
	ids := make(map[string]string, len(services))
	for _, s := range services {
		var id string
		err := pool.QueryRow(ctx, `
			INSERT INTO repair_services (slug, name, base_price, active, display_order)
			VALUES ($1, $2, $3, TRUE, $4)
			ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, base_price = EXCLUDED.base_price
			RETURNING id;
		`, s.Slug, s.Name, s.Price, s.Order).Scan(&id)
		if err != nil {
			log.Printf("Failed to seed service %s: %v", s.Slug, err)
			continue
		}
		ids[s.Slug] = id
	}
	return ids
}

func seedOptions(ctx context.Context, pool *pgxpool.Pool, serviceIDs map[string]string) map[string]string {
	options := []struct {
		Service string
		Name    string
		Price   int64
		Order   int
	}{
		{"hall-effect-sticks", "Standard Modules", 0, 1},
		{"hall-effect-sticks", "TMR Premium Modules", 15000, 2},
		{"clicky-buttons", "Face Buttons Only", 0, 1},
		{"clicky-buttons", "Full Set Including Triggers", 10000, 2},
		{"shell-swap", "Solid Colour", 0, 1},
		{"shell-swap", "Transparent", 5000, 2},
		{"shell-swap", "Custom Print", 12000, 3},
	}

	fmt.Println("Seeding Service Options...")
	ids := make(map[string]string, len(options))
	for _, o := range options {
		serviceID, ok := serviceIDs[o.Service]
		if !ok {
			log.Printf("Missing service ID for %s", o.Service)
			continue
		}
		var id string
		err := pool.QueryRow(ctx, `
			INSERT INTO service_options (service_id, name, additional_price, active, display_order)
			VALUES ($1, $2, $3, TRUE, $4)
			ON CONFLICT (service_id, name) DO UPDATE SET additional_price = EXCLUDED.additional_price, display_order = EXCLUDED.display_order
			RETURNING id;
		`, serviceID, o.Name, o.Price, o.Order).Scan(&id)
		if err != nil {
			log.Printf("Failed to seed option %s/%s: %v", o.Service, o.Name, err)
			continue
		}
		ids[o.Service+"/"+o.Name] = id
	}
	return ids
}

func seedOverrides(ctx context.Context, pool *pgxpool.Pool, modelIDs, serviceIDs, optionIDs map[string]string) {
	overrides := []struct {
		Model      string
		TargetType string
		TargetKey  string
		Price      int64
	}{
		// Joy-Cons are smaller boards; stick work is cheaper, shell work pricier.
		{"joycon-pair", "service", "hall-effect-sticks", 20000},
		{"joycon-pair", "service", "shell-swap", 35000},
		// The Edge ships with removable stick modules.
		{"dualsense-edge", "service", "hall-effect-sticks", 18000},
		{"dualsense-edge", "option", "hall-effect-sticks/TMR Premium Modules", 12000},
		// Elite 2 has a notoriously fiddly battery.
		{"xbox-elite-2", "service", "battery-replacement", 22000},
	}

	fmt.Println("Seeding Price Overrides...")
	for _, ov := range overrides {
		modelID, ok := modelIDs[ov.Model]
		if !ok {
			log.Printf("Missing model ID for %s", ov.Model)
			continue
		}
		var targetID string
		switch ov.TargetType {
		case "service":
			targetID, ok = serviceIDs[ov.TargetKey]
		case "option":
			targetID, ok = optionIDs[ov.TargetKey]
		}
		if !ok || targetID == "" {
			log.Printf("Missing target ID for %s %s", ov.TargetType, ov.TargetKey)
			continue
		}
		_, err := pool.Exec(ctx, `
			INSERT INTO price_overrides (model_id, target_type, target_id, price)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (model_id, target_type, target_id) DO UPDATE SET price = EXCLUDED.price;
		`, modelID, ov.TargetType, targetID, ov.Price)
		if err != nil {
			log.Printf("Failed to seed override %s/%s: %v", ov.Model, ov.TargetKey, err)
		}
	}
}

func seedComboRules(ctx context.Context, pool *pgxpool.Pool, serviceIDs map[string]string) {
	rules := []struct {
		Name          string
		Description   string
		MatchKind     string
		Required      []string
		MinCount      int
		DiscountType  string
		DiscountValue int64
		Order         int
	}{
		{
			Name:          "Stick & Button Pair",
			Description:   "Hall effect sticks and clicky buttons done in one teardown",
			MatchKind:     "exact",
			Required:      []string{"hall-effect-sticks", "clicky-buttons"},
			DiscountType:  "percentage",
			DiscountValue: 10,
			Order:         1,
		},
		{
			Name:          "Fresh Shell Bundle",
			Description:   "Shell swap plus deep clean",
			MatchKind:     "exact",
			Required:      []string{"shell-swap", "deep-clean"},
			DiscountType:  "fixed",
			DiscountValue: 5000,
			Order:         2,
		},
		{
			Name:          "Full Overhaul",
			Description:   "Any three or more services",
			MatchKind:     "count_threshold",
			MinCount:      3,
			DiscountType:  "fixed",
			DiscountValue: 8000,
			Order:         3,
		},
	}

	fmt.Println("Seeding Combo Rules...")
	for _, rule := range rules {
		required := make([]string, 0, len(rule.Required))
		missing := false
		for _, slug := range rule.Required {
			id, ok := serviceIDs[slug]
			if !ok {
				log.Printf("Missing service ID for combo %s: %s", rule.Name, slug)
				missing = true
				break
			}
			required = append(required, id)
		}
		if missing {
			continue
		}
		var minCount any
		if rule.MinCount > 0 {
			minCount = rule.MinCount
		}
		_, err := pool.Exec(ctx, `
			INSERT INTO combo_rules (name, description, match_kind, required_service_ids, min_count, discount_type, discount_value, active, display_order)
			VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE, $8)
			ON CONFLICT (name) DO UPDATE SET
				description = EXCLUDED.description,
				match_kind = EXCLUDED.match_kind,
				required_service_ids = EXCLUDED.required_service_ids,
				min_count = EXCLUDED.min_count,
				discount_type = EXCLUDED.discount_type,
				discount_value = EXCLUDED.discount_value,
				display_order = EXCLUDED.display_order;
		`, rule.Name, rule.Description, rule.MatchKind, required, minCount, rule.DiscountType, rule.DiscountValue, rule.Order)
		if err != nil {
			log.Printf("Failed to seed combo rule %s: %v", rule.Name, err)
		}
	}
}
