package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/junaidrashid-git/cafe-api/config"
	"github.com/junaidrashid-git/cafe-api/database"
	"github.com/junaidrashid-git/cafe-api/menu"
	"github.com/junaidrashid-git/cafe-api/models"
	"github.com/junaidrashid-git/cafe-api/repository"
)

func main() {
	var (
		file   = flag.String("file", "", "menu .xlsx to import (as written by GET /menu/export); built-in demo menu when empty")
		driver = flag.String("driver", "", "override DB_DRIVER")
		dsn    = flag.String("dsn", "", "override DB_DSN")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *driver != "" {
		cfg.DBDriver = *driver
	}
	if *dsn != "" {
		cfg.DBDSN = *dsn
	}

	store, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to connect to %s: %v", cfg.DBDriver, err)
	}
	defer store.Close()

	if err := store.Migrate(); err != nil {
		log.Fatalf("failed to migrate schema: %v", err)
	}

	ctx := context.Background()
	products := repository.NewGormRepository[models.Product](store.DB)

	if *file != "" {
		workbook, err := menu.OpenFile(*file)
		if err != nil {
			log.Fatalf("failed to read menu: %v", err)
		}
		res, err := menu.Import(ctx, products, workbook)
		if err != nil {
			log.Fatalf("failed to import menu: %v", err)
		}
		log.Printf("menu imported: created=%d updated=%d skipped=%d", res.Created, res.Updated, res.Skipped)
	} else {
		created, err := SeedDemo(ctx, store.DB)
		if err != nil {
			log.Fatalf("failed to seed demo menu: %v", err)
		}
		log.Printf("demo menu ready (%d new products)", created)
	}

	all, err := products.List(ctx)
	if err != nil {
		log.Fatalf("failed to list menu: %v", err)
	}
	if err := PrintMenu(os.Stdout, all); err != nil {
		log.Fatalf("failed to print menu: %v", err)
	}
}
