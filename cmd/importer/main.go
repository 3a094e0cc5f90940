package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"arayesh-shop/internal/config"
	"arayesh-shop/internal/db"
	"arayesh-shop/internal/importer"
	"arayesh-shop/internal/repository/brand"
	"arayesh-shop/internal/repository/category"
	"arayesh-shop/internal/repository/product"
	"github.com/spf13/pflag"
)

func main() {
	logger := log.New(os.Stdout, "[importer] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	var filePath string
	flags := pflag.NewFlagSet("importer", pflag.ExitOnError)
	flags.StringVarP(&filePath, "file", "f", "", "Path to the product CSV export")
	flags.String("config", "", "config file (YAML, TOML or JSON)")
	_ = flags.Parse(os.Args[1:])

	if filePath == "" {
		flags.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		logger.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f,
		product.NewPostgres(pool, logger),
		category.NewPostgres(pool, logger),
		brand.NewPostgres(pool, logger),
		logger,
	)

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		logger.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d products from %s in %s\n", count, filePath, time.Since(start).Truncate(time.Millisecond))
}
