package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"arayesh-shop/internal/config"
	"arayesh-shop/internal/db"
	"arayesh-shop/internal/migrate"
	"github.com/spf13/pflag"
)

func main() {
	logger := log.New(os.Stdout, "[migrate] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	flags := pflag.NewFlagSet("migrate", pflag.ExitOnError)
	flags.String("config", "", "config file (YAML, TOML or JSON)")
	flags.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: migrate [--config file] [up|down|version]\n")
		flags.PrintDefaults()
	}
	_ = flags.Parse(os.Args[1:])

	command := "up"
	if flags.NArg() > 0 {
		command = flags.Arg(0)
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

	switch command {
	case "up":
		if err := migrate.Apply(ctx, pool); err != nil {
			logger.Fatalf("apply migrations: %v", err)
		}
		logger.Println("migrations applied")
	case "down":
		if err := migrate.Down(ctx, pool); err != nil {
			logger.Fatalf("revert migrations: %v", err)
		}
		logger.Println("migrations reverted")
	case "version":
		version, dirty, ok, err := migrate.Version(ctx, pool)
		if err != nil {
			logger.Fatalf("read version: %v", err)
		}
		if !ok {
			logger.Println("no migration applied")
			return
		}
		logger.Printf("version=%d dirty=%t", version, dirty)
	default:
		flags.Usage()
		pool.Close()
		os.Exit(2)
	}
}
