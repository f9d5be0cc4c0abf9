// Command import loads a YAML feast list into the SQLite database, or
// exports the stored table back to YAML.
//
// Usage:
//
//	go run ./cmd/import -yaml data/feasts.yaml -db data/coptic.db
//	go run ./cmd/import -db data/coptic.db -export data/feasts.yaml
//	go run ./cmd/import -defaults -export data/feasts.yaml
//
// Importing replaces the whole stored table in one transaction.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/zapponejosh/coptic-calendar-api/internal/calendar"
	"github.com/zapponejosh/coptic-calendar-api/internal/database"
	"github.com/zapponejosh/coptic-calendar-api/internal/feasts"
	"github.com/zapponejosh/coptic-calendar-api/internal/logger"
)

type options struct {
	yamlPath   string
	dbPath     string
	exportPath string
	defaults   bool
}

func main() {
	var opts options
	flag.StringVar(&opts.yamlPath, "yaml", "", "YAML feast file to import")
	flag.StringVar(&opts.dbPath, "db", "data/coptic.db", "Path to SQLite database")
	flag.StringVar(&opts.exportPath, "export", "", "Write the feast table to this YAML file instead of importing")
	flag.BoolVar(&opts.defaults, "defaults", false, "With -export, write the built-in table without opening the database")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	log := logger.New(os.Stdout, level, "text")

	if err := run(context.Background(), opts, log); err != nil {
		log.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, log *slog.Logger) error {
	start := time.Now()

	if opts.yamlPath == "" && opts.exportPath == "" {
		return errors.New("nothing to do: pass -yaml to import or -export to export")
	}

	if opts.defaults {
		if opts.exportPath == "" {
			return errors.New("-defaults requires -export")
		}
		if err := feasts.WriteFile(opts.exportPath, calendar.DefaultFeasts()); err != nil {
			return err
		}
		log.Info("wrote built-in feasts", slog.String("path", opts.exportPath))
		return nil
	}

	db, err := database.Open(database.DefaultConfig(opts.dbPath), log)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	store := feasts.NewStore(db, log)
	if err := store.Reload(ctx); err != nil {
		return err
	}

	if opts.exportPath != "" {
		table := store.Table()
		if err := feasts.WriteFile(opts.exportPath, table); err != nil {
			return err
		}
		log.Info("export complete",
			slog.String("path", opts.exportPath),
			slog.Int("feasts", table.Len()),
		)
		return nil
	}

	n, err := store.ImportFile(ctx, opts.yamlPath)
	if err != nil {
		return err
	}

	stats, err := db.FeastStats(ctx)
	if err != nil {
		return err
	}
	log.Info("import complete",
		slog.Int("feasts", n),
		slog.Any("by_kind", stats.ByKind),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}
