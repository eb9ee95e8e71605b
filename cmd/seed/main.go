// cmd/seed/main.go
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/kiranalabs/restock/internal/repository/postgres"
	"github.com/kiranalabs/restock/internal/seasonal"
	"github.com/kiranalabs/restock/internal/service"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	db, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*sql.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) *sql.DB {
	db, _ := c.Context.Value(dbKey).(*sql.DB)
	return db
}

func runInitDB(c *cli.Context) error {
	if err := postgres.ApplySchema(c.Context, dbFrom(c)); err != nil {
		return err
	}
	log.Println("database schema applied")
	return nil
}

func runSeedFestivals(c *cli.Context) error {
	db := postgres.NewDBFromSQL(dbFrom(c), "pgx")
	provider := seasonal.NewProvider(postgres.NewFestivalRepository(db))

	year := c.Int("year")
	if year == 0 {
		year = time.Now().Year()
	}

	added, err := provider.SeedDefaults(c.Context, year)
	if err != nil {
		return err
	}
	log.Printf("seeded %d festivals for %d", added, year)
	return nil
}

func runLoadSales(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("usage: seed load-sales <file.csv|file.xlsx>")
	}
	path := c.Args().First()

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	db := postgres.NewDBFromSQL(dbFrom(c), "pgx")
	uploads := service.NewUploadService(
		postgres.NewStoreRepository(db),
		postgres.NewSKURepository(db),
		postgres.NewSalesRepository(db),
		nil, // no archive from the CLI
		nil, // no pipeline trigger; run forecasts through the API
	)

	report, err := uploads.Process(c.Context, path, data)
	if err != nil {
		return err
	}

	log.Printf("loaded %s: %d rows processed, %d rows failed", path, report.RowsProcessed, report.RowsFailed)
	for _, msg := range report.Errors {
		log.Printf("  %s", msg)
	}
	return nil
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "seed",
		Usage: "Initialize and seed the restock database",
		Commands: []*cli.Command{
			{
				Name:   "init-db",
				Usage:  "Create all tables and indexes",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runInitDB,
			},
			{
				Name:  "seed-festivals",
				Usage: "Load the default India festival calendar",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.IntFlag{
						Name:  "year",
						Usage: "Calendar year to seed (default: current year)",
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runSeedFestivals,
			},
			{
				Name:      "load-sales",
				Usage:     "Ingest a sales CSV/XLSX file directly",
				ArgsUsage: "<file>",
				Flags:     []cli.Flag{newDBURLFlag()},
				Before:    initDB,
				After:     closeDB,
				Action:    runLoadSales,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
