package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"

	"customer-accounts/internal/config"
	"customer-accounts/internal/customer"
	"customer-accounts/internal/database"
	"customer-accounts/internal/importer"
	"customer-accounts/internal/logging"
)

// Bulk loader for pre-existing customer records. Runs out-of-band from the
// request-serving process and shares no transaction scope with it.
func main() {
	var (
		filePath  string
		chunkSize int
	)
	flag.StringVar(&filePath, "file", "", "path to the JSON-lines customer export")
	flag.IntVar(&chunkSize, "chunk", importer.DefaultChunkSize, "rows per insert batch")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(filePath, chunkSize); err != nil {
		log.Fatalf("Import error: %v", err)
	}
}

func run(filePath string, chunkSize int) error {
	dbCfg := config.LoadDatabase()
	logger := logging.NewLogger(true)

	sqlDB, err := sql.Open("postgres", dbCfg.ConnectionString())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open export file: %w", err)
	}
	defer file.Close()

	db := database.NewBunDB(sqlDB)
	imp := importer.New(customer.NewRepository(db), logger, chunkSize)

	result, err := imp.Run(context.Background(), file)
	if err != nil {
		return fmt.Errorf("import aborted: %w", err)
	}

	logger.Info("import complete",
		"processed", result.Processed,
		"inserted", result.Inserted,
		"skipped", result.Skipped,
	)
	return nil
}
