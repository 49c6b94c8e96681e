package importer

import (
	"bufio"
	"context"
	"encoding/json"
	"io"

	"github.com/google/uuid"

	"customer-accounts/internal/customer"
	"customer-accounts/internal/logging"
)

// DefaultChunkSize is how many decoded rows are buffered before a bulk write.
const DefaultChunkSize = 1000

// row mirrors one line of the database export file
type row struct {
	CustomerID uuid.UUID `json:"customer_id"`
	Email      string    `json:"email"`
	Country    string    `json:"country"`
	Language   string    `json:"language"`
}

// Result summarises an import run. Processed counts decodable lines; rows
// whose customer_id already exists are skipped, the import is idempotent.
type Result struct {
	Processed int
	Inserted  int
	Skipped   int
	Malformed int
	Chunks    int
}

// Importer loads customer profiles from a JSON-lines database export
type Importer struct {
	store     customer.Repository
	logger    *logging.Logger
	chunkSize int
}

func New(store customer.Repository, logger *logging.Logger, chunkSize int) *Importer {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &Importer{store: store, logger: logger, chunkSize: chunkSize}
}

// Run reads the export line by line and inserts the customers in chunks.
// Malformed lines are logged and skipped, they never abort the run; a store
// failure does abort, since continuing would misreport the totals.
func (imp *Importer) Run(ctx context.Context, r io.Reader) (Result, error) {
	var result Result
	chunk := make([]*customer.Customer, 0, imp.chunkSize)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec row
		if err := json.Unmarshal(line, &rec); err != nil {
			imp.logger.Error("failed to decode export line", "error", err.Error())
			result.Malformed++
			continue
		}

		chunk = append(chunk, normalize(imp.logger, rec))
		result.Processed++

		if len(chunk) == imp.chunkSize {
			if err := imp.flush(ctx, chunk, &result); err != nil {
				return result, err
			}
			chunk = chunk[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return result, err
	}

	if len(chunk) > 0 {
		if err := imp.flush(ctx, chunk, &result); err != nil {
			return result, err
		}
	}

	imp.logger.Info("import finished",
		"processed", result.Processed,
		"inserted", result.Inserted,
		"skipped", result.Skipped,
		"malformed", result.Malformed,
		"chunks", result.Chunks,
	)

	return result, nil
}

// flush writes one chunk: rows already present are skipped, the rest are
// inserted in a single batch. Per-chunk counters start from zero each time.
func (imp *Importer) flush(ctx context.Context, chunk []*customer.Customer, result *Result) error {
	toInsert := make([]*customer.Customer, 0, len(chunk))
	for _, c := range chunk {
		exists, err := imp.store.Exists(ctx, c.CustomerID)
		if err != nil {
			return err
		}
		if exists {
			continue
		}
		toInsert = append(toInsert, c)
	}

	inserted, err := imp.store.InsertBatch(ctx, toInsert)
	if err != nil {
		return err
	}

	skipped := len(chunk) - inserted
	result.Inserted += inserted
	result.Skipped += skipped
	result.Chunks++

	imp.logger.Info("chunk imported",
		"chunk", result.Chunks,
		"inserted", inserted,
		"skipped", skipped,
	)

	return nil
}

// normalize applies import-time defaults: anything outside the supported
// languages becomes English.
func normalize(logger *logging.Logger, rec row) *customer.Customer {
	lang := rec.Language
	if !customer.ValidLanguage(lang) {
		logger.Info("language defaulted to en", "customer_id", rec.CustomerID, "language", rec.Language)
		lang = customer.DefaultLanguage
	}

	return &customer.Customer{
		CustomerID: rec.CustomerID,
		Email:      rec.Email,
		Country:    rec.Country,
		Language:   &lang,
	}
}
