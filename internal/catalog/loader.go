// Package catalog implements bulk product feed imports. Feeds are gzipped
// CSV files (id,name,description,price,quantity per line) read from the
// local file system or S3 and upserted into the product repository.
package catalog

import (
	"compress/gzip"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"quotedesk/internal/model"

	"github.com/rs/zerolog"
)

// Loader reads a product feed and returns its parsed records.
type Loader interface {
	Load(ctx context.Context, path string) ([]model.Product, error)
}

// fileLoader implements Loader for reading gzipped CSV feeds from disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based feed loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "catalog-loader").Logger(),
	}
}

// Load reads a gzipped CSV feed file and returns its products.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]model.Product, error) {
	l.logger.Info().Str("file", filePath).Msg("loading product feed")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open feed file")
		return nil, fmt.Errorf("failed to open feed file %s: %w", filePath, err)
	}
	defer file.Close()

	gzipReader, err := gzip.NewReader(file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to create gzip reader")
		return nil, fmt.Errorf("failed to create gzip reader for %s: %w", filePath, err)
	}
	defer gzipReader.Close()

	return parseFeed(ctx, gzipReader, filePath, l.logger)
}

// parseFeed reads CSV records into products. Malformed records are skipped
// with a warning rather than aborting the whole feed.
func parseFeed(ctx context.Context, r io.Reader, source string, logger zerolog.Logger) ([]model.Product, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 5
	reader.Comment = '#'

	var products []model.Product
	skipped := 0

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Field-count and quoting problems affect one record only.
			if _, ok := err.(*csv.ParseError); ok {
				skipped++
				continue
			}
			logger.Error().Err(err).Str("source", source).Msg("failed to read feed record")
			return nil, fmt.Errorf("failed to read feed %s: %w", source, err)
		}

		product, err := parseRecord(record)
		if err != nil {
			logger.Warn().
				Err(err).
				Str("source", source).
				Strs("record", record).
				Msg("skipping malformed feed record")
			skipped++
			continue
		}

		products = append(products, product)
	}

	logger.Info().
		Str("source", source).
		Int("products", len(products)).
		Int("skipped", skipped).
		Msg("product feed loaded")

	return products, nil
}

// parseRecord converts one CSV record (id,name,description,price,quantity)
// into a product.
func parseRecord(record []string) (model.Product, error) {
	id := record[0]
	if id == "" {
		return model.Product{}, fmt.Errorf("empty product ID")
	}

	price, err := strconv.ParseFloat(record[3], 64)
	if err != nil {
		return model.Product{}, fmt.Errorf("invalid price %q: %w", record[3], err)
	}
	if price < 0 {
		return model.Product{}, fmt.Errorf("negative price %q", record[3])
	}

	quantity, err := strconv.ParseInt(record[4], 10, 64)
	if err != nil {
		return model.Product{}, fmt.Errorf("invalid quantity %q: %w", record[4], err)
	}
	if quantity < 0 {
		return model.Product{}, fmt.Errorf("negative quantity %q", record[4])
	}

	return model.Product{
		ID:          id,
		Name:        record[1],
		Description: record[2],
		Price:       price,
		Quantity:    quantity,
	}, nil
}
