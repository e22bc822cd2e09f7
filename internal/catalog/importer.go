package catalog

import (
	"context"
	"fmt"
	"sync"

	"quotedesk/internal/model"
	"quotedesk/internal/repository"

	"github.com/rs/zerolog"
)

// Importer loads product feeds and writes them through the product repository.
type Importer struct {
	loader Loader
	repo   repository.ProductRepository
	logger zerolog.Logger
}

// NewImporter creates a new catalog importer.
func NewImporter(loader Loader, repo repository.ProductRepository, logger zerolog.Logger) *Importer {
	return &Importer{
		loader: loader,
		repo:   repo,
		logger: logger.With().Str("component", "catalog-importer").Logger(),
	}
}

// Run loads all feed files concurrently and upserts their products. Later
// feeds win when the same product ID appears in more than one. Returns the
// number of products written.
func (i *Importer) Run(ctx context.Context, paths []string) (int, error) {
	if len(paths) == 0 {
		return 0, nil
	}

	i.logger.Info().
		Int("feed_count", len(paths)).
		Msg("starting catalog import")

	type loadResult struct {
		index    int
		products []model.Product
		err      error
	}

	resultChan := make(chan loadResult, len(paths))
	var wg sync.WaitGroup

	for idx, path := range paths {
		wg.Add(1)
		go func(index int, feedPath string) {
			defer wg.Done()

			products, err := i.loader.Load(ctx, feedPath)
			resultChan <- loadResult{
				index:    index,
				products: products,
				err:      err,
			}
		}(idx, path)
	}

	wg.Wait()
	close(resultChan)

	// Collect results in feed order so overlap resolution is deterministic.
	results := make([]loadResult, len(paths))
	for result := range resultChan {
		results[result.index] = result
	}

	merged := make(map[string]int)
	var products []model.Product
	for idx, result := range results {
		if result.err != nil {
			i.logger.Error().
				Err(result.err).
				Str("feed", paths[idx]).
				Msg("feed load failed")
			return 0, fmt.Errorf("failed to load feed %s: %w", paths[idx], result.err)
		}

		for _, p := range result.products {
			if pos, seen := merged[p.ID]; seen {
				products[pos] = p
				continue
			}
			merged[p.ID] = len(products)
			products = append(products, p)
		}
	}

	written, err := i.repo.Upsert(ctx, products)
	if err != nil {
		return written, fmt.Errorf("failed to upsert catalog products: %w", err)
	}

	i.logger.Info().
		Int("feed_count", len(paths)).
		Int("products", written).
		Msg("catalog import completed")

	return written, nil
}
