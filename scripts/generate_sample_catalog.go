package main

import (
	"compress/gzip"
	"fmt"
	"log"
	"os"
	"path/filepath"
)

// generateSampleCatalog creates sample gzipped CSV product feeds for local
// development. Feed 2 overlaps feed 1 on P003 with a newer price, so an
// import of both demonstrates later-feed-wins merging.
func main() {
	dataDir := "data/feeds"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	feeds := map[string][][]string{
		"catalog1.csv.gz": {
			{"P001", "Steel Bracket", "Galvanised steel L-bracket", "4.75", "120"},
			{"P002", "Hex Bolt M8", "M8 x 40mm hex bolt, zinc plated", "0.35", "5000"},
			{"P003", "Wall Anchor", "Nylon wall anchor 8mm", "0.12", "2400"},
		},
		"catalog2.csv.gz": {
			{"P003", "Wall Anchor", "Nylon wall anchor 8mm", "0.15", "1800"},
			{"P004", "Wood Screw Pack", "Box of 100 wood screws 4x50", "6.90", "75"},
			{"P005", "Door Hinge", "Brass door hinge pair", "11.20", "60"},
		},
	}

	for filename, records := range feeds {
		filePath := filepath.Join(dataDir, filename)

		if err := createFeedFile(filePath, records); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		fmt.Printf("Created %s with %d products\n", filePath, len(records))
	}

	fmt.Println("\nSample product feeds created successfully!")
	fmt.Println("Run the API with:")
	fmt.Println("  CATALOG_IMPORT_ENABLED=true \\")
	fmt.Println("  CATALOG_FEED_PATHS=data/feeds/catalog1.csv.gz,data/feeds/catalog2.csv.gz")
}

func createFeedFile(filePath string, records [][]string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	defer gzipWriter.Close()

	for _, record := range records {
		if _, err := fmt.Fprintf(gzipWriter, "%s,%s,%s,%s,%s\n",
			record[0], record[1], record[2], record[3], record[4]); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}

	return nil
}
