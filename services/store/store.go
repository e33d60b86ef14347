package store

import (
	"dagensfynd/dealworker/internal/scraper"
)

// Store represents the persisted mapping of all deals ever seen, keyed by URL
type Store interface {
	// Initialize creates an empty document if none exists
	Initialize() error

	// Read loads the full document. A missing, empty or corrupt file is
	// recovered as an empty mapping, never an error.
	Read() (map[string]scraper.Deal, error)

	// Upsert merges one record into the document and rewrites it atomically
	Upsert(url string, deal scraper.Deal) error

	// Exists reports whether a deal URL is already stored
	Exists(url string) (bool, error)

	// HasGUID reports whether a guid is already assigned to any stored deal
	HasGUID(guid string) (bool, error)
}
