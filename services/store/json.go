package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"dagensfynd/dealworker/helpers"
	"dagensfynd/dealworker/internal/scraper"
	"dagensfynd/dealworker/logger"

	"github.com/gofrs/flock"
)

// JSONStore persists all deals in a single pretty-printed JSON document,
// a top-level object keyed by deal URL. Updates are whole-document
// read-modify-write, so writers must be serialized: an in-process mutex
// covers goroutines and a file lock covers concurrent processes.
type JSONStore struct {
	path  string
	mu    sync.Mutex
	flock *flock.Flock
	log   *logger.Logger
}

// NewJSONStore creates a store backed by the JSON file at path
func NewJSONStore(path string) *JSONStore {
	return &JSONStore{
		path:  path,
		flock: flock.New(path + ".lock"),
		log:   logger.ForStore(),
	}
}

// Initialize creates an empty document if none exists
func (s *JSONStore) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	return s.write(map[string]scraper.Deal{})
}

// Read loads the full document. A missing or zero-length file is an empty
// mapping; any other unreadable document is logged as a warning and also
// recovered as an empty mapping.
func (s *JSONStore) Read() (map[string]scraper.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

// Upsert merges one record into the full document then rewrites the entire
// document atomically. Every string field of every record has runs of double
// spaces collapsed before the write.
func (s *JSONStore) Upsert(url string, deal scraper.Deal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.flock.Lock(); err != nil {
		return err
	}
	defer s.flock.Unlock()

	data, err := s.read()
	if err != nil {
		return err
	}

	data[url] = deal
	for key, record := range data {
		data[key] = normalize(record)
	}

	return s.write(data)
}

// Exists reports whether a deal URL is already stored.
// Matching is exact and case-sensitive, pre-normalization.
func (s *JSONStore) Exists(url string) (bool, error) {
	data, err := s.Read()
	if err != nil {
		return false, err
	}
	_, ok := data[url]
	return ok, nil
}

// HasGUID reports whether a guid is already assigned to any stored deal
func (s *JSONStore) HasGUID(guid string) (bool, error) {
	data, err := s.Read()
	if err != nil {
		return false, err
	}
	for _, deal := range data {
		if deal.GUID == guid {
			return true, nil
		}
	}
	return false, nil
}

func (s *JSONStore) read() (map[string]scraper.Deal, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]scraper.Deal{}, nil
		}
		s.log.Warn().Err(err).Str("path", s.path).Msg("Store file unreadable, using empty store")
		return map[string]scraper.Deal{}, nil
	}

	if len(raw) == 0 {
		return map[string]scraper.Deal{}, nil
	}

	var data map[string]scraper.Deal
	if err := json.Unmarshal(raw, &data); err != nil {
		s.log.Warn().Err(err).Str("path", s.path).Msg("Store file corrupt, using empty store")
		return map[string]scraper.Deal{}, nil
	}
	if data == nil {
		data = map[string]scraper.Deal{}
	}

	// URL is the map key, not a stored field
	for url, deal := range data {
		deal.URL = url
		data[url] = deal
	}
	return data, nil
}

// write marshals the document and replaces the store file atomically
func (s *JSONStore) write(data map[string]scraper.Deal) error {
	raw, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, s.path)
}

// normalize collapses double spaces in every string field of a record
func normalize(deal scraper.Deal) scraper.Deal {
	deal.Name = helpers.CollapseSpaces(deal.Name)
	deal.Category = helpers.CollapseSpaces(deal.Category)
	deal.Vendor = helpers.CollapseSpaces(deal.Vendor)
	deal.Price = helpers.CollapseSpaces(deal.Price)
	deal.Date = helpers.CollapseSpaces(deal.Date)
	deal.GUID = helpers.CollapseSpaces(deal.GUID)
	deal.NotifiedAt = helpers.CollapseSpaces(deal.NotifiedAt)
	return deal
}
