package scraper

// Unknown is the sentinel value used when a field cannot be extracted
const Unknown = "Unknown"

// Deal represents one observed deal.
// The persisted schema stays flat and compatible with older store files:
// the notification keys are optional and unmarshal as zero values when absent.
type Deal struct {
	URL        string `json:"-"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	Vendor     string `json:"vendor"`
	Price      string `json:"price"`
	Date       string `json:"date"`
	GUID       string `json:"guid"`
	Notified   bool   `json:"sent_to_discord,omitempty"`
	NotifiedAt string `json:"sent_to_discord_date,omitempty"`
}

// Scraper interface defines the contract for all scraper implementations
type Scraper interface {
	// FetchDeals retrieves deals from a source page
	FetchDeals() ([]Deal, error)

	// GetName returns the scraper's name for logging and identification
	GetName() string
}

// Selectors contains CSS selectors for various elements in the page
type Selectors struct {
	DealList string
	Link     string
	Name     string
	Category string
	Vendor   string
	Price    string
}

// ScraperConfig contains configuration for a scraper
type ScraperConfig struct {
	URL       string
	BaseURL   string
	Name      string
	CacheKey  string
	Selectors Selectors
}
