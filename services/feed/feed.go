package feed

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"dagensfynd/dealworker/helpers"
	"dagensfynd/dealworker/internal/scraper"
)

// Config holds the fixed channel header of the generated feed
type Config struct {
	Title            string
	Link             string
	Description      string
	ManagingEditor   string
	WebMaster        string
	Category         string
	Generator        string
	Docs             string
	TTL              int
	ImageURL         string
	ImageDescription string
	SelfLink         string
	Location         *time.Location
}

// DefaultConfig returns the channel header for the SweClockers daily deals feed
func DefaultConfig(location *time.Location) Config {
	if location == nil {
		location = time.UTC
	}
	return Config{
		Title:            "SweClockers - Dagens fynd",
		Link:             "https://www.sweclockers.com/dagensfynd",
		Description:      "Daily tech deals",
		ManagingEditor:   "rss@dagensfynd.example (Dagens Fynd)",
		WebMaster:        "rss@dagensfynd.example (Dagens Fynd)",
		Category:         "SweClockers",
		Generator:        "dagensfynd/dealworker",
		Docs:             "https://www.rssboard.org/rss-specification",
		TTL:              60,
		ImageURL:         "https://www.sweclockers.com/gfx/apple-touch-icon.png",
		ImageDescription: "SweClockers logo",
		SelfLink:         "https://dagensfynd.example/rss",
		Location:         location,
	}
}

// Renderer serializes the full store contents into an RSS 2.0 document
type Renderer struct {
	config Config
}

// NewRenderer creates a new feed renderer
func NewRenderer(config Config) *Renderer {
	return &Renderer{config: config}
}

// Render produces the complete RSS 2.0 document for the given store mapping.
// Items are ordered by URL key so the output is deterministic; an empty
// mapping renders the channel header and footer with zero items. Stored
// field values are escaped at extraction time and emitted verbatim here.
func (r *Renderer) Render(deals map[string]scraper.Deal, now time.Time) string {
	var buf bytes.Buffer

	buf.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	buf.WriteString("\n")
	buf.WriteString(`<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">`)
	buf.WriteString("\n  <channel>\n")

	r.writeElement(&buf, "title", helpers.EscapeXML(r.config.Title), 4)
	r.writeElement(&buf, "link", helpers.EscapeXML(r.config.Link), 4)
	r.writeElement(&buf, "description", helpers.EscapeXML(r.config.Description), 4)
	r.writeElement(&buf, "pubDate", now.In(r.config.Location).Format(time.RFC1123Z), 4)
	r.writeElement(&buf, "managingEditor", helpers.EscapeXML(r.config.ManagingEditor), 4)
	r.writeElement(&buf, "webMaster", helpers.EscapeXML(r.config.WebMaster), 4)
	r.writeElement(&buf, "category", helpers.EscapeXML(r.config.Category), 4)
	r.writeElement(&buf, "generator", helpers.EscapeXML(r.config.Generator), 4)
	r.writeElement(&buf, "docs", helpers.EscapeXML(r.config.Docs), 4)
	r.writeElement(&buf, "ttl", fmt.Sprintf("%d", r.config.TTL), 4)

	buf.WriteString("    <image>\n")
	r.writeElement(&buf, "url", helpers.EscapeXML(r.config.ImageURL), 6)
	r.writeElement(&buf, "title", helpers.EscapeXML(r.config.Title), 6)
	r.writeElement(&buf, "description", helpers.EscapeXML(r.config.ImageDescription), 6)
	r.writeElement(&buf, "link", helpers.EscapeXML(r.config.Link), 6)
	buf.WriteString("    </image>\n")

	buf.WriteString(fmt.Sprintf("    <atom:link href=\"%s\" rel=\"self\" type=\"application/rss+xml\" />\n",
		helpers.EscapeXML(r.config.SelfLink)))

	for _, url := range sortedKeys(deals) {
		r.writeItem(&buf, url, deals[url])
	}

	buf.WriteString("  </channel>\n</rss>\n")

	return buf.String()
}

func (r *Renderer) writeItem(buf *bytes.Buffer, url string, deal scraper.Deal) {
	buf.WriteString("    <item>\n")
	r.writeElement(buf, "title", deal.Name, 6)
	r.writeElement(buf, "link", url, 6)
	r.writeElement(buf, "description", deal.Vendor, 6)
	r.writeElement(buf, "category", deal.Category, 6)
	r.writeElement(buf, "pubDate", deal.Date, 6)
	buf.WriteString(fmt.Sprintf("      <guid isPermaLink=\"false\">%s</guid>\n", deal.GUID))
	buf.WriteString("    </item>\n")
}

func (r *Renderer) writeElement(buf *bytes.Buffer, tag, value string, indent int) {
	for i := 0; i < indent; i++ {
		buf.WriteByte(' ')
	}
	buf.WriteString(fmt.Sprintf("<%s>%s</%s>\n", tag, value, tag))
}

func sortedKeys(deals map[string]scraper.Deal) []string {
	keys := make([]string, 0, len(deals))
	for url := range deals {
		keys = append(keys, url)
	}
	sort.Strings(keys)
	return keys
}
