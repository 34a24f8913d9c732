// ABOUTME: OPML export and import for feed-backed sources
// ABOUTME: Writes flat subscription lists; folders from other readers are flattened on import

package opml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hagda/hagda/internal/models"
)

// Document is a flat OPML subscription list. Nested folders in imported
// files are flattened; exports are always flat.
type Document struct {
	Title string
	Feeds []Feed
	urls  map[string]bool
}

// Feed is one subscription entry.
type Feed struct {
	URL   string
	Title string
}

// XML structs for parsing and writing OPML files
type opmlXML struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    headXML  `xml:"head"`
	Body    bodyXML  `xml:"body"`
}

type headXML struct {
	Title string `xml:"title"`
}

type bodyXML struct {
	Outlines []outlineXML `xml:"outline"`
}

type outlineXML struct {
	Text     string       `xml:"text,attr"`
	Title    string       `xml:"title,attr,omitempty"`
	Type     string       `xml:"type,attr,omitempty"`
	XMLURL   string       `xml:"xmlUrl,attr,omitempty"`
	Children []outlineXML `xml:"outline,omitempty"`
}

// NewDocument creates an empty OPML document with the given title
func NewDocument(title string) *Document {
	return &Document{
		Title: title,
		urls:  make(map[string]bool),
	}
}

// FromSources builds an export document from feed-backed sources.
// Sources without a feed URL (API-backed providers) are skipped.
func FromSources(title string, srcs []*models.Source) *Document {
	doc := NewDocument(title)
	for _, src := range srcs {
		if src.FeedURL == nil || *src.FeedURL == "" {
			continue
		}
		// Duplicate feed URLs across sources collapse to one entry
		_ = doc.Add(*src.FeedURL, src.Name)
	}
	return doc
}

// Parse reads OPML data from an io.Reader and returns a Document.
// Outlines nested inside folders are collected at the top level.
func Parse(r io.Reader) (*Document, error) {
	var raw opmlXML
	decoder := xml.NewDecoder(r)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode OPML: %w", err)
	}

	doc := NewDocument(raw.Head.Title)
	for _, outline := range raw.Body.Outlines {
		collectFeeds(doc, outline)
	}
	return doc, nil
}

// ParseFile reads OPML data from a file and returns a Document
func ParseFile(path string) (*Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

func collectFeeds(doc *Document, outline outlineXML) {
	if outline.XMLURL != "" && !doc.urls[outline.XMLURL] {
		doc.Feeds = append(doc.Feeds, Feed{
			URL:   outline.XMLURL,
			Title: outlineTitle(outline),
		})
		doc.urls[outline.XMLURL] = true
	}
	for _, child := range outline.Children {
		collectFeeds(doc, child)
	}
}

func outlineTitle(outline outlineXML) string {
	if outline.Title != "" {
		return outline.Title
	}
	return outline.Text
}

// Add appends a feed to the document.
// Returns an error if a feed with the same URL already exists.
func (d *Document) Add(url, title string) error {
	if d.urls == nil {
		d.urls = make(map[string]bool, len(d.Feeds))
		for _, f := range d.Feeds {
			d.urls[f.URL] = true
		}
	}
	if d.urls[url] {
		return fmt.Errorf("feed with URL %s already exists", url)
	}

	d.Feeds = append(d.Feeds, Feed{URL: url, Title: title})
	d.urls[url] = true
	return nil
}

// Contains reports whether the document already holds the feed URL
func (d *Document) Contains(url string) bool {
	if d.urls == nil {
		return false
	}
	return d.urls[url]
}

// Write writes the OPML document to an io.Writer
func (d *Document) Write(w io.Writer) error {
	out := opmlXML{
		Version: "2.0",
		Head: headXML{
			Title: d.Title,
		},
		Body: bodyXML{
			Outlines: make([]outlineXML, len(d.Feeds)),
		},
	}

	for i, feed := range d.Feeds {
		out.Body.Outlines[i] = outlineXML{
			Text:   feed.Title,
			Title:  feed.Title,
			Type:   "rss",
			XMLURL: feed.URL,
		}
	}

	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")

	if _, err := w.Write([]byte(xml.Header)); err != nil {
		return fmt.Errorf("failed to write XML header: %w", err)
	}

	if err := encoder.Encode(out); err != nil {
		return fmt.Errorf("failed to encode OPML: %w", err)
	}

	return nil
}

// WriteFile writes the OPML document to a file
func (d *Document) WriteFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	return d.Write(file)
}
