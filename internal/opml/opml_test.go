// ABOUTME: Test suite for OPML parsing and writing
// ABOUTME: Covers folder flattening on import, source export, duplicates, and round-trip integrity

package opml

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hagda/hagda/internal/models"
)

func TestParseOPML(t *testing.T) {
	opmlData := `<?xml version="1.0" encoding="UTF-8"?>
<opml version="2.0">
  <head>
    <title>My Feeds</title>
  </head>
  <body>
    <outline text="Tech News">
      <outline type="rss" text="Hacker News" xmlUrl="https://hnrss.org/frontpage" />
      <outline type="rss" text="TechCrunch" xmlUrl="https://techcrunch.com/feed/" />
    </outline>
    <outline type="rss" text="No Folder Feed" xmlUrl="https://example.com/feed" />
  </body>
</opml>`

	doc, err := Parse(bytes.NewBufferString(opmlData))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if doc.Title != "My Feeds" {
		t.Errorf("Title = %q, want %q", doc.Title, "My Feeds")
	}

	// Folders are flattened into the top-level feed list
	if len(doc.Feeds) != 3 {
		t.Fatalf("Parse() returned %d feeds, want 3", len(doc.Feeds))
	}

	if doc.Feeds[0].URL != "https://hnrss.org/frontpage" {
		t.Errorf("Feeds[0].URL = %q", doc.Feeds[0].URL)
	}
	if doc.Feeds[0].Title != "Hacker News" {
		t.Errorf("Feeds[0].Title = %q, want %q", doc.Feeds[0].Title, "Hacker News")
	}
	if doc.Feeds[2].URL != "https://example.com/feed" {
		t.Errorf("Feeds[2].URL = %q", doc.Feeds[2].URL)
	}

	if !doc.Contains("https://techcrunch.com/feed/") {
		t.Error("Contains() = false for parsed feed")
	}
	if doc.Contains("https://example.com/missing") {
		t.Error("Contains() = true for unknown feed")
	}
}

func TestParseOPMLPrefersTitleAttr(t *testing.T) {
	opmlData := `<?xml version="1.0"?>
<opml version="2.0">
  <head><title>Feeds</title></head>
  <body>
    <outline type="rss" text="short" title="Full Title" xmlUrl="https://example.com/feed" />
  </body>
</opml>`

	doc, err := Parse(bytes.NewBufferString(opmlData))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if doc.Feeds[0].Title != "Full Title" {
		t.Errorf("Title = %q, want %q", doc.Feeds[0].Title, "Full Title")
	}
}

func TestParseOPMLSkipsDuplicateURLs(t *testing.T) {
	opmlData := `<?xml version="1.0"?>
<opml version="2.0">
  <head><title>Feeds</title></head>
  <body>
    <outline type="rss" text="Feed" xmlUrl="https://example.com/feed" />
    <outline text="Folder">
      <outline type="rss" text="Feed Again" xmlUrl="https://example.com/feed" />
    </outline>
  </body>
</opml>`

	doc, err := Parse(bytes.NewBufferString(opmlData))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if len(doc.Feeds) != 1 {
		t.Errorf("Parse() returned %d feeds, want 1", len(doc.Feeds))
	}
}

func TestParseOPMLInvalidXML(t *testing.T) {
	_, err := Parse(bytes.NewBufferString("not xml at all"))
	if err == nil {
		t.Fatal("expected error for invalid XML")
	}
}

func TestAdd(t *testing.T) {
	doc := NewDocument("Test Document")

	if err := doc.Add("https://example.com/feed", "Example Feed"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if len(doc.Feeds) != 1 {
		t.Fatalf("Feeds = %d, want 1", len(doc.Feeds))
	}
	if doc.Feeds[0].URL != "https://example.com/feed" {
		t.Errorf("URL = %q, want %q", doc.Feeds[0].URL, "https://example.com/feed")
	}
	if doc.Feeds[0].Title != "Example Feed" {
		t.Errorf("Title = %q, want %q", doc.Feeds[0].Title, "Example Feed")
	}
}

func TestAddDuplicate(t *testing.T) {
	doc := NewDocument("Test Document")

	if err := doc.Add("https://example.com/feed", "First"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := doc.Add("https://example.com/feed", "Second"); err == nil {
		t.Fatal("expected error adding duplicate URL")
	}

	if len(doc.Feeds) != 1 {
		t.Errorf("Feeds = %d, want 1", len(doc.Feeds))
	}
}

func TestFromSources(t *testing.T) {
	feedA := "https://example.com/a/feed.xml"
	feedB := "https://example.com/b/feed.xml"
	handle := "golang"

	article := models.NewSource(models.SourceTypeArticle, "Blog A")
	article.FeedURL = &feedA

	podcast := models.NewSource(models.SourceTypePodcast, "Pod B")
	podcast.FeedURL = &feedB

	reddit := models.NewSource(models.SourceTypeReddit, "r/golang")
	reddit.Handle = &handle

	doc := FromSources("hagda sources", []*models.Source{article, podcast, reddit})

	if doc.Title != "hagda sources" {
		t.Errorf("Title = %q", doc.Title)
	}
	// API-backed reddit source has no feed URL and is skipped
	if len(doc.Feeds) != 2 {
		t.Fatalf("Feeds = %d, want 2", len(doc.Feeds))
	}
	if doc.Feeds[0].Title != "Blog A" || doc.Feeds[0].URL != feedA {
		t.Errorf("unexpected first feed: %+v", doc.Feeds[0])
	}
	if doc.Feeds[1].Title != "Pod B" || doc.Feeds[1].URL != feedB {
		t.Errorf("unexpected second feed: %+v", doc.Feeds[1])
	}
}

func TestWriteRoundTrip(t *testing.T) {
	doc := NewDocument("Round Trip")
	if err := doc.Add("https://example.com/feed1", "Feed One"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := doc.Add("https://example.com/feed2", "Feed Two"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	var buf bytes.Buffer
	if err := doc.Write(&buf); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	output := buf.String()
	if !strings.HasPrefix(output, "<?xml") {
		t.Error("output missing XML header")
	}
	if !strings.Contains(output, `type="rss"`) {
		t.Error("output missing rss type attribute")
	}

	parsed, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if parsed.Title != "Round Trip" {
		t.Errorf("Title = %q, want %q", parsed.Title, "Round Trip")
	}
	if len(parsed.Feeds) != 2 {
		t.Fatalf("Feeds = %d, want 2", len(parsed.Feeds))
	}
	if parsed.Feeds[0].URL != "https://example.com/feed1" || parsed.Feeds[0].Title != "Feed One" {
		t.Errorf("unexpected first feed: %+v", parsed.Feeds[0])
	}
}

func TestWriteFileAndParseFile(t *testing.T) {
	doc := NewDocument("File Test")
	if err := doc.Add("https://example.com/feed", "A Feed"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "nested", "subscriptions.opml")
	if err := doc.WriteFile(path); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	parsed, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}

	if len(parsed.Feeds) != 1 {
		t.Fatalf("Feeds = %d, want 1", len(parsed.Feeds))
	}
	if parsed.Feeds[0].Title != "A Feed" {
		t.Errorf("Title = %q, want %q", parsed.Feeds[0].Title, "A Feed")
	}
}

func TestParseFileMissing(t *testing.T) {
	_, err := ParseFile(filepath.Join(t.TempDir(), "missing.opml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
