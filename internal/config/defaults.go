// ABOUTME: Centralized configuration defaults for hagda
// ABOUTME: Display and storage constants plus the starter sources offered during onboarding

package config

import (
	"time"

	"github.com/hagda/hagda/internal/models"
)

// HTTP settings
const (
	DefaultHTTPTimeout = 30 * time.Second
)

// Display settings
const (
	DefaultListLimit = 20
	DisplayIDLength  = 8
	SeparatorWidth   = 60
	DateFormatShort  = "02 Jan 06 15:04 MST"
	DateFormatLong   = "Mon, 02 Jan 2006 15:04 MST"
)

// Storage settings
const (
	MinPrefixLength = 6
	DefaultDirPerms = 0755
)

// StarterSource describes one suggested source for first-run onboarding.
type StarterSource struct {
	Type        models.SourceType
	Name        string
	Handle      string
	Server      string
	FeedURL     string
	Description string
}

// StarterSources is the pick list shown by the setup wizard.
var StarterSources = []StarterSource{
	{Type: models.SourceTypeArticle, Name: "The Verge", FeedURL: "https://www.theverge.com/rss/index.xml", Description: "Technology news and reviews"},
	{Type: models.SourceTypeArticle, Name: "Ars Technica", FeedURL: "https://feeds.arstechnica.com/arstechnica/index", Description: "Original tech reporting"},
	{Type: models.SourceTypeReddit, Name: "r/programming", Handle: "programming", Description: "Programming discussion"},
	{Type: models.SourceTypeReddit, Name: "r/technology", Handle: "technology", Description: "Technology subreddit"},
	{Type: models.SourceTypeBluesky, Name: "Bluesky Team", Handle: "bsky.app", Description: "Official Bluesky account"},
	{Type: models.SourceTypeMastodon, Name: "Eugen Rochko", Handle: "Gargron", Server: "mastodon.social", Description: "Mastodon founder"},
	{Type: models.SourceTypePodcast, Name: "Accidental Tech Podcast", FeedURL: "https://atp.fm/rss", Description: "Three nerds discussing tech"},
	{Type: models.SourceTypePodcast, Name: "The Talk Show", FeedURL: "https://daringfireball.net/thetalkshow/rss", Description: "Interviews and tech commentary"},
}

// ToSource converts a starter entry into a followable source.
func (s StarterSource) ToSource() *models.Source {
	src := models.NewSource(s.Type, s.Name)
	if s.Handle != "" {
		h := s.Handle
		src.Handle = &h
	}
	if s.Server != "" {
		v := s.Server
		src.Server = &v
	}
	if s.FeedURL != "" {
		u := s.FeedURL
		src.FeedURL = &u
	}
	if s.Description != "" {
		d := s.Description
		src.Description = &d
	}
	return src
}
