// ABOUTME: SQLite storage implementation using modernc.org/sqlite (pure Go)
// ABOUTME: Provides source and content item persistence with FTS5 full-text search

package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hagda/hagda/internal/models"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite storage instance.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := &SQLiteStore{db: db}

	// Initialize schema
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the database tables if they don't exist.
func (s *SQLiteStore) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS sources (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT UNIQUE NOT NULL,
			type TEXT NOT NULL,
			name TEXT NOT NULL,
			handle TEXT,
			server TEXT,
			feed_url TEXT,
			artwork_url TEXT,
			description TEXT,
			weight REAL NOT NULL DEFAULT 1.0,
			etag TEXT,
			last_modified TEXT,
			last_fetched_at TIMESTAMP,
			last_error TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_sources_type ON sources(type);
		CREATE INDEX IF NOT EXISTS idx_sources_id ON sources(id);

		CREATE TABLE IF NOT EXISTS items (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT UNIQUE NOT NULL,
			source_id TEXT NOT NULL REFERENCES sources(id) ON DELETE CASCADE,
			type TEXT NOT NULL,
			guid TEXT NOT NULL,
			title TEXT NOT NULL,
			subtitle TEXT,
			link TEXT,
			author TEXT,
			content TEXT,
			published_at TIMESTAMP NOT NULL,
			fetched_at TIMESTAMP NOT NULL,
			read INTEGER DEFAULT 0,
			read_at TIMESTAMP,
			progress REAL,
			upvotes INTEGER,
			likes INTEGER,
			reposts INTEGER,
			replies INTEGER,
			UNIQUE(source_id, guid)
		);

		CREATE INDEX IF NOT EXISTS idx_items_source_id ON items(source_id);
		CREATE INDEX IF NOT EXISTS idx_items_read ON items(read);
		CREATE INDEX IF NOT EXISTS idx_items_published_at ON items(published_at);
		CREATE INDEX IF NOT EXISTS idx_items_id ON items(id);

		-- FTS5 for content search
		CREATE VIRTUAL TABLE IF NOT EXISTS items_fts USING fts5(
			title,
			subtitle,
			content,
			content=items,
			content_rowid=rowid
		);

		-- Triggers to keep FTS in sync
		CREATE TRIGGER IF NOT EXISTS items_ai AFTER INSERT ON items BEGIN
			INSERT INTO items_fts(rowid, title, subtitle, content)
			VALUES (new.rowid, new.title, new.subtitle, new.content);
		END;

		CREATE TRIGGER IF NOT EXISTS items_ad AFTER DELETE ON items BEGIN
			INSERT INTO items_fts(items_fts, rowid, title, subtitle, content)
			VALUES ('delete', old.rowid, old.title, old.subtitle, old.content);
		END;

		CREATE TRIGGER IF NOT EXISTS items_au AFTER UPDATE ON items BEGIN
			INSERT INTO items_fts(items_fts, rowid, title, subtitle, content)
			VALUES ('delete', old.rowid, old.title, old.subtitle, old.content);
			INSERT INTO items_fts(rowid, title, subtitle, content)
			VALUES (new.rowid, new.title, new.subtitle, new.content);
		END;
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Source Operations

// CreateSource stores a new source.
func (s *SQLiteStore) CreateSource(src *models.Source) error {
	query := `
		INSERT INTO sources (id, type, name, handle, server, feed_url, artwork_url, description,
			weight, etag, last_modified, last_fetched_at, last_error, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.Exec(query,
		src.ID, string(src.Type), src.Name, src.Handle, src.Server, src.FeedURL,
		src.ArtworkURL, src.Description, src.Weight, src.ETag, src.LastModified,
		timeToSQL(src.LastFetchedAt), src.LastError, src.CreatedAt, src.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert source: %w", err)
	}
	return nil
}

// GetSource retrieves a source by ID.
func (s *SQLiteStore) GetSource(id string) (*models.Source, error) {
	query := `
		SELECT id, type, name, handle, server, feed_url, artwork_url, description,
			weight, etag, last_modified, last_fetched_at, last_error, created_at, updated_at
		FROM sources WHERE id = ?
	`
	return s.scanSource(s.db.QueryRow(query, id))
}

// GetSourceByLocator finds a source by type and provider locator.
func (s *SQLiteStore) GetSourceByLocator(t models.SourceType, locator string) (*models.Source, error) {
	query := `
		SELECT id, type, name, handle, server, feed_url, artwork_url, description,
			weight, etag, last_modified, last_fetched_at, last_error, created_at, updated_at
		FROM sources WHERE type = ? AND (handle = ? OR feed_url = ?)
	`
	return s.scanSource(s.db.QueryRow(query, string(t), locator, locator))
}

// GetSourceByPrefix finds a source by ID prefix (min 6 chars).
func (s *SQLiteStore) GetSourceByPrefix(prefix string) (*models.Source, error) {
	if len(prefix) < 6 {
		return nil, fmt.Errorf("prefix must be at least 6 characters")
	}

	query := `
		SELECT id, type, name, handle, server, feed_url, artwork_url, description,
			weight, etag, last_modified, last_fetched_at, last_error, created_at, updated_at
		FROM sources WHERE id LIKE ?
	`
	rows, err := s.db.Query(query, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var matches []*models.Source
	for rows.Next() {
		src, err := s.scanSourceFromRows(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, src)
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("no source found with prefix %s", prefix)
	}
	if len(matches) > 1 {
		return nil, fmt.Errorf("ambiguous prefix %s matches %d sources", prefix, len(matches))
	}
	return matches[0], nil
}

// ListSources returns all sources, sorted by creation date (newest first).
func (s *SQLiteStore) ListSources() ([]*models.Source, error) {
	query := `
		SELECT id, type, name, handle, server, feed_url, artwork_url, description,
			weight, etag, last_modified, last_fetched_at, last_error, created_at, updated_at
		FROM sources ORDER BY created_at DESC
	`
	return s.querySources(query)
}

// ListSourcesByType returns sources of one provider type.
func (s *SQLiteStore) ListSourcesByType(t models.SourceType) ([]*models.Source, error) {
	query := `
		SELECT id, type, name, handle, server, feed_url, artwork_url, description,
			weight, etag, last_modified, last_fetched_at, last_error, created_at, updated_at
		FROM sources WHERE type = ? ORDER BY created_at DESC
	`
	return s.querySources(query, string(t))
}

func (s *SQLiteStore) querySources(query string, args ...interface{}) ([]*models.Source, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}
	defer rows.Close()

	var sources []*models.Source
	for rows.Next() {
		src, err := s.scanSourceFromRows(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

// UpdateSource updates an existing source.
func (s *SQLiteStore) UpdateSource(src *models.Source) error {
	src.UpdatedAt = time.Now()
	query := `
		UPDATE sources SET
			name = ?, handle = ?, server = ?, feed_url = ?, artwork_url = ?, description = ?,
			weight = ?, etag = ?, last_modified = ?, last_fetched_at = ?, last_error = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.Exec(query,
		src.Name, src.Handle, src.Server, src.FeedURL, src.ArtworkURL, src.Description,
		src.Weight, src.ETag, src.LastModified, timeToSQL(src.LastFetchedAt),
		src.LastError, src.UpdatedAt,
		src.ID,
	)
	if err != nil {
		return fmt.Errorf("update source: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("source not found: %s", src.ID)
	}
	return nil
}

// DeleteSource removes a source and all its items (cascade).
func (s *SQLiteStore) DeleteSource(id string) error {
	result, err := s.db.Exec("DELETE FROM sources WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete source: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("source not found: %s", id)
	}
	return nil
}

// UpdateSourceFetchState updates caching headers and clears errors.
func (s *SQLiteStore) UpdateSourceFetchState(sourceID string, etag, lastModified *string, fetchedAt time.Time) error {
	query := `
		UPDATE sources SET
			etag = ?, last_modified = ?, last_fetched_at = ?,
			last_error = NULL, updated_at = ?
		WHERE id = ?
	`
	result, err := s.db.Exec(query, etag, lastModified, fetchedAt, time.Now(), sourceID)
	if err != nil {
		return fmt.Errorf("update source fetch state: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("source not found: %s", sourceID)
	}
	return nil
}

// UpdateSourceError records a fetch error for a source.
func (s *SQLiteStore) UpdateSourceError(sourceID string, errMsg string) error {
	query := `UPDATE sources SET last_error = ?, updated_at = ? WHERE id = ?`
	result, err := s.db.Exec(query, errMsg, time.Now(), sourceID)
	if err != nil {
		return fmt.Errorf("update source error: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("source not found: %s", sourceID)
	}
	return nil
}

// Item Operations

// UpsertItem stores an item, deduplicating on (source_id, guid). Existing
// items keep their ID and read state but take the new metadata and counters.
func (s *SQLiteStore) UpsertItem(item *models.ContentItem) (bool, error) {
	var existingID string
	err := s.db.QueryRow(
		`SELECT id FROM items WHERE source_id = ? AND guid = ?`,
		item.SourceID, item.GUID,
	).Scan(&existingID)

	upvotes, likes, reposts, replies := engagementToSQL(item.Engagement)

	if err == sql.ErrNoRows {
		query := `
			INSERT INTO items (id, source_id, type, guid, title, subtitle, link, author, content,
				published_at, fetched_at, read, read_at, progress, upvotes, likes, reposts, replies)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := s.db.Exec(query,
			item.ID, item.SourceID, string(item.Type), item.GUID, item.Title,
			item.Subtitle, item.Link, item.Author, item.Content,
			item.Published, item.FetchedAt, boolToInt(item.Read), timeToSQL(item.ReadAt),
			item.Progress, upvotes, likes, reposts, replies,
		)
		if err != nil {
			return false, fmt.Errorf("insert item: %w", err)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("check item exists: %w", err)
	}

	item.ID = existingID
	query := `
		UPDATE items SET
			title = ?, subtitle = ?, link = ?, author = ?, content = ?,
			published_at = ?, upvotes = ?, likes = ?, reposts = ?, replies = ?
		WHERE id = ?
	`
	if _, err := s.db.Exec(query,
		item.Title, item.Subtitle, item.Link, item.Author, item.Content,
		item.Published, upvotes, likes, reposts, replies,
		existingID,
	); err != nil {
		return false, fmt.Errorf("update item: %w", err)
	}
	return false, nil
}

// GetItem retrieves an item by ID.
func (s *SQLiteStore) GetItem(id string) (*models.ContentItem, error) {
	query := `
		SELECT id, source_id, type, guid, title, subtitle, link, author, content,
			published_at, fetched_at, read, read_at, progress, upvotes, likes, reposts, replies
		FROM items WHERE id = ?
	`
	return s.scanItem(s.db.QueryRow(query, id))
}

// GetItemByPrefix finds an item by ID prefix (min 6 chars).
func (s *SQLiteStore) GetItemByPrefix(prefix string) (*models.ContentItem, error) {
	if len(prefix) < 6 {
		return nil, fmt.Errorf("prefix must be at least 6 characters")
	}

	query := `
		SELECT id, source_id, type, guid, title, subtitle, link, author, content,
			published_at, fetched_at, read, read_at, progress, upvotes, likes, reposts, replies
		FROM items WHERE id LIKE ?
	`
	rows, err := s.db.Query(query, prefix+"%")
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var matches []*models.ContentItem
	for rows.Next() {
		item, err := s.scanItemFromRows(rows)
		if err != nil {
			return nil, err
		}
		matches = append(matches, item)
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("no item found with prefix %s", prefix)
	}
	if len(matches) > 1 {
		return nil, fmt.Errorf("ambiguous prefix %s matches %d items", prefix, len(matches))
	}
	return matches[0], nil
}

// ListItems returns items matching the filter, sorted by published date.
func (s *SQLiteStore) ListItems(filter *ItemFilter) ([]*models.ContentItem, error) {
	query := `
		SELECT id, source_id, type, guid, title, subtitle, link, author, content,
			published_at, fetched_at, read, read_at, progress, upvotes, likes, reposts, replies
		FROM items
	`

	var conditions []string
	var args []interface{}

	if filter != nil {
		// SourceIDs takes precedence over SourceID
		if len(filter.SourceIDs) > 0 {
			placeholders := make([]string, len(filter.SourceIDs))
			for i, id := range filter.SourceIDs {
				placeholders[i] = "?"
				args = append(args, id)
			}
			conditions = append(conditions, "source_id IN ("+strings.Join(placeholders, ",")+")")
		} else if filter.SourceID != nil {
			conditions = append(conditions, "source_id = ?")
			args = append(args, *filter.SourceID)
		}

		if len(filter.Types) > 0 {
			placeholders := make([]string, len(filter.Types))
			for i, t := range filter.Types {
				placeholders[i] = "?"
				args = append(args, string(t))
			}
			conditions = append(conditions, "type IN ("+strings.Join(placeholders, ",")+")")
		}

		if filter.UnreadOnly != nil && *filter.UnreadOnly {
			conditions = append(conditions, "read = 0")
		}

		if filter.Since != nil {
			conditions = append(conditions, "published_at >= ?")
			args = append(args, *filter.Since)
		}

		if filter.Until != nil {
			conditions = append(conditions, "published_at < ?")
			args = append(args, *filter.Until)
		}
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY published_at DESC"

	if filter != nil {
		if filter.Limit != nil {
			query += fmt.Sprintf(" LIMIT %d", *filter.Limit)
		}
		if filter.Offset != nil {
			if filter.Limit == nil {
				query += " LIMIT -1"
			}
			query += fmt.Sprintf(" OFFSET %d", *filter.Offset)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	var items []*models.ContentItem
	for rows.Next() {
		item, err := s.scanItemFromRows(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// DeleteItem removes an item.
func (s *SQLiteStore) DeleteItem(id string) error {
	result, err := s.db.Exec("DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("item not found: %s", id)
	}
	return nil
}

// MarkItemRead marks an item as read.
func (s *SQLiteStore) MarkItemRead(id string) error {
	now := time.Now()
	query := `UPDATE items SET read = 1, read_at = ? WHERE id = ?`
	result, err := s.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("mark item read: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("item not found: %s", id)
	}
	return nil
}

// MarkItemUnread marks an item as unread.
func (s *SQLiteStore) MarkItemUnread(id string) error {
	query := `UPDATE items SET read = 0, read_at = NULL WHERE id = ?`
	result, err := s.db.Exec(query, id)
	if err != nil {
		return fmt.Errorf("mark item unread: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("item not found: %s", id)
	}
	return nil
}

// MarkItemsReadBefore marks all unread items published before the given time as read.
func (s *SQLiteStore) MarkItemsReadBefore(before time.Time) (int64, error) {
	now := time.Now()
	query := `UPDATE items SET read = 1, read_at = ? WHERE read = 0 AND published_at < ?`
	result, err := s.db.Exec(query, now, before)
	if err != nil {
		return 0, fmt.Errorf("mark items read before: %w", err)
	}
	return result.RowsAffected()
}

// SetItemProgress records a consumption fraction in [0, 1].
func (s *SQLiteStore) SetItemProgress(id string, progress float64) error {
	if progress < 0 || progress > 1 {
		return fmt.Errorf("progress must be in [0, 1], got %g", progress)
	}
	query := `UPDATE items SET progress = ? WHERE id = ?`
	result, err := s.db.Exec(query, progress, id)
	if err != nil {
		return fmt.Errorf("set item progress: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("item not found: %s", id)
	}
	return nil
}

// CountUnreadItems counts unread items, optionally filtered by source.
func (s *SQLiteStore) CountUnreadItems(sourceID *string) (int, error) {
	var count int
	var query string
	var args []interface{}

	if sourceID != nil {
		query = `SELECT COUNT(*) FROM items WHERE read = 0 AND source_id = ?`
		args = append(args, *sourceID)
	} else {
		query = `SELECT COUNT(*) FROM items WHERE read = 0`
	}

	if err := s.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count unread items: %w", err)
	}
	return count, nil
}

// Statistics

// GetSourceStats retrieves statistics for all sources.
func (s *SQLiteStore) GetSourceStats() ([]SourceStatsRow, error) {
	query := `
		SELECT s.id, s.name, s.type, s.last_fetched_at, s.last_error,
			   COUNT(i.id) as item_count,
			   SUM(CASE WHEN i.read = 0 THEN 1 ELSE 0 END) as unread_count
		FROM sources s
		LEFT JOIN items i ON s.id = i.source_id
		GROUP BY s.id
		ORDER BY s.created_at DESC
	`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("query source stats: %w", err)
	}
	defer rows.Close()

	var stats []SourceStatsRow
	for rows.Next() {
		var row SourceStatsRow
		var sourceType string
		var lastFetched sql.NullTime
		var unreadCount sql.NullInt64
		if err := rows.Scan(
			&row.SourceID, &row.SourceName, &sourceType, &lastFetched,
			&row.LastError, &row.ItemCount, &unreadCount,
		); err != nil {
			return nil, fmt.Errorf("scan source stats: %w", err)
		}
		row.SourceType = models.SourceType(sourceType)
		if lastFetched.Valid {
			row.LastFetchedAt = &lastFetched.Time
		}
		if unreadCount.Valid {
			row.UnreadCount = int(unreadCount.Int64)
		}
		stats = append(stats, row)
	}
	return stats, nil
}

// GetOverallStats retrieves overall statistics.
func (s *SQLiteStore) GetOverallStats() (*OverallStats, error) {
	var stats OverallStats

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM sources`).Scan(&stats.TotalSources); err != nil {
		return nil, fmt.Errorf("count sources: %w", err)
	}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&stats.TotalItems); err != nil {
		return nil, fmt.Errorf("count items: %w", err)
	}

	if err := s.db.QueryRow(`SELECT COUNT(*) FROM items WHERE read = 0`).Scan(&stats.UnreadCount); err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}

	return &stats, nil
}

// Retrieval helpers

// FindSource resolves a user-supplied reference: exact ID, name, provider
// locator, or ID prefix.
func (s *SQLiteStore) FindSource(ref string) (*models.Source, error) {
	if src, err := s.GetSource(ref); err == nil {
		return src, nil
	}

	query := `
		SELECT id, type, name, handle, server, feed_url, artwork_url, description,
			weight, etag, last_modified, last_fetched_at, last_error, created_at, updated_at
		FROM sources WHERE name = ? COLLATE NOCASE OR handle = ? OR feed_url = ?
	`
	matches, err := s.querySources(query, ref, ref, ref)
	if err != nil {
		return nil, err
	}
	if len(matches) == 1 {
		return matches[0], nil
	}
	if len(matches) > 1 {
		return nil, fmt.Errorf("ambiguous reference %q matches %d sources", ref, len(matches))
	}

	src, err := s.GetSourceByPrefix(ref)
	if err != nil {
		return nil, fmt.Errorf("source not found: %s", ref)
	}
	return src, nil
}

// FindItem resolves an item reference: exact ID first, then prefix.
func (s *SQLiteStore) FindItem(ref string) (*models.ContentItem, error) {
	item, err := s.GetItem(ref)
	if err == nil {
		return item, nil
	}

	item, err = s.GetItemByPrefix(ref)
	if err != nil {
		return nil, fmt.Errorf("item not found: %s", ref)
	}
	return item, nil
}

// Maintenance

// Compact performs database maintenance (VACUUM).
func (s *SQLiteStore) Compact() error {
	_, err := s.db.Exec("VACUUM")
	if err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}

// Search performs full-text search on items.
func (s *SQLiteStore) Search(query string, limit int) ([]*models.ContentItem, error) {
	sqlQuery := `
		SELECT i.id, i.source_id, i.type, i.guid, i.title, i.subtitle, i.link, i.author, i.content,
			i.published_at, i.fetched_at, i.read, i.read_at, i.progress, i.upvotes, i.likes, i.reposts, i.replies
		FROM items i
		INNER JOIN items_fts fts ON i.rowid = fts.rowid
		WHERE items_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`

	rows, err := s.db.Query(sqlQuery, query, limit)
	if err != nil {
		return nil, fmt.Errorf("search items: %w", err)
	}
	defer rows.Close()

	var items []*models.ContentItem
	for rows.Next() {
		item, err := s.scanItemFromRows(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Helper functions

func (s *SQLiteStore) scanSource(row *sql.Row) (*models.Source, error) {
	var src models.Source
	var sourceType string
	var lastFetched sql.NullTime
	if err := row.Scan(
		&src.ID, &sourceType, &src.Name, &src.Handle, &src.Server, &src.FeedURL,
		&src.ArtworkURL, &src.Description, &src.Weight, &src.ETag, &src.LastModified,
		&lastFetched, &src.LastError, &src.CreatedAt, &src.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("source not found")
		}
		return nil, fmt.Errorf("scan source: %w", err)
	}
	src.Type = models.SourceType(sourceType)
	if lastFetched.Valid {
		src.LastFetchedAt = &lastFetched.Time
	}
	return &src, nil
}

func (s *SQLiteStore) scanSourceFromRows(rows *sql.Rows) (*models.Source, error) {
	var src models.Source
	var sourceType string
	var lastFetched sql.NullTime
	if err := rows.Scan(
		&src.ID, &sourceType, &src.Name, &src.Handle, &src.Server, &src.FeedURL,
		&src.ArtworkURL, &src.Description, &src.Weight, &src.ETag, &src.LastModified,
		&lastFetched, &src.LastError, &src.CreatedAt, &src.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("scan source: %w", err)
	}
	src.Type = models.SourceType(sourceType)
	if lastFetched.Valid {
		src.LastFetchedAt = &lastFetched.Time
	}
	return &src, nil
}

func (s *SQLiteStore) scanItem(row *sql.Row) (*models.ContentItem, error) {
	var item models.ContentItem
	var itemType string
	var readAt sql.NullTime
	var readInt int
	var progress sql.NullFloat64
	var upvotes, likes, reposts, replies sql.NullInt64
	if err := row.Scan(
		&item.ID, &item.SourceID, &itemType, &item.GUID, &item.Title, &item.Subtitle,
		&item.Link, &item.Author, &item.Content, &item.Published, &item.FetchedAt,
		&readInt, &readAt, &progress, &upvotes, &likes, &reposts, &replies,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("item not found")
		}
		return nil, fmt.Errorf("scan item: %w", err)
	}
	finishItem(&item, itemType, readInt, readAt, progress, upvotes, likes, reposts, replies)
	return &item, nil
}

func (s *SQLiteStore) scanItemFromRows(rows *sql.Rows) (*models.ContentItem, error) {
	var item models.ContentItem
	var itemType string
	var readAt sql.NullTime
	var readInt int
	var progress sql.NullFloat64
	var upvotes, likes, reposts, replies sql.NullInt64
	if err := rows.Scan(
		&item.ID, &item.SourceID, &itemType, &item.GUID, &item.Title, &item.Subtitle,
		&item.Link, &item.Author, &item.Content, &item.Published, &item.FetchedAt,
		&readInt, &readAt, &progress, &upvotes, &likes, &reposts, &replies,
	); err != nil {
		return nil, fmt.Errorf("scan item: %w", err)
	}
	finishItem(&item, itemType, readInt, readAt, progress, upvotes, likes, reposts, replies)
	return &item, nil
}

// finishItem applies the nullable column values onto a scanned item.
func finishItem(item *models.ContentItem, itemType string, readInt int, readAt sql.NullTime,
	progress sql.NullFloat64, upvotes, likes, reposts, replies sql.NullInt64) {
	item.Type = models.SourceType(itemType)
	item.Read = readInt == 1
	if readAt.Valid {
		item.ReadAt = &readAt.Time
	}
	if progress.Valid {
		item.Progress = &progress.Float64
	}
	if upvotes.Valid || likes.Valid || reposts.Valid || replies.Valid {
		item.Engagement = &models.Engagement{
			Upvotes: int(upvotes.Int64),
			Likes:   int(likes.Int64),
			Reposts: int(reposts.Int64),
			Replies: int(replies.Int64),
		}
	}
}

func engagementToSQL(e *models.Engagement) (upvotes, likes, reposts, replies interface{}) {
	if e == nil {
		return nil, nil, nil, nil
	}
	return e.Upvotes, e.Likes, e.Reposts, e.Replies
}

func timeToSQL(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Ensure SQLiteStore implements Store interface
var _ Store = (*SQLiteStore)(nil)
