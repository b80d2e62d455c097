package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/howto"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ howto.GuideService = (*GuideService)(nil)

const guideColumns = "id, url, title, author, supplies, steps, image_urls, content_hash, fetched_at"

// querier is satisfied by both *DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// GuideService implements howto.GuideService using SQLite.
type GuideService struct {
	db *DB
}

// NewGuideService creates a new GuideService.
func NewGuideService(db *DB) *GuideService {
	return &GuideService{db: db}
}

// hashGuide computes the xxHash of the guide's JSON encoding and returns it
// as a hex string. Guides with identical content hash identically.
func hashGuide(g *howto.Guide) (string, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return "", err
	}
	b := binary.BigEndian.AppendUint64(nil, xxhash.Sum64(data))
	return hex.EncodeToString(b), nil
}

// CreateGuide stores a guide, replacing any stored guide with the same URL.
// The replaced guide keeps its ID.
func (s *GuideService) CreateGuide(ctx context.Context, guide *howto.Guide) (*howto.StoredGuide, error) {
	return upsertGuide(ctx, s.db, guide)
}

func upsertGuide(ctx context.Context, q querier, guide *howto.Guide) (*howto.StoredGuide, error) {
	if guide == nil || guide.URL == "" {
		return nil, howto.Errorf(howto.EINVALID, "guide URL required")
	}
	if strings.TrimSpace(guide.Title) == "" {
		return nil, howto.Errorf(howto.EINVALID, "guide title required")
	}

	hash, err := hashGuide(guide)
	if err != nil {
		return nil, err
	}
	supplies, err := encodeList(guide.Supplies)
	if err != nil {
		return nil, err
	}
	steps, err := encodeList(guide.Steps)
	if err != nil {
		return nil, err
	}
	images, err := encodeList(guide.ImageURLs)
	if err != nil {
		return nil, err
	}

	stored := &howto.StoredGuide{
		ContentHash: hash,
		FetchedAt:   time.Now().UTC().Truncate(time.Second),
		Guide:       *guide,
	}

	err = q.QueryRowContext(ctx, `
		INSERT INTO guides (`+guideColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(url) DO UPDATE SET
			title = excluded.title,
			author = excluded.author,
			supplies = excluded.supplies,
			steps = excluded.steps,
			image_urls = excluded.image_urls,
			content_hash = excluded.content_hash,
			fetched_at = excluded.fetched_at
		RETURNING id
	`, uuid.New().String(), guide.URL, guide.Title, guide.Author, supplies, steps, images,
		hash, stored.FetchedAt.Format(time.RFC3339)).Scan(&stored.ID)
	if err != nil {
		return nil, err
	}

	return stored, nil
}

// FindGuideByID retrieves a guide by ID.
func (s *GuideService) FindGuideByID(ctx context.Context, id string) (*howto.StoredGuide, error) {
	guides, err := s.FindGuides(ctx, howto.GuideFilter{ID: &id, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(guides) == 0 {
		return nil, howto.Errorf(howto.ENOTFOUND, "guide not found")
	}
	return guides[0], nil
}

// FindGuides retrieves guides matching the filter, ordered by URL.
func (s *GuideService) FindGuides(ctx context.Context, filter howto.GuideFilter) ([]*howto.StoredGuide, error) {
	var query strings.Builder
	where, args := guideWhere(filter)
	query.WriteString("SELECT " + guideColumns + " FROM guides" + where)
	query.WriteString(" ORDER BY url ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	guides := make([]*howto.StoredGuide, 0)
	for rows.Next() {
		g, err := scanGuide(rows)
		if err != nil {
			return nil, err
		}
		guides = append(guides, g)
	}

	return guides, rows.Err()
}

// DeleteGuide permanently removes a guide.
func (s *GuideService) DeleteGuide(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM guides WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return howto.Errorf(howto.ENOTFOUND, "guide not found")
	}

	return nil
}

func scanGuide(rows *sql.Rows) (*howto.StoredGuide, error) {
	var g howto.StoredGuide
	var supplies, steps, images, fetchedAt string

	if err := rows.Scan(&g.ID, &g.URL, &g.Title, &g.Author, &supplies, &steps, &images,
		&g.ContentHash, &fetchedAt); err != nil {
		return nil, err
	}

	var err error
	if g.Supplies, err = decodeList(supplies, "supplies"); err != nil {
		return nil, err
	}
	if g.Steps, err = decodeList(steps, "steps"); err != nil {
		return nil, err
	}
	if g.ImageURLs, err = decodeList(images, "image_urls"); err != nil {
		return nil, err
	}
	if g.FetchedAt, err = parseFetchedAt(fetchedAt, g.ID); err != nil {
		return nil, err
	}

	return &g, nil
}

// encodeList stores nil slices as empty JSON arrays.
func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeList(value, fieldName string) ([]string, error) {
	values := []string{}
	if err := json.Unmarshal([]byte(value), &values); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", fieldName, err)
	}
	return values, nil
}
