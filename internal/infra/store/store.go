// Package store implements the Store Adapter: reads date-partitioned
// feed_entries_<yyyymmdd> rows, upserts enriched rows back by
// (id, flashpoint_id), and maps a missing partition table to
// apperr.KindTableMiss.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/masx-ai/flashpoint-pipeline/internal/apperr"
	"github.com/masx-ai/flashpoint-pipeline/internal/domain/entity"
	"github.com/masx-ai/flashpoint-pipeline/internal/pkg/dateutil"
)

// Adapter is the Store Adapter, backed by a *sql.DB using the pgx/v5
// stdlib driver (see internal/infra/db.Open).
type Adapter struct {
	db *sql.DB
}

// New wraps an already-configured *sql.DB.
func New(db *sql.DB) *Adapter {
	return &Adapter{db: db}
}

// undefinedTablePG is the SQLSTATE Postgres returns for a reference to a
// table that doesn't exist.
const undefinedTablePG = "42P01"

// isUndefinedTable detects a missing-relation error across both the real
// pgx driver (which returns a *pgconn.PgError with Code) and go-sqlmock
// (which returns whatever error the test configured), by checking the
// error text for the SQLSTATE or Postgres's own wording as a fallback.
func isUndefinedTable(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, undefinedTablePG) || strings.Contains(msg, "does not exist")
}

// Load reads every row in the date partition, optionally filtered to one
// flashpoint and/or one article id (§4.11's warm_up/process_all/
// process_by_flashpoint/process_by_article all fall through this one
// reader with different filters).
func (a *Adapter) Load(ctx context.Context, date, flashpointID, articleID string) ([]entity.FeedEntry, error) {
	table, err := dateutil.TableName(date)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
SELECT id, flashpoint_id, url, title, description, image, language,
       source_country, hostname, published_date, title_en, content,
       images, entities, geo_entities
FROM %s WHERE 1=1`, table)
	var args []any
	if flashpointID != "" {
		query += fmt.Sprintf(" AND flashpoint_id = $%d", len(args)+1)
		args = append(args, flashpointID)
	}
	if articleID != "" {
		query += fmt.Sprintf(" AND id = $%d", len(args)+1)
		args = append(args, articleID)
	}

	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		if isUndefinedTable(err) {
			return nil, apperr.TableMissing(table)
		}
		return nil, apperr.New(apperr.KindStorage, "failed to load feed entries", err)
	}
	defer func() { _ = rows.Close() }()

	var out []entity.FeedEntry
	for rows.Next() {
		entry, err := scanFeedEntry(rows)
		if err != nil {
			return nil, apperr.New(apperr.KindStorage, "failed to scan feed entry", err)
		}
		out = append(out, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.New(apperr.KindStorage, "failed reading feed entries", err)
	}
	return out, nil
}

func scanFeedEntry(rows *sql.Rows) (entity.FeedEntry, error) {
	var e entity.FeedEntry
	var image, language, sourceCountry, hostname, publishedDate, titleEN, content sql.NullString
	var imagesJSON, entitiesJSON, geoEntitiesJSON sql.NullString

	if err := rows.Scan(
		&e.ID, &e.FlashpointID, &e.URL, &e.Title, &e.Description, &image, &language,
		&sourceCountry, &hostname, &publishedDate, &titleEN, &content,
		&imagesJSON, &entitiesJSON, &geoEntitiesJSON,
	); err != nil {
		return e, err
	}

	e.Image = image.String
	e.Language = language.String
	e.SourceCountry = sourceCountry.String
	e.Hostname = hostname.String
	e.PublishedDate = publishedDate.String
	e.TitleEN = titleEN.String
	e.Content = content.String

	e.Images = []string{}
	if imagesJSON.Valid && imagesJSON.String != "" {
		_ = json.Unmarshal([]byte(imagesJSON.String), &e.Images)
	}
	if entitiesJSON.Valid && entitiesJSON.String != "" {
		var bundle entity.EntityBundle
		if err := json.Unmarshal([]byte(entitiesJSON.String), &bundle); err == nil {
			e.Entities = &bundle
		}
	}
	if geoEntitiesJSON.Valid && geoEntitiesJSON.String != "" {
		_ = json.Unmarshal([]byte(geoEntitiesJSON.String), &e.GeoEntities)
	}
	return e, nil
}

// Upsert writes one enriched row back to its date partition, keyed by
// (id, flashpoint_id) (§4.11's persistence contract). A failure here is a
// per-article StorageError: the caller decides whether it fails the batch.
func (a *Adapter) Upsert(ctx context.Context, date string, e entity.FeedEntry) error {
	table, err := dateutil.TableName(date)
	if err != nil {
		return err
	}

	imagesJSON, err := json.Marshal(e.Images)
	if err != nil {
		return apperr.New(apperr.KindStorage, "failed to marshal images", err)
	}
	entitiesJSON, err := json.Marshal(e.Entities)
	if err != nil {
		return apperr.New(apperr.KindStorage, "failed to marshal entities", err)
	}
	geoEntitiesJSON, err := json.Marshal(e.GeoEntities)
	if err != nil {
		return apperr.New(apperr.KindStorage, "failed to marshal geo_entities", err)
	}

	query := fmt.Sprintf(`
INSERT INTO %s (id, flashpoint_id, url, title, description, image, language,
                 source_country, hostname, published_date, title_en, content,
                 images, entities, geo_entities)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
ON CONFLICT (id, flashpoint_id) DO UPDATE SET
  title = EXCLUDED.title, hostname = EXCLUDED.hostname, language = EXCLUDED.language,
  title_en = EXCLUDED.title_en, content = EXCLUDED.content, images = EXCLUDED.images,
  entities = EXCLUDED.entities, geo_entities = EXCLUDED.geo_entities,
  published_date = EXCLUDED.published_date`, table)

	_, err = a.db.ExecContext(ctx, query,
		e.ID, e.FlashpointID, e.URL, e.Title, e.Description, e.Image, e.Language,
		e.SourceCountry, e.Hostname, e.PublishedDate, e.TitleEN, e.Content,
		string(imagesJSON), string(entitiesJSON), string(geoEntitiesJSON),
	)
	if err != nil {
		if isUndefinedTable(err) {
			return apperr.TableMissing(table)
		}
		return apperr.New(apperr.KindStorage, "failed to upsert feed entry", err)
	}
	return nil
}

// Clear deletes every row in a date partition. This is a DB-level utility,
// distinct from the Feed Processor's in-memory cache clear that backs the
// control plane's DELETE /feed/clear[/<date>] endpoints; see feed.Processor.Clear.
func (a *Adapter) Clear(ctx context.Context, date string) error {
	table, err := dateutil.TableName(date)
	if err != nil {
		return err
	}
	_, err = a.db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s", table))
	if err != nil {
		if isUndefinedTable(err) {
			return apperr.TableMissing(table)
		}
		return apperr.New(apperr.KindStorage, "failed to clear partition", err)
	}
	return nil
}
