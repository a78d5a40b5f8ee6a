// Package history records one-off scrapes into a sqlite database so extraction
// results can be compared over time while debugging a cookie or a page change.
package history

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

var tracer = otel.Tracer("socsbot/history")

type Entry struct {
	ID        int64
	FetchedAt time.Time
	Found     bool
	Items     []string
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	_, err = db.Exec("pragma foreign_keys = on")
	if err != nil {
		db.Close()
		return nil, err
	}
	_, err = db.Exec(Schema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return db, nil
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) Store {
	return Store{db: db}
}

func (s Store) Record(ctx context.Context, entry Entry) (int64, error) {
	ctx, span := tracer.Start(ctx, "Record")
	defer span.End()
	span.SetAttributes(attribute.Int("items", len(entry.Items)))

	id, err := s.record(ctx, entry)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	return id, nil
}

func (s Store) record(ctx context.Context, entry Entry) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(
		ctx,
		"insert into Scrape(fetchedAt, found, itemCount) values (?, ?, ?)",
		entry.FetchedAt.Unix(), entry.Found, len(entry.Items),
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i, item := range entry.Items {
		_, err := tx.ExecContext(
			ctx,
			"insert into ScrapeItem(scrapeId, position, text) values (?, ?, ?)",
			id, i, item,
		)
		if err != nil {
			return 0, err
		}
	}

	return id, tx.Commit()
}

// Recent returns the last limit scrapes, newest first.
func (s Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	ctx, span := tracer.Start(ctx, "Recent")
	defer span.End()

	entries, err := s.recent(ctx, limit)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	return entries, nil
}

func (s Store) recent(ctx context.Context, limit int) ([]Entry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		"select id, fetchedAt, found from Scrape order by id desc limit ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var fetchedAt int64
		err := rows.Scan(&entry.ID, &fetchedAt, &entry.Found)
		if err != nil {
			return nil, err
		}
		entry.FetchedAt = time.Unix(fetchedAt, 0)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range entries {
		entries[i].Items, err = s.items(ctx, entries[i].ID)
		if err != nil {
			return nil, err
		}
	}
	return entries, nil
}

func (s Store) items(ctx context.Context, scrapeId int64) ([]string, error) {
	rows, err := s.db.QueryContext(
		ctx,
		"select text from ScrapeItem where scrapeId = ? order by position",
		scrapeId,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []string{}
	for rows.Next() {
		var text string
		err := rows.Scan(&text)
		if err != nil {
			return nil, err
		}
		items = append(items, text)
	}
	return items, rows.Err()
}
