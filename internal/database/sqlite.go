// Package database persists shopping lists and quote history in sqlite.
package database

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	_ "modernc.org/sqlite"

	"cotador/internal/models"
)

// Repository wraps the database connection.
type Repository struct {
	DB *sql.DB
}

// SavedList is one stored shopping list.
type SavedList struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Items     []string  `json:"items"`
	CreatedAt time.Time `json:"created_at"`
}

// SavedQuote is one stored quotation document.
type SavedQuote struct {
	ID        int64        `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Quote     models.Quote `json:"quote"`
}

// QuoteSummary is the condensed history view: when the quote ran and
// which market came out cheapest.
type QuoteSummary struct {
	ID         int64     `json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Items      []string  `json:"items"`
	BestMarket string    `json:"best_market"`
	BestTotal  float64   `json:"best_total"`
}

// Open initializes the sqlite database and creates the tables.
func Open(path string) (*Repository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrapf(err, "database: open %s", path)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, eris.Wrapf(err, "database: ping %s", path)
	}

	createListsTableSQL := `
	CREATE TABLE IF NOT EXISTS lists (
		"id" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		"name" TEXT,
		"items" TEXT,
		"created_at" DATETIME
	);`
	if _, err := db.Exec(createListsTableSQL); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "database: create lists table")
	}

	createQuotesTableSQL := `
	CREATE TABLE IF NOT EXISTS quotes (
		"id" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
		"document" TEXT,
		"created_at" DATETIME
	);`
	if _, err := db.Exec(createQuotesTableSQL); err != nil {
		db.Close()
		return nil, eris.Wrap(err, "database: create quotes table")
	}

	zap.L().Info("history database ready", zap.String("path", path))
	return &Repository{DB: db}, nil
}

// Close closes the database connection.
func (repo *Repository) Close() error {
	return repo.DB.Close()
}

// SaveList stores a shopping list and returns its id.
func (repo *Repository) SaveList(name string, items []string) (int64, error) {
	itemsJSON, err := json.Marshal(items)
	if err != nil {
		return 0, eris.Wrap(err, "database: marshal list items")
	}
	res, err := repo.DB.Exec(
		`INSERT INTO lists (name, items, created_at) VALUES (?, ?, ?)`,
		name, string(itemsJSON), time.Now().UTC(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "database: insert list")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, eris.Wrap(err, "database: list insert id")
	}
	return id, nil
}

// Lists returns all stored shopping lists, newest first.
func (repo *Repository) Lists() ([]SavedList, error) {
	rows, err := repo.DB.Query(`SELECT id, name, items, created_at FROM lists ORDER BY id DESC`)
	if err != nil {
		return nil, eris.Wrap(err, "database: query lists")
	}
	defer rows.Close()

	lists := make([]SavedList, 0)
	for rows.Next() {
		var l SavedList
		var itemsJSON string
		if err := rows.Scan(&l.ID, &l.Name, &itemsJSON, &l.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "database: scan list")
		}
		if err := json.Unmarshal([]byte(itemsJSON), &l.Items); err != nil {
			zap.L().Warn("list items column corrupt, skipping",
				zap.Int64("id", l.ID), zap.Error(err))
			continue
		}
		lists = append(lists, l)
	}
	return lists, rows.Err()
}

// SaveQuote stores a quotation document and returns its id.
func (repo *Repository) SaveQuote(q models.Quote) (int64, error) {
	doc, err := json.Marshal(q)
	if err != nil {
		return 0, eris.Wrap(err, "database: marshal quote")
	}
	res, err := repo.DB.Exec(
		`INSERT INTO quotes (document, created_at) VALUES (?, ?)`,
		string(doc), time.Now().UTC(),
	)
	if err != nil {
		return 0, eris.Wrap(err, "database: insert quote")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, eris.Wrap(err, "database: quote insert id")
	}
	return id, nil
}

// Quote returns one stored quote by id. sql.ErrNoRows is passed through
// so callers can map it to a 404.
func (repo *Repository) Quote(id int64) (SavedQuote, error) {
	var sq SavedQuote
	var doc string
	row := repo.DB.QueryRow(`SELECT id, document, created_at FROM quotes WHERE id = ?`, id)
	if err := row.Scan(&sq.ID, &doc, &sq.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return sq, err
		}
		return sq, eris.Wrapf(err, "database: scan quote %d", id)
	}
	if err := json.Unmarshal([]byte(doc), &sq.Quote); err != nil {
		return sq, eris.Wrapf(err, "database: decode quote %d", id)
	}
	return sq, nil
}

// Quotes returns stored quotes, newest first, capped at limit when it is
// positive.
func (repo *Repository) Quotes(limit int) ([]SavedQuote, error) {
	query := `SELECT id, document, created_at FROM quotes ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := repo.DB.Query(query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "database: query quotes")
	}
	defer rows.Close()

	quotes := make([]SavedQuote, 0)
	for rows.Next() {
		var sq SavedQuote
		var doc string
		if err := rows.Scan(&sq.ID, &doc, &sq.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "database: scan quote")
		}
		if err := json.Unmarshal([]byte(doc), &sq.Quote); err != nil {
			zap.L().Warn("quote document corrupt, skipping",
				zap.Int64("id", sq.ID), zap.Error(err))
			continue
		}
		quotes = append(quotes, sq)
	}
	return quotes, rows.Err()
}

// DeleteQuotes removes all stored quotes and returns how many went.
func (repo *Repository) DeleteQuotes() (int64, error) {
	res, err := repo.DB.Exec(`DELETE FROM quotes`)
	if err != nil {
		return 0, eris.Wrap(err, "database: delete quotes")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, eris.Wrap(err, "database: delete count")
	}
	return n, nil
}

// Summary returns the condensed view of the most recent quotes.
func (repo *Repository) Summary(limit int) ([]QuoteSummary, error) {
	quotes, err := repo.Quotes(limit)
	if err != nil {
		return nil, err
	}
	summaries := make([]QuoteSummary, 0, len(quotes))
	for _, sq := range quotes {
		s := QuoteSummary{
			ID:        sq.ID,
			CreatedAt: sq.CreatedAt,
			Items:     sq.Quote.RequestedItems,
		}
		if market, total, ok := sq.Quote.BestMarket(); ok {
			s.BestMarket = market
			s.BestTotal = total
		}
		summaries = append(summaries, s)
	}
	return summaries, nil
}
