package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"asset-catalog/internal/assettypes"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// ListAssets returns one page of catalog records matching the filter, plus
// the total match count for pagination.
func (s *Store) ListAssets(ctx context.Context, opts ListOptions) ([]Asset, int, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_assets", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var conds []string
	var args []interface{}
	if opts.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, opts.Category)
	}
	if opts.Status != "" {
		conds = append(conds, "status = ?")
		args = append(args, opts.Status)
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM assets"+where, args...).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	pageSize := opts.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	query := fmt.Sprintf(`
	SELECT path, category, mime_type, status, fingerprint, size,
	       created_at, modified_at, discovered_at, processed_at,
	       elapsed_ms, error, width, height, thumbnail_path
	FROM assets%s ORDER BY %s %s LIMIT ? OFFSET ?
	`, where, sortColumn(opts.Sort), sortDirection(opts.Order))

	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var assets []Asset
	for rows.Next() {
		a, scanErr := scanAsset(rows)
		if scanErr != nil {
			err = scanErr
			return nil, 0, err
		}
		assets = append(assets, *a)
	}
	err = rows.Err()
	if err != nil {
		return nil, 0, err
	}
	return assets, total, nil
}

// sortColumn maps a SortField onto a column name. The mapping is closed so
// user input can never reach the ORDER BY clause directly.
func sortColumn(f assettypes.SortField) string {
	switch f {
	case assettypes.SortBySize:
		return "size"
	case assettypes.SortByModified:
		return "modified_at"
	case assettypes.SortByElapsed:
		return "elapsed_ms"
	default:
		return "path"
	}
}

func sortDirection(o assettypes.SortOrder) string {
	if o == assettypes.SortDesc {
		return "DESC"
	}
	return "ASC"
}

// RecentEvents returns the newest event log entries, most recent first.
func (s *Store) RecentEvents(ctx context.Context, limit int) ([]Event, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("recent_events", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if limit < 1 {
		limit = defaultPageSize
	}

	rows, err := s.db.QueryContext(ctx, `
	SELECT id, kind, path, message, created_at
	FROM events ORDER BY id DESC LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var createdAt int64
		if scanErr := rows.Scan(&e.ID, &e.Kind, &e.Path, &e.Message, &createdAt); scanErr != nil {
			err = scanErr
			return nil, err
		}
		e.CreatedAt = time.Unix(createdAt, 0)
		events = append(events, e)
	}
	err = rows.Err()
	if err != nil {
		return nil, err
	}
	return events, nil
}

// CountEvents returns the total number of event log entries.
func (s *Store) CountEvents(ctx context.Context) (int, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("count_events", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var n int
	err = s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM events").Scan(&n)
	return n, err
}

// Stats computes the aggregate contract for the reporting collaborator:
// totals, counts grouped by category and status, and per-category size and
// average-elapsed breakdowns.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("stats", start, err) }()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	stats := Stats{
		ByCategory: make(map[string]CategoryStats),
		ByStatus:   make(map[string]int),
	}

	err = s.db.QueryRowContext(ctx, `
	SELECT COUNT(*), COALESCE(SUM(size), 0), COALESCE(AVG(elapsed_ms), 0)
	FROM assets
	`).Scan(&stats.TotalAssets, &stats.TotalSize, &stats.AvgElapsedMs)
	if err != nil {
		return stats, err
	}

	rows, err := s.db.QueryContext(ctx, "SELECT status, COUNT(*) FROM assets GROUP BY status")
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		var status string
		var count int
		if scanErr := rows.Scan(&status, &count); scanErr != nil {
			err = scanErr
			return stats, err
		}
		stats.ByStatus[status] = count
		switch assettypes.Status(status) {
		case assettypes.StatusCompleted:
			stats.Completed = count
		case assettypes.StatusFailed:
			stats.Failed = count
		case assettypes.StatusPending, assettypes.StatusProcessing:
			stats.Pending += count
		}
	}
	if err = rows.Err(); err != nil {
		return stats, err
	}

	catRows, err := s.db.QueryContext(ctx, `
	SELECT category, COUNT(*), COALESCE(SUM(size), 0), COALESCE(AVG(elapsed_ms), 0)
	FROM assets GROUP BY category
	`)
	if err != nil {
		return stats, err
	}
	defer catRows.Close()

	for catRows.Next() {
		var category string
		var cs CategoryStats
		if scanErr := catRows.Scan(&category, &cs.Count, &cs.TotalSize, &cs.AvgElapsedMs); scanErr != nil {
			err = scanErr
			return stats, err
		}
		stats.ByCategory[category] = cs
	}
	err = catRows.Err()
	return stats, err
}
