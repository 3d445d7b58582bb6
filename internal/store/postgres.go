package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

const productivityColumns = `id, productivity, total, completed_items, total_items,
	completion_percent, save_date`

func (s *PostgresStore) SaveProductivity(ctx context.Context, p *Productivity) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO notion_productivity (productivity, total, completed_items, total_items,
			completion_percent, save_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		p.Productivity, p.Total, p.CompletedItems, p.TotalItems,
		p.CompletionPercent, p.SaveDate,
	).Scan(&p.ID)
}

func (s *PostgresStore) GetLatestProductivity(ctx context.Context) (*Productivity, error) {
	p, err := scanProductivity(s.pool.QueryRow(ctx, `
		SELECT `+productivityColumns+`
		FROM notion_productivity ORDER BY save_date DESC LIMIT 1`))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostgresStore) ListProductivity(ctx context.Context, filter ProductivityFilter) ([]*Productivity, error) {
	query := `SELECT ` + productivityColumns + ` FROM notion_productivity WHERE 1=1`
	args := []interface{}{}
	n := 0

	if filter.Since != nil {
		n++
		query += fmt.Sprintf(" AND save_date >= $%d", n)
		args = append(args, *filter.Since)
	}

	query += " ORDER BY save_date DESC"

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	n++
	query += fmt.Sprintf(" LIMIT $%d", n)
	args = append(args, limit)

	if filter.Offset > 0 {
		n++
		query += fmt.Sprintf(" OFFSET $%d", n)
		args = append(args, filter.Offset)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Productivity
	for rows.Next() {
		p, err := scanProductivity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanProductivity(row pgx.Row) (*Productivity, error) {
	p := &Productivity{}
	err := row.Scan(
		&p.ID, &p.Productivity, &p.Total, &p.CompletedItems, &p.TotalItems,
		&p.CompletionPercent, &p.SaveDate,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostgresStore) GetParameterByDescription(ctx context.Context, description string) (*Parameter, error) {
	p := &Parameter{}
	err := s.pool.QueryRow(ctx, `
		SELECT id, description, value, updated_at
		FROM parameters WHERE description = $1`, description,
	).Scan(&p.ID, &p.Description, &p.Value, &p.UpdatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PostgresStore) UpsertParameter(ctx context.Context, p *Parameter) error {
	return s.pool.QueryRow(ctx, `
		INSERT INTO parameters (description, value)
		VALUES ($1, $2)
		ON CONFLICT (description) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
		RETURNING id, updated_at`,
		p.Description, p.Value,
	).Scan(&p.ID, &p.UpdatedAt)
}
