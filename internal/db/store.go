package db

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/assetdesk/backend/internal/billing"
	"github.com/assetdesk/backend/internal/models"
)

type Store struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{Pool: pool}, nil
}

func (s *Store) Close() {
	s.Pool.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.Pool.Ping(ctx)
}

func (s *Store) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

const ticketColumns = `id, status, subject, classification, requester, created_at, closed_at, assets, logistics, accessories`

func scanTicket(row pgx.Row) (models.Ticket, error) {
	var (
		t           models.Ticket
		assets      []byte
		logistics   []byte
		accessories []byte
	)
	if err := row.Scan(&t.ID, &t.Status, &t.Subject, &t.Classification, &t.Requester, &t.CreatedAt, &t.ClosedAt, &assets, &logistics, &accessories); err != nil {
		return models.Ticket{}, err
	}
	if len(assets) > 0 {
		if err := json.Unmarshal(assets, &t.Assets); err != nil {
			return models.Ticket{}, fmt.Errorf("ticket %s: decode assets: %w", t.ID, err)
		}
	}
	if len(logistics) > 0 {
		if err := json.Unmarshal(logistics, &t.Logistics); err != nil {
			return models.Ticket{}, fmt.Errorf("ticket %s: decode logistics: %w", t.ID, err)
		}
	}
	if len(accessories) > 0 {
		if err := json.Unmarshal(accessories, &t.Accessories); err != nil {
			return models.Ticket{}, fmt.Errorf("ticket %s: decode accessories: %w", t.ID, err)
		}
	}
	return t, nil
}

func (s *Store) ListTickets(ctx context.Context, status, requester, q string, limit, offset int) ([]models.Ticket, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + ticketColumns + ` FROM tickets`
	var args []any
	var wheres []string
	if status != "" {
		args = append(args, status)
		wheres = append(wheres, fmt.Sprintf("status = $%d", len(args)))
	}
	if requester != "" {
		args = append(args, requester)
		wheres = append(wheres, fmt.Sprintf("requester = $%d", len(args)))
	}
	if q != "" {
		args = append(args, "%"+q+"%")
		wheres = append(wheres, fmt.Sprintf("(subject ILIKE $%d OR id ILIKE $%d)", len(args), len(args)))
	}
	if len(wheres) > 0 {
		query += " WHERE " + strings.Join(wheres, " AND ")
	}
	query += " ORDER BY created_at DESC LIMIT $" + fmt.Sprint(len(args)+1) + " OFFSET $" + fmt.Sprint(len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListTicketsForPeriod returns the candidate set for one billing period. The
// engine re-applies the billable-status and month filters; the query just
// bounds the scan to the billable statuses and the month window.
func (s *Store) ListTicketsForPeriod(ctx context.Context, p models.Period) ([]models.Ticket, error) {
	from := time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	rows, err := s.Pool.Query(ctx, `
		SELECT `+ticketColumns+`
		FROM tickets
		WHERE status = ANY($1)
		  AND COALESCE(closed_at, created_at) >= $2
		  AND COALESCE(closed_at, created_at) < $3
		ORDER BY created_at ASC
	`, billableStatusList(), from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func billableStatusList() []string {
	out := make([]string, 0, len(billing.BillableStatuses))
	for status := range billing.BillableStatuses {
		out = append(out, status)
	}
	return out
}

func (s *Store) GetTicket(ctx context.Context, id string) (models.Ticket, error) {
	row := s.Pool.QueryRow(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = $1`, id)
	return scanTicket(row)
}

func (s *Store) ListAssets(ctx context.Context) ([]models.Asset, error) {
	rows, err := s.Pool.Query(ctx, `SELECT serial, type, movement_type, device_type, hardware_type, name, description FROM assets ORDER BY serial ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Asset
	for rows.Next() {
		var a models.Asset
		if err := rows.Scan(&a.Serial, &a.Type, &a.MovementType, &a.DeviceType, &a.HardwareType, &a.Name, &a.Description); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) GetRateTable(ctx context.Context) (billing.RateTable, error) {
	rows, err := s.Pool.Query(ctx, `SELECT key, value FROM rates`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := billing.RateTable{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		table[key] = value
	}
	return table, rows.Err()
}

func (s *Store) UpsertRates(ctx context.Context, rates map[string]string) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		for key, value := range rates {
			if _, err := tx.Exec(ctx, `
				INSERT INTO rates (key, value, updated_at)
				VALUES ($1, $2, NOW())
				ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
			`, key, value); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) DeleteRate(ctx context.Context, key string) (bool, error) {
	tag, err := s.Pool.Exec(ctx, `DELETE FROM rates WHERE key = $1`, key)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
