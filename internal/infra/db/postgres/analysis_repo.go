package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	domain "github.com/nutriscan/nutriscan-api/internal/domain/analyses"
)

type AnalysisRepository struct{ db *sql.DB }

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository { return &AnalysisRepository{db: db} }

// Append insert satu analysis record
func (r *AnalysisRepository) Append(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO analyses
(scan_id, created_at, product_name, expiry_date,
 health_score, concerns, recommended_portion, nutrition_per_portion)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8);`

	created := rec.Timestamp
	if created.IsZero() {
		created = time.Now().UTC()
	}

	score, err := json.Marshal(rec.HealthScore)
	if err != nil {
		return &domain.StoreIOError{Op: "append", Cause: err}
	}
	concerns, err := json.Marshal(rec.Concerns)
	if err != nil {
		return &domain.StoreIOError{Op: "append", Cause: err}
	}
	portion, err := json.Marshal(rec.RecommendedPortion)
	if err != nil {
		return &domain.StoreIOError{Op: "append", Cause: err}
	}
	nutrition, err := json.Marshal(rec.NutritionPerPortion)
	if err != nil {
		return &domain.StoreIOError{Op: "append", Cause: err}
	}

	if _, err := r.db.ExecContext(ctx, q,
		rec.ScanID, created, rec.ProductName, rec.ExpiryDate,
		score, concerns, portion, nutrition,
	); err != nil {
		return &domain.StoreIOError{Op: "append", Cause: err}
	}
	return nil
}

// List with offset + limit; ILIKE covers the case-insensitive filter
func (r *AnalysisRepository) List(ctx context.Context, q domain.ListQuery) (*domain.Page, error) {
	query := `
SELECT scan_id, created_at, product_name, expiry_date,
       health_score, concerns, recommended_portion, nutrition_per_portion
FROM analyses`
	countQuery := `SELECT COUNT(*) FROM analyses`

	var args []any
	var countArgs []any
	if q.ProductName != "" {
		where := ` WHERE product_name ILIKE $1`
		needle := "%" + escapeLikePattern(q.ProductName) + "%"
		query += where
		countQuery += where
		args = append(args, needle)
		countArgs = append(countArgs, needle)
	}

	query += fmt.Sprintf("\nORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.StoreIOError{Op: "list", Cause: fmt.Errorf("querying analyses: %w", err)}
	}
	defer rows.Close()

	var recs []*domain.Record
	for rows.Next() {
		var rec domain.Record
		var score, concerns, portion, nutrition []byte
		if err := rows.Scan(
			&rec.ScanID, &rec.Timestamp, &rec.ProductName, &rec.ExpiryDate,
			&score, &concerns, &portion, &nutrition,
		); err != nil {
			return nil, &domain.StoreIOError{Op: "list", Cause: fmt.Errorf("scanning row: %w", err)}
		}
		rec.HealthScore = decodeColumn(score)
		rec.Concerns = decodeColumn(concerns)
		rec.RecommendedPortion = decodeColumn(portion)
		if m, ok := decodeColumn(nutrition).(map[string]any); ok {
			rec.NutritionPerPortion = m
		}
		recs = append(recs, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, &domain.StoreIOError{Op: "list", Cause: fmt.Errorf("iterating rows: %w", err)}
	}

	var total int
	if err := r.db.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, &domain.StoreIOError{Op: "list", Cause: fmt.Errorf("getting total count: %w", err)}
	}

	return domain.NewPage(recs, total, q.Offset, q.Limit), nil
}

// Delete by scan_id; false berarti not found
func (r *AnalysisRepository) Delete(ctx context.Context, id domain.ScanID) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM analyses WHERE scan_id=$1;`, id)
	if err != nil {
		return false, &domain.StoreIOError{Op: "delete", Cause: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, &domain.StoreIOError{Op: "delete", Cause: err}
	}
	return n > 0, nil
}

func escapeLikePattern(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func decodeColumn(raw []byte) any {
	if len(raw) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil
	}
	return v
}
