package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	domain "github.com/nutriscan/nutriscan-api/internal/domain/analyses"
)

// AnalysisRepository is the SQL alternative to the JSONL log for
// deployments that outgrow a single file. Same port, same semantics.
type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Append insert satu analysis record
func (r *AnalysisRepository) Append(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO analyses
(scan_id, created_at, product_name, expiry_date,
 health_score, concerns, recommended_portion, nutrition_per_portion)
VALUES (?,?,?,?,?,?,?,?);
`
	created := rec.Timestamp
	if created.IsZero() {
		created = time.Now().UTC()
	}

	score, concerns, portion, nutrition, err := marshalFlexFields(rec)
	if err != nil {
		return &domain.StoreIOError{Op: "append", Cause: err}
	}

	_, err = r.db.ExecContext(ctx, q,
		rec.ScanID, created, rec.ProductName, rec.ExpiryDate,
		score, concerns, portion, nutrition,
	)
	if err != nil {
		return &domain.StoreIOError{Op: "append", Cause: err}
	}
	return nil
}

// List with offset + limit and optional product-name substring filter
func (r *AnalysisRepository) List(ctx context.Context, q domain.ListQuery) (*domain.Page, error) {
	query := `
SELECT scan_id, created_at, product_name, expiry_date,
       health_score, concerns, recommended_portion, nutrition_per_portion
FROM analyses`
	countQuery := `SELECT COUNT(*) FROM analyses`

	var args []any
	var countArgs []any
	if q.ProductName != "" {
		// LOWER() keeps the filter case-insensitive regardless of collation
		where := " WHERE LOWER(product_name) LIKE ?"
		needle := "%" + escapeLikePattern(q.ProductName) + "%"
		query += where
		countQuery += where
		args = append(args, needle)
		countArgs = append(countArgs, needle)
	}

	query += "\nORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, q.Limit, q.Offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &domain.StoreIOError{Op: "list", Cause: fmt.Errorf("querying analyses: %w", err)}
	}
	defer rows.Close()

	var recs []*domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, &domain.StoreIOError{Op: "list", Cause: fmt.Errorf("scanning row: %w", err)}
		}
		recs = append(recs, rec)
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
	res, err := r.db.ExecContext(ctx, `DELETE FROM analyses WHERE scan_id=?;`, id)
	if err != nil {
		return false, &domain.StoreIOError{Op: "delete", Cause: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, &domain.StoreIOError{Op: "delete", Cause: err}
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.Record, error) {
	var rec domain.Record
	var score, concerns, portion, nutrition []byte
	if err := row.Scan(
		&rec.ScanID, &rec.Timestamp, &rec.ProductName, &rec.ExpiryDate,
		&score, &concerns, &portion, &nutrition,
	); err != nil {
		return nil, err
	}
	rec.HealthScore = unmarshalFlex(score)
	rec.Concerns = unmarshalFlex(concerns)
	rec.RecommendedPortion = unmarshalFlex(portion)
	if m, ok := unmarshalFlex(nutrition).(map[string]any); ok {
		rec.NutritionPerPortion = m
	}
	return &rec, nil
}
