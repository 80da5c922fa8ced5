package gradebook

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mind-engage/mindengage-grades/internal/course"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) CreateBook(ctx context.Context, b Book) (Book, error) {
	now := time.Now().Unix()
	if b.CreatedAt == 0 {
		b.CreatedAt = now
	}
	b.UpdatedAt = now
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO gradebooks (id, owner_id, name, target_quota, created_at, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6)`,
		b.ID, b.OwnerID, b.Name, nullQuota(b.Quota), b.CreatedAt, b.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return Book{}, ErrNameTaken
		}
		return Book{}, err
	}
	return b, nil
}

func (s *SQLStore) GetBook(ctx context.Context, id string) (Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, target_quota, created_at, updated_at FROM gradebooks WHERE id=$1`, id)
	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Book{}, ErrNotFound
	}
	return b, err
}

func (s *SQLStore) ListBooks(ctx context.Context, ownerID string) ([]Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, target_quota, created_at, updated_at
		   FROM gradebooks WHERE owner_id=$1 ORDER BY created_at, name`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteBook(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, `DELETE FROM courses WHERE gradebook_id=$1`, id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM gradebooks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (s *SQLStore) SetQuota(ctx context.Context, id string, quota int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE gradebooks SET target_quota=$1, updated_at=$2 WHERE id=$3`,
		quota, time.Now().Unix(), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLStore) SaveRecords(ctx context.Context, bookID string, recs []course.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `UPDATE gradebooks SET updated_at=$1 WHERE id=$2`, time.Now().Unix(), bookID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM courses WHERE gradebook_id=$1`, bookID); err != nil {
		return err
	}
	for i, r := range recs {
		f := r.Fields()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO courses (gradebook_id, position, course_id, name, points, grade, category)
			 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			bookID, i, r.ID, r.Name, r.Points, f[3], r.Category); err != nil {
			return fmt.Errorf("insert course %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLStore) LoadRecords(ctx context.Context, bookID string) ([]course.Record, error) {
	if _, err := s.GetBook(ctx, bookID); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT course_id, name, points, grade, category
		   FROM courses WHERE gradebook_id=$1 ORDER BY position`, bookID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []course.Record
	for rows.Next() {
		var id, name, grade, category string
		var points float64
		if err := rows.Scan(&id, &name, &points, &grade, &category); err != nil {
			return nil, err
		}
		g, err := course.ParseGrade(grade)
		if err != nil {
			return nil, fmt.Errorf("course %s: %w", id, err)
		}
		r, err := course.New(id, name, points, g, category)
		if err != nil {
			return nil, fmt.Errorf("course %s: %w", id, err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanBook(sc scanner) (Book, error) {
	var b Book
	var quota sql.NullInt64
	if err := sc.Scan(&b.ID, &b.OwnerID, &b.Name, &quota, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return Book{}, err
	}
	if quota.Valid {
		q := int(quota.Int64)
		b.Quota = &q
	}
	return b, nil
}

func nullQuota(q *int) sql.NullInt64 {
	if q == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*q), Valid: true}
}

func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // sqlite + postgres
		strings.Contains(msg, "sqlstate 23505")
}
