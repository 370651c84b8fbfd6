package library

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookmory/internal/book"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	uniqueViolation     = "23505"
	foreignKeyViolation = "23503"
)

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const userBookColumns = `ub.id, ub.user_id, ub.book_id, ub.status, ub.current_page, ub.rating, ub.review,
	ub.is_favorite, ub.started_at, ub.finished_at, ub.created_at, ub.updated_at`

func userBookTargets(ub *UserBook) []any {
	return []any{
		&ub.ID, &ub.UserID, &ub.BookID, &ub.Status, &ub.CurrentPage, &ub.Rating, &ub.Review,
		&ub.IsFavorite, &ub.StartedAt, &ub.FinishedAt, &ub.CreatedAt, &ub.UpdatedAt,
	}
}

// joinedSelect leaves out the book snapshot: views never expose it, and one
// unreadable snapshot must not break a whole listing.
var joinedSelect = `SELECT ` + userBookColumns + `, ` + book.PrefixedSummaryColumns("b") + `
	FROM user_books ub
	JOIN books b ON b.id = ub.book_id`

func scanJoined(row pgx.Row) (UserBook, error) {
	var ub UserBook
	targets := append(userBookTargets(&ub), book.SummaryScanTargets(&ub.Book)...)
	if err := row.Scan(targets...); err != nil {
		return UserBook{}, err
	}
	book.FinishSummaryScan(&ub.Book)
	return ub, nil
}

func (r *PostgresRepo) Exists(ctx context.Context, userID, bookID string) (bool, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM user_books WHERE user_id = $1 AND book_id = $2)`,
		userID, bookID,
	).Scan(&exists)
	return exists, err
}

func (r *PostgresRepo) Create(ctx context.Context, ub UserBook) (UserBook, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var out UserBook
	err := r.db.QueryRow(ctx, `
		INSERT INTO user_books AS ub (user_id, book_id, status, current_page, is_favorite, started_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userBookColumns,
		ub.UserID, ub.BookID, ub.Status, ub.CurrentPage, ub.IsFavorite, ub.StartedAt,
	).Scan(userBookTargets(&out)...)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case uniqueViolation:
				return UserBook{}, ErrDuplicate
			case foreignKeyViolation:
				return UserBook{}, ErrUnknownUser
			}
		}
		return UserBook{}, err
	}
	return out, nil
}

func (r *PostgresRepo) Get(ctx context.Context, userID, bookID string) (UserBook, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	ub, err := scanJoined(r.db.QueryRow(ctx, joinedSelect+` WHERE ub.user_id = $1 AND ub.book_id = $2`, userID, bookID))
	if errors.Is(err, pgx.ErrNoRows) {
		return UserBook{}, ErrNotFound
	}
	return ub, err
}

// UpdateProgress writes the whole derived state in one statement.
func (r *PostgresRepo) UpdateProgress(ctx context.Context, userBookID string, p Progress) (UserBook, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var out UserBook
	err := r.db.QueryRow(ctx, `
		UPDATE user_books AS ub
		SET status = $2, current_page = $3, rating = $4, review = $5, is_favorite = $6,
		    started_at = $7, finished_at = $8, updated_at = NOW()
		WHERE ub.id = $1
		RETURNING `+userBookColumns,
		userBookID, p.Status, p.CurrentPage, p.Rating, p.Review, p.IsFavorite, p.StartedAt, p.FinishedAt,
	).Scan(userBookTargets(&out)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return UserBook{}, ErrNotFound
	}
	return out, err
}

func (r *PostgresRepo) Delete(ctx context.Context, userID, bookID string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM user_books WHERE user_id = $1 AND book_id = $2`, userID, bookID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostgresRepo) List(ctx context.Context, userID string, q ListQuery) ([]UserBook, int, error) {
	clauses := []string{"ub.user_id = $1"}
	args := []any{userID}
	argn := 2

	if q.Status != nil {
		clauses = append(clauses, fmt.Sprintf("ub.status = $%d", argn))
		args = append(args, string(*q.Status))
		argn++
	}
	if q.IsFavorite != nil {
		clauses = append(clauses, fmt.Sprintf("ub.is_favorite = $%d", argn))
		args = append(args, *q.IsFavorite)
		argn++
	}
	where := " WHERE " + strings.Join(clauses, " AND ")

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM user_books ub`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	dataSQL := joinedSelect + where + fmt.Sprintf(" ORDER BY ub.updated_at DESC, ub.id LIMIT $%d OFFSET $%d", argn, argn+1)
	rows, err := r.db.Query(ctx, dataSQL, append(args, q.Limit, q.Offset())...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []UserBook{}
	for rows.Next() {
		ub, err := scanJoined(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, ub)
	}
	return out, total, rows.Err()
}

func (r *PostgresRepo) Stats(ctx context.Context, userID string) (StatsRow, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var row StatsRow
	var wantToRead, reading, finished, paused, dnf int
	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'WANT_TO_READ'),
		       COUNT(*) FILTER (WHERE status = 'READING'),
		       COUNT(*) FILTER (WHERE status = 'FINISHED'),
		       COUNT(*) FILTER (WHERE status = 'PAUSED'),
		       COUNT(*) FILTER (WHERE status = 'DNF'),
		       COUNT(*) FILTER (WHERE is_favorite),
		       AVG(rating)::FLOAT8,
		       COALESCE(SUM(current_page), 0)
		FROM user_books
		WHERE user_id = $1`, userID,
	).Scan(&row.Total, &wantToRead, &reading, &finished, &paused, &dnf, &row.Favorites, &row.AverageRating, &row.TotalPagesRead)
	if err != nil {
		return StatsRow{}, err
	}

	row.ByStatus = map[ReadingStatus]int{
		StatusWantToRead: wantToRead,
		StatusReading:    reading,
		StatusFinished:   finished,
		StatusPaused:     paused,
		StatusDNF:        dnf,
	}
	return row, nil
}
