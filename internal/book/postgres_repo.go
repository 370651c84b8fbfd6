package book

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const foreignKeyViolation = "23503"

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

// SummaryColumns lists every books column except the metadata snapshot, in
// the order SummaryScanTargets expects. Other packages joining books select
// it with their own alias and never pay for decoding snapshots.
const SummaryColumns = `id, external_id, title, author, isbn, description, cover_url, publisher,
	published_date, language, total_pages, genres, added_by_id, created_at`

// Columns is SummaryColumns plus the snapshot, matching ScanTargets.
const Columns = SummaryColumns + `, metadata`

// PrefixedSummaryColumns is SummaryColumns qualified with the given table alias.
func PrefixedSummaryColumns(alias string) string {
	return fmt.Sprintf(`%[1]s.id, %[1]s.external_id, %[1]s.title, %[1]s.author, %[1]s.isbn,
	%[1]s.description, %[1]s.cover_url, %[1]s.publisher, %[1]s.published_date, %[1]s.language,
	%[1]s.total_pages, %[1]s.genres, %[1]s.added_by_id, %[1]s.created_at`, alias)
}

func SummaryScanTargets(b *Book) []any {
	return []any{
		&b.ID, &b.ExternalID, &b.Title, &b.Author, &b.ISBN, &b.Description, &b.CoverURL, &b.Publisher,
		&b.PublishedDate, &b.Language, &b.TotalPages, &b.Genres, &b.AddedByID, &b.CreatedAt,
	}
}

// ScanTargets returns the destinations for Columns; the raw snapshot is
// decoded by FinishScan.
func ScanTargets(b *Book, rawSnapshot *[]byte) []any {
	return append(SummaryScanTargets(b), rawSnapshot)
}

// FinishSummaryScan normalizes a row read through SummaryScanTargets.
func FinishSummaryScan(b *Book) {
	if b.Genres == nil {
		b.Genres = []string{}
	}
}

func FinishScan(b *Book, rawSnapshot []byte) error {
	FinishSummaryScan(b)
	if len(rawSnapshot) == 0 {
		return nil
	}
	s, err := DecodeSnapshot(rawSnapshot)
	if err != nil {
		return fmt.Errorf("book %s: %w", b.ID, err)
	}
	b.Snapshot = s
	return nil
}

func (r *PostgresRepo) getOne(ctx context.Context, where string, arg any) (Book, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	var (
		b   Book
		raw []byte
	)
	err := r.db.QueryRow(ctx, `SELECT `+Columns+` FROM books WHERE `+where, arg).Scan(ScanTargets(&b, &raw)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, FinishScan(&b, raw)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id string) (Book, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *PostgresRepo) GetByExternalID(ctx context.Context, externalID string) (Book, error) {
	return r.getOne(ctx, "external_id = $1", externalID)
}

func (r *PostgresRepo) CreateOrGet(ctx context.Context, b Book) (Book, error) {
	raw, err := b.Snapshot.Encode()
	if err != nil {
		return Book{}, fmt.Errorf("encode snapshot: %w", err)
	}

	insertCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var (
		out    Book
		stored []byte
	)
	err = r.db.QueryRow(insertCtx, `
		INSERT INTO books (external_id, title, author, isbn, description, cover_url, publisher,
		                   published_date, language, total_pages, genres, metadata, added_by_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (external_id) DO NOTHING
		RETURNING `+Columns,
		b.ExternalID, b.Title, b.Author, b.ISBN, b.Description, b.CoverURL, b.Publisher,
		b.PublishedDate, b.Language, b.TotalPages, b.Genres, raw, b.AddedByID,
	).Scan(ScanTargets(&out, &stored)...)
	if errors.Is(err, pgx.ErrNoRows) {
		// Another request created it first.
		return r.GetByExternalID(ctx, b.ExternalID)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return Book{}, ErrUnknownUser
		}
		return Book{}, err
	}
	return out, FinishScan(&out, stored)
}
