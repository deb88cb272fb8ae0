package notes

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/codes"

	"github.com/2beens/diarynotes/internal/telemetry/tracing"
)

var _ Repo = (*PsqlRepo)(nil)

const noteColumns = `id, title, content, created_at, updated_at`

// pgxQuerier is satisfied by *pgxpool.Pool and by pgxmock pools.
type pgxQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PsqlRepo struct {
	db pgxQuerier
}

func NewPsqlRepo(db pgxQuerier) *PsqlRepo {
	return &PsqlRepo{
		db: db,
	}
}

func (r *PsqlRepo) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS note (
			id         BIGSERIAL PRIMARY KEY,
			title      TEXT NOT NULL,
			content    TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		);`,
	)
	if err != nil {
		return fmt.Errorf("create note table: %w", err)
	}
	return nil
}

func (r *PsqlRepo) List(ctx context.Context) (_ []*Note, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.notes.psql.list")
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		}
		span.End()
	}()

	rows, err := r.db.Query(ctx, `SELECT `+noteColumns+` FROM note ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := make([]*Note, 0)
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		notes = append(notes, note)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return notes, nil
}

func (r *PsqlRepo) Get(ctx context.Context, id string) (_ *Note, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.notes.psql.get")
	defer func() {
		if err != nil && !errors.Is(err, ErrNoteNotFound) {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		}
		span.End()
	}()

	noteID, err := parseSerialID(id)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, `SELECT `+noteColumns+` FROM note WHERE id = $1;`, noteID)
	return scanSingleNote(row)
}

func (r *PsqlRepo) Add(ctx context.Context, note *Note) (_ *Note, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.notes.psql.add")
	defer func() {
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		}
		span.End()
	}()

	row := r.db.QueryRow(
		ctx,
		`INSERT INTO note (title, content, created_at, updated_at) VALUES ($1, $2, $3, $4) RETURNING `+noteColumns+`;`,
		note.Title, note.Content, note.CreatedAt, note.UpdatedAt,
	)
	added, err := scanNote(row)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	return added, nil
}

func (r *PsqlRepo) Update(ctx context.Context, id string, input NoteInput, updatedAt time.Time) (_ *Note, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.notes.psql.update")
	defer func() {
		if err != nil && !errors.Is(err, ErrNoteNotFound) {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		}
		span.End()
	}()

	noteID, err := parseSerialID(id)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRow(
		ctx,
		`UPDATE note SET title = $1, content = $2, updated_at = $3 WHERE id = $4 RETURNING `+noteColumns+`;`,
		input.Title, input.Content, updatedAt, noteID,
	)
	return scanSingleNote(row)
}

func (r *PsqlRepo) Delete(ctx context.Context, id string) (_ *Note, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.notes.psql.delete")
	defer func() {
		if err != nil && !errors.Is(err, ErrNoteNotFound) {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err)
		}
		span.End()
	}()

	noteID, err := parseSerialID(id)
	if err != nil {
		return nil, err
	}

	row := r.db.QueryRow(ctx, `DELETE FROM note WHERE id = $1 RETURNING `+noteColumns+`;`, noteID)
	return scanSingleNote(row)
}

// parseSerialID reports ids that can never be a BIGSERIAL value as not found.
func parseSerialID(id string) (int64, error) {
	noteID, err := strconv.ParseInt(id, 10, 64)
	if err != nil || noteID <= 0 {
		return 0, ErrNoteNotFound
	}
	return noteID, nil
}

func scanSingleNote(row pgx.Row) (*Note, error) {
	note, err := scanNote(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}
	return note, nil
}

func scanNote(row pgx.Row) (*Note, error) {
	var (
		id   int64
		note Note
	)
	if err := row.Scan(&id, &note.Title, &note.Content, &note.CreatedAt, &note.UpdatedAt); err != nil {
		return nil, err
	}
	note.ID = strconv.FormatInt(id, 10)
	note.CreatedAt = note.CreatedAt.UTC()
	note.UpdatedAt = note.UpdatedAt.UTC()
	return &note, nil
}
