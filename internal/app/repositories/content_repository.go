package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yigit/alumnet/internal/app/models"
	"github.com/yigit/alumnet/internal/app/session"
	"github.com/yigit/alumnet/internal/pkg/dberrors"
)

// DBTX is the part of pgxpool.Pool the content repository needs
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// isoTimestamp renders a timestamptz column as an RFC3339 UTC string
const isoTimestamp = `to_char(%s AT TIME ZONE 'UTC', 'YYYY-MM-DD"T"HH24:MI:SS"Z"') AS %s`

// ContentRepository reads content from the content service's read replica
type ContentRepository struct {
	db DBTX
}

// NewContentRepository creates a new ContentRepository
func NewContentRepository(db DBTX) *ContentRepository {
	return &ContentRepository{db: db}
}

// ListJobs returns every job posting in insertion order
func (r *ContentRepository) ListJobs(ctx context.Context, _ session.Session) ([]models.Job, error) {
	query, args, err := squirrel.Select(
		"id", "author_id", "title", "COALESCE(company, '')", "COALESCE(location, '')",
		"COALESCE(description, '')", "COALESCE(job_type, '')", fmt.Sprintf(isoTimestamp, "posted_at", "posted_at"),
	).
		From("jobs").
		Where(squirrel.Eq{"deleted_at": nil}).
		OrderBy("created_at", "id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building jobs query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dberrors.Wrap("error querying jobs", err)
	}
	defer rows.Close()

	var jobs []models.Job
	for rows.Next() {
		var j models.Job
		if err := rows.Scan(&j.ID, &j.AuthorID, &j.Title, &j.Company, &j.Location, &j.Description, &j.Type, &j.PostedAt); err != nil {
			return nil, fmt.Errorf("error scanning job row: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, dberrors.Wrap("error iterating job rows", err)
	}

	return jobs, nil
}

// ListEvents returns every event announcement in insertion order
func (r *ContentRepository) ListEvents(ctx context.Context, _ session.Session) ([]models.Event, error) {
	query, args, err := squirrel.Select(
		"id", "author_id", "title", fmt.Sprintf(isoTimestamp, "event_date", "event_date"),
		"COALESCE(location, '')", "COALESCE(description, '')", "COALESCE(image_url, '')",
	).
		From("events").
		Where(squirrel.Eq{"deleted_at": nil}).
		OrderBy("created_at", "id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building events query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dberrors.Wrap("error querying events", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.ID, &e.AuthorID, &e.Title, &e.Date, &e.Location, &e.Description, &e.Image); err != nil {
			return nil, fmt.Errorf("error scanning event row: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, dberrors.Wrap("error iterating event rows", err)
	}

	return events, nil
}

// ListPosts returns every general post in insertion order
func (r *ContentRepository) ListPosts(ctx context.Context, _ session.Session) ([]models.Post, error) {
	query, args, err := squirrel.Select(
		"id", "author_id", "title", "content", fmt.Sprintf(isoTimestamp, "posted_at", "posted_at"),
	).
		From("posts").
		Where(squirrel.Eq{"deleted_at": nil}).
		OrderBy("created_at", "id").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building posts query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, dberrors.Wrap("error querying posts", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		var p models.Post
		if err := rows.Scan(&p.ID, &p.AuthorID, &p.Title, &p.Content, &p.PostedAt); err != nil {
			return nil, fmt.Errorf("error scanning post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, dberrors.Wrap("error iterating post rows", err)
	}

	return posts, nil
}

// Ping checks that the replica answers
func (r *ContentRepository) Ping(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, "SELECT 1"); err != nil {
		return dberrors.Wrap("content replica unreachable", err)
	}
	return nil
}
