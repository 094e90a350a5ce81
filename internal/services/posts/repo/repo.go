// Package repo provides the posts repository implementations
package repo

import (
	"context"
	"strconv"
	"strings"

	"classboard/internal/modkit/repokit"
	perr "classboard/internal/platform/errors"
	"classboard/internal/platform/store"
	"classboard/internal/services/posts/domain"
)

type (
	pg     struct{ q repokit.Queryer }
	binder struct{}
)

// NewPG constructs a new repo binder for Postgres
func NewPG() repokit.Binder[domain.StoragePort] { return binder{} }

// Bind implements repokit.Binder
func (binder) Bind(q repokit.Queryer) domain.StoragePort { return &pg{q: q} }

const postCols = `id, author, title, body, category, url,
	participation, homework, agent, comment_count, created_at, updated_at`

// Upsert implements domain.StoragePort
// the whole record is replaced so a reclassified post never keeps stale fields
func (s *pg) Upsert(ctx context.Context, p domain.Post) error {
	_, err := s.q.Exec(ctx, `
		INSERT INTO posts (`+postCols+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
		ON CONFLICT (id) DO UPDATE SET
			author        = EXCLUDED.author,
			title         = EXCLUDED.title,
			body          = EXCLUDED.body,
			category      = EXCLUDED.category,
			url           = EXCLUDED.url,
			participation = EXCLUDED.participation,
			homework      = EXCLUDED.homework,
			agent         = EXCLUDED.agent,
			comment_count = EXCLUDED.comment_count,
			created_at    = EXCLUDED.created_at,
			updated_at    = EXCLUDED.updated_at`,
		p.ID, p.Author, p.Title, p.Body, p.Category, p.URL,
		p.Participation, p.Homework, p.Agent, p.CommentCount, p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		return perr.FromPostgres(err, "upsert post")
	}
	return nil
}

// Get implements domain.StoragePort
func (s *pg) Get(ctx context.Context, id string) (*domain.Post, error) {
	p, err := store.One(ctx, s.q, func(r store.Row) (domain.Post, error) {
		return scanPost(r)
	}, `SELECT `+postCols+` FROM posts WHERE id = $1`, id)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return nil, perr.NotFoundf("post %s not found", id)
		}
		return nil, perr.FromPostgres(err, "get post")
	}
	return &p, nil
}

// List implements domain.StoragePort
func (s *pg) List(ctx context.Context, f domain.Filter) ([]domain.Post, error) {
	var sb strings.Builder
	var args []any
	arg := func(v any) string { args = append(args, v); return "$" + strconv.Itoa(len(args)) }

	sb.WriteString(`SELECT ` + postCols + ` FROM posts WHERE TRUE`)
	if len(f.Students) > 0 {
		sb.WriteString(" AND author = ANY(" + arg(f.Students) + ")")
	}
	if len(f.Types) > 0 {
		sb.WriteString(" AND participation = ANY(" + arg(f.Types) + ")")
	}
	if len(f.Agents) > 0 {
		sb.WriteString(" AND agent = ANY(" + arg(f.Agents) + ")")
	}
	if len(f.Homeworks) > 0 {
		nums := make([]int, 0, len(f.Homeworks))
		for _, h := range f.Homeworks {
			n, err := strconv.Atoi(strings.TrimSpace(h))
			if err != nil {
				return nil, perr.InvalidArgf("bad homework filter value %q", h)
			}
			nums = append(nums, n)
		}
		sb.WriteString(" AND homework = ANY(" + arg(nums) + ")")
	}
	sb.WriteString(" ORDER BY updated_at DESC, id")

	rows, err := s.q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, perr.FromPostgres(err, "list posts")
	}
	defer rows.Close()

	var out []domain.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, perr.FromPostgres(err, "scan post")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type scanner interface{ Scan(dest ...any) error }

func scanPost(r scanner) (domain.Post, error) {
	var p domain.Post
	err := r.Scan(
		&p.ID, &p.Author, &p.Title, &p.Body, &p.Category, &p.URL,
		&p.Participation, &p.Homework, &p.Agent, &p.CommentCount, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}
