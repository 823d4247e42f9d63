package postgres

import (
	"context"
	"errors"
	"fmt"

	apperr "github.com/ButyrinIA/publy/internal/errors"
	"github.com/ButyrinIA/publy/internal/models"
	"github.com/ButyrinIA/publy/internal/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresStorage struct {
	pool *pgxpool.Pool
}

func New(dsn string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %v", err)
	}

	_, err = pool.Exec(context.Background(), `
		CREATE TABLE IF NOT EXISTS stories (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			body_markdown TEXT NOT NULL,
			author_id TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
		CREATE TABLE IF NOT EXISTS comments (
			id TEXT PRIMARY KEY,
			story_id TEXT REFERENCES stories(id),
			author_id TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_comments_story_id ON comments(story_id);
	`)

	if err != nil {
		return nil, fmt.Errorf("failed to create tables: %v", err)
	}

	return &PostgresStorage{pool: pool}, nil
}

func (s *PostgresStorage) CreateStory(ctx context.Context, story *models.Story) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO stories (id, title, body_markdown, author_id, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		story.ID, story.Title, story.BodyMarkdown, story.AuthorID, story.CreatedAt)
	return err
}

func (s *PostgresStorage) GetStory(ctx context.Context, id string) (*models.Story, error) {
	var st models.Story
	err := s.pool.QueryRow(ctx, `
		SELECT id, title, body_markdown, author_id, created_at
		FROM stories
		WHERE id=$1`, id).Scan(&st.ID, &st.Title, &st.BodyMarkdown, &st.AuthorID, &st.CreatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.ErrNotFound
	}
	return &st, err
}

// orderClause отображает закрытое перечисление полей сортировки на имена колонок,
// значения вне перечисления сюда не доходят
func orderClause(order *pagination.Order) string {
	if order == nil {
		return "created_at DESC"
	}
	column := "created_at"
	if order.Field == pagination.OrderByTitle {
		column = "title"
	}
	direction := "DESC"
	if order.Direction == pagination.Asc {
		direction = "ASC"
	}
	return column + " " + direction
}

func (s *PostgresStorage) ListStories(ctx context.Context, page pagination.Request) (*models.StoryPage, error) {
	// Подсчет общего количества
	var totalCount int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM stories`).Scan(&totalCount); err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		SELECT id, title, body_markdown, author_id, created_at
		FROM stories
		ORDER BY %s
		OFFSET $1 LIMIT $2`, orderClause(page.Order))
	rows, err := s.pool.Query(ctx, query, page.Offset(), page.PageSize)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stories []models.Story
	for rows.Next() {
		var st models.Story
		if err := rows.Scan(&st.ID, &st.Title, &st.BodyMarkdown, &st.AuthorID, &st.CreatedAt); err != nil {
			return nil, err
		}
		stories = append(stories, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	meta := pagination.MetaFor(totalCount, page.Page, page.PageSize)
	return &models.StoryPage{
		Stories:     stories,
		HasPrevPage: meta.HasPrevPage,
		HasNextPage: meta.HasNextPage,
		TotalPages:  meta.TotalPages,
	}, nil
}

func (s *PostgresStorage) CreateComment(ctx context.Context, comment *models.Comment) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO comments (id, story_id, author_id, content, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		comment.ID, comment.StoryID, comment.AuthorID, comment.Content, comment.CreatedAt)
	return err
}

func (s *PostgresStorage) GetComments(ctx context.Context, storyID string) ([]models.Comment, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, story_id, author_id, content, created_at
		FROM comments
		WHERE story_id=$1
		ORDER BY created_at`, storyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(&c.ID, &c.StoryID, &c.AuthorID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (s *PostgresStorage) Close() error {
	s.pool.Close()
	return nil
}
