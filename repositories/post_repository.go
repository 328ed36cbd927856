package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/campus-sports/intramural-portal/models"
	"github.com/lib/pq"
)

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrPostAuthorInvalid = errors.New("post author reference invalid")
)

// ListPostsFilter narrows a feed listing. AuthorRole restricts posts to
// authors of that role (announcements are posts by ADMIN users).
type ListPostsFilter struct {
	AuthorRole *models.UserRole
	Limit      int
}

type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int) (*models.Post, error)
	List(ctx context.Context, filter ListPostsFilter) ([]models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	UpdateImageURL(ctx context.Context, id int, imageURL *string) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type postgresPostRepository struct {
	db *sql.DB
}

func NewPostgresPostRepository(db *sql.DB) PostRepository {
	return &postgresPostRepository{db: db}
}

func (r *postgresPostRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (content, image_url, user_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		post.Content,
		post.ImageURL,
		post.UserID,
	).Scan(&post.ID, &post.CreatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" && pqErr.Constraint == "posts_user_id_fkey" {
			return ErrPostAuthorInvalid
		}
		return fmt.Errorf("failed to create post: %w", err)
	}
	return nil
}

func (r *postgresPostRepository) GetByID(ctx context.Context, id int) (*models.Post, error) {
	query := `
		SELECT id, content, image_url, user_id, created_at
		FROM posts
		WHERE id = $1`

	post := &models.Post{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID,
		&post.Content,
		&post.ImageURL,
		&post.UserID,
		&post.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}
	return post, nil
}

// List returns posts newest first with the author (and author's team name)
// hydrated.
func (r *postgresPostRepository) List(ctx context.Context, filter ListPostsFilter) ([]models.Post, error) {
	var query strings.Builder
	args := []interface{}{}

	query.WriteString(`
		SELECT p.id, p.content, p.image_url, p.user_id, p.created_at,
			u.name, u.email, u.role, u.team_id, t.name
		FROM posts p
		JOIN users u ON p.user_id = u.id
		LEFT JOIN teams t ON u.team_id = t.id`)

	if filter.AuthorRole != nil {
		args = append(args, *filter.AuthorRole)
		query.WriteString(fmt.Sprintf(" WHERE u.role = $%d", len(args)))
	}
	query.WriteString(" ORDER BY p.created_at DESC")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query.WriteString(fmt.Sprintf(" LIMIT $%d", len(args)))
	}

	rows, err := r.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0)
	for rows.Next() {
		var post models.Post
		var author models.User
		var teamName sql.NullString
		if err := rows.Scan(
			&post.ID,
			&post.Content,
			&post.ImageURL,
			&post.UserID,
			&post.CreatedAt,
			&author.Name,
			&author.Email,
			&author.Role,
			&author.TeamID,
			&teamName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan post row: %w", err)
		}
		author.ID = post.UserID
		if teamName.Valid && author.TeamID != nil {
			author.Team = &models.Team{ID: *author.TeamID, Name: teamName.String}
		}
		post.Author = &author
		posts = append(posts, post)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postgresPostRepository) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts SET
			content = $1,
			image_url = $2
		WHERE id = $3`

	result, err := r.db.ExecContext(ctx, query, post.Content, post.ImageURL, post.ID)
	if err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	return checkAffectedRows(result, ErrPostNotFound)
}

func (r *postgresPostRepository) UpdateImageURL(ctx context.Context, id int, imageURL *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE posts SET image_url = $1 WHERE id = $2`, imageURL, id)
	if err != nil {
		return fmt.Errorf("failed to update post image: %w", err)
	}
	return checkAffectedRows(result, ErrPostNotFound)
}

func (r *postgresPostRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return checkAffectedRows(result, ErrPostNotFound)
}

func (r *postgresPostRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count posts: %w", err)
	}
	return count, nil
}
