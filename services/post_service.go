package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/campus-sports/intramural-portal/models"
	"github.com/campus-sports/intramural-portal/repositories"
	"github.com/campus-sports/intramural-portal/storage"
)

const feedPageSize = 20

// FeedBroadcaster pushes newly created feed entries to live subscribers.
type FeedBroadcaster interface {
	BroadcastPost(post models.Post)
}

type CreatePostInput struct {
	Content  string  `json:"content"`
	ImageURL *string `json:"image_url"`

	AuthorID int `json:"-"`
}

type UpdatePostInput struct {
	ID       int     `json:"id"`
	Content  *string `json:"content"`
	ImageURL *string `json:"image_url"`
}

type PostService interface {
	ListFeed(ctx context.Context) ([]models.Post, error)
	ListAnnouncements(ctx context.Context) ([]models.Post, error)
	CreatePost(ctx context.Context, input CreatePostInput) (*models.Post, error)
	UpdatePost(ctx context.Context, callerID int, callerRole models.UserRole, input UpdatePostInput) (*models.Post, error)
	DeletePost(ctx context.Context, callerID int, callerRole models.UserRole, id int) error
	AttachImage(ctx context.Context, callerID int, callerRole models.UserRole, postID int, contentType string, body io.Reader) (*models.Post, error)
}

type postService struct {
	postRepo    repositories.PostRepository
	userRepo    repositories.UserRepository
	uploader    storage.FileUploader
	broadcaster FeedBroadcaster
}

// NewPostService builds the feed/announcement service. uploader and
// broadcaster may be nil; image upload and live broadcast are then
// disabled.
func NewPostService(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
	broadcaster FeedBroadcaster,
) PostService {
	return &postService{
		postRepo:    postRepo,
		userRepo:    userRepo,
		uploader:    uploader,
		broadcaster: broadcaster,
	}
}

func (s *postService) ListFeed(ctx context.Context) ([]models.Post, error) {
	posts, err := s.postRepo.List(ctx, repositories.ListPostsFilter{Limit: feedPageSize})
	if err != nil {
		return nil, fmt.Errorf("failed to list feed: %w", err)
	}
	sanitizePosts(posts)
	return posts, nil
}

// ListAnnouncements returns posts authored by ADMIN users, newest first.
func (s *postService) ListAnnouncements(ctx context.Context) ([]models.Post, error) {
	adminRole := models.RoleAdmin
	posts, err := s.postRepo.List(ctx, repositories.ListPostsFilter{AuthorRole: &adminRole})
	if err != nil {
		return nil, fmt.Errorf("failed to list announcements: %w", err)
	}
	sanitizePosts(posts)
	return posts, nil
}

func (s *postService) CreatePost(ctx context.Context, input CreatePostInput) (*models.Post, error) {
	post := &models.Post{
		Content:  input.Content,
		ImageURL: input.ImageURL,
		UserID:   input.AuthorID,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		if errors.Is(err, repositories.ErrPostAuthorInvalid) {
			return nil, ErrInvalidReference
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	if author, err := s.userRepo.GetByID(ctx, post.UserID); err == nil {
		sanitizeUser(author)
		post.Author = author
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastPost(*post)
	}
	return post, nil
}

func (s *postService) UpdatePost(ctx context.Context, callerID int, callerRole models.UserRole, input UpdatePostInput) (*models.Post, error) {
	post, err := s.authorizePostMutation(ctx, callerID, callerRole, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Content != nil {
		post.Content = *input.Content
	}
	if input.ImageURL != nil {
		post.ImageURL = input.ImageURL
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return post, nil
}

func (s *postService) DeletePost(ctx context.Context, callerID int, callerRole models.UserRole, id int) error {
	if _, err := s.authorizePostMutation(ctx, callerID, callerRole, id); err != nil {
		return err
	}

	if err := s.postRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to delete post: %w", err)
	}
	return nil
}

// AttachImage uploads the image to object storage and stores its public
// URL on the post.
func (s *postService) AttachImage(ctx context.Context, callerID int, callerRole models.UserRole, postID int, contentType string, body io.Reader) (*models.Post, error) {
	if s.uploader == nil {
		return nil, ErrImageUploadMissing
	}

	post, err := s.authorizePostMutation(ctx, callerID, callerRole, postID)
	if err != nil {
		return nil, err
	}

	ext, err := extensionForContentType(contentType)
	if err != nil {
		return nil, ErrUnsupportedImage
	}

	key := fmt.Sprintf("posts/%d/%d%s", post.ID, time.Now().UnixNano(), ext)
	result, err := s.uploader.Upload(ctx, key, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("failed to upload post image: %w", err)
	}

	imageURL := result.Location
	if err := s.postRepo.UpdateImageURL(ctx, post.ID, &imageURL); err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to store post image url: %w", err)
	}

	post.ImageURL = &imageURL
	return post, nil
}

// authorizePostMutation loads the post and enforces the ownership rule:
// only the author may mutate a post, with ADMIN acting as moderator.
func (s *postService) authorizePostMutation(ctx context.Context, callerID int, callerRole models.UserRole, postID int) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repositories.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	if post.UserID != callerID && callerRole != models.RoleAdmin {
		return nil, ErrNotPostAuthor
	}
	return post, nil
}

func extensionForContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	}
	if parts := strings.Split(contentType, "/"); len(parts) == 2 && parts[0] == "image" && parts[1] != "" {
		return "." + strings.Split(parts[1], "+")[0], nil
	}
	return "", fmt.Errorf("could not determine file extension from content type %q", contentType)
}
