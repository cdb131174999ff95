package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"dentamart/internal/caching"
	"dentamart/internal/common"
	"dentamart/internal/models"
	"dentamart/internal/repositories"

	"github.com/google/uuid"
)

const (
	feedCacheTTL  = 30 * time.Second
	feedPageSize  = 20
	maxPostLength = 5000
)

// CommunityService runs the practitioner feed.
type CommunityService interface {
	CreatePost(ctx context.Context, authorID uuid.UUID, content string, imagePath *string) (*models.Post, error)
	Feed(ctx context.Context, page int) ([]*models.Post, error)
	LikePost(ctx context.Context, id uuid.UUID) error
	DeletePost(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) error
}

type communityService struct {
	postRepo repositories.PostRepository
	cacheSvc caching.CacheService
}

func NewCommunityService(postRepo repositories.PostRepository, cacheSvc caching.CacheService) CommunityService {
	return &communityService{
		postRepo: postRepo,
		cacheSvc: cacheSvc,
	}
}

func (s *communityService) CreatePost(ctx context.Context, authorID uuid.UUID, content string, imagePath *string) (*models.Post, error) {
	if err := common.ValidateRequiredString(content, "post content"); err != nil {
		return nil, err
	}
	if len(content) > maxPostLength {
		return nil, common.ValidationError("post content exceeds %d characters", maxPostLength)
	}

	post := &models.Post{
		ID:        uuid.New(),
		AuthorID:  authorID,
		Content:   content,
		ImagePath: imagePath,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	s.invalidateFeed(ctx)
	return post, nil
}

func (s *communityService) Feed(ctx context.Context, page int) ([]*models.Post, error) {
	if page < 0 {
		page = 0
	}

	cached, err := s.cacheSvc.GetFeedPage(ctx, page)
	if err != nil {
		log.Printf("WARN: feed cache read failed: %v", err)
	}
	if cached != nil {
		return cached, nil
	}

	posts, err := s.postRepo.ListFeed(ctx, feedPageSize, page*feedPageSize)
	if err != nil {
		return nil, fmt.Errorf("list feed: %w", err)
	}
	if err := s.cacheSvc.SetFeedPage(ctx, page, posts, feedCacheTTL); err != nil {
		log.Printf("WARN: feed cache write failed: %v", err)
	}
	return posts, nil
}

func (s *communityService) LikePost(ctx context.Context, id uuid.UUID) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return common.NotFoundError("post")
	}
	if err := s.postRepo.Like(ctx, id); err != nil {
		return fmt.Errorf("like post: %w", err)
	}
	s.invalidateFeed(ctx)
	return nil
}

// DeletePost allows the author or an admin to remove a post.
func (s *communityService) DeletePost(ctx context.Context, userID uuid.UUID, role string, id uuid.UUID) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post == nil {
		return common.NotFoundError("post")
	}
	if post.AuthorID != userID && role != models.RoleAdmin {
		return common.ForbiddenError("only the author or an admin may delete a post")
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	s.invalidateFeed(ctx)
	return nil
}

func (s *communityService) invalidateFeed(ctx context.Context) {
	if err := s.cacheSvc.InvalidateFeed(ctx); err != nil {
		log.Printf("WARN: feed cache invalidation failed: %v", err)
	}
}
