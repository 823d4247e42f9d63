package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperr "github.com/ButyrinIA/publy/internal/errors"
	"github.com/ButyrinIA/publy/internal/events"
	"github.com/ButyrinIA/publy/internal/models"
	"github.com/ButyrinIA/publy/internal/storage"
	"github.com/google/uuid"
)

const maxCommentLength = 2000

// CommentService создает комментарии и публикует события для подписчиков.
// Доменные отказы возвращаются как CommentCreationError, сбои инфраструктуры - как есть.
type CommentService struct {
	storage storage.Storage
	hub     *events.Hub
}

func NewCommentService(storage storage.Storage, hub *events.Hub) *CommentService {
	return &CommentService{storage: storage, hub: hub}
}

func (s *CommentService) AddComment(ctx context.Context, storyID, content, authorID string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, &apperr.CommentCreationError{Reason: "comment content must not be empty"}
	}
	if len(content) > maxCommentLength {
		return nil, &apperr.CommentCreationError{Reason: "comment content exceeds 2000 characters"}
	}

	if _, err := s.storage.GetStory(ctx, storyID); err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, &apperr.CommentCreationError{Reason: fmt.Sprintf("story %s not found", storyID)}
		}
		return nil, fmt.Errorf("failed to load story: %w", err)
	}

	comment := &models.Comment{
		ID:        uuid.New().String(),
		StoryID:   storyID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if err := s.storage.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	// Уведомление подписчиков
	s.hub.Publish(storyID, *comment)

	return comment, nil
}
