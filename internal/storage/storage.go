package storage

import (
	"context"

	"github.com/ButyrinIA/publy/internal/models"
	"github.com/ButyrinIA/publy/internal/pagination"
)

type Storage interface {
	CreateStory(ctx context.Context, story *models.Story) error
	GetStory(ctx context.Context, id string) (*models.Story, error)
	ListStories(ctx context.Context, page pagination.Request) (*models.StoryPage, error)
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComments(ctx context.Context, storyID string) ([]models.Comment, error)
	Close() error
}
