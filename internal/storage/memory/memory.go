package memory

import (
	"context"
	"sort"
	"sync"

	apperr "github.com/ButyrinIA/publy/internal/errors"
	"github.com/ButyrinIA/publy/internal/models"
	"github.com/ButyrinIA/publy/internal/pagination"
)

type MemoryStorage struct {
	stories  map[string]*models.Story
	comments map[string][]*models.Comment
	mu       sync.RWMutex
}

func New() *MemoryStorage {
	return &MemoryStorage{
		stories:  make(map[string]*models.Story),
		comments: make(map[string][]*models.Comment),
	}
}

func (s *MemoryStorage) CreateStory(ctx context.Context, story *models.Story) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stories[story.ID] = story
	return nil
}

func (s *MemoryStorage) GetStory(ctx context.Context, id string) (*models.Story, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	story, exists := s.stories[id]
	if !exists {
		return nil, apperr.ErrNotFound
	}

	return story, nil
}

func (s *MemoryStorage) ListStories(ctx context.Context, page pagination.Request) (*models.StoryPage, error) {
	s.mu.RLock()
	stories := make([]models.Story, 0, len(s.stories))
	for _, story := range s.stories {
		stories = append(stories, *story)
	}
	s.mu.RUnlock()

	sortStories(stories, page.Order)

	meta := pagination.MetaFor(len(stories), page.Page, page.PageSize)
	return &models.StoryPage{
		Stories:     pagination.Window(stories, page),
		HasPrevPage: meta.HasPrevPage,
		HasNextPage: meta.HasNextPage,
		TotalPages:  meta.TotalPages,
	}, nil
}

// sortStories упорядочивает полный набор до выборки окна.
// Без критерия - новые сверху, как в выдаче постоянного хранилища.
func sortStories(stories []models.Story, order *pagination.Order) {
	if order == nil {
		sort.Slice(stories, func(i, j int) bool {
			return stories[i].CreatedAt.After(stories[j].CreatedAt)
		})
		return
	}

	sort.Slice(stories, func(i, j int) bool {
		a, b := stories[i], stories[j]
		if order.Direction == pagination.Desc {
			a, b = b, a
		}
		switch order.Field {
		case pagination.OrderByTitle:
			return a.Title < b.Title
		default:
			return a.CreatedAt.Before(b.CreatedAt)
		}
	})
}

func (s *MemoryStorage) CreateComment(ctx context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.comments[comment.StoryID] = append(s.comments[comment.StoryID], comment)
	return nil
}

func (s *MemoryStorage) GetComments(ctx context.Context, storyID string) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.comments[storyID]
	comments := make([]models.Comment, len(stored))
	for i, comment := range stored {
		comments[i] = *comment
	}

	sort.Slice(comments, func(i, j int) bool {
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments, nil
}

func (s *MemoryStorage) Close() error {
	return nil
}
