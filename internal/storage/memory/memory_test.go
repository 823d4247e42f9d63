package memory

import (
	"context"
	"testing"
	"time"

	apperr "github.com/ButyrinIA/publy/internal/errors"
	"github.com/ButyrinIA/publy/internal/models"
	"github.com/ButyrinIA/publy/internal/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func seedStories(t *testing.T, store *MemoryStorage, titles ...string) []*models.Story {
	t.Helper()
	ctx := context.Background()
	base := time.Now().Add(-time.Duration(len(titles)) * time.Hour)

	stories := make([]*models.Story, 0, len(titles))
	for i, title := range titles {
		story := &models.Story{
			ID:           uuid.New().String(),
			Title:        title,
			BodyMarkdown: "Содержимое " + title,
			AuthorID:     "user1",
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		}
		assert.NoError(t, store.CreateStory(ctx, story))
		stories = append(stories, story)
	}
	return stories
}

func TestMemoryStorage(t *testing.T) {
	t.Run("CreateStory and GetStory", func(t *testing.T) {
		store := New()
		ctx := context.Background()

		story := &models.Story{
			ID:           uuid.New().String(),
			Title:        "Тестовая история",
			BodyMarkdown: "Содержимое",
			AuthorID:     "user1",
			CreatedAt:    time.Now(),
		}

		err := store.CreateStory(ctx, story)
		assert.NoError(t, err, "Ошибка при создании истории")

		retrieved, err := store.GetStory(ctx, story.ID)
		assert.NoError(t, err, "Ошибка при получении истории")
		assert.Equal(t, story, retrieved, "Полученная история не совпадает с созданной")
	})

	t.Run("GetStory Not Found", func(t *testing.T) {
		store := New()

		_, err := store.GetStory(context.Background(), "non-existent-id")
		assert.ErrorIs(t, err, apperr.ErrNotFound, "Ожидалась ошибка для несуществующей истории")
	})

	t.Run("ListStories pagination", func(t *testing.T) {
		store := New()
		seedStories(t, store, "История 1", "История 2", "История 3", "История 4", "История 5")

		result, err := store.ListStories(context.Background(), pagination.Request{Page: 0, PageSize: 2})
		assert.NoError(t, err, "Ошибка при получении списка историй")
		assert.Len(t, result.Stories, 2)
		assert.Equal(t, 3, result.TotalPages)
		assert.False(t, result.HasPrevPage)
		assert.True(t, result.HasNextPage)
		// без критерия сортировки - новые сверху
		assert.Equal(t, "История 5", result.Stories[0].Title)

		result, err = store.ListStories(context.Background(), pagination.Request{Page: 2, PageSize: 2})
		assert.NoError(t, err)
		assert.Len(t, result.Stories, 1, "Последняя страница неполная")
		assert.True(t, result.HasPrevPage)
		assert.False(t, result.HasNextPage)
	})

	t.Run("ListStories beyond last page", func(t *testing.T) {
		store := New()
		seedStories(t, store, "История 1", "История 2")

		result, err := store.ListStories(context.Background(), pagination.Request{Page: 7, PageSize: 2})
		assert.NoError(t, err)
		assert.Empty(t, result.Stories, "Страница за последней должна быть пустой")
		assert.False(t, result.HasNextPage)
		assert.True(t, result.HasPrevPage)
	})

	t.Run("ListStories sort by title", func(t *testing.T) {
		store := New()
		seedStories(t, store, "Banana", "Apple", "Cherry")

		asc, err := store.ListStories(context.Background(), pagination.Request{
			Page: 0, PageSize: 10,
			Order: &pagination.Order{Field: pagination.OrderByTitle, Direction: pagination.Asc},
		})
		assert.NoError(t, err)

		desc, err := store.ListStories(context.Background(), pagination.Request{
			Page: 0, PageSize: 10,
			Order: &pagination.Order{Field: pagination.OrderByTitle, Direction: pagination.Desc},
		})
		assert.NoError(t, err)

		assert.Equal(t, "Apple", asc.Stories[0].Title)
		assert.Equal(t, "Cherry", desc.Stories[0].Title)
		for i := range asc.Stories {
			assert.Equal(t, asc.Stories[i].ID, desc.Stories[len(desc.Stories)-1-i].ID,
				"Сортировка по убыванию должна давать точно обратный порядок")
		}
	})

	t.Run("ListStories sort by createdAt", func(t *testing.T) {
		store := New()
		stories := seedStories(t, store, "История 1", "История 2", "История 3")

		asc, err := store.ListStories(context.Background(), pagination.Request{
			Page: 0, PageSize: 10,
			Order: &pagination.Order{Field: pagination.OrderByCreatedAt, Direction: pagination.Asc},
		})
		assert.NoError(t, err)
		assert.Equal(t, stories[0].ID, asc.Stories[0].ID, "По возрастанию - старые сверху")
	})

	t.Run("CreateComment and GetComments", func(t *testing.T) {
		store := New()
		ctx := context.Background()
		story := seedStories(t, store, "История 1")[0]

		first := &models.Comment{
			ID:        uuid.New().String(),
			StoryID:   story.ID,
			AuthorID:  "user1",
			Content:   "Первый комментарий",
			CreatedAt: time.Now().Add(-time.Minute),
		}
		second := &models.Comment{
			ID:        uuid.New().String(),
			StoryID:   story.ID,
			AuthorID:  "user2",
			Content:   "Второй комментарий",
			CreatedAt: time.Now(),
		}
		assert.NoError(t, store.CreateComment(ctx, second))
		assert.NoError(t, store.CreateComment(ctx, first))

		comments, err := store.GetComments(ctx, story.ID)
		assert.NoError(t, err)
		assert.Len(t, comments, 2)
		assert.Equal(t, first.ID, comments[0].ID, "Комментарии отсортированы по времени создания")

		empty, err := store.GetComments(ctx, "no-such-story")
		assert.NoError(t, err)
		assert.Empty(t, empty)
	})
}
