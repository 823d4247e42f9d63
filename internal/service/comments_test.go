package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	apperr "github.com/ButyrinIA/publy/internal/errors"
	"github.com/ButyrinIA/publy/internal/events"
	"github.com/ButyrinIA/publy/internal/models"
	"github.com/ButyrinIA/publy/internal/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// мок для интерфейса storage.Storage
type mockStorage struct {
	mock.Mock
}

func (m *mockStorage) CreateStory(ctx context.Context, story *models.Story) error {
	args := m.Called(ctx, story)
	return args.Error(0)
}

func (m *mockStorage) GetStory(ctx context.Context, id string) (*models.Story, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Story), args.Error(1)
}

func (m *mockStorage) ListStories(ctx context.Context, page pagination.Request) (*models.StoryPage, error) {
	args := m.Called(ctx, page)
	return args.Get(0).(*models.StoryPage), args.Error(1)
}

func (m *mockStorage) CreateComment(ctx context.Context, comment *models.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}

func (m *mockStorage) GetComments(ctx context.Context, storyID string) ([]models.Comment, error) {
	args := m.Called(ctx, storyID)
	return args.Get(0).([]models.Comment), args.Error(1)
}

func (m *mockStorage) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestAddComment(t *testing.T) {
	storage := &mockStorage{}
	storage.On("GetStory", mock.Anything, "story1").Return(&models.Story{ID: "story1"}, nil)
	storage.On("CreateComment", mock.Anything, mock.AnythingOfType("*models.Comment")).Return(nil)

	hub := events.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := hub.Subscribe(ctx, "story1")

	svc := NewCommentService(storage, hub)
	comment, err := svc.AddComment(context.Background(), "story1", "Тестовый комментарий", "user1")

	assert.NoError(t, err)
	assert.NotNil(t, comment)
	assert.NotEmpty(t, comment.ID)
	assert.Equal(t, "story1", comment.StoryID)
	assert.Equal(t, "user1", comment.AuthorID)

	// успешное создание публикует событие для подписчиков
	select {
	case ev := <-sub:
		assert.Equal(t, comment.ID, ev.Comment.ID)
		assert.Equal(t, "story1", ev.StoryID)
	case <-time.After(time.Second):
		t.Fatal("Событие о новом комментарии не опубликовано")
	}
	storage.AssertExpectations(t)
}

func TestAddComment_StoryNotFound(t *testing.T) {
	storage := &mockStorage{}
	storage.On("GetStory", mock.Anything, "missing").Return((*models.Story)(nil), apperr.ErrNotFound)

	svc := NewCommentService(storage, events.NewHub())
	comment, err := svc.AddComment(context.Background(), "missing", "Комментарий", "user1")

	assert.Nil(t, comment, "Комментарий не создается для несуществующей истории")
	assert.True(t, apperr.Is[*apperr.CommentCreationError](err), "Доменный отказ, а не общий сбой")
	storage.AssertNotCalled(t, "CreateComment", mock.Anything, mock.Anything)
}

func TestAddComment_EmptyContent(t *testing.T) {
	storage := &mockStorage{}

	svc := NewCommentService(storage, events.NewHub())
	comment, err := svc.AddComment(context.Background(), "story1", "   ", "user1")

	assert.Nil(t, comment)
	assert.True(t, apperr.Is[*apperr.CommentCreationError](err))
	storage.AssertNotCalled(t, "GetStory", mock.Anything, mock.Anything)
}

func TestAddComment_TooLong(t *testing.T) {
	storage := &mockStorage{}

	svc := NewCommentService(storage, events.NewHub())
	_, err := svc.AddComment(context.Background(), "story1", strings.Repeat("a", 2001), "user1")

	assert.True(t, apperr.Is[*apperr.CommentCreationError](err))
}

func TestAddComment_StorageFailure(t *testing.T) {
	storage := &mockStorage{}
	storage.On("GetStory", mock.Anything, "story1").Return(&models.Story{ID: "story1"}, nil)
	storage.On("CreateComment", mock.Anything, mock.AnythingOfType("*models.Comment")).
		Return(errors.New("ошибка хранилища"))

	svc := NewCommentService(storage, events.NewHub())
	comment, err := svc.AddComment(context.Background(), "story1", "Комментарий", "user1")

	assert.Nil(t, comment)
	assert.Error(t, err)
	assert.False(t, apperr.Is[*apperr.CommentCreationError](err),
		"Сбой инфраструктуры не маскируется под доменный отказ")
}
