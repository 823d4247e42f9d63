package graphql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ButyrinIA/publy/internal/auth"
	apperr "github.com/ButyrinIA/publy/internal/errors"
	"github.com/ButyrinIA/publy/internal/events"
	"github.com/ButyrinIA/publy/internal/markdown"
	"github.com/ButyrinIA/publy/internal/models"
	"github.com/ButyrinIA/publy/internal/pagination"
	"github.com/ButyrinIA/publy/internal/service"
	"github.com/ButyrinIA/publy/internal/storage"
	graphqlgo "github.com/graph-gophers/graphql-go"
)

// Resolver - корневой резолвер: запросы, мутации и подписки схемы
type Resolver struct {
	Storage             storage.Storage
	Comments            *service.CommentService
	Hub                 *events.Hub
	Markdown            *markdown.Renderer
	ProfileImageBaseURL string
}

// NewResolver создает новый Resolver
func NewResolver(storage storage.Storage, comments *service.CommentService, hub *events.Hub, md *markdown.Renderer, profileImageBaseURL string) *Resolver {
	return &Resolver{
		Storage:             storage,
		Comments:            comments,
		Hub:                 hub,
		Markdown:            md,
		ProfileImageBaseURL: profileImageBaseURL,
	}
}

type storyOrderInput struct {
	Field     string
	Direction string
}

// Stories реализует запрос stories
func (r *Resolver) Stories(ctx context.Context, args struct {
	Page     int32
	PageSize int32
	OrderBy  *storyOrderInput
}) (*storyPageResolver, error) {
	req := pagination.Request{Page: int(args.Page), PageSize: int(args.PageSize)}
	if args.OrderBy != nil {
		req.Order = &pagination.Order{
			Field:     pagination.OrderField(args.OrderBy.Field),
			Direction: pagination.OrderDirection(args.OrderBy.Direction),
		}
	}
	// валидация до обращения к хранилищу
	if err := req.Validate(); err != nil {
		return nil, err
	}

	page, err := r.Storage.ListStories(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	return &storyPageResolver{r: r, page: page}, nil
}

// Story реализует запрос story, отсутствующая история дает null
func (r *Resolver) Story(ctx context.Context, args struct{ ID graphqlgo.ID }) (*storyResolver, error) {
	story, err := r.Storage.GetStory(ctx, string(args.ID))
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get story: %w", err)
	}
	return &storyResolver{r: r, story: *story}, nil
}

type addCommentInput struct {
	StoryID graphqlgo.ID
	Content string
}

// AddComment реализует мутацию addComment. Роль user проверяется здесь,
// до вызова доменного сервиса; доменные отказы превращаются в failed-payload.
func (r *Resolver) AddComment(ctx context.Context, args struct{ Input addCommentInput }) (*addCommentPayloadResolver, error) {
	identity, _ := ctx.Value("identity").(*auth.Identity)
	if !identity.HasRole(auth.RoleUser) {
		return nil, &apperr.AuthorizationError{Message: "role user required"}
	}

	comment, err := r.Comments.AddComment(ctx, string(args.Input.StoryID), args.Input.Content, identity.UserID)
	if err != nil {
		var creationErr *apperr.CommentCreationError
		if errors.As(err, &creationErr) {
			return &addCommentPayloadResolver{
				failed: &addCommentFailedResolver{errorMessage: creationErr.Reason},
			}, nil
		}
		return nil, err
	}

	return &addCommentPayloadResolver{
		success: &addCommentSuccessResolver{r: r, comment: *comment},
	}, nil
}

// OnNewComment реализует подписку onNewComment
func (r *Resolver) OnNewComment(ctx context.Context, args struct{ StoryID graphqlgo.ID }) (<-chan *onNewCommentEventResolver, error) {
	subscription := r.Hub.Subscribe(ctx, string(args.StoryID))

	out := make(chan *onNewCommentEventResolver)
	go func() {
		defer close(out)
		for ev := range subscription {
			select {
			case out <- &onNewCommentEventResolver{r: r, event: ev}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// storyPageResolver реализует StoryPage
type storyPageResolver struct {
	r    *Resolver
	page *models.StoryPage
}

func (p *storyPageResolver) Stories() []*storyResolver {
	stories := make([]*storyResolver, len(p.page.Stories))
	for i, story := range p.page.Stories {
		stories[i] = &storyResolver{r: p.r, story: story}
	}
	return stories
}

func (p *storyPageResolver) HasPrevPage() bool { return p.page.HasPrevPage }
func (p *storyPageResolver) HasNextPage() bool { return p.page.HasNextPage }
func (p *storyPageResolver) TotalPages() int32 { return int32(p.page.TotalPages) }

// storyResolver реализует Story
type storyResolver struct {
	r     *Resolver
	story models.Story
}

func (s *storyResolver) ID() graphqlgo.ID { return graphqlgo.ID(s.story.ID) }
func (s *storyResolver) Title() string    { return s.story.Title }

func (s *storyResolver) CreatedAt() string {
	return s.story.CreatedAt.Format(time.RFC3339)
}

// Body отдает тело истории, отрендеренное в HTML
func (s *storyResolver) Body() (string, error) {
	html, err := s.r.Markdown.ToHTML(s.story.BodyMarkdown)
	if err != nil {
		return "", fmt.Errorf("failed to render story body: %w", err)
	}
	return html, nil
}

// Excerpt отдает плоский текст тела, обрезанный до maxLength символов
func (s *storyResolver) Excerpt(args struct{ MaxLength int32 }) (string, error) {
	plain, err := s.r.Markdown.ToPlainText(s.story.BodyMarkdown)
	if err != nil {
		return "", fmt.Errorf("failed to render story excerpt: %w", err)
	}
	return markdown.Excerpt(plain, int(args.MaxLength)), nil
}

func (s *storyResolver) Author() *memberResolver {
	return &memberResolver{r: s.r, id: s.story.AuthorID}
}

func (s *storyResolver) Comments(ctx context.Context) ([]*commentResolver, error) {
	comments, err := s.r.Storage.GetComments(ctx, s.story.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load story comments: %w", err)
	}
	resolvers := make([]*commentResolver, len(comments))
	for i, comment := range comments {
		resolvers[i] = &commentResolver{r: s.r, comment: comment}
	}
	return resolvers, nil
}

// memberResolver реализует Member - ссылку на автора во внешнем сервисе
type memberResolver struct {
	r  *Resolver
	id string
}

func (m *memberResolver) ID() graphqlgo.ID { return graphqlgo.ID(m.id) }

// ProfileImageUrl - базовый адрес из конфигурации плюс идентификатор, без проверки
func (m *memberResolver) ProfileImageUrl() string {
	return fmt.Sprintf("%s%s", m.r.ProfileImageBaseURL, m.id)
}

// User загружает профиль через пакетный загрузчик запроса.
// Недоступный сервис или неизвестный идентификатор оставляют поле пустым.
func (m *memberResolver) User(ctx context.Context) (*userResolver, error) {
	loader, err := userLoaderFrom(ctx)
	if err != nil {
		return nil, err
	}

	user, err := loader.Load(ctx, m.id)()
	if err != nil {
		return nil, nil
	}
	return &userResolver{user: user}, nil
}

// userResolver реализует User
type userResolver struct {
	user *models.User
}

func (u *userResolver) ID() graphqlgo.ID { return graphqlgo.ID(u.user.ID) }
func (u *userResolver) Login() string    { return u.user.Login }
func (u *userResolver) Name() string     { return u.user.Name }

// commentResolver реализует Comment
type commentResolver struct {
	r       *Resolver
	comment models.Comment
}

func (c *commentResolver) ID() graphqlgo.ID { return graphqlgo.ID(c.comment.ID) }
func (c *commentResolver) Content() string  { return c.comment.Content }

func (c *commentResolver) CreatedAt() string {
	return c.comment.CreatedAt.Format(time.RFC3339)
}

func (c *commentResolver) Author() *memberResolver {
	return &memberResolver{r: c.r, id: c.comment.AuthorID}
}

// addCommentPayloadResolver реализует union AddCommentPayload
type addCommentPayloadResolver struct {
	success *addCommentSuccessResolver
	failed  *addCommentFailedResolver
}

func (p *addCommentPayloadResolver) ToAddCommentSuccessPayload() (*addCommentSuccessResolver, bool) {
	return p.success, p.success != nil
}

func (p *addCommentPayloadResolver) ToAddCommentFailedPayload() (*addCommentFailedResolver, bool) {
	return p.failed, p.failed != nil
}

type addCommentSuccessResolver struct {
	r       *Resolver
	comment models.Comment
}

func (p *addCommentSuccessResolver) NewComment() *commentResolver {
	return &commentResolver{r: p.r, comment: p.comment}
}

type addCommentFailedResolver struct {
	errorMessage string
}

func (p *addCommentFailedResolver) ErrorMessage() string { return p.errorMessage }

// onNewCommentEventResolver реализует OnNewCommentEvent
type onNewCommentEventResolver struct {
	r     *Resolver
	event events.Event
}

func (e *onNewCommentEventResolver) StoryID() graphqlgo.ID {
	return graphqlgo.ID(e.event.StoryID)
}

func (e *onNewCommentEventResolver) Comment() *commentResolver {
	return &commentResolver{r: e.r, comment: e.event.Comment}
}
