package graphql

import (
	"context"
	"errors"

	apperr "github.com/ButyrinIA/publy/internal/errors"
	"github.com/ButyrinIA/publy/internal/models"
	"github.com/graph-gophers/dataloader/v7"
)

// UserClient - массовый доступ к внешнему пользовательскому сервису
type UserClient interface {
	FindUsers(ctx context.Context, ids []string) ([]models.User, error)
}

type UserLoader = dataloader.Interface[string, *models.User]

// NewUserLoader создает загрузчик на один запрос: все идентификаторы авторов,
// собранные при обходе ответа, уходят во внешний сервис одним вызовом.
// Кэш загрузчика схлопывает повторные ссылки на одного автора.
func NewUserLoader(client UserClient) UserLoader {
	batchFn := func(ctx context.Context, keys []string) []*dataloader.Result[*models.User] {
		results := make([]*dataloader.Result[*models.User], len(keys))

		users, err := client.FindUsers(ctx, keys)
		if err != nil {
			// сбой пакета не фатален для ответа: поле останется пустым
			for i := range results {
				results[i] = &dataloader.Result[*models.User]{Error: err}
			}
			return results
		}

		byID := make(map[string]*models.User, len(users))
		for i := range users {
			byID[users[i].ID] = &users[i]
		}
		for i, key := range keys {
			if user, ok := byID[key]; ok {
				results[i] = &dataloader.Result[*models.User]{Data: user}
			} else {
				results[i] = &dataloader.Result[*models.User]{Error: apperr.ErrNotFound}
			}
		}
		return results
	}

	return dataloader.NewBatchedLoader(batchFn)
}

// WithUserLoader кладет загрузчик запроса в контекст
func WithUserLoader(ctx context.Context, loader UserLoader) context.Context {
	return context.WithValue(ctx, "userLoader", loader)
}

func userLoaderFrom(ctx context.Context) (UserLoader, error) {
	loader, ok := ctx.Value("userLoader").(UserLoader)
	if !ok {
		return nil, errors.New("userLoader not found in context")
	}
	return loader, nil
}
