package userservice

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	apperr "github.com/ButyrinIA/publy/internal/errors"
	"github.com/ButyrinIA/publy/internal/models"
)

// Client - клиент внешнего пользовательского сервиса.
// Массовый путь принимает идентификаторы, склеенные запятыми.
type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// FindUsers загружает профили одним запросом на весь набор идентификаторов
func (c *Client) FindUsers(ctx context.Context, ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return c.get(ctx, strings.Join(ids, ","))
}

// FindUser загружает один профиль по тому же пути
func (c *Client) FindUser(ctx context.Context, id string) (*models.User, error) {
	users, err := c.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apperr.ErrNotFound
	}
	return &users[0], nil
}

func (c *Client) get(ctx context.Context, joinedIDs string) ([]models.User, error) {
	url := fmt.Sprintf("%s/find-users/%s", c.baseURL, joinedIDs)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &apperr.ExternalError{Service: "user service", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &apperr.ExternalError{
			Service: "user service",
			Err:     fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	var users []models.User
	if err := json.NewDecoder(resp.Body).Decode(&users); err != nil {
		return nil, &apperr.ExternalError{Service: "user service", Err: err}
	}
	return users, nil
}
