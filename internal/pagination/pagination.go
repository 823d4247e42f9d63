package pagination

import (
	"math"

	apperr "github.com/ButyrinIA/publy/internal/errors"
	"github.com/go-playground/validator/v10"
)

type OrderField string

type OrderDirection string

const (
	OrderByCreatedAt OrderField = "createdAt"
	OrderByTitle     OrderField = "title"

	Asc  OrderDirection = "asc"
	Desc OrderDirection = "desc"
)

// Order - критерий сортировки из закрытого перечисления полей
type Order struct {
	Field     OrderField     `validate:"oneof=createdAt title"`
	Direction OrderDirection `validate:"oneof=asc desc"`
}

// Request - запрос страницы: нулевая нумерация, размер строго 1..10.
// Значения вне диапазона отклоняются валидацией, не обрезаются.
type Request struct {
	Page     int    `validate:"min=0"`
	PageSize int    `validate:"min=1,max=10"`
	Order    *Order `validate:"omitempty"`
}

type Meta struct {
	HasPrevPage bool
	HasNextPage bool
	TotalPages  int
}

var validate = validator.New()

// Validate проверяет запрос до любого обращения к хранилищу
func (r Request) Validate() error {
	if err := validate.Struct(r); err != nil {
		return &apperr.ValidationError{Message: err.Error()}
	}
	return nil
}

func (r Request) Offset() int {
	return r.Page * r.PageSize
}

// MetaFor вычисляет метаданные страницы: totalPages = ceil(totalItems/pageSize),
// hasPrev <=> page > 0, hasNext <=> page+1 < totalPages
func MetaFor(totalItems, page, pageSize int) Meta {
	totalPages := 0
	if totalItems > 0 {
		totalPages = int(math.Ceil(float64(totalItems) / float64(pageSize)))
	}
	return Meta{
		HasPrevPage: page > 0,
		HasNextPage: page+1 < totalPages,
		TotalPages:  totalPages,
	}
}

// Window возвращает окно страницы над полным упорядоченным набором.
// Страница за последней дает пустое окно.
func Window[T any](items []T, r Request) []T {
	start := r.Offset()
	if start >= len(items) {
		return nil
	}
	end := start + r.PageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
