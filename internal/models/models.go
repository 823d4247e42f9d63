package models

import "time"

type Story struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	BodyMarkdown string    `json:"bodyMarkdown"`
	AuthorID     string    `json:"authorId"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Comment struct {
	ID        string    `json:"id"`
	StoryID   string    `json:"storyId"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// User - проекция записи внешнего пользовательского сервиса, локально не хранится
type User struct {
	ID           string   `json:"id"`
	Login        string   `json:"login"`
	Name         string   `json:"name"`
	ProfileImage string   `json:"profileImage"`
	Roles        []string `json:"roles"`
}

type StoryPage struct {
	Stories     []Story `json:"stories"`
	HasPrevPage bool    `json:"hasPrevPage"`
	HasNextPage bool    `json:"hasNextPage"`
	TotalPages  int     `json:"totalPages"`
}
