package models

import "time"

// GoalCategory — категория целей (Техника, Путешествия и т.д.)
type GoalCategory struct {
	ID        int       `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Icon      string    `json:"icon" db:"icon"`             // Эмодзи категории
	Color     string    `json:"color" db:"color"`           // HEX формат #RRGGBB
	SortOrder int       `json:"sort_order" db:"sort_order"` // Порядок сортировки в интерфейсе
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
