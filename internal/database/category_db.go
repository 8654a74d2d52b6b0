package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"financeflow/models"
)

// GetAllCategories извлекает все категории в порядке сортировки
func GetAllCategories(pool *pgxpool.Pool) ([]models.GoalCategory, error) {
	query := `
		SELECT id, name, icon, color, sort_order, is_active, created_at
		FROM goal_categories
		ORDER BY sort_order`
	return queryCategories(pool, query)
}

// GetActiveCategories извлекает только активные категории
func GetActiveCategories(pool *pgxpool.Pool) ([]models.GoalCategory, error) {
	query := `
		SELECT id, name, icon, color, sort_order, is_active, created_at
		FROM goal_categories
		WHERE is_active
		ORDER BY sort_order`
	return queryCategories(pool, query)
}

func queryCategories(pool *pgxpool.Pool, query string) ([]models.GoalCategory, error) {
	rows, err := pool.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении категорий: %v", err)
	}
	defer rows.Close()

	var categories []models.GoalCategory
	for rows.Next() {
		var category models.GoalCategory
		if err := rows.Scan(
			&category.ID,
			&category.Name,
			&category.Icon,
			&category.Color,
			&category.SortOrder,
			&category.IsActive,
			&category.CreatedAt,
		); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// GetCategoryByID извлекает категорию по ID
func GetCategoryByID(pool *pgxpool.Pool, categoryID int) (*models.GoalCategory, error) {
	query := `
		SELECT id, name, icon, color, sort_order, is_active, created_at
		FROM goal_categories
		WHERE id = $1`

	category := &models.GoalCategory{}
	err := pool.QueryRow(context.Background(), query, categoryID).Scan(
		&category.ID,
		&category.Name,
		&category.Icon,
		&category.Color,
		&category.SortOrder,
		&category.IsActive,
		&category.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("ошибка при получении категории: %v", err)
	}
	return category, nil
}

// CreateCategory добавляет новую категорию
func CreateCategory(pool *pgxpool.Pool, category *models.GoalCategory) error {
	if category.Name == "" {
		return newValidationError("название категории не может быть пустым")
	}

	query := `
		INSERT INTO goal_categories (name, icon, color, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
	err := pool.QueryRow(context.Background(), query,
		category.Name,
		category.Icon,
		category.Color,
		category.SortOrder,
		category.IsActive).Scan(&category.ID, &category.CreatedAt)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении категории: %v", err)
	}
	return nil
}

// DeleteCategory удаляет категорию. Категория, на которую ссылаются цели,
// не удаляется — внешний ключ вернет ошибку.
func DeleteCategory(pool *pgxpool.Pool, categoryID int) error {
	result, err := pool.Exec(context.Background(),
		`DELETE FROM goal_categories WHERE id = $1`, categoryID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении категории: %v", err)
	}
	if result.RowsAffected() == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
