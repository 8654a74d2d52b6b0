package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"financeflow/models"
)

const goalColumns = `g.id, g.category_id, g.title, g.target_amount, g.current_amount,
		g.start_date, g.end_date, g.image_path, g.description, g.priority, g.is_completed, g.created_at,
		c.id, c.name, c.icon, c.color, c.sort_order, c.is_active, c.created_at`

func scanGoalWithCategory(row pgx.Row) (*models.Goal, error) {
	goal := &models.Goal{}
	category := &models.GoalCategory{}
	err := row.Scan(
		&goal.ID,
		&goal.CategoryID,
		&goal.Title,
		&goal.TargetAmount,
		&goal.CurrentAmount,
		&goal.StartDate,
		&goal.EndDate,
		&goal.ImagePath,
		&goal.Description,
		&goal.Priority,
		&goal.IsCompleted,
		&goal.CreatedAt,
		&category.ID,
		&category.Name,
		&category.Icon,
		&category.Color,
		&category.SortOrder,
		&category.IsActive,
		&category.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	goal.Category = category
	return goal, nil
}

// ValidateGoal проверяет бизнес-правила для цели
func ValidateGoal(goal *models.Goal) error {
	if goal.Title == "" {
		return newValidationError("название цели не может быть пустым")
	}
	if !goal.TargetAmount.IsPositive() {
		return newValidationError("целевая сумма должна быть больше 0")
	}
	if !goal.EndDate.After(goal.StartDate) {
		return newValidationError("дата окончания должна быть позже даты начала")
	}
	if goal.Priority < 1 || goal.Priority > 3 {
		return newValidationError("приоритет должен быть в диапазоне от 1 до 3")
	}
	return nil
}

// CreateGoal добавляет новую цель в базу данных
func CreateGoal(pool *pgxpool.Pool, goal *models.Goal) error {
	if err := ValidateGoal(goal); err != nil {
		return err
	}

	// Проверка существования категории
	var categoryExists bool
	err := pool.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM goal_categories WHERE id = $1)`, goal.CategoryID).Scan(&categoryExists)
	if err != nil {
		return fmt.Errorf("ошибка проверки категории: %v", err)
	}
	if !categoryExists {
		return ErrCategoryNotFound
	}

	goal.CreatedAt = time.Now().UTC()
	if goal.StartDate.IsZero() {
		goal.StartDate = goal.CreatedAt
	}

	query := `
		INSERT INTO goals (category_id, title, target_amount, start_date, end_date, image_path, description, priority, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err = pool.QueryRow(context.Background(), query,
		goal.CategoryID,
		goal.Title,
		goal.TargetAmount,
		goal.StartDate,
		goal.EndDate,
		goal.ImagePath,
		goal.Description,
		goal.Priority,
		goal.CreatedAt).Scan(&goal.ID)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении цели: %v", err)
	}
	return nil
}

// GetGoalByID извлекает цель по ID вместе с категорией
func GetGoalByID(pool *pgxpool.Pool, goalID int) (*models.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals g
		JOIN goal_categories c ON c.id = g.category_id
		WHERE g.id = $1`

	goal, err := scanGoalWithCategory(pool.QueryRow(context.Background(), query, goalID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("ошибка при получении цели: %v", err)
	}
	return goal, nil
}

// GetAllGoals извлекает все цели, новые сверху
func GetAllGoals(pool *pgxpool.Pool) ([]models.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals g
		JOIN goal_categories c ON c.id = g.category_id
		ORDER BY g.created_at DESC`
	return queryGoals(pool, query)
}

// GetGoalsByCategory извлекает цели указанной категории
func GetGoalsByCategory(pool *pgxpool.Pool, categoryID int) ([]models.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals g
		JOIN goal_categories c ON c.id = g.category_id
		WHERE g.category_id = $1
		ORDER BY g.created_at DESC`
	return queryGoals(pool, query, categoryID)
}

// GetUpcomingGoals извлекает незавершенные цели с ближайшими дедлайнами
func GetUpcomingGoals(pool *pgxpool.Pool, count int) ([]models.Goal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM goals g
		JOIN goal_categories c ON c.id = g.category_id
		WHERE NOT g.is_completed
		ORDER BY g.end_date
		LIMIT $1`
	return queryGoals(pool, query, count)
}

func queryGoals(pool *pgxpool.Pool, query string, args ...any) ([]models.Goal, error) {
	rows, err := pool.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении целей: %v", err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		goal, err := scanGoalWithCategory(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *goal)
	}
	return goals, rows.Err()
}

// UpdateGoal обновляет изменяемые поля цели.
// Поля current_amount и is_completed здесь не трогаются: их единственный
// источник — проводки пополнений в deposit_db.go.
func UpdateGoal(pool *pgxpool.Pool, goal *models.Goal) error {
	if err := ValidateGoal(goal); err != nil {
		return err
	}

	var categoryExists bool
	err := pool.QueryRow(context.Background(),
		`SELECT EXISTS (SELECT 1 FROM goal_categories WHERE id = $1)`, goal.CategoryID).Scan(&categoryExists)
	if err != nil {
		return fmt.Errorf("ошибка проверки категории: %v", err)
	}
	if !categoryExists {
		return ErrCategoryNotFound
	}

	query := `
		UPDATE goals
		SET category_id = $1, title = $2, target_amount = $3, start_date = $4, end_date = $5,
			image_path = $6, description = $7, priority = $8
		WHERE id = $9`
	result, err := pool.Exec(context.Background(), query,
		goal.CategoryID,
		goal.Title,
		goal.TargetAmount,
		goal.StartDate,
		goal.EndDate,
		goal.ImagePath,
		goal.Description,
		goal.Priority,
		goal.ID)
	if err != nil {
		return fmt.Errorf("ошибка обновления цели: %v", err)
	}
	if result.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}

// DeleteGoal удаляет цель по ID. Пополнения удаляются каскадно на уровне БД.
func DeleteGoal(pool *pgxpool.Pool, goalID int) error {
	result, err := pool.Exec(context.Background(), `DELETE FROM goals WHERE id = $1`, goalID)
	if err != nil {
		return fmt.Errorf("ошибка удаления цели: %v", err)
	}
	if result.RowsAffected() == 0 {
		return ErrGoalNotFound
	}
	return nil
}
