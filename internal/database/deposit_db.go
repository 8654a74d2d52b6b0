package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"financeflow/models"
)

// Слой проводок пополнений. Единственный писатель полей goals.current_amount
// и goals.is_completed: после каждой успешной операции
// current_amount == min(target_amount, сумма пополнений цели).

// validateDeposit проверяет бизнес-правила для пополнения
func validateDeposit(deposit *models.GoalDeposit) error {
	if !deposit.Amount.IsPositive() {
		return newValidationError("сумма пополнения должна быть больше 0")
	}
	if !models.IsValidDepositType(deposit.DepositType) {
		return newValidationError("недопустимый тип пополнения")
	}
	return nil
}

// lockGoal читает цель с блокировкой строки. Конкурентные проводки по одной
// цели сериализуются на этой блокировке, иначе два одновременных пополнения
// могут затереть инкременты друг друга.
func lockGoal(tx pgx.Tx, goalID int) (*models.Goal, error) {
	query := `
		SELECT id, category_id, title, target_amount, current_amount,
			start_date, end_date, image_path, description, priority, is_completed, created_at
		FROM goals
		WHERE id = $1
		FOR UPDATE`

	goal := &models.Goal{}
	err := tx.QueryRow(context.Background(), query, goalID).Scan(
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
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("ошибка при получении цели: %v", err)
	}
	return goal, nil
}

func saveGoalProgress(tx pgx.Tx, goal *models.Goal) error {
	_, err := tx.Exec(context.Background(),
		`UPDATE goals SET current_amount = $1, is_completed = $2 WHERE id = $3`,
		goal.CurrentAmount, goal.IsCompleted, goal.ID)
	if err != nil {
		return fmt.Errorf("ошибка обновления накоплений цели: %v", err)
	}
	return nil
}

// CreateDeposit добавляет пополнение и в той же транзакции обновляет
// накопления цели. Излишек сверх целевой суммы срезается.
func CreateDeposit(pool *pgxpool.Pool, deposit *models.GoalDeposit) error {
	if err := validateDeposit(deposit); err != nil {
		return err
	}

	tx, err := pool.Begin(context.Background())
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции: %v", err)
	}
	defer tx.Rollback(context.Background())

	goal, err := lockGoal(tx, deposit.GoalID)
	if err != nil {
		return err
	}
	if goal.IsCompleted {
		return newValidationError("нельзя пополнять завершенную цель")
	}

	deposit.DepositDate = time.Now().UTC()
	err = tx.QueryRow(context.Background(),
		`INSERT INTO goal_deposits (goal_id, amount, deposit_type, comment, deposit_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		deposit.GoalID,
		deposit.Amount,
		deposit.DepositType,
		deposit.Comment,
		deposit.DepositDate).Scan(&deposit.ID)
	if err != nil {
		return fmt.Errorf("ошибка при добавлении пополнения: %v", err)
	}

	goal.ApplyDeposit(deposit.Amount)
	if err := saveGoalProgress(tx, goal); err != nil {
		return err
	}

	if err := tx.Commit(context.Background()); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %v", err)
	}
	return nil
}

// UpdateDeposit изменяет сумму, тип и комментарий пополнения.
// Старая сумма сначала вычитается из накоплений, новая прибавляется следом:
// при таком порядке частичное обновление не считает сумму дважды.
func UpdateDeposit(pool *pgxpool.Pool, deposit *models.GoalDeposit) error {
	if err := validateDeposit(deposit); err != nil {
		return err
	}

	tx, err := pool.Begin(context.Background())
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции: %v", err)
	}
	defer tx.Rollback(context.Background())

	// Строка пополнения блокируется раньше цели: без блокировки конкурентное
	// изменение того же пополнения читает устаревшую сумму и ломает сверку
	// накоплений с историей
	var goalID int
	var oldAmount decimal.Decimal
	err = tx.QueryRow(context.Background(),
		`SELECT goal_id, amount FROM goal_deposits WHERE id = $1 FOR UPDATE`, deposit.ID).Scan(&goalID, &oldAmount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDepositNotFound
		}
		return fmt.Errorf("ошибка при получении пополнения: %v", err)
	}

	goal, err := lockGoal(tx, goalID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(context.Background(),
		`UPDATE goal_deposits SET amount = $1, deposit_type = $2, comment = $3 WHERE id = $4`,
		deposit.Amount, deposit.DepositType, deposit.Comment, deposit.ID)
	if err != nil {
		return fmt.Errorf("ошибка обновления пополнения: %v", err)
	}

	goal.RemoveDeposit(oldAmount)
	goal.ApplyDeposit(deposit.Amount)
	if err := saveGoalProgress(tx, goal); err != nil {
		return err
	}

	if err := tx.Commit(context.Background()); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %v", err)
	}

	deposit.GoalID = goalID
	return nil
}

// DeleteDeposit удаляет пополнение и возвращает его сумму из накоплений цели.
// Накопления не уходят ниже нуля, отметка о выполнении пересчитывается.
func DeleteDeposit(pool *pgxpool.Pool, depositID int) error {
	tx, err := pool.Begin(context.Background())
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции: %v", err)
	}
	defer tx.Rollback(context.Background())

	// Порядок блокировок тот же, что и в UpdateDeposit: пополнение, затем цель
	var goalID int
	var amount decimal.Decimal
	err = tx.QueryRow(context.Background(),
		`SELECT goal_id, amount FROM goal_deposits WHERE id = $1 FOR UPDATE`, depositID).Scan(&goalID, &amount)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrDepositNotFound
		}
		return fmt.Errorf("ошибка при получении пополнения: %v", err)
	}

	goal, err := lockGoal(tx, goalID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(context.Background(), `DELETE FROM goal_deposits WHERE id = $1`, depositID)
	if err != nil {
		return fmt.Errorf("ошибка удаления пополнения: %v", err)
	}

	goal.RemoveDeposit(amount)
	if err := saveGoalProgress(tx, goal); err != nil {
		return err
	}

	if err := tx.Commit(context.Background()); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %v", err)
	}
	return nil
}

// GetDepositByID извлекает пополнение по ID
func GetDepositByID(pool *pgxpool.Pool, depositID int) (*models.GoalDeposit, error) {
	query := `
		SELECT id, goal_id, amount, deposit_type, comment, deposit_date
		FROM goal_deposits
		WHERE id = $1`

	deposit := &models.GoalDeposit{}
	err := pool.QueryRow(context.Background(), query, depositID).Scan(
		&deposit.ID,
		&deposit.GoalID,
		&deposit.Amount,
		&deposit.DepositType,
		&deposit.Comment,
		&deposit.DepositDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrDepositNotFound
		}
		return nil, fmt.Errorf("ошибка при получении пополнения: %v", err)
	}
	return deposit, nil
}

// GetDepositsByGoal извлекает пополнения цели, новые сверху
func GetDepositsByGoal(pool *pgxpool.Pool, goalID int) ([]models.GoalDeposit, error) {
	query := `
		SELECT id, goal_id, amount, deposit_type, comment, deposit_date
		FROM goal_deposits
		WHERE goal_id = $1
		ORDER BY deposit_date DESC`

	rows, err := pool.Query(context.Background(), query, goalID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении пополнений: %v", err)
	}
	defer rows.Close()

	var deposits []models.GoalDeposit
	for rows.Next() {
		var deposit models.GoalDeposit
		if err := rows.Scan(
			&deposit.ID,
			&deposit.GoalID,
			&deposit.Amount,
			&deposit.DepositType,
			&deposit.Comment,
			&deposit.DepositDate,
		); err != nil {
			return nil, err
		}
		deposits = append(deposits, deposit)
	}
	return deposits, rows.Err()
}

// GetAllDeposits извлекает все пополнения вместе с целями, новые сверху
func GetAllDeposits(pool *pgxpool.Pool) ([]models.GoalDeposit, error) {
	query := `
		SELECT d.id, d.goal_id, d.amount, d.deposit_type, d.comment, d.deposit_date,
			g.id, g.category_id, g.title, g.target_amount, g.current_amount,
			g.start_date, g.end_date, g.image_path, g.description, g.priority, g.is_completed, g.created_at
		FROM goal_deposits d
		JOIN goals g ON g.id = d.goal_id
		ORDER BY d.deposit_date DESC`

	rows, err := pool.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении списка пополнений: %v", err)
	}
	defer rows.Close()

	var deposits []models.GoalDeposit
	for rows.Next() {
		var deposit models.GoalDeposit
		goal := &models.Goal{}
		if err := rows.Scan(
			&deposit.ID,
			&deposit.GoalID,
			&deposit.Amount,
			&deposit.DepositType,
			&deposit.Comment,
			&deposit.DepositDate,
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
		); err != nil {
			return nil, err
		}
		deposit.Goal = goal
		deposits = append(deposits, deposit)
	}
	return deposits, rows.Err()
}

// GetTotalDepositsByGoal возвращает сумму всех пополнений цели.
// В отличие от goals.current_amount сумма не срезается по целевой —
// используется для сверки накоплений с историей пополнений.
func GetTotalDepositsByGoal(pool *pgxpool.Pool, goalID int) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := pool.QueryRow(context.Background(),
		`SELECT COALESCE(SUM(amount), 0) FROM goal_deposits WHERE goal_id = $1`, goalID).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ошибка при расчете общей суммы пополнений: %v", err)
	}
	return total, nil
}
