package utils

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"financeflow/internal/database"
	"financeflow/models"
)

var demoDepositTypes = []string{
	models.DepositTypeRegular,
	models.DepositTypeSalary,
	models.DepositTypeFreelance,
	models.DepositTypeBonus,
	models.DepositTypeOther,
}

// GenerateDemoGoals создает случайные цели по активным категориям
func GenerateDemoGoals(pool *pgxpool.Pool, numGoals int) error {
	categories, err := database.GetActiveCategories(pool)
	if err != nil {
		return err
	}
	if len(categories) == 0 {
		return fmt.Errorf("нет активных категорий для генерации целей")
	}

	for i := 0; i < numGoals; i++ {
		category := categories[rand.Intn(len(categories))]
		description := gofakeit.Sentence(6)
		goal := &models.Goal{
			CategoryID:   category.ID,
			Title:        gofakeit.ProductName(),
			TargetAmount: decimal.NewFromFloat(gofakeit.Price(10000, 500000)).Round(2),
			StartDate:    time.Now().UTC(),
			EndDate:      time.Now().UTC().AddDate(0, gofakeit.Number(3, 24), 0),
			Priority:     gofakeit.Number(1, 3),
			Description:  &description,
		}
		if err := database.CreateGoal(pool, goal); err != nil {
			return fmt.Errorf("ошибка при генерации цели: %v", err)
		}
	}
	return nil
}

// GenerateDemoDeposits создает случайные пополнения. Пополнения проводятся
// через database.CreateDeposit, поэтому накопления целей остаются
// согласованными с историей.
func GenerateDemoDeposits(pool *pgxpool.Pool, numDeposits int) error {
	goals, err := database.GetAllGoals(pool)
	if err != nil {
		return err
	}
	if len(goals) == 0 {
		return fmt.Errorf("нет целей для генерации пополнений")
	}

	for i := 0; i < numDeposits; i++ {
		goal := goals[rand.Intn(len(goals))]
		deposit := &models.GoalDeposit{
			GoalID:      goal.ID,
			Amount:      decimal.NewFromFloat(gofakeit.Price(500, 50000)).Round(2),
			DepositType: demoDepositTypes[rand.Intn(len(demoDepositTypes))],
		}
		if gofakeit.Bool() {
			comment := gofakeit.Sentence(4)
			deposit.Comment = &comment
		}
		if err := database.CreateDeposit(pool, deposit); err != nil {
			// Цель могла завершиться предыдущими пополнениями
			if database.IsValidationError(err) {
				log.Printf("Пополнение пропущено: %v", err)
				continue
			}
			return fmt.Errorf("ошибка при генерации пополнения: %v", err)
		}
	}
	return nil
}
