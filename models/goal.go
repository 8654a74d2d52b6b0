package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Goal — финансовая цель накопления
type Goal struct {
	ID            int             `json:"id" db:"id"`
	CategoryID    int             `json:"category_id" db:"category_id"`
	Title         string          `json:"title" db:"title"`
	TargetAmount  decimal.Decimal `json:"target_amount" db:"target_amount"`   // Целевая сумма
	CurrentAmount decimal.Decimal `json:"current_amount" db:"current_amount"` // Накоплено на данный момент
	StartDate     time.Time       `json:"start_date" db:"start_date"`
	EndDate       time.Time       `json:"end_date" db:"end_date"`
	ImagePath     *string         `json:"image_path,omitempty" db:"image_path"`
	Description   *string         `json:"description,omitempty" db:"description"`
	Priority      int             `json:"priority" db:"priority"` // 1-высокий, 2-средний, 3-низкий
	IsCompleted   bool            `json:"is_completed" db:"is_completed"`
	CreatedAt     time.Time       `json:"created_at" db:"created_at"`

	// Категория цели, заполняется при выборке с JOIN
	Category *GoalCategory `json:"category,omitempty" db:"-"`
}

// RemainingAmount возвращает сумму, которую осталось накопить
func (g *Goal) RemainingAmount() decimal.Decimal {
	remaining := g.TargetAmount.Sub(g.CurrentAmount)
	if remaining.IsNegative() {
		return decimal.Zero
	}
	return remaining
}

// Progress возвращает прогресс цели в процентах (0-100)
func (g *Goal) Progress() float64 {
	if !g.TargetAmount.IsPositive() {
		return 0
	}
	progress, _ := g.CurrentAmount.Div(g.TargetAmount).Mul(decimal.NewFromInt(100)).Float64()
	if progress > 100 {
		progress = 100
	}
	return progress
}

// ApplyDeposit прибавляет сумму пополнения к накоплениям.
// Накопления не могут превысить целевую сумму: излишек срезается,
// после каждого вызова IsCompleted == (CurrentAmount >= TargetAmount).
func (g *Goal) ApplyDeposit(amount decimal.Decimal) {
	g.CurrentAmount = g.CurrentAmount.Add(amount)
	if g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount) {
		g.CurrentAmount = g.TargetAmount
		g.IsCompleted = true
	} else {
		g.IsCompleted = false
	}
}

// RemoveDeposit вычитает сумму пополнения из накоплений.
// Накопления не уходят в минус, отметка о выполнении пересчитывается.
func (g *Goal) RemoveDeposit(amount decimal.Decimal) {
	g.CurrentAmount = g.CurrentAmount.Sub(amount)
	if g.CurrentAmount.IsNegative() {
		g.CurrentAmount = decimal.Zero
	}
	g.IsCompleted = g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// IsOverdue сообщает, просрочена ли незавершенная цель на дату today
func (g *Goal) IsOverdue(today time.Time) bool {
	return !g.IsCompleted && g.EndDate.Before(today)
}
