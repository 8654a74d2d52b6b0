package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Допустимые типы пополнений
const (
	DepositTypeRegular   = "regular"
	DepositTypeSalary    = "salary"
	DepositTypeFreelance = "freelance"
	DepositTypeBonus     = "bonus"
	DepositTypeOther     = "other"
)

// GoalDeposit — пополнение по цели
type GoalDeposit struct {
	ID          int             `json:"id" db:"id"`
	GoalID      int             `json:"goal_id" db:"goal_id"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	DepositType string          `json:"deposit_type" db:"deposit_type"`
	Comment     *string         `json:"comment,omitempty" db:"comment"`
	DepositDate time.Time       `json:"deposit_date" db:"deposit_date"`

	// Цель, к которой относится пополнение (заполняется при JOIN)
	Goal *Goal `json:"goal,omitempty" db:"-"`
}

// IsValidDepositType проверяет тип пополнения на принадлежность домену
func IsValidDepositType(depositType string) bool {
	switch depositType {
	case DepositTypeRegular, DepositTypeSalary, DepositTypeFreelance, DepositTypeBonus, DepositTypeOther:
		return true
	}
	return false
}
