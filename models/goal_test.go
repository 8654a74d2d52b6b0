package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func TestApplyDepositClampsAtTarget(t *testing.T) {
	goal := &Goal{TargetAmount: dec("1000"), CurrentAmount: decimal.Zero}

	// Три пополнения по 400: излишек срезается по целевой сумме
	goal.ApplyDeposit(dec("400"))
	goal.ApplyDeposit(dec("400"))
	goal.ApplyDeposit(dec("400"))

	if !goal.CurrentAmount.Equal(dec("1000")) {
		t.Errorf("накоплено %s, хотели 1000", goal.CurrentAmount)
	}
	if !goal.IsCompleted {
		t.Error("цель должна быть отмечена выполненной")
	}
}

func TestApplyDepositBelowTarget(t *testing.T) {
	goal := &Goal{TargetAmount: dec("1000"), CurrentAmount: decimal.Zero}

	goal.ApplyDeposit(dec("400"))

	if !goal.CurrentAmount.Equal(dec("400")) {
		t.Errorf("накоплено %s, хотели 400", goal.CurrentAmount)
	}
	if goal.IsCompleted {
		t.Error("цель не должна быть выполнена")
	}
}

func TestUpdateDepositScenario(t *testing.T) {
	// Цель 500, пополнение 300, затем его сумма меняется на 600 и обратно на 100.
	// Порядок "вычесть старую — прибавить новую" не должен считать сумму дважды.
	goal := &Goal{TargetAmount: dec("500"), CurrentAmount: decimal.Zero}
	goal.ApplyDeposit(dec("300"))

	goal.RemoveDeposit(dec("300"))
	goal.ApplyDeposit(dec("600"))
	if !goal.CurrentAmount.Equal(dec("500")) {
		t.Errorf("после увеличения до 600 накоплено %s, хотели 500 (срез)", goal.CurrentAmount)
	}
	if !goal.IsCompleted {
		t.Error("после среза по целевой цель должна быть выполнена")
	}

	goal.RemoveDeposit(dec("600"))
	goal.ApplyDeposit(dec("100"))
	if !goal.CurrentAmount.Equal(dec("100")) {
		t.Errorf("после уменьшения до 100 накоплено %s, хотели 100", goal.CurrentAmount)
	}
	if goal.IsCompleted {
		t.Error("после уменьшения цель не должна быть выполнена")
	}
}

func TestRemoveDepositFloorsAtZero(t *testing.T) {
	goal := &Goal{TargetAmount: dec("1000"), CurrentAmount: dec("200"), IsCompleted: false}

	goal.RemoveDeposit(dec("500"))

	if !goal.CurrentAmount.Equal(decimal.Zero) {
		t.Errorf("накоплено %s, хотели 0", goal.CurrentAmount)
	}
	if goal.IsCompleted {
		t.Error("пустая цель не может быть выполненной")
	}
}

func TestRemoveDepositResetsCompletion(t *testing.T) {
	goal := &Goal{TargetAmount: dec("1000"), CurrentAmount: dec("1000"), IsCompleted: true}

	goal.RemoveDeposit(dec("250"))

	if !goal.CurrentAmount.Equal(dec("750")) {
		t.Errorf("накоплено %s, хотели 750", goal.CurrentAmount)
	}
	if goal.IsCompleted {
		t.Error("отметка о выполнении должна сняться")
	}
}

func TestProgressAndRemaining(t *testing.T) {
	goal := &Goal{TargetAmount: dec("1000"), CurrentAmount: dec("250")}

	if progress := goal.Progress(); progress != 25 {
		t.Errorf("прогресс %v, хотели 25", progress)
	}
	if remaining := goal.RemainingAmount(); !remaining.Equal(dec("750")) {
		t.Errorf("остаток %s, хотели 750", remaining)
	}

	// Нулевая целевая сумма не должна давать деление на ноль
	empty := &Goal{TargetAmount: decimal.Zero, CurrentAmount: decimal.Zero}
	if progress := empty.Progress(); progress != 0 {
		t.Errorf("прогресс пустой цели %v, хотели 0", progress)
	}
}

func TestIsOverdue(t *testing.T) {
	today := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	past := today.AddDate(0, -1, 0)
	future := today.AddDate(0, 1, 0)

	overdue := &Goal{EndDate: past, IsCompleted: false}
	if !overdue.IsOverdue(today) {
		t.Error("незавершенная цель с прошедшим дедлайном должна быть просрочена")
	}

	completed := &Goal{EndDate: past, IsCompleted: true}
	if completed.IsOverdue(today) {
		t.Error("выполненная цель не считается просроченной")
	}

	active := &Goal{EndDate: future, IsCompleted: false}
	if active.IsOverdue(today) {
		t.Error("цель с будущим дедлайном не просрочена")
	}
}
