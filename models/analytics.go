package models

import "github.com/shopspring/decimal"

// AnalyticsSummary — сводная статистика по всем целям для дашборда
type AnalyticsSummary struct {
	TotalGoals         int             `json:"total_goals"`
	CompletedGoals     int             `json:"completed_goals"`
	InProgressGoals    int             `json:"in_progress_goals"`
	OverdueGoals       int             `json:"overdue_goals"`
	TotalTargetAmount  decimal.Decimal `json:"total_target_amount"`
	TotalCurrentAmount decimal.Decimal `json:"total_current_amount"`
	AverageProgress    float64         `json:"average_progress"` // Средний прогресс в процентах
}

// CategoryDistributionItem — доля категории в общем числе целей (для диаграммы)
type CategoryDistributionItem struct {
	CategoryName string  `json:"category_name"`
	Icon         string  `json:"icon"`
	Color        string  `json:"color"`
	GoalsCount   int     `json:"goals_count"`
	Percentage   float64 `json:"percentage"` // Процент с одним знаком после запятой
}
