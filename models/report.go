package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Типы отчетов
const (
	ReportTypeMonthly   = "monthly"
	ReportTypeQuarterly = "quarterly"
	ReportTypeYearly    = "yearly"
	ReportTypeCustom    = "custom"
)

// AnalyticsReport — сохраненный снимок статистики на момент генерации отчета
type AnalyticsReport struct {
	ID                 int             `json:"id" db:"id"`
	ReportType         string          `json:"report_type" db:"report_type"`
	ReportDate         time.Time       `json:"report_date" db:"report_date"`
	TotalGoals         int             `json:"total_goals" db:"total_goals"`
	CompletedGoals     int             `json:"completed_goals" db:"completed_goals"`
	TotalTargetAmount  decimal.Decimal `json:"total_target_amount" db:"total_target_amount"`
	TotalCurrentAmount decimal.Decimal `json:"total_current_amount" db:"total_current_amount"`
	AverageProgress    decimal.Decimal `json:"average_progress" db:"average_progress"`
	GeneratedAt        time.Time       `json:"generated_at" db:"generated_at"`
}

// IsValidReportType проверяет тип отчета на принадлежность домену
func IsValidReportType(reportType string) bool {
	switch reportType {
	case ReportTypeMonthly, ReportTypeQuarterly, ReportTypeYearly, ReportTypeCustom:
		return true
	}
	return false
}
