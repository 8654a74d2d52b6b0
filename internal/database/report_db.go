package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"financeflow/models"
)

// CreateReport сохраняет снимок статистики в историю отчетов
func CreateReport(pool *pgxpool.Pool, report *models.AnalyticsReport) error {
	if !models.IsValidReportType(report.ReportType) {
		return newValidationError("недопустимый тип отчета")
	}

	query := `
		INSERT INTO analytics_reports
			(report_type, report_date, total_goals, completed_goals, total_target_amount, total_current_amount, average_progress, generated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := pool.QueryRow(context.Background(), query,
		report.ReportType,
		report.ReportDate,
		report.TotalGoals,
		report.CompletedGoals,
		report.TotalTargetAmount,
		report.TotalCurrentAmount,
		report.AverageProgress,
		report.GeneratedAt).Scan(&report.ID)
	if err != nil {
		return fmt.Errorf("ошибка при сохранении отчета: %v", err)
	}
	return nil
}

// GetReportByID извлекает отчет по ID
func GetReportByID(pool *pgxpool.Pool, reportID int) (*models.AnalyticsReport, error) {
	query := `
		SELECT id, report_type, report_date, total_goals, completed_goals,
			total_target_amount, total_current_amount, average_progress, generated_at
		FROM analytics_reports
		WHERE id = $1`

	report := &models.AnalyticsReport{}
	err := pool.QueryRow(context.Background(), query, reportID).Scan(
		&report.ID,
		&report.ReportType,
		&report.ReportDate,
		&report.TotalGoals,
		&report.CompletedGoals,
		&report.TotalTargetAmount,
		&report.TotalCurrentAmount,
		&report.AverageProgress,
		&report.GeneratedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("ошибка при получении отчета: %v", err)
	}
	return report, nil
}

// GetAllReports извлекает историю отчетов, новые сверху
func GetAllReports(pool *pgxpool.Pool) ([]models.AnalyticsReport, error) {
	query := `
		SELECT id, report_type, report_date, total_goals, completed_goals,
			total_target_amount, total_current_amount, average_progress, generated_at
		FROM analytics_reports
		ORDER BY generated_at DESC`

	rows, err := pool.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении истории отчетов: %v", err)
	}
	defer rows.Close()

	var reports []models.AnalyticsReport
	for rows.Next() {
		var report models.AnalyticsReport
		if err := rows.Scan(
			&report.ID,
			&report.ReportType,
			&report.ReportDate,
			&report.TotalGoals,
			&report.CompletedGoals,
			&report.TotalTargetAmount,
			&report.TotalCurrentAmount,
			&report.AverageProgress,
			&report.GeneratedAt,
		); err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}
