package database_test

import (
	"testing"
	"time"

	"financeflow/internal/database"
	"financeflow/models"
)

func TestCreateAndGetReport(t *testing.T) {
	pool := testPool(t)

	now := time.Now().UTC()
	report := &models.AnalyticsReport{
		ReportType:         models.ReportTypeMonthly,
		ReportDate:         now.Truncate(24 * time.Hour),
		TotalGoals:         5,
		CompletedGoals:     2,
		TotalTargetAmount:  dec("100000"),
		TotalCurrentAmount: dec("45000"),
		AverageProgress:    dec("45.00"),
		GeneratedAt:        now,
	}

	if err := database.CreateReport(pool, report); err != nil {
		t.Fatalf("ошибка сохранения отчета: %v", err)
	}

	created, err := database.GetReportByID(pool, report.ID)
	if err != nil {
		t.Fatalf("ошибка получения отчета по ID: %v", err)
	}
	if created.ReportType != report.ReportType || created.TotalGoals != report.TotalGoals {
		t.Errorf("данные отчета не совпадают: получили %+v, хотели %+v", created, report)
	}
	if !created.AverageProgress.Equal(report.AverageProgress) {
		t.Errorf("средний прогресс %s, хотели %s", created.AverageProgress, report.AverageProgress)
	}
}

func TestCreateReportInvalidType(t *testing.T) {
	pool := testPool(t)

	report := &models.AnalyticsReport{
		ReportType:  "weekly",
		ReportDate:  time.Now(),
		GeneratedAt: time.Now(),
	}
	if err := database.CreateReport(pool, report); !database.IsValidationError(err) {
		t.Errorf("ожидали ошибку валидации типа отчета, получили %v", err)
	}
}

func TestGetAllReportsOrdered(t *testing.T) {
	pool := testPool(t)

	reports, err := database.GetAllReports(pool)
	if err != nil {
		t.Fatalf("ошибка получения истории отчетов: %v", err)
	}
	for i := 1; i < len(reports); i++ {
		if reports[i].GeneratedAt.After(reports[i-1].GeneratedAt) {
			t.Errorf("история отчетов не отсортирована по убыванию даты")
			break
		}
	}
}
