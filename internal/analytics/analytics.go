package analytics

import (
	"log"
	"math"
	"sort"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"financeflow/internal/database"
	"financeflow/models"
)

// Значения для целей без категории
const (
	fallbackCategoryName  = "Без категории"
	fallbackCategoryIcon  = "⭐"
	fallbackCategoryColor = "#6B7280"
)

// BuildSummary считает сводную статистику по набору целей.
// Пустой набор дает нулевую сводку, это не ошибка.
func BuildSummary(goals []models.Goal, today time.Time) models.AnalyticsSummary {
	summary := models.AnalyticsSummary{
		TotalTargetAmount:  decimal.Zero,
		TotalCurrentAmount: decimal.Zero,
	}
	if len(goals) == 0 {
		return summary
	}

	summary.TotalGoals = len(goals)
	for _, goal := range goals {
		switch {
		case goal.IsCompleted:
			summary.CompletedGoals++
		case goal.IsOverdue(today):
			summary.OverdueGoals++
		default:
			summary.InProgressGoals++
		}
		summary.TotalTargetAmount = summary.TotalTargetAmount.Add(goal.TargetAmount)
		summary.TotalCurrentAmount = summary.TotalCurrentAmount.Add(goal.CurrentAmount)
	}

	if summary.TotalTargetAmount.IsPositive() {
		progress, _ := summary.TotalCurrentAmount.
			Div(summary.TotalTargetAmount).
			Mul(decimal.NewFromInt(100)).
			Float64()
		if progress > 100 {
			progress = 100
		}
		summary.AverageProgress = progress
	}

	return summary
}

// BuildDistribution группирует цели по категориям для круговой диаграммы.
// Доля категории считается по количеству целей, процент округляется
// до одного знака, результат отсортирован по убыванию доли.
func BuildDistribution(goals []models.Goal) []models.CategoryDistributionItem {
	if len(goals) == 0 {
		return []models.CategoryDistributionItem{}
	}

	type group struct {
		item  models.CategoryDistributionItem
		order int
	}
	groups := make(map[int]*group)
	order := 0
	for _, goal := range goals {
		key := goal.CategoryID
		g, ok := groups[key]
		if !ok {
			item := models.CategoryDistributionItem{
				CategoryName: fallbackCategoryName,
				Icon:         fallbackCategoryIcon,
				Color:        fallbackCategoryColor,
			}
			if goal.Category != nil {
				item.CategoryName = goal.Category.Name
				item.Icon = goal.Category.Icon
				item.Color = goal.Category.Color
			}
			g = &group{item: item, order: order}
			groups[key] = g
			order++
		}
		g.item.GoalsCount++
	}

	total := float64(len(goals))
	items := make([]*group, 0, len(groups))
	for _, g := range groups {
		g.item.Percentage = math.Round(float64(g.item.GoalsCount)/total*1000) / 10
		items = append(items, g)
	}

	sort.SliceStable(items, func(i, j int) bool {
		if items[i].item.Percentage != items[j].item.Percentage {
			return items[i].item.Percentage > items[j].item.Percentage
		}
		return items[i].order < items[j].order
	})

	result := make([]models.CategoryDistributionItem, len(items))
	for i, g := range items {
		result[i] = g.item
	}
	return result
}

// GetGeneralStatistics возвращает сводную статистику по всем целям.
// При ошибке чтения логирует и возвращает пустую сводку: дашборд должен
// показываться даже при недоступной базе.
func GetGeneralStatistics(pool *pgxpool.Pool) models.AnalyticsSummary {
	goals, err := database.GetAllGoals(pool)
	if err != nil {
		log.Printf("Ошибка при получении целей для статистики: %v", err)
		return models.AnalyticsSummary{
			TotalTargetAmount:  decimal.Zero,
			TotalCurrentAmount: decimal.Zero,
		}
	}
	return BuildSummary(goals, time.Now())
}

// GetCategoryDistribution возвращает распределение целей по категориям
func GetCategoryDistribution(pool *pgxpool.Pool) []models.CategoryDistributionItem {
	goals, err := database.GetAllGoals(pool)
	if err != nil {
		log.Printf("Ошибка при получении целей для распределения: %v", err)
		return []models.CategoryDistributionItem{}
	}
	return BuildDistribution(goals)
}

// GetUpcomingDeadlines возвращает незавершенные цели с ближайшими дедлайнами
func GetUpcomingDeadlines(pool *pgxpool.Pool, count int) []models.Goal {
	goals, err := database.GetUpcomingGoals(pool, count)
	if err != nil {
		log.Printf("Ошибка при получении ближайших дедлайнов: %v", err)
		return []models.Goal{}
	}
	return goals
}

// GenerateReportRecord снимает текущую статистику и сохраняет ее
// в историю отчетов
func GenerateReportRecord(pool *pgxpool.Pool, reportType string) (*models.AnalyticsReport, error) {
	goals, err := database.GetAllGoals(pool)
	if err != nil {
		return nil, err
	}
	summary := BuildSummary(goals, time.Now())

	now := time.Now()
	record := &models.AnalyticsReport{
		ReportType:         reportType,
		ReportDate:         now.Truncate(24 * time.Hour),
		TotalGoals:         summary.TotalGoals,
		CompletedGoals:     summary.CompletedGoals,
		TotalTargetAmount:  summary.TotalTargetAmount,
		TotalCurrentAmount: summary.TotalCurrentAmount,
		AverageProgress:    decimal.NewFromFloat(summary.AverageProgress).Round(2),
		GeneratedAt:        now,
	}
	if err := database.CreateReport(pool, record); err != nil {
		return nil, err
	}
	return record, nil
}

// GeneratePDFReport сохраняет снимок статистики и рендерит PDF-отчет
// в папку отчетов. Возвращает путь к созданному файлу.
func GeneratePDFReport(pool *pgxpool.Pool, reportType string) (string, error) {
	record, err := GenerateReportRecord(pool, reportType)
	if err != nil {
		return "", err
	}

	goals, err := database.GetAllGoals(pool)
	if err != nil {
		return "", err
	}
	// Сначала выполненные, затем по дате окончания
	sort.SliceStable(goals, func(i, j int) bool {
		if goals[i].IsCompleted != goals[j].IsCompleted {
			return goals[i].IsCompleted
		}
		return goals[i].EndDate.Before(goals[j].EndDate)
	})

	summary := BuildSummary(goals, time.Now())

	path, err := renderPDF(record, summary, goals)
	if err != nil {
		// Снимок уже в базе, падает только файловый артефакт
		log.Printf("Ошибка генерации PDF-отчета: %v", err)
		return "", err
	}
	return path, nil
}
