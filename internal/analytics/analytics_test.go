package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"financeflow/models"
)

var testToday = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func testGoal(categoryID int, target, current string, completed bool, endDate time.Time) models.Goal {
	return models.Goal{
		CategoryID:    categoryID,
		TargetAmount:  dec(target),
		CurrentAmount: dec(current),
		IsCompleted:   completed,
		EndDate:       endDate,
	}
}

func TestBuildSummaryEmpty(t *testing.T) {
	summary := BuildSummary(nil, testToday)

	if summary.TotalGoals != 0 || summary.CompletedGoals != 0 ||
		summary.InProgressGoals != 0 || summary.OverdueGoals != 0 {
		t.Errorf("пустой набор целей должен давать нулевые счетчики: %+v", summary)
	}
	if !summary.TotalTargetAmount.Equal(decimal.Zero) || !summary.TotalCurrentAmount.Equal(decimal.Zero) {
		t.Errorf("пустой набор целей должен давать нулевые суммы: %+v", summary)
	}
	if summary.AverageProgress != 0 {
		t.Errorf("средний прогресс пустого набора %v, хотели 0", summary.AverageProgress)
	}
}

func TestBuildSummaryCounts(t *testing.T) {
	future := testToday.AddDate(0, 2, 0)
	past := testToday.AddDate(0, -2, 0)
	goals := []models.Goal{
		testGoal(1, "1000", "1000", true, past),    // выполнена (дедлайн уже не важен)
		testGoal(1, "2000", "500", false, future),  // в процессе
		testGoal(2, "3000", "1500", false, past),   // просрочена
		testGoal(2, "4000", "1000", false, future), // в процессе
	}

	summary := BuildSummary(goals, testToday)

	if summary.TotalGoals != 4 {
		t.Errorf("всего целей %d, хотели 4", summary.TotalGoals)
	}
	if summary.CompletedGoals != 1 {
		t.Errorf("выполнено %d, хотели 1", summary.CompletedGoals)
	}
	if summary.OverdueGoals != 1 {
		t.Errorf("просрочено %d, хотели 1", summary.OverdueGoals)
	}
	if summary.InProgressGoals != 2 {
		t.Errorf("в процессе %d, хотели 2", summary.InProgressGoals)
	}
	if !summary.TotalTargetAmount.Equal(dec("10000")) {
		t.Errorf("целевая сумма %s, хотели 10000", summary.TotalTargetAmount)
	}
	if !summary.TotalCurrentAmount.Equal(dec("4000")) {
		t.Errorf("накоплено %s, хотели 4000", summary.TotalCurrentAmount)
	}
	if summary.AverageProgress != 40 {
		t.Errorf("средний прогресс %v, хотели 40", summary.AverageProgress)
	}
}

func TestBuildSummaryProgressCap(t *testing.T) {
	// Суммарные накопления не могут показать больше 100 процентов
	goals := []models.Goal{
		testGoal(1, "100", "100", true, testToday.AddDate(0, 1, 0)),
	}
	summary := BuildSummary(goals, testToday)
	if summary.AverageProgress != 100 {
		t.Errorf("средний прогресс %v, хотели 100", summary.AverageProgress)
	}
}

func TestBuildDistributionEmpty(t *testing.T) {
	items := BuildDistribution(nil)
	if len(items) != 0 {
		t.Errorf("пустой набор целей должен давать пустое распределение, получили %d", len(items))
	}
}

func TestBuildDistribution(t *testing.T) {
	tech := &models.GoalCategory{ID: 1, Name: "Техника", Icon: "📱", Color: "#8B5CF6"}
	travel := &models.GoalCategory{ID: 3, Name: "Путешествия", Icon: "✈️", Color: "#10B981"}

	goals := []models.Goal{
		{CategoryID: 1, Category: tech},
		{CategoryID: 1, Category: tech},
		{CategoryID: 3, Category: travel},
	}

	items := BuildDistribution(goals)

	if len(items) != 2 {
		t.Fatalf("категорий %d, хотели 2", len(items))
	}
	if items[0].CategoryName != "Техника" || items[0].GoalsCount != 2 {
		t.Errorf("первой должна идти Техника с 2 целями, получили %+v", items[0])
	}
	if items[0].Percentage != 66.7 {
		t.Errorf("доля Техники %v, хотели 66.7", items[0].Percentage)
	}
	if items[1].Percentage != 33.3 {
		t.Errorf("доля Путешествий %v, хотели 33.3", items[1].Percentage)
	}

	// Сумма процентов по всем категориям ~100 с поправкой на округление
	var total float64
	for _, item := range items {
		total += item.Percentage
	}
	if math.Abs(total-100) > 0.2 {
		t.Errorf("сумма долей %v, хотели ~100", total)
	}
}

func TestBuildDistributionOrder(t *testing.T) {
	a := &models.GoalCategory{ID: 1, Name: "Авто", Icon: "🚗", Color: "#EF4444"}
	b := &models.GoalCategory{ID: 2, Name: "Здоровье", Icon: "🏥", Color: "#EC4899"}
	c := &models.GoalCategory{ID: 3, Name: "Другое", Icon: "⭐", Color: "#6B7280"}

	goals := []models.Goal{
		{CategoryID: 1, Category: a},
		{CategoryID: 2, Category: b},
		{CategoryID: 2, Category: b},
		{CategoryID: 2, Category: b},
		{CategoryID: 3, Category: c},
		{CategoryID: 3, Category: c},
	}

	items := BuildDistribution(goals)

	if len(items) != 3 {
		t.Fatalf("категорий %d, хотели 3", len(items))
	}
	for i := 1; i < len(items); i++ {
		if items[i].Percentage > items[i-1].Percentage {
			t.Errorf("распределение не отсортировано по убыванию: %+v", items)
		}
	}
	if items[0].CategoryName != "Здоровье" {
		t.Errorf("первой должна идти самая крупная категория, получили %s", items[0].CategoryName)
	}
}

func TestBuildDistributionFallbackCategory(t *testing.T) {
	// Цель без загруженной категории попадает в "Без категории"
	goals := []models.Goal{{CategoryID: 99}}

	items := BuildDistribution(goals)

	if len(items) != 1 {
		t.Fatalf("категорий %d, хотели 1", len(items))
	}
	if items[0].CategoryName != "Без категории" || items[0].Icon != "⭐" || items[0].Color != "#6B7280" {
		t.Errorf("ожидали запасную категорию, получили %+v", items[0])
	}
	if items[0].Percentage != 100 {
		t.Errorf("доля единственной категории %v, хотели 100", items[0].Percentage)
	}
}

func TestFormatMoney(t *testing.T) {
	cases := []struct {
		amount string
		want   string
	}{
		{"0", "0"},
		{"999", "999"},
		{"1000", "1 000"},
		{"1234567.89", "1 234 568"},
		{"-45000", "-45 000"},
	}
	for _, tc := range cases {
		if got := formatMoney(dec(tc.amount)); got != tc.want {
			t.Errorf("formatMoney(%s) = %q, хотели %q", tc.amount, got, tc.want)
		}
	}
}
