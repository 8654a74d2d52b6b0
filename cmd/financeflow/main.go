package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"

	"financeflow/internal/analytics"
	"financeflow/internal/database"
	"financeflow/models"
	"financeflow/utils"
)

const dateLayout = "2006-01-02"

func usage() {
	fmt.Fprintln(os.Stderr, `FinanceFlow — трекер финансовых целей

Использование: financeflow <команда> [параметры]

Команды:
  migrate                     применить миграции схемы
  categories list|add|delete  работа с категориями
  goals list|add|update|delete   работа с целями
  deposits list|add|update|delete  работа с пополнениями
  stats                       сводная статистика
  distribution                распределение целей по категориям
  deadlines [-count N]        ближайшие дедлайны
  report <monthly|quarterly|yearly|custom>  сгенерировать PDF-отчет
  reports                     история отчетов
  autoreport                  запустить планировщик ежемесячных отчетов
  seed [-goals N] [-deposits N]  сгенерировать демо-данные`)
}

// fail печатает ошибку пользователю. Ошибки валидации и "не найдено"
// показываются как есть, ошибки базы логируются с деталями, а пользователю
// уходит общее сообщение.
func fail(err error) {
	switch {
	case database.IsValidationError(err),
		errors.Is(err, database.ErrGoalNotFound),
		errors.Is(err, database.ErrDepositNotFound),
		errors.Is(err, database.ErrCategoryNotFound),
		errors.Is(err, database.ErrReportNotFound):
		fmt.Fprintf(os.Stderr, "Ошибка: %v\n", err)
	default:
		log.Printf("Ошибка операции: %v", err)
		fmt.Fprintln(os.Stderr, "Ошибка базы данных, операция не выполнена")
	}
	os.Exit(1)
}

func main() {
	log.SetFlags(log.LstdFlags)

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	pool, err := database.ConnectDB()
	if err != nil {
		log.Fatalf("Ошибка подключения к базе данных: %v", err)
	}
	defer pool.Close()

	if err := database.RunMigrations(); err != nil {
		log.Fatalf("Ошибка применения миграций: %v", err)
	}

	switch os.Args[1] {
	case "migrate":
		// Миграции уже применены при старте
		fmt.Println("Миграции применены")
	case "categories":
		runCategories(pool, os.Args[2:])
	case "goals":
		runGoals(pool, os.Args[2:])
	case "deposits":
		runDeposits(pool, os.Args[2:])
	case "stats":
		runStats(pool)
	case "distribution":
		runDistribution(pool)
	case "deadlines":
		runDeadlines(pool, os.Args[2:])
	case "report":
		runReport(pool, os.Args[2:])
	case "reports":
		runReportHistory(pool)
	case "autoreport":
		runAutoReport(pool)
	case "seed":
		runSeed(pool, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func runCategories(pool *pgxpool.Pool, args []string) {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		categories, err := database.GetAllCategories(pool)
		if err != nil {
			fail(err)
		}
		for _, c := range categories {
			active := ""
			if !c.IsActive {
				active = " (неактивна)"
			}
			fmt.Printf("%3d  %s %-16s %s%s\n", c.ID, c.Icon, c.Name, c.Color, active)
		}
	case "add":
		fs := flag.NewFlagSet("categories add", flag.ExitOnError)
		name := fs.String("name", "", "название категории")
		icon := fs.String("icon", "⭐", "эмодзи категории")
		color := fs.String("color", "#6B7280", "цвет в формате #RRGGBB")
		sortOrder := fs.Int("sort", 0, "порядок сортировки")
		fs.Parse(args[1:])

		category := &models.GoalCategory{
			Name:      *name,
			Icon:      *icon,
			Color:     *color,
			SortOrder: *sortOrder,
			IsActive:  true,
		}
		if err := database.CreateCategory(pool, category); err != nil {
			fail(err)
		}
		created, err := database.GetCategoryByID(pool, category.ID)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Категория создана: %d  %s %s\n", created.ID, created.Icon, created.Name)
	case "delete":
		fs := flag.NewFlagSet("categories delete", flag.ExitOnError)
		id := fs.Int("id", 0, "ID категории")
		fs.Parse(args[1:])

		if err := database.DeleteCategory(pool, *id); err != nil {
			fail(err)
		}
		fmt.Println("Категория удалена")
	default:
		usage()
		os.Exit(2)
	}
}

func printGoal(g *models.Goal) {
	categoryName := "-"
	if g.Category != nil {
		categoryName = fmt.Sprintf("%s %s", g.Category.Icon, g.Category.Name)
	}
	status := "в процессе"
	if g.IsCompleted {
		status = "выполнена"
	} else if g.IsOverdue(time.Now()) {
		status = "просрочена"
	}
	fmt.Printf("%3d  %-30s %-18s %s / %s (%.0f%%)  до %s  приоритет %d  [%s]\n",
		g.ID, g.Title, categoryName,
		g.CurrentAmount.StringFixed(2), g.TargetAmount.StringFixed(2), g.Progress(),
		g.EndDate.Format(dateLayout), g.Priority, status)
}

func runGoals(pool *pgxpool.Pool, args []string) {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		goals, err := database.GetAllGoals(pool)
		if err != nil {
			fail(err)
		}
		for i := range goals {
			printGoal(&goals[i])
		}
	case "add":
		fs := flag.NewFlagSet("goals add", flag.ExitOnError)
		title := fs.String("title", "", "название цели")
		target := fs.String("target", "", "целевая сумма")
		category := fs.Int("category", 0, "ID категории")
		end := fs.String("end", "", "дата окончания (ГГГГ-ММ-ДД)")
		start := fs.String("start", "", "дата начала (ГГГГ-ММ-ДД, по умолчанию сегодня)")
		priority := fs.Int("priority", 2, "приоритет 1-3")
		description := fs.String("description", "", "описание")
		fs.Parse(args[1:])

		goal := &models.Goal{
			CategoryID: *category,
			Title:      *title,
			Priority:   *priority,
		}
		var err error
		if goal.TargetAmount, err = decimal.NewFromString(*target); err != nil {
			fail(&database.ValidationError{Message: "некорректная целевая сумма"})
		}
		if goal.EndDate, err = time.Parse(dateLayout, *end); err != nil {
			fail(&database.ValidationError{Message: "некорректная дата окончания"})
		}
		if *start != "" {
			if goal.StartDate, err = time.Parse(dateLayout, *start); err != nil {
				fail(&database.ValidationError{Message: "некорректная дата начала"})
			}
		} else {
			goal.StartDate = time.Now().UTC()
		}
		if *description != "" {
			goal.Description = description
		}

		if err := database.CreateGoal(pool, goal); err != nil {
			fail(err)
		}
		fmt.Printf("Цель создана, ID %d\n", goal.ID)
	case "update":
		fs := flag.NewFlagSet("goals update", flag.ExitOnError)
		id := fs.Int("id", 0, "ID цели")
		title := fs.String("title", "", "название цели")
		target := fs.String("target", "", "целевая сумма")
		category := fs.Int("category", 0, "ID категории")
		end := fs.String("end", "", "дата окончания (ГГГГ-ММ-ДД)")
		start := fs.String("start", "", "дата начала (ГГГГ-ММ-ДД)")
		priority := fs.Int("priority", 0, "приоритет 1-3")
		description := fs.String("description", "", "описание")
		fs.Parse(args[1:])

		goal, err := database.GetGoalByID(pool, *id)
		if err != nil {
			fail(err)
		}
		if *title != "" {
			goal.Title = *title
		}
		if *target != "" {
			if goal.TargetAmount, err = decimal.NewFromString(*target); err != nil {
				fail(&database.ValidationError{Message: "некорректная целевая сумма"})
			}
		}
		if *category != 0 {
			goal.CategoryID = *category
		}
		if *end != "" {
			if goal.EndDate, err = time.Parse(dateLayout, *end); err != nil {
				fail(&database.ValidationError{Message: "некорректная дата окончания"})
			}
		}
		if *start != "" {
			if goal.StartDate, err = time.Parse(dateLayout, *start); err != nil {
				fail(&database.ValidationError{Message: "некорректная дата начала"})
			}
		}
		if *priority != 0 {
			goal.Priority = *priority
		}
		if *description != "" {
			goal.Description = description
		}

		if err := database.UpdateGoal(pool, goal); err != nil {
			fail(err)
		}
		fmt.Println("Цель обновлена")
	case "delete":
		fs := flag.NewFlagSet("goals delete", flag.ExitOnError)
		id := fs.Int("id", 0, "ID цели")
		fs.Parse(args[1:])

		if err := database.DeleteGoal(pool, *id); err != nil {
			fail(err)
		}
		fmt.Println("Цель удалена вместе с историей пополнений")
	default:
		usage()
		os.Exit(2)
	}
}

func runDeposits(pool *pgxpool.Pool, args []string) {
	if len(args) == 0 {
		args = []string{"list"}
	}
	switch args[0] {
	case "list":
		fs := flag.NewFlagSet("deposits list", flag.ExitOnError)
		goalID := fs.Int("goal", 0, "ID цели (0 — все пополнения)")
		fs.Parse(args[1:])

		var deposits []models.GoalDeposit
		var err error
		if *goalID != 0 {
			deposits, err = database.GetDepositsByGoal(pool, *goalID)
		} else {
			deposits, err = database.GetAllDeposits(pool)
		}
		if err != nil {
			fail(err)
		}
		for _, d := range deposits {
			comment := ""
			if d.Comment != nil {
				comment = " — " + *d.Comment
			}
			goalTitle := fmt.Sprintf("цель %d", d.GoalID)
			if d.Goal != nil {
				goalTitle = d.Goal.Title
			}
			fmt.Printf("%3d  %s  %10s  %-9s  %s%s\n",
				d.ID, d.DepositDate.Format(dateLayout), d.Amount.StringFixed(2), d.DepositType, goalTitle, comment)
		}
	case "add":
		fs := flag.NewFlagSet("deposits add", flag.ExitOnError)
		goalID := fs.Int("goal", 0, "ID цели")
		amount := fs.String("amount", "", "сумма пополнения")
		depositType := fs.String("type", models.DepositTypeRegular, "тип: regular|salary|freelance|bonus|other")
		comment := fs.String("comment", "", "комментарий")
		fs.Parse(args[1:])

		deposit := &models.GoalDeposit{
			GoalID:      *goalID,
			DepositType: *depositType,
		}
		var err error
		if deposit.Amount, err = decimal.NewFromString(*amount); err != nil {
			fail(&database.ValidationError{Message: "некорректная сумма пополнения"})
		}
		if *comment != "" {
			deposit.Comment = comment
		}

		if err := database.CreateDeposit(pool, deposit); err != nil {
			fail(err)
		}
		goal, err := database.GetGoalByID(pool, *goalID)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Пополнение добавлено, ID %d. Накоплено %s из %s\n",
			deposit.ID, goal.CurrentAmount.StringFixed(2), goal.TargetAmount.StringFixed(2))
		if goal.IsCompleted {
			fmt.Println("Цель достигнута!")
		}
	case "update":
		fs := flag.NewFlagSet("deposits update", flag.ExitOnError)
		id := fs.Int("id", 0, "ID пополнения")
		amount := fs.String("amount", "", "новая сумма (пусто — без изменений)")
		depositType := fs.String("type", "", "тип: regular|salary|freelance|bonus|other (пусто — без изменений)")
		comment := fs.String("comment", "", "комментарий (пусто — без изменений)")
		fs.Parse(args[1:])

		// Незаданные флаги не трогают сохраненные значения
		deposit, err := database.GetDepositByID(pool, *id)
		if err != nil {
			fail(err)
		}
		if *amount != "" {
			if deposit.Amount, err = decimal.NewFromString(*amount); err != nil {
				fail(&database.ValidationError{Message: "некорректная сумма пополнения"})
			}
		}
		if *depositType != "" {
			deposit.DepositType = *depositType
		}
		if *comment != "" {
			deposit.Comment = comment
		}

		if err := database.UpdateDeposit(pool, deposit); err != nil {
			fail(err)
		}
		fmt.Println("Пополнение обновлено")
	case "delete":
		fs := flag.NewFlagSet("deposits delete", flag.ExitOnError)
		id := fs.Int("id", 0, "ID пополнения")
		fs.Parse(args[1:])

		if err := database.DeleteDeposit(pool, *id); err != nil {
			fail(err)
		}
		fmt.Println("Пополнение удалено, накопления цели пересчитаны")
	default:
		usage()
		os.Exit(2)
	}
}

func runStats(pool *pgxpool.Pool) {
	summary := analytics.GetGeneralStatistics(pool)
	fmt.Printf("Всего целей:      %d\n", summary.TotalGoals)
	fmt.Printf("Выполнено:        %d\n", summary.CompletedGoals)
	fmt.Printf("В процессе:       %d\n", summary.InProgressGoals)
	fmt.Printf("Просрочено:       %d\n", summary.OverdueGoals)
	fmt.Printf("Целевая сумма:    %s\n", summary.TotalTargetAmount.StringFixed(2))
	fmt.Printf("Накоплено:        %s\n", summary.TotalCurrentAmount.StringFixed(2))
	fmt.Printf("Средний прогресс: %.1f%%\n", summary.AverageProgress)
}

func runDistribution(pool *pgxpool.Pool) {
	for _, item := range analytics.GetCategoryDistribution(pool) {
		fmt.Printf("%s %-16s %5.1f%%  (%d)\n", item.Icon, item.CategoryName, item.Percentage, item.GoalsCount)
	}
}

func runDeadlines(pool *pgxpool.Pool, args []string) {
	fs := flag.NewFlagSet("deadlines", flag.ExitOnError)
	count := fs.Int("count", 3, "сколько целей показать")
	fs.Parse(args)

	goals := analytics.GetUpcomingDeadlines(pool, *count)
	for i := range goals {
		printGoal(&goals[i])
	}
}

func runReport(pool *pgxpool.Pool, args []string) {
	reportType := models.ReportTypeCustom
	if len(args) > 0 {
		reportType = args[0]
	}
	path, err := analytics.GeneratePDFReport(pool, reportType)
	if err != nil {
		// Снимок статистики к этому моменту уже в истории отчетов
		if errors.Is(err, analytics.ErrReportFile) {
			fmt.Fprintln(os.Stderr, "Снимок статистики сохранен в историю, но PDF-файл записать не удалось")
			os.Exit(1)
		}
		fail(err)
	}
	fmt.Printf("Отчет сохранен: %s\n", path)
}

func runReportHistory(pool *pgxpool.Pool) {
	reports, err := database.GetAllReports(pool)
	if err != nil {
		fail(err)
	}
	for _, r := range reports {
		fmt.Printf("%3d  %s  %-9s  целей %d (выполнено %d), накоплено %s, прогресс %s%%\n",
			r.ID, r.GeneratedAt.Format("2006-01-02 15:04"), r.ReportType,
			r.TotalGoals, r.CompletedGoals, r.TotalCurrentAmount.StringFixed(2), r.AverageProgress.StringFixed(1))
	}
}

// runAutoReport запускает планировщик: ежемесячный PDF-отчет без участия
// пользователя. Процесс блокируется до прерывания.
func runAutoReport(pool *pgxpool.Pool) {
	c := cron.New()
	_, err := c.AddFunc("@monthly", func() {
		path, err := analytics.GeneratePDFReport(pool, models.ReportTypeMonthly)
		if err != nil {
			log.Printf("Ошибка автоматической генерации отчета: %v", err)
			return
		}
		log.Printf("Ежемесячный отчет сохранен: %s", path)
	})
	if err != nil {
		log.Fatalf("Ошибка настройки CRON-задачи для отчетов: %v", err)
	}
	c.Start()
	log.Println("Планировщик ежемесячных отчетов запущен")
	select {}
}

func runSeed(pool *pgxpool.Pool, args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	numGoals := fs.Int("goals", 10, "сколько целей сгенерировать")
	numDeposits := fs.Int("deposits", 30, "сколько пополнений сгенерировать")
	fs.Parse(args)

	if err := utils.GenerateDemoGoals(pool, *numGoals); err != nil {
		fail(err)
	}
	if err := utils.GenerateDemoDeposits(pool, *numDeposits); err != nil {
		fail(err)
	}
	fmt.Printf("Сгенерировано: %d целей, %d пополнений\n", *numGoals, *numDeposits)
}
