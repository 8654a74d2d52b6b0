package analytics

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"financeflow/models"
)

// ErrReportFile — PDF-файл отчета записать не удалось. Снимок статистики
// к этому моменту уже сохранен в историю, поэтому ошибка файлового артефакта
// отделена от ошибок базы данных.
var ErrReportFile = errors.New("не удалось записать PDF-файл отчета")

// Цветовая схема отчета в стиле приложения (темная тема)
const (
	colorBg            = "#1F2937"
	colorCardBg        = "#374151"
	colorText          = "#F9FAFB"
	colorTextSecondary = "#9CA3AF"
	colorBorder        = "#4B5563"
	colorAccent        = "#8B5CF6"
	colorCompleted     = "#10B981"
	colorOverdue       = "#EF4444"
	colorInProgress    = "#F59E0B"
)

const defaultFontPath = "/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf"

func hexToRGB(hex string) (int, int, int) {
	var r, g, b int
	if _, err := fmt.Sscanf(strings.TrimPrefix(hex, "#"), "%02x%02x%02x", &r, &g, &b); err != nil {
		return 0, 0, 0
	}
	return r, g, b
}

// reportsDir возвращает папку отчетов в документах пользователя, создавая ее
// при необходимости. Переопределяется переменной REPORTS_DIR.
func reportsDir() (string, error) {
	dir := os.Getenv("REPORTS_DIR")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("не удалось определить домашнюю папку: %v", err)
		}
		dir = filepath.Join(home, "Documents", "FinanceFlow-Reports")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("не удалось создать папку отчетов: %v", err)
	}
	return dir, nil
}

// reportStyle — шрифт отчета и функция перекодировки строк под него
type reportStyle struct {
	family string
	tr     func(string) string
}

// setupFont подключает DejaVu Sans для кириллицы. Если шрифта нет в системе,
// отчет деградирует до встроенного шрифта с перекодировкой cp1251 вместо
// полного отказа от генерации.
func setupFont(pdf *gofpdf.Fpdf) reportStyle {
	fontPath := os.Getenv("REPORT_FONT")
	if fontPath == "" {
		fontPath = defaultFontPath
	}
	if _, err := os.Stat(fontPath); err == nil {
		pdf.AddUTF8Font("report", "", fontPath)
		boldPath := strings.TrimSuffix(fontPath, ".ttf") + "-Bold.ttf"
		if _, err := os.Stat(boldPath); err == nil {
			pdf.AddUTF8Font("report", "B", boldPath)
		} else {
			pdf.AddUTF8Font("report", "B", fontPath)
		}
		return reportStyle{family: "report", tr: func(s string) string { return s }}
	}
	return reportStyle{family: "Helvetica", tr: pdf.UnicodeTranslatorFromDescriptor("cp1251")}
}

// formatMoney форматирует сумму с разделением тысяч: 1234567.89 -> "1 234 568"
func formatMoney(amount decimal.Decimal) string {
	digits := amount.Round(0).BigInt().String()
	negative := strings.HasPrefix(digits, "-")
	digits = strings.TrimPrefix(digits, "-")

	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	result := strings.Join(groups, " ")
	if negative {
		result = "-" + result
	}
	return result
}

// renderPDF собирает PDF-отчет: шапка, сводные карточки, таблица целей,
// футер с нумерацией страниц. Возвращает путь к записанному файлу.
func renderPDF(record *models.AnalyticsReport, summary models.AnalyticsSummary, goals []models.Goal) (string, error) {
	dir, err := reportsDir()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReportFile, err)
	}
	fileName := fmt.Sprintf("FinanceFlow_Report_%s.pdf", record.GeneratedAt.Format("2006-01-02_15_04_05"))
	filePath := filepath.Join(dir, fileName)

	pdf := gofpdf.New("P", "mm", "A4", "")
	style := setupFont(pdf)
	pdf.AliasNbPages("")
	pdf.SetMargins(15, 15, 15)
	pdf.SetAutoPageBreak(true, 25)

	pageWidth, pageHeight := pdf.GetPageSize()

	pdf.SetHeaderFunc(func() {
		// Фон страницы
		pdf.SetFillColor(hexToRGB(colorBg))
		pdf.Rect(0, 0, pageWidth, pageHeight, "F")

		pdf.SetY(12)
		pdf.SetFont(style.family, "B", 24)
		pdf.SetTextColor(hexToRGB(colorAccent))
		pdf.CellFormat(90, 10, style.tr("FinanceFlow"), "", 0, "L", false, 0, "")

		pdf.SetFont(style.family, "", 10)
		pdf.SetTextColor(hexToRGB(colorTextSecondary))
		header := fmt.Sprintf("Отчет по финансовым целям\nДата генерации: %s",
			record.GeneratedAt.Format("02.01.2006 15:04"))
		pdf.MultiCell(90, 5, style.tr(header), "", "R", false)

		pdf.SetDrawColor(hexToRGB(colorAccent))
		pdf.SetLineWidth(0.6)
		pdf.Line(15, 30, pageWidth-15, 30)
		pdf.SetY(36)
	})

	pdf.SetFooterFunc(func() {
		pdf.SetY(-20)
		pdf.SetDrawColor(hexToRGB(colorBorder))
		pdf.SetLineWidth(0.2)
		pdf.Line(15, pdf.GetY(), pageWidth-15, pdf.GetY())
		pdf.SetFont(style.family, "", 8)
		pdf.SetTextColor(hexToRGB(colorTextSecondary))
		pdf.CellFormat(0, 6, style.tr("Документ сгенерирован автоматически приложением FinanceFlow."), "", 1, "C", false, 0, "")
		pdf.CellFormat(0, 5, style.tr(fmt.Sprintf("Страница %d из {nb}", pdf.PageNo())), "", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	// Сводные карточки
	drawCard := func(x, width float64, title, value string, accent bool) {
		pdf.SetFillColor(hexToRGB(colorCardBg))
		pdf.Rect(x, pdf.GetY(), width, 22, "F")
		pdf.SetXY(x, pdf.GetY()+4)
		pdf.SetFont(style.family, "", 8)
		pdf.SetTextColor(hexToRGB(colorTextSecondary))
		pdf.CellFormat(width, 4, style.tr(strings.ToUpper(title)), "", 0, "C", false, 0, "")
		pdf.SetXY(x, pdf.GetY()+6)
		pdf.SetFont(style.family, "B", 14)
		if accent {
			pdf.SetTextColor(hexToRGB(colorAccent))
		} else {
			pdf.SetTextColor(hexToRGB(colorText))
		}
		pdf.CellFormat(width, 8, style.tr(value), "", 0, "C", false, 0, "")
	}

	cardWidth := (pageWidth - 30 - 10) / 3
	top := pdf.GetY()
	drawCard(15, cardWidth, "Всего целей", fmt.Sprintf("%d", summary.TotalGoals), false)
	pdf.SetY(top)
	drawCard(15+cardWidth+5, cardWidth, "Накоплено", formatMoney(summary.TotalCurrentAmount)+" ₽", true)
	pdf.SetY(top)
	drawCard(15+2*(cardWidth+5), cardWidth, "Общий прогресс", fmt.Sprintf("%.0f%%", summary.AverageProgress), false)
	pdf.SetY(top + 30)

	// Заголовок таблицы целей
	pdf.SetDrawColor(hexToRGB(colorAccent))
	pdf.SetLineWidth(1)
	pdf.Line(15, pdf.GetY(), 15, pdf.GetY()+8)
	pdf.SetX(19)
	pdf.SetFont(style.family, "B", 13)
	pdf.SetTextColor(hexToRGB(colorText))
	pdf.CellFormat(0, 8, style.tr("Детализация целей"), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	tableWidth := pageWidth - 30
	colWidths := []float64{tableWidth * 0.40, tableWidth * 0.20, tableWidth * 0.25, tableWidth * 0.15}
	headers := []string{"Название", "Категория", "Прогресс (Сумма)", "Статус"}

	pdf.SetFont(style.family, "B", 9)
	pdf.SetFillColor(hexToRGB(colorCardBg))
	pdf.SetTextColor(hexToRGB(colorText))
	pdf.SetDrawColor(hexToRGB(colorBorder))
	pdf.SetLineWidth(0.3)
	for i, h := range headers {
		pdf.CellFormat(colWidths[i], 8, style.tr(h), "B", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	today := time.Now()
	for _, goal := range goals {
		categoryName := "-"
		if goal.Category != nil {
			categoryName = goal.Category.Name
		}

		var statusText, statusColor string
		bold := ""
		switch {
		case goal.IsCompleted:
			statusText, statusColor, bold = "Выполнено", colorCompleted, "B"
		case goal.EndDate.Before(today):
			statusText, statusColor, bold = "Просрочено", colorOverdue, "B"
		default:
			statusText, statusColor = "В процессе", colorInProgress
		}

		pdf.SetFont(style.family, "", 9)
		pdf.SetTextColor(hexToRGB(colorText))
		pdf.CellFormat(colWidths[0], 8, style.tr(goal.Title), "B", 0, "L", false, 0, "")
		pdf.CellFormat(colWidths[1], 8, style.tr(categoryName), "B", 0, "L", false, 0, "")
		progress := fmt.Sprintf("%.0f%% (%s)", goal.Progress(), formatMoney(goal.CurrentAmount))
		pdf.CellFormat(colWidths[2], 8, style.tr(progress), "B", 0, "L", false, 0, "")

		pdf.SetFont(style.family, bold, 9)
		pdf.SetTextColor(hexToRGB(statusColor))
		pdf.CellFormat(colWidths[3], 8, style.tr(statusText), "B", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("%w: %v", ErrReportFile, err)
	}
	return filePath, nil
}
