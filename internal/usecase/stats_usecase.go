package usecase

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"go-jobmatch-backend/internal/domain"
	"go-jobmatch-backend/pkg/apperror"

	"github.com/xuri/excelize/v2"
)

type statsUsecase struct {
	applicationRepo domain.ApplicationRepository
}

// NewStatsUsecase creates the read-only statistics usecase.
func NewStatsUsecase(applicationRepo domain.ApplicationRepository) domain.StatsUsecase {
	return &statsUsecase{applicationRepo: applicationRepo}
}

// GetStats computes the rollup in a single pass over a best-effort snapshot
// of all records, active or not. No locks are taken; concurrent writers may
// land between the read and the response.
func (u *statsUsecase) GetStats(ctx context.Context) (*domain.StatsReport, error) {
	apps, err := u.applicationRepo.ListAll(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	report := &domain.StatsReport{}
	var reviewed int64
	var totalDays float64
	for _, app := range apps {
		report.Total++
		switch app.Status {
		case domain.StatusPending:
			report.Pending++
		case domain.StatusAccepted:
			report.Accepted++
		case domain.StatusRejected:
			report.Rejected++
		}
		if app.ReviewedAt != nil {
			reviewed++
			totalDays += app.ReviewedAt.Sub(app.AppliedAt).Hours() / 24
		}
	}
	if reviewed > 0 {
		report.AvgDaysToReview = totalDays / float64(reviewed)
	}
	return report, nil
}

var exportColumns = []string{
	"id", "professional_id", "job_offer_id", "status", "priority",
	"salary_amount", "salary_currency", "applied_at", "reviewed_at",
	"reviewed_by", "is_active",
}

// ExportApplications renders the full application register as xlsx or csv.
func (u *statsUsecase) ExportApplications(ctx context.Context, format string) ([]byte, string, error) {
	apps, err := u.applicationRepo.ListAll(ctx)
	if err != nil {
		return nil, "", apperror.Internal(err)
	}

	switch format {
	case "csv":
		return exportCSV(apps)
	case "xlsx", "":
		return exportExcel(apps)
	default:
		return nil, "", apperror.BadRequest(fmt.Sprintf("unsupported export format: %s", format))
	}
}

// exportExcel generates an Excel file from the application register
func exportExcel(apps []domain.Application) ([]byte, string, error) {
	f := excelize.NewFile()
	sheetName := "Applications"
	f.SetSheetName("Sheet1", sheetName)

	// Write headers
	for i, col := range exportColumns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, strings.ToUpper(strings.ReplaceAll(col, "_", " ")))
	}

	// Style headers - dark blue background with white text
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	endCell, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
	f.SetCellStyle(sheetName, "A1", endCell, headerStyle)

	// Write data rows
	for rowIdx, app := range apps {
		values := exportRow(app)
		for colIdx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range exportColumns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, colName, colName, 20)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	filename := fmt.Sprintf("applications_%s.xlsx", time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

// exportCSV generates a CSV file from the application register
func exportCSV(apps []domain.Application) ([]byte, string, error) {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(exportColumns, ",") + "\n")

	for _, app := range apps {
		values := exportRow(app)
		fields := make([]string, len(values))
		for i, v := range values {
			s := fmt.Sprintf("%v", v)
			if strings.ContainsAny(s, ",\"\n") {
				s = `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
			}
			fields[i] = s
		}
		buf.WriteString(strings.Join(fields, ",") + "\n")
	}

	filename := fmt.Sprintf("applications_%s.csv", time.Now().Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

func exportRow(app domain.Application) []interface{} {
	reviewedAt := ""
	if app.ReviewedAt != nil {
		reviewedAt = app.ReviewedAt.Format(time.RFC3339)
	}
	reviewedBy := ""
	if app.ReviewedBy != nil {
		reviewedBy = *app.ReviewedBy
	}
	return []interface{}{
		app.ID,
		app.ProfessionalID,
		app.JobOfferID,
		string(app.Status),
		string(app.Priority),
		app.SalaryAmount,
		app.SalaryCurrency,
		app.AppliedAt.Format(time.RFC3339),
		reviewedAt,
		reviewedBy,
		app.IsActive,
	}
}
