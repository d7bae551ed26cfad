package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

// ResultRow is one scored attempt in the results export.
type ResultRow struct {
	Username    string
	QuizTitle   string
	Score       int
	TotalMarks  int
	Percentage  float64
	TimeTaken   int
	CompletedAt *time.Time
}

const resultsSheet = "Results"

// ResultsWorkbook renders the rows as an xlsx workbook.
func ResultsWorkbook(rows []ResultRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", resultsSheet)

	headers := []string{"Username", "Quiz", "Score", "Total Marks", "Percentage", "Time Taken (s)", "Completed At"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(resultsSheet, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, row := range rows {
		completedAt := ""
		if row.CompletedAt != nil {
			completedAt = row.CompletedAt.Format(time.RFC3339)
		}

		values := []interface{}{
			row.Username,
			row.QuizTitle,
			row.Score,
			row.TotalMarks,
			fmt.Sprintf("%.2f", row.Percentage),
			row.TimeTaken,
			completedAt,
		}

		for j, value := range values {
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell: %w", err)
			}
			if err := f.SetCellValue(resultsSheet, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write row: %w", err)
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to render workbook: %w", err)
	}
	return buf.Bytes(), nil
}
