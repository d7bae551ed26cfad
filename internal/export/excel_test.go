package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestResultsWorkbook(t *testing.T) {
	completed := time.Date(2026, 3, 14, 10, 30, 0, 0, time.UTC)
	rows := []ResultRow{
		{Username: "priya", QuizTitle: "Algebra Basics", Score: 8, TotalMarks: 10, Percentage: 80, TimeTaken: 420, CompletedAt: &completed},
		{Username: "rahul", QuizTitle: "Algebra Basics", Score: 5, TotalMarks: 10, Percentage: 50, TimeTaken: 600, CompletedAt: nil},
	}

	payload, err := ResultsWorkbook(rows)
	if err != nil {
		t.Fatalf("ResultsWorkbook failed: %v", err)
	}
	if len(payload) == 0 {
		t.Fatal("Workbook payload should not be empty")
	}

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Rendered payload is not a readable workbook: %v", err)
	}
	defer f.Close()

	sheetRows, err := f.GetRows("Results")
	if err != nil {
		t.Fatalf("Failed to read Results sheet: %v", err)
	}
	if len(sheetRows) != 3 {
		t.Fatalf("Expected header plus 2 rows, got %d", len(sheetRows))
	}

	if sheetRows[0][0] != "Username" || sheetRows[0][1] != "Quiz" {
		t.Errorf("Unexpected header row: %v", sheetRows[0])
	}
	if sheetRows[1][0] != "priya" || sheetRows[1][4] != "80.00" {
		t.Errorf("Unexpected first data row: %v", sheetRows[1])
	}
	if sheetRows[2][0] != "rahul" {
		t.Errorf("Unexpected second data row: %v", sheetRows[2])
	}
}

func TestResultsWorkbookEmpty(t *testing.T) {
	payload, err := ResultsWorkbook(nil)
	if err != nil {
		t.Fatalf("ResultsWorkbook failed on empty input: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Rendered payload is not a readable workbook: %v", err)
	}
	defer f.Close()

	sheetRows, err := f.GetRows("Results")
	if err != nil {
		t.Fatalf("Failed to read Results sheet: %v", err)
	}
	if len(sheetRows) != 1 {
		t.Errorf("Expected only the header row, got %d rows", len(sheetRows))
	}
}
