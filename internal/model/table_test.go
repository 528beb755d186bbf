package model

import (
	"testing"
	"time"
)

func TestListingsTable_NullCells(t *testing.T) {
	salary := "850.00€ - 1700.00€"
	day := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	records := []CanonicalRecord{
		{Title: "Data Engineer", CompanyName: "Acme", SalaryRange: &salary, Date: &day},
		{Title: "Backend Engineer", CompanyName: "Beta"},
	}

	tbl := ListingsTable(records)
	if tbl.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tbl.Len())
	}
	if len(tbl.Columns) != 7 {
		t.Fatalf("columns = %d, want 7", len(tbl.Columns))
	}
	if got := tbl.Rows[0][5]; got != salary {
		t.Errorf("salary cell = %v, want %q", got, salary)
	}
	if got := tbl.Rows[0][6]; got != day {
		t.Errorf("date cell = %v, want %v", got, day)
	}
	if tbl.Rows[1][5] != nil || tbl.Rows[1][6] != nil {
		t.Errorf("expected untyped nil cells, got %v / %v", tbl.Rows[1][5], tbl.Rows[1][6])
	}
}

func TestStatisticsTable_SingleRow(t *testing.T) {
	low := 1000.0
	tbl := StatisticsTable(StatisticsSnapshot{
		Date:             "2026-10-17",
		CategoryJobCount: 3,
		MinimumSalary:    &low,
	})
	if tbl.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", tbl.Len())
	}
	row := tbl.Rows[0]
	if row[0] != "2026-10-17" || row[1] != 3 || row[3] != 1000.0 {
		t.Errorf("unexpected row: %v", row)
	}
	if row[4] != nil || row[6] != nil {
		t.Errorf("missing salary fields should be nil, got %v", row)
	}
}
