package model

// Column names of the job-listings table.
var ListingColumns = []string{
	"title", "company_name", "url", "job_type", "location", "salary_range", "date",
}

// Column names of the job-statistics table.
var StatisticsColumns = []string{
	"date",
	"category_job_count",
	"category_remote_count",
	"minimum_salary",
	"maximum_salary",
	"average_salary",
	"standard_deviation",
}

// Table is a column-ordered batch of rows handed to a Sink. A NULL cell is
// an untyped nil.
type Table struct {
	Columns []string
	Rows    [][]any
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// ListingsTable converts canonical records into job-listings rows.
func ListingsTable(records []CanonicalRecord) Table {
	rows := make([][]any, 0, len(records))
	for _, r := range records {
		var salary, date any
		if r.SalaryRange != nil {
			salary = *r.SalaryRange
		}
		if r.Date != nil {
			date = *r.Date
		}
		rows = append(rows, []any{r.Title, r.CompanyName, r.URL, r.JobType, r.Location, salary, date})
	}
	return Table{Columns: ListingColumns, Rows: rows}
}

// StatisticsTable converts a snapshot into its single job-statistics row.
func StatisticsTable(s StatisticsSnapshot) Table {
	row := []any{
		s.Date,
		s.CategoryJobCount,
		s.CategoryRemoteCount,
		floatOrNil(s.MinimumSalary),
		floatOrNil(s.MaximumSalary),
		floatOrNil(s.AverageSalary),
		floatOrNil(s.StandardDeviation),
	}
	return Table{Columns: StatisticsColumns, Rows: [][]any{row}}
}

func floatOrNil(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
