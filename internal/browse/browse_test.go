package browse

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/remotepulse/remotepulse/internal/filter"
	"github.com/remotepulse/remotepulse/internal/model"
	"github.com/remotepulse/remotepulse/internal/pipeline"
)

func sampleResult() pipeline.Result {
	salary := "1000.00€ - 2000.00€"
	day := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	avg := 1500.0
	return pipeline.Result{
		Records: []model.CanonicalRecord{
			{Title: "Senior data engineering", CompanyName: "acme", Location: "Remote / EU", SalaryRange: &salary, Date: &day},
			{Title: "Designer", CompanyName: "globex", Location: "Berlin"},
			{Title: "Lead data engineering", CompanyName: "initech", Location: "remote-friendly"},
		},
		Snapshot: model.StatisticsSnapshot{Date: "2026-10-17", CategoryJobCount: 2, CategoryRemoteCount: 1, AverageSalary: &avg},
	}
}

func newTestModel() browseModel {
	m := newBrowseModel(sampleResult(), "data engineering",
		filter.NewTitleContains("data engineering"), filter.NewRemoteLocation())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(browseModel)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowseModel_SplitsCategory(t *testing.T) {
	m := newTestModel()
	if len(m.all) != 3 || len(m.matched) != 2 {
		t.Fatalf("all=%d matched=%d, want 3/2", len(m.all), len(m.matched))
	}
	if !strings.Contains(m.View(), "Postings 2026-10-17 (3)") {
		t.Error("list view should show the run date and record count")
	}
}

func TestBrowseModel_CursorClamps(t *testing.T) {
	m := newTestModel()
	for range 5 {
		next, _ := m.Update(key("down"))
		m = next.(browseModel)
	}
	if m.leftCursor != 2 {
		t.Errorf("leftCursor = %d, want 2", m.leftCursor)
	}

	next, _ := m.Update(key("tab"))
	m = next.(browseModel)
	next, _ = m.Update(key("down"))
	m = next.(browseModel)
	next, _ = m.Update(key("down"))
	m = next.(browseModel)
	if m.activePane != 1 || m.rightCursor != 1 {
		t.Errorf("pane=%d rightCursor=%d, want 1/1", m.activePane, m.rightCursor)
	}
}

func TestBrowseModel_DetailView(t *testing.T) {
	m := newTestModel()

	next, _ := m.Update(key("enter"))
	m = next.(browseModel)
	if m.view != viewDetail {
		t.Fatal("enter should open the detail view")
	}
	detail := m.renderDetail()
	for _, want := range []string{"Senior data engineering", "1000.00€ - 2000.00€", "2026-10-17", "yes"} {
		if !strings.Contains(detail, want) {
			t.Errorf("detail missing %q:\n%s", want, detail)
		}
	}

	next, _ = m.Update(key("esc"))
	m = next.(browseModel)
	if m.view != viewList {
		t.Error("esc should return to the list")
	}
}

func TestBrowseModel_EscReturnsToPicker(t *testing.T) {
	m := newTestModel()
	next, cmd := m.Update(key("esc"))
	if next.(browseModel).wantQuit || cmd == nil {
		t.Error("esc in list view should quit the TUI without quitting the command")
	}

	next, _ = m.Update(key("q"))
	if !next.(browseModel).wantQuit {
		t.Error("q should request quit")
	}
}

func TestSnapshotSummary(t *testing.T) {
	if got := snapshotSummary(model.StatisticsSnapshot{CategoryJobCount: 4}); got != "4 in category | 0 remote | no salaries" {
		t.Errorf("summary = %q", got)
	}
	if got := snapshotSummary(sampleResult().Snapshot); !strings.Contains(got, "avg 1500.00€") {
		t.Errorf("summary = %q", got)
	}
}

func TestPicker_Selection(t *testing.T) {
	m := newSourcePicker("2026-10-17", []string{"remotive", "remoteok"})
	next, _ := m.Update(key("j"))
	next, _ = next.Update(key("enter"))
	if got := next.(pickerModel).chosen; got != 1 {
		t.Errorf("chosen = %d, want 1 (first source)", got)
	}

	next, _ = m.Update(key("q"))
	if got := next.(pickerModel).chosen; got != -2 {
		t.Errorf("chosen = %d, want -2 on quit", got)
	}
}

func TestLoader_BuildDone(t *testing.T) {
	m := newLoader("all sources", func(context.Context) pipeline.Result { return sampleResult() })
	msg := m.doBuild()()
	next, _ := m.Update(msg)
	final := next.(loaderModel)
	if !final.done || len(final.result.Records) != 3 || final.err != nil {
		t.Errorf("loader = done:%v records:%d err:%v", final.done, len(final.result.Records), final.err)
	}
}
