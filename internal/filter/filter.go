package filter

import (
	"regexp"
	"strings"
	"time"

	"github.com/remotepulse/remotepulse/internal/model"
)

// isoLayouts are the ISO-8601 shapes the boards emit: 'T' or space
// separated, hour to nanosecond precision, with an optional offset written
// as Z, ±hh:mm, ±hhmm or ±hh. A bare date is tried last.
var isoLayouts = dateTimeLayouts()

func dateTimeLayouts() []string {
	var layouts []string
	for _, sep := range []string{"T", " "} {
		for _, clock := range []string{"15:04:05.999999999", "15:04", "15"} {
			for _, zone := range []string{"Z07:00", "Z0700", "Z07", ""} {
				layouts = append(layouts, "2006-01-02"+sep+clock+zone)
			}
		}
	}
	return append(layouts, time.DateOnly)
}

// TargetDate returns the calendar day before runAt, as UTC midnight.
func TargetDate(runAt time.Time) time.Time {
	y, m, d := runAt.AddDate(0, 0, -1).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses an ISO-8601 date-time or date and returns its calendar
// date, as written (no zone conversion), at UTC midnight.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range isoLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// ByDate keeps the jobs whose date falls on target's calendar day, in their
// original order. Unparseable dates are dropped.
func ByDate(jobs []model.Job, target time.Time) []model.Job {
	ty, tm, td := target.Date()
	kept := make([]model.Job, 0, len(jobs))
	for _, j := range jobs {
		day, ok := ParseDate(j.Date)
		if !ok {
			continue
		}
		if y, m, d := day.Date(); y == ty && m == tm && d == td {
			kept = append(kept, j)
		}
	}
	return kept
}

// TitleContains matches records whose title contains a phrase, case-sensitively.
type TitleContains struct {
	phrase string
}

// NewTitleContains returns a category predicate for phrase.
func NewTitleContains(phrase string) *TitleContains {
	return &TitleContains{phrase: phrase}
}

// Match reports whether the record's title contains the phrase.
func (f *TitleContains) Match(r model.CanonicalRecord) bool {
	return strings.Contains(r.Title, f.phrase)
}

// remoteWord matches "remote" as a whole word. Hyphens count as word
// characters so "remote-friendly" and "non-remote" do not qualify.
var remoteWord = regexp.MustCompile(`(?i)(?:^|[^\p{L}\p{N}_-])remote(?:$|[^\p{L}\p{N}_-])`)

// RemoteLocation matches records whose location names remote work.
type RemoteLocation struct{}

// NewRemoteLocation returns the remote-work predicate.
func NewRemoteLocation() *RemoteLocation {
	return &RemoteLocation{}
}

// Match reports whether the record's location contains the word "remote".
func (RemoteLocation) Match(r model.CanonicalRecord) bool {
	return remoteWord.MatchString(r.Location)
}
