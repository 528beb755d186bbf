package stats

import (
	"math"
	"regexp"
	"strconv"

	"github.com/remotepulse/remotepulse/internal/model"
)

var euroRange = regexp.MustCompile(`(\d+\.?\d*)€ - (\d+\.?\d*)€`)

// ParseSalaryRange extracts the (min, max) pair from a normalized euro range.
// It reports false for anything the currency normalizer could not have produced.
func ParseSalaryRange(s string) (low, high float64, ok bool) {
	m := euroRange.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, false
	}
	low, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, false
	}
	high, err = strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0, 0, false
	}
	return low, high, true
}

// Aggregate builds the snapshot for the records matching category.
// Job and remote counts cover every category record; salary figures cover
// only those with a parseable salary range and stay nil when there are none.
func Aggregate(label string, records []model.CanonicalRecord, category, remote model.RecordFilter) model.StatisticsSnapshot {
	snap := model.StatisticsSnapshot{Date: label}

	var lows, highs []float64
	for _, r := range records {
		if !category.Match(r) {
			continue
		}
		snap.CategoryJobCount++
		if remote.Match(r) {
			snap.CategoryRemoteCount++
		}
		if r.SalaryRange == nil || *r.SalaryRange == "" {
			continue
		}
		low, high, ok := ParseSalaryRange(*r.SalaryRange)
		if !ok {
			continue
		}
		lows = append(lows, low)
		highs = append(highs, high)
	}

	if len(lows) == 0 {
		return snap
	}

	samples := append(append(make([]float64, 0, 2*len(lows)), lows...), highs...)
	mean := meanOf(samples)

	snap.MinimumSalary = round2(minOf(lows))
	snap.MaximumSalary = round2(maxOf(highs))
	snap.AverageSalary = round2(mean)
	snap.StandardDeviation = round2(sampleStdDev(samples, mean))
	return snap
}

func meanOf(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// sampleStdDev uses the n-1 denominator. Callers always pass at least two
// samples since every salary contributes both of its bounds.
func sampleStdDev(xs []float64, mean float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

func minOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		m = min(m, x)
	}
	return m
}

func maxOf(xs []float64) float64 {
	m := xs[0]
	for _, x := range xs[1:] {
		m = max(m, x)
	}
	return m
}

// round2 rounds half to even at two decimals.
func round2(v float64) *float64 {
	r := math.RoundToEven(v*100) / 100
	return &r
}
