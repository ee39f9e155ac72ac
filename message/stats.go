package message

import (
	"cmp"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ghettovoice/sipstack/header"
)

// ParseRecorder observes header value parses.
// RecordParse is called once for each grammar run of a header with a built-in grammar;
// err is the parse error, if any. Implementations must be safe for concurrent use.
type ParseRecorder interface {
	RecordParse(name header.Name, err error)
}

// ParseRecorderFunc is an adapter to allow the use of ordinary functions as [ParseRecorder].
type ParseRecorderFunc func(name header.Name, err error)

func (f ParseRecorderFunc) RecordParse(name header.Name, err error) { f(name, err) }

type multiRecorder []ParseRecorder

func (rs multiRecorder) RecordParse(name header.Name, err error) {
	for _, r := range rs {
		r.RecordParse(name, err)
	}
}

// MultiRecorder creates a recorder that duplicates its records to all the provided recorders.
func MultiRecorder(rs ...ParseRecorder) ParseRecorder {
	rs = slices.DeleteFunc(slices.Clone(rs), func(r ParseRecorder) bool { return r == nil })
	return multiRecorder(rs)
}

type noopRecorder struct{}

func (noopRecorder) RecordParse(header.Name, error) {}

type StatsReport struct {
	Time    time.Time     `json:"time"`
	Headers []HeaderStats `json:"headers"`
}

type HeaderStats struct {
	// Name is a canonical header name.
	Name header.Name `json:"name"`
	// Parsed is a number of successful parses.
	Parsed uint64 `json:"parsed"`
	// Failed is a number of failed parses.
	Failed uint64 `json:"failed"`
}

// StatsRecorder counts header parses per header name.
// The zero value is ready to use.
type StatsRecorder struct {
	stats sync.Map // map[header.Name]*parseStats
}

type parseStats struct {
	parsed,
	failed atomic.Uint64
}

func (rcdr *StatsRecorder) getStats(name header.Name) *parseStats {
	stats, _ := rcdr.stats.LoadOrStore(name, &parseStats{})
	return stats.(*parseStats) //nolint:forcetypeassert
}

// RecordParse implements [ParseRecorder].
func (rcdr *StatsRecorder) RecordParse(name header.Name, err error) {
	stats := rcdr.getStats(name)
	if err != nil {
		stats.failed.Add(1)
		return
	}
	stats.parsed.Add(1)
}

// Total returns the number of recorded parses.
func (rcdr *StatsRecorder) Total() uint64 {
	var total uint64
	rcdr.stats.Range(func(_, value any) bool {
		if stats, ok := value.(*parseStats); ok {
			total += stats.parsed.Load() + stats.failed.Load()
		}
		return true
	})
	return total
}

// Report returns parse statistics ordered by header name.
// Call this function periodically to get updated values.
func (rcdr *StatsRecorder) Report() StatsReport {
	report := StatsReport{
		Time: time.Now(),
	}

	rcdr.stats.Range(func(key, value any) bool {
		stats, ok := value.(*parseStats)
		if !ok {
			return true
		}
		name, ok := key.(header.Name)
		if !ok {
			return true
		}

		report.Headers = append(report.Headers, HeaderStats{
			Name:   name,
			Parsed: stats.parsed.Load(),
			Failed: stats.failed.Load(),
		})
		return true
	})
	slices.SortFunc(report.Headers, func(a, b HeaderStats) int { return cmp.Compare(a.Name, b.Name) })

	return report
}
