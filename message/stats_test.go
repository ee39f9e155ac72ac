package message_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ghettovoice/sipstack/header"
	"github.com/ghettovoice/sipstack/message"
)

func TestStatsRecorder(t *testing.T) {
	t.Parallel()

	var rec message.StatsRecorder
	if got := rec.Report().Headers; got != nil {
		t.Errorf("rec.Report().Headers = %v, want nil", got)
	}

	errBad := errors.New("bad")
	rec.RecordParse("CSeq", nil)
	rec.RecordParse("Call-ID", errBad)
	rec.RecordParse("CSeq", errBad)
	rec.RecordParse("CSeq", nil)

	if got, want := rec.Total(), uint64(4); got != want {
		t.Errorf("rec.Total() = %d, want %d", got, want)
	}
	want := []message.HeaderStats{
		{Name: "CSeq", Parsed: 2, Failed: 1},
		{Name: "Call-ID", Failed: 1},
	}
	if diff := cmp.Diff(rec.Report().Headers, want); diff != "" {
		t.Errorf("rec.Report().Headers mismatch\ndiff (-got +want):\n%v", diff)
	}
}

func TestMultiRecorder(t *testing.T) {
	t.Parallel()

	var (
		rec  message.StatsRecorder
		seen []header.Name
	)
	multi := message.MultiRecorder(&rec, nil, message.ParseRecorderFunc(func(name header.Name, _ error) {
		seen = append(seen, name)
	}))
	multi.RecordParse("Allow", nil)
	multi.RecordParse("Max-Forwards", nil)

	if got, want := rec.Total(), uint64(2); got != want {
		t.Errorf("rec.Total() = %d, want %d", got, want)
	}
	if diff := cmp.Diff(seen, []header.Name{"Allow", "Max-Forwards"}); diff != "" {
		t.Errorf("seen mismatch\ndiff (-got +want):\n%v", diff)
	}
}
