package message

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ghettovoice/sipstack/header"
	"github.com/ghettovoice/sipstack/internal/util"
	"github.com/ghettovoice/sipstack/log"
)

type entryState uint8

const (
	stateUnparsed entryState = iota
	stateParsed
	stateFailed
)

// lineGroup is a physical header line that produced one or more entries.
type lineGroup struct {
	// line is the whole raw line without the terminating CRLF.
	// It is empty for lines built programmatically.
	line Span
	// value is the whole raw value the entries were split from.
	value Span
	// name is the header name as written.
	name string
	size int
}

// Entry is one logical occurrence of a header in a message.
//
// An entry starts with the raw value only. The value is parsed on first access
// and the result, either the parsed header or the parse error, is cached.
// Parsing is guarded by a per-entry mutex, so concurrent reads are safe.
type Entry struct {
	name  header.Name
	value Span
	group *lineGroup

	mu       sync.Mutex
	state    entryState
	hdr      header.Header
	pristine header.Header
	err      error
	dirty    bool
}

func newRawEntry(name header.Name, value Span, group *lineGroup) *Entry {
	return &Entry{name: name, value: value, group: group}
}

func newParsedEntry(hdr header.Header) *Entry {
	return &Entry{
		name:  hdr.CanonicName(),
		state: stateParsed,
		hdr:   hdr,
		dirty: true,
	}
}

// Name returns the canonical header name.
func (e *Entry) Name() header.Name { return e.name }

// RawName returns the header name as it was written on the wire.
func (e *Entry) RawName() string {
	if e.group != nil && e.group.name != "" {
		return e.group.name
	}
	return string(e.name)
}

// Raw returns the raw value span. Entries added as parsed headers have an empty span.
func (e *Entry) Raw() Span { return e.value }

// Parsed reports whether the entry value was materialized.
func (e *Entry) Parsed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state != stateUnparsed
}

// Dirty reports whether the entry differs from its raw bytes.
// An entry is dirty when it was added or replaced programmatically, or when
// its parsed value was mutated after parsing.
func (e *Entry) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.isDirty()
}

func (e *Entry) isDirty() bool {
	if e.dirty {
		return true
	}
	return e.state == stateParsed && !e.hdr.Equal(e.pristine)
}

// Header returns the parsed entry value, parsing the raw bytes on first call.
// A parse failure is cached and returned on every call.
func (e *Entry) Header() (header.Header, error) {
	return e.materialize(nil, nil) //errtrace:skip
}

func (e *Entry) materialize(rec ParseRecorder, logger *slog.Logger) (header.Header, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case stateParsed:
		return e.hdr, nil
	case stateFailed:
		return nil, e.err //errtrace:skip
	}

	hdr, err := header.ParseValue(e.RawName(), e.value.Bytes())
	if rec != nil && header.HasGrammar(e.name) {
		rec.RecordParse(e.name, err)
	}
	if err != nil {
		e.state, e.err = stateFailed, err
		if logger == nil {
			logger = log.Default()
		}
		logger.LogAttrs(context.Background(), slog.LevelDebug, "failed to parse header",
			slog.String("header", string(e.name)),
			slog.Any("value", log.CalcValue(func() any { return util.Ellipsis(e.value.String(), 128) })),
			slog.Any("error", err),
		)
		return nil, err //errtrace:skip
	}

	e.state, e.hdr, e.pristine = stateParsed, hdr, hdr.Clone()
	return hdr, nil
}

func (e *Entry) set(hdr header.Header) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state, e.hdr, e.pristine, e.err, e.dirty = stateParsed, hdr, nil, nil, true
}

// renderValue returns the value bytes to write for the entry.
func (e *Entry) renderValue() []byte {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.isDirty() {
		return []byte(e.hdr.RenderValue())
	}
	return e.value.Bytes()
}

func (e *Entry) clone() *Entry {
	e.mu.Lock()
	defer e.mu.Unlock()

	e2 := &Entry{
		name:  e.name,
		value: e.value,
		group: e.group,
		state: e.state,
		err:   e.err,
		dirty: e.dirty,
	}
	if e.hdr != nil {
		e2.hdr = e.hdr.Clone()
	}
	if e.pristine != nil {
		e2.pristine = e.pristine.Clone()
	}
	return e2
}
