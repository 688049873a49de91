package session

import (
	"iter"
	"sort"
	"time"

	pt "github.com/phantomnet/phantomnet/parser/parsetypes"
)

// Builder accumulates the events of a single session
type Builder struct {
	id               string
	srcIP            *string
	start            time.Time
	end              time.Time
	numCommands      int64
	numLoginAttempts int64
	loginSuccess     bool
	clientVersion    string
	hassh            string
	protocolErrors   int64
}

// NewBuilder starts an empty session
func NewBuilder(id string) *Builder {
	return &Builder{id: id}
}

// Apply folds one event of the session into the builder. Message lines
// containing any of signatures count as protocol errors.
func (b *Builder) Apply(event *pt.Event, signatures []string) {
	if event.SrcIP != nil {
		ip := *event.SrcIP
		b.srcIP = &ip
	}

	switch event.EventID {
	case pt.EventClientVersion:
		if event.Version != nil {
			b.clientVersion = *event.Version
		}
	case pt.EventClientKex:
		if event.Hassh != nil {
			b.hassh = *event.Hassh
		}
	case pt.EventLoginFailed:
		b.numLoginAttempts++
	case pt.EventLoginSuccess:
		b.numLoginAttempts++
		b.loginSuccess = true
	case pt.EventCommandInput:
		b.numCommands++
	}

	if event.HasTime() {
		if b.start.IsZero() || event.Time.Before(b.start) {
			b.start = event.Time
		}
		if b.end.IsZero() || event.Time.After(b.end) {
			b.end = event.Time
		}
	}

	if event.Message.ContainsAny(signatures) {
		b.protocolErrors++
	}
}

// HasSrcIP reports whether any event of the session carried a source address
func (b *Builder) HasSrcIP() bool {
	return b.srcIP != nil && *b.srcIP != ""
}

// Session finalizes the accumulated state
func (b *Builder) Session() Session {
	s := Session{
		ID:               b.id,
		StartTime:        b.start,
		EndTime:          b.end,
		NumCommands:      b.numCommands,
		NumLoginAttempts: b.numLoginAttempts,
		LoginSuccess:     b.loginSuccess,
		ClientVersion:    b.clientVersion,
		Hassh:            b.hassh,
		ProtocolErrors:   b.protocolErrors,
	}
	if b.srcIP != nil {
		s.SrcIP = *b.srcIP
	}
	if !b.start.IsZero() && !b.end.IsZero() {
		s.DurationSeconds = b.end.Sub(b.start).Seconds()
	}
	return s
}

// Stats summarizes a reconstruction
type Stats struct {
	Events int
	// Orphaned counts events without a session id
	Orphaned int
	Sessions int
	// DroppedNoIP counts sessions which never reported a source address
	DroppedNoIP int
}

// Reconstruct folds an event stream into sessions sorted by session id.
// Sessions which never reported a source address are dropped.
func Reconstruct(events iter.Seq[*pt.Event], signatures []string) ([]Session, Stats) {
	var stats Stats
	builders := make(map[string]*Builder)

	for event := range events {
		stats.Events++
		if event.Session == "" {
			stats.Orphaned++
			continue
		}
		b, ok := builders[event.Session]
		if !ok {
			b = NewBuilder(event.Session)
			builders[event.Session] = b
		}
		b.Apply(event, signatures)
	}

	sessions := make([]Session, 0, len(builders))
	for _, b := range builders {
		if !b.HasSrcIP() {
			stats.DroppedNoIP++
			continue
		}
		sessions = append(sessions, b.Session())
	}
	sort.Slice(sessions, func(i, j int) bool { return sessions[i].ID < sessions[j].ID })
	stats.Sessions = len(sessions)
	return sessions, stats
}
