package parsetypes

import (
	"encoding/json"
	"strings"
	"time"
)

// Cowrie event ids which affect session reconstruction
const (
	EventClientVersion = "cowrie.client.version"
	EventClientKex     = "cowrie.client.kex"
	EventLoginFailed   = "cowrie.login.failed"
	EventLoginSuccess  = "cowrie.login.success"
	EventCommandInput  = "cowrie.command.input"
)

// Event is one line of a cowrie JSON log. Pointer fields distinguish
// a key which is absent from a key which is present but empty.
type Event struct {
	Session   string          `json:"session"`
	EventID   string          `json:"eventid"`
	Timestamp json.RawMessage `json:"timestamp"`
	SrcIP     *string         `json:"src_ip"`
	Version   *string         `json:"version"`
	Hassh     *string         `json:"hassh"`
	Input     string          `json:"input"`
	Username  string          `json:"username"`
	Password  string          `json:"password"`
	Message   Message         `json:"message"`

	// Time is the parsed Timestamp, the zero time when it could not be parsed
	Time time.Time `json:"-"`
	// TimestampStrategy names the strategy which parsed Timestamp
	TimestampStrategy string `json:"-"`
}

// Normalize parses the raw timestamp of a freshly decoded event
func (e *Event) Normalize() {
	e.Time, e.TimestampStrategy, _ = ParseTimestamp(e.Timestamp)
}

// HasTime reports whether the event carried a parseable timestamp
func (e *Event) HasTime() bool {
	return !e.Time.IsZero()
}

// Message holds the free text of an event. Cowrie writes either a single
// string or a list of strings. Any other JSON type decodes to an empty
// Message rather than failing the whole line.
type Message []string

// UnmarshalJSON accepts a string, a list of strings, or anything else
func (m *Message) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*m = Message{single}
		return nil
	}

	var list []interface{}
	if err := json.Unmarshal(data, &list); err == nil {
		msgs := make(Message, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				msgs = append(msgs, s)
			}
		}
		*m = msgs
		return nil
	}

	*m = nil
	return nil
}

// ContainsAny reports whether any message line contains any of the signatures
func (m Message) ContainsAny(signatures []string) bool {
	for _, line := range m {
		for _, sig := range signatures {
			if sig != "" && strings.Contains(line, sig) {
				return true
			}
		}
	}
	return false
}
