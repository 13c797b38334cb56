package logger

import (
	"bufio"
	"encoding/json"
	"io"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(bufio.NewReader(r))
	for decoder.More() {
		var rawEntry json.RawMessage
		if err := decoder.Decode(&rawEntry); err != nil {
			return err
		}

		var entry structpb.Struct
		if err := protojson.Unmarshal(rawEntry, &entry); err != nil {
			return err
		}

		handler(entryFromStruct(&entry))
	}
	return nil
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	Sessions       StrCounter `json:"sessions"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	Start      StartReport      `json:"start_report"`
	Foreground ForegroundReport `json:"foreground_report"`
	Background BackgroundReport `json:"background_report"`
	Builtin    BuiltinReport    `json:"builtin_report"`
	ExecError  ExecErrorReport  `json:"exec_error_report"`
}

// Update adds the entry to the report.
func (r *Report) Update(le *LogEntry) {
	r.LogEntries++
	r.Sessions.Increment(le.SessionID)

	switch le.Type {
	case EventStart:
		r.Start.update(le)
	case EventForegroundEnd:
		r.Foreground.update(le)
	case EventBackgroundEnd:
		r.Background.update(le)
	case EventBuiltin:
		r.Builtin.update(le)
	case EventExecError:
		r.ExecError.update(le)
	default:
		r.InvalidEntries.Increment(string(le.Type))
	}
}

type StartReport struct {
	// Name of the started commands.
	CommandNames StrCounter `json:"command_names"`
	// Count of foreground and background starts.
	Modes StrCounter `json:"modes"`
}

func (r *StartReport) update(le *LogEntry) {
	r.CommandNames.Increment(le.CommandName())
	r.Modes.Increment(le.Mode)
}

type ForegroundReport struct {
	Count         int   `json:"count"`
	ElapsedMillis int64 `json:"elapsed_ms"`
	// Signals that terminated foreground processes.
	Signals StrCounter `json:"signals,omitempty"`
}

func (r *ForegroundReport) update(le *LogEntry) {
	r.Count++
	r.ElapsedMillis += le.ElapsedMillis
	if le.Signal != "" {
		r.Signals.Increment(le.Signal)
	}
}

type BackgroundReport struct {
	Count   int        `json:"count"`
	Signals StrCounter `json:"signals,omitempty"`
}

func (r *BackgroundReport) update(le *LogEntry) {
	r.Count++
	if le.Signal != "" {
		r.Signals.Increment(le.Signal)
	}
}

type BuiltinReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *BuiltinReport) update(le *LogEntry) {
	r.CommandNames.Increment(le.CommandName())
}

type ExecErrorReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *ExecErrorReport) update(le *LogEntry) {
	r.CommandNames.Increment(le.CommandName())
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count for the key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}
