package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// EventType names a recorded event.
type EventType string

const (
	EventStart         EventType = "start"
	EventForegroundEnd EventType = "foreground_end"
	EventBackgroundEnd EventType = "background_end"
	EventBuiltin       EventType = "builtin"
	EventExecError     EventType = "exec_error"
)

// Field names shared by the writer and the reader.
const (
	fieldTimestamp = "timestamp_micros"
	fieldSession   = "session_id"
	fieldType      = "type"
	fieldPID       = "pid"
	fieldMode      = "mode"
	fieldCommand   = "command"
	fieldCode      = "exit_code"
	fieldSignal    = "signal"
	fieldElapsed   = "elapsed_ms"
	fieldError     = "error"
)

// LogRecorder is a callback that stores events in an external datastore.
type LogRecorder func(le *structpb.Struct) error

// Logger captures process events for a shell.
type Logger struct {
	Record LogRecorder

	// Now is the time source, time.Now if nil.
	Now func() time.Time
}

// NewJSONLinesLogRecorder creates a Logger that exports logs in newline
// delimited JSON object format.
func NewJSONLinesLogRecorder(w io.Writer) *Logger {
	var mu sync.Mutex
	return &Logger{
		Record: func(le *structpb.Struct) error {
			entry, err := protojson.Marshal(le)
			if err != nil {
				return err
			}

			mu.Lock()
			defer mu.Unlock()
			_, err = fmt.Fprintln(w, string(entry))
			return err
		},
	}
}

// NewNopLogger creates a Logger that drops every event.
func NewNopLogger() *Logger {
	return &Logger{
		Record: func(*structpb.Struct) error { return nil },
	}
}

func (l *Logger) now() time.Time {
	if l.Now == nil {
		return time.Now()
	}
	return l.Now()
}

func (l *Logger) recordEvent(sessionID string, event EventType, fields map[string]interface{}) error {
	fields[fieldTimestamp] = l.now().UnixNano() / int64(time.Microsecond)
	fields[fieldSession] = sessionID
	fields[fieldType] = string(event)

	le, err := structpb.NewStruct(fields)
	if err != nil {
		return err
	}
	return l.Record(le)
}

// NewSession creates a logger with a fresh session ID.
func (l *Logger) NewSession() *SessionLogger {
	return l.WithSessionID(uuid.NewString())
}

// WithSessionID creates a logger with the given session ID.
func (l *Logger) WithSessionID(id string) *SessionLogger {
	return &SessionLogger{Logger: l, sessionID: id}
}

// SessionLogger logs messages with a shared session ID.
type SessionLogger struct {
	*Logger
	sessionID string
}

// SessionID returns the ID attached to every event.
func (l *SessionLogger) SessionID() string {
	return l.sessionID
}

// Started records a process start.
func (l *SessionLogger) Started(pid int, mode string, argv []string) error {
	return l.recordEvent(l.sessionID, EventStart, map[string]interface{}{
		fieldPID:     pid,
		fieldMode:    mode,
		fieldCommand: toList(argv),
	})
}

// ForegroundEnded records the end of a waited-for process.
func (l *SessionLogger) ForegroundEnded(pid, code int, signal string, elapsed time.Duration) error {
	return l.recordEvent(l.sessionID, EventForegroundEnd, map[string]interface{}{
		fieldPID:     pid,
		fieldCode:    code,
		fieldSignal:  signal,
		fieldElapsed: elapsed.Milliseconds(),
	})
}

// BackgroundEnded records a reaped process.
func (l *SessionLogger) BackgroundEnded(pid, code int, signal string) error {
	return l.recordEvent(l.sessionID, EventBackgroundEnd, map[string]interface{}{
		fieldPID:    pid,
		fieldCode:   code,
		fieldSignal: signal,
	})
}

// Builtin records a built-in invocation and its status.
func (l *SessionLogger) Builtin(argv []string, code int) error {
	return l.recordEvent(l.sessionID, EventBuiltin, map[string]interface{}{
		fieldCommand: toList(argv),
		fieldCode:    code,
	})
}

// ExecError records a program that couldn't be started.
func (l *SessionLogger) ExecError(argv []string, err error) error {
	return l.recordEvent(l.sessionID, EventExecError, map[string]interface{}{
		fieldCommand: toList(argv),
		fieldError:   err.Error(),
	})
}

func toList(argv []string) []interface{} {
	out := make([]interface{}, len(argv))
	for i, arg := range argv {
		out[i] = arg
	}
	return out
}

// LogEntry is a decoded event.
type LogEntry struct {
	TimestampMicros int64
	SessionID       string
	Type            EventType
	PID             int
	Mode            string
	Command         []string
	ExitCode        int
	Signal          string
	ElapsedMillis   int64
	Error           string
}

// CommandName returns the program name of the event, if any.
func (le *LogEntry) CommandName() string {
	if len(le.Command) == 0 {
		return ""
	}
	return le.Command[0]
}

func (le *LogEntry) String() string {
	return fmt.Sprintf("%s %s pid=%d %s", le.SessionID, le.Type, le.PID, strings.Join(le.Command, " "))
}

func entryFromStruct(s *structpb.Struct) *LogEntry {
	fields := s.GetFields()
	out := &LogEntry{
		TimestampMicros: int64(fields[fieldTimestamp].GetNumberValue()),
		SessionID:       fields[fieldSession].GetStringValue(),
		Type:            EventType(fields[fieldType].GetStringValue()),
		PID:             int(fields[fieldPID].GetNumberValue()),
		Mode:            fields[fieldMode].GetStringValue(),
		ExitCode:        int(fields[fieldCode].GetNumberValue()),
		Signal:          fields[fieldSignal].GetStringValue(),
		ElapsedMillis:   int64(fields[fieldElapsed].GetNumberValue()),
		Error:           fields[fieldError].GetStringValue(),
	}

	for _, v := range fields[fieldCommand].GetListValue().GetValues() {
		out.Command = append(out.Command, v.GetStringValue())
	}

	return out
}
