package booking

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/muurk/coachsite/internal/logging"
)

// Sink kinds.
const (
	SinkNone = "none"
	SinkLog  = "log"
	SinkFile = "file"
)

// Inquiry is an immutable snapshot of one accepted submission.
type Inquiry struct {
	ID         uuid.UUID `json:"id" yaml:"id"`
	Session    string    `json:"session" yaml:"session"`
	ReceivedAt time.Time `json:"received_at" yaml:"received_at"`
	Values     Values    `json:"values" yaml:"values"`
}

// Sink receives accepted inquiries. A failing sink never changes the
// outcome of a submission.
type Sink interface {
	Record(ctx context.Context, inq Inquiry) error
}

// DiscardSink drops every inquiry.
type DiscardSink struct{}

func (DiscardSink) Record(context.Context, Inquiry) error { return nil }

// LogSink writes each inquiry to the structured log at info level.
type LogSink struct{}

func (LogSink) Record(_ context.Context, inq Inquiry) error {
	logging.Info("Booking inquiry received",
		zap.String("inquiry", inq.ID.String()),
		zap.String("session", inq.Session),
		zap.String("service", inq.Values.Service),
		zap.String("firstname", inq.Values.FirstName),
		zap.String("lastname", inq.Values.LastName),
		zap.String("email", inq.Values.Email),
		zap.String("mobile", inq.Values.Mobile),
		zap.Int("message_len", len(inq.Values.Message)),
	)
	return nil
}

// FileSink appends each inquiry to a file as a YAML document.
type FileSink struct {
	path string
	mu   sync.Mutex
}

// NewFileSink returns a sink appending to path, creating its directory.
func NewFileSink(path string) (*FileSink, error) {
	if path == "" {
		return nil, fmt.Errorf("inquiry file path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create inquiry directory: %w", err)
	}
	return &FileSink{path: path}, nil
}

// Path returns the file inquiries are appended to.
func (s *FileSink) Path() string { return s.path }

func (s *FileSink) Record(_ context.Context, inq Inquiry) error {
	data, err := yaml.Marshal(inq)
	if err != nil {
		return fmt.Errorf("failed to encode inquiry: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open inquiry file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append([]byte("---\n"), data...)); err != nil {
		return fmt.Errorf("failed to write inquiry: %w", err)
	}
	return nil
}

// ReadInquiries decodes every document of an inquiry file.
func ReadInquiries(path string) ([]Inquiry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open inquiry file: %w", err)
	}
	defer f.Close()

	var out []Inquiry
	dec := yaml.NewDecoder(f)
	for {
		var inq Inquiry
		if err := dec.Decode(&inq); err != nil {
			if errors.Is(err, io.EOF) {
				return out, nil
			}
			return out, fmt.Errorf("failed to decode inquiry %d: %w", len(out)+1, err)
		}
		out = append(out, inq)
	}
}

// NewSink builds the sink named by kind. An empty kind means none.
func NewSink(kind, path string) (Sink, error) {
	switch kind {
	case "", SinkNone:
		return DiscardSink{}, nil
	case SinkLog:
		return LogSink{}, nil
	case SinkFile:
		return NewFileSink(path)
	default:
		return nil, fmt.Errorf("unknown inquiry sink %q (want none, log or file)", kind)
	}
}
