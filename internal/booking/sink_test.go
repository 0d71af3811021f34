package booking

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSink(t *testing.T) {
	tests := []struct {
		kind    string
		path    string
		want    any
		wantErr bool
	}{
		{kind: "", want: DiscardSink{}},
		{kind: "none", want: DiscardSink{}},
		{kind: "log", want: LogSink{}},
		{kind: "file", path: filepath.Join(t.TempDir(), "inquiries.yaml"), want: &FileSink{}},
		{kind: "file", wantErr: true},
		{kind: "smtp", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			sink, err := NewSink(tt.kind, tt.path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, sink)
		})
	}
}

func TestFileSinkAppendsDocuments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "inquiries.yaml")
	sink, err := NewFileSink(path)
	require.NoError(t, err)

	at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	first := Inquiry{ID: uuid.New(), Session: "a", ReceivedAt: at, Values: validValues()}
	second := Inquiry{ID: uuid.New(), Session: "b", ReceivedAt: at.Add(time.Minute), Values: Values{Service: "Corporate Team Building"}}

	require.NoError(t, sink.Record(context.Background(), first))
	require.NoError(t, sink.Record(context.Background(), second))

	got, err := ReadInquiries(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, first.Values, got[0].Values)
	assert.True(t, first.ReceivedAt.Equal(got[0].ReceivedAt))
	assert.Equal(t, "b", got[1].Session)
}

func TestLogAndDiscardSinks(t *testing.T) {
	inq := Inquiry{ID: uuid.New(), Values: validValues()}
	assert.NoError(t, LogSink{}.Record(context.Background(), inq))
	assert.NoError(t, DiscardSink{}.Record(context.Background(), inq))
}
