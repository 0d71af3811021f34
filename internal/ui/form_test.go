package ui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/coachsite/internal/booking"
	"github.com/muurk/coachsite/internal/lifecycle"
)

var testServices = []string{"Corporate Team Building", "Leadership and Resilience Programs", "Private Coaching"}

func newTestForm(t *testing.T, preset string) (FormModel, *clockwork.FakeClock) {
	t.Helper()
	rules, err := booking.NewRuleSet(testServices)
	require.NoError(t, err)

	clock := clockwork.NewFakeClock()
	reg := booking.NewRegistry(booking.RegistryOptions{Rules: rules, Clock: clock})
	t.Cleanup(reg.CloseAll)

	m := NewFormModel(reg, preset)
	m.width = MinTerminalWidth
	return m, clock
}

func send(t *testing.T, m FormModel, msg tea.Msg) (FormModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	fm, ok := next.(FormModel)
	require.True(t, ok)
	return fm, cmd
}

func press(t *testing.T, m FormModel, k tea.KeyType) FormModel {
	t.Helper()
	m, _ = send(t, m, tea.KeyMsg{Type: k})
	return m
}

func typeText(t *testing.T, m FormModel, s string) FormModel {
	t.Helper()
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return m
}

func focusField(t *testing.T, m FormModel, f booking.Field) FormModel {
	t.Helper()
	for i, b := range m.bindings {
		if b.Field() == f {
			m.setFocus(i)
			return m
		}
	}
	t.Fatalf("no binding for %s", f)
	return m
}

// nextTransition runs the pending wait command and feeds its message back.
func nextTransition(t *testing.T, m FormModel) FormModel {
	t.Helper()
	got := make(chan tea.Msg, 1)
	go func() { got <- m.waitForTransition()() }()
	select {
	case msg := <-got:
		m, _ = send(t, m, msg)
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a lifecycle transition")
		return m
	}
}

func fillValid(t *testing.T, m FormModel) FormModel {
	t.Helper()
	m = focusField(t, m, booking.FieldService)
	m = press(t, m, tea.KeyRight)
	for f, v := range map[booking.Field]string{
		booking.FieldFirstName: "Jo",
		booking.FieldLastName:  "Bloggs",
		booking.FieldEmail:     "jo@example.com",
		booking.FieldMobile:    "0412345678",
	} {
		m = focusField(t, m, f)
		m = typeText(t, m, v)
	}
	return m
}

func TestFormBindsTypedValues(t *testing.T) {
	tests := []struct {
		name      string
		field     booking.Field
		input     string
		wantError string
	}{
		{"valid mobile", booking.FieldMobile, "0412345678", ""},
		{"short mobile", booking.FieldMobile, "12345", "Invailid mobile number"},
		{"bad email", booking.FieldEmail, "jo@", "Invalid email address"},
		{"optional message", booking.FieldMessage, "hello", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestForm(t, "")
			m = focusField(t, m, tt.field)
			m = typeText(t, m, tt.input)

			assert.Equal(t, tt.input, m.Session().Form.Get(tt.field), "every keystroke updates the form")
			if tt.wantError == "" {
				assert.NotContains(t, m.View(), "Invailid")
				assert.NotContains(t, m.View(), "Invalid")
			} else {
				assert.Contains(t, m.View(), tt.wantError)
			}
		})
	}
}

func TestFormServiceChooser(t *testing.T) {
	m, _ := newTestForm(t, "")
	m = focusField(t, m, booking.FieldService)

	m = press(t, m, tea.KeyRight)
	assert.Equal(t, testServices[0], m.Session().Form.Get(booking.FieldService))
	m = press(t, m, tea.KeyRight)
	assert.Equal(t, testServices[1], m.Session().Form.Get(booking.FieldService))
	m = press(t, m, tea.KeyLeft)
	m = press(t, m, tea.KeyLeft)
	assert.Equal(t, testServices[2], m.Session().Form.Get(booking.FieldService), "wraps around")
}

func TestFormPresetLocksChooser(t *testing.T) {
	m, _ := newTestForm(t, testServices[1])

	assert.NotEqual(t, 0, m.focus, "the locked chooser is skipped")
	assert.Contains(t, m.View(), testServices[1]+" (locked)")

	m = press(t, m, tea.KeyShiftTab)
	assert.NotEqual(t, 0, m.focus)

	m.focus = 0
	m = press(t, m, tea.KeyRight)
	assert.Equal(t, testServices[1], m.Session().Form.Get(booking.FieldService))
}

func TestFormSubmitFlagsEmptyFields(t *testing.T) {
	m, _ := newTestForm(t, "")
	m = focusField(t, m, booking.FieldMobile)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})

	assert.Equal(t, lifecycle.Idle, m.state)
	assert.Equal(t, 0, m.focus, "focus jumps to the first flagged field")
	view := m.View()
	assert.Contains(t, view, "Required")
	assert.Contains(t, view, "Please fix the highlighted fields")
}

func TestFormSubmitLifecycle(t *testing.T) {
	m, clock := newTestForm(t, "")
	m = fillValid(t, m)

	m.setFocus(len(m.bindings))
	m = press(t, m, tea.KeyEnter)
	require.Equal(t, lifecycle.Submitting, m.state)
	for _, f := range booking.Fields {
		assert.Empty(t, m.Session().Form.Get(f), "field %s reset on submit", f)
	}
	for i, b := range m.bindings {
		if !b.Spec().Select {
			assert.Empty(t, m.inputs[i].Value())
		}
	}
	assert.Contains(t, m.View(), "Sending your inquiry")

	// Input is ignored while the overlay is up
	m = typeText(t, m, "x")
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, lifecycle.Submitting, m.state)

	m = nextTransition(t, m)
	assert.Equal(t, lifecycle.Submitting, m.state)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(lifecycle.DefaultSubmitDelay)
	m = nextTransition(t, m)
	assert.Equal(t, lifecycle.Succeeded, m.state)
	assert.Contains(t, m.View(), CheckMarker)

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(lifecycle.DefaultSuccessDelay)
	m = nextTransition(t, m)
	assert.Equal(t, lifecycle.Idle, m.state)
	assert.Contains(t, m.View(), "Submit")
	assert.NotContains(t, m.View(), "Required", "a fresh form carries no flags")
}

func TestFormQuit(t *testing.T) {
	m, _ := newTestForm(t, "")

	_, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestFormQuitsWhenSessionCloses(t *testing.T) {
	m, _ := newTestForm(t, "")

	m.Close()
	assert.IsType(t, sessionClosedMsg{}, m.waitForTransition()())

	_, cmd := send(t, m, sessionClosedMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
