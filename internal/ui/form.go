package ui

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/coachsite/internal/booking"
	"github.com/muurk/coachsite/internal/lifecycle"
)

// Message types for lifecycle events
type transitionMsg lifecycle.Transition

type sessionClosedMsg struct{}

// Pending transitions buffered between the controller and the program
const transitionBuffer = 8

// formKeyMap defines key bindings for the booking form
type formKeyMap struct {
	Next   key.Binding
	Prev   key.Binding
	Left   key.Binding
	Right  key.Binding
	Enter  key.Binding
	Submit key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k formKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Left, k.Submit, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k formKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Left, k.Right},
		{k.Enter, k.Submit, k.Quit},
	}
}

func newFormKeyMap() formKeyMap {
	return formKeyMap{
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab/↓", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab/↑", "previous field"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←/→", "choose service"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "next service"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "next / submit"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "submit"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// FormModel is the terminal booking form. Every field is a Binding on the
// session's form; the overlay follows the session's lifecycle.
type FormModel struct {
	registry *booking.Registry
	session  *booking.Session

	bindings []*booking.Binding
	inputs   []textinput.Model // parallel to bindings; unused for the chooser
	focus    int               // len(bindings) is the submit button

	state       lifecycle.State
	events      chan lifecycle.Transition
	unsubscribe func()

	notice  string
	width   int
	spinner spinner.Model
	help    help.Model
	keys    formKeyMap
}

// NewFormModel opens a booking session on reg and builds a form for it.
// A preset offered service locks the chooser.
func NewFormModel(reg *booking.Registry, preset string) FormModel {
	sess := reg.Open(preset)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	m := FormModel{
		registry: reg,
		session:  sess,
		bindings: sess.Form.Bindings(),
		events:   make(chan lifecycle.Transition, transitionBuffer),
		width:    GetTerminalWidth(),
		spinner:  s,
		help:     help.New(),
		keys:     newFormKeyMap(),
	}

	m.inputs = make([]textinput.Model, len(m.bindings))
	for i, b := range m.bindings {
		spec := b.Spec()
		if spec.Select {
			continue
		}
		in := textinput.New()
		in.Prompt = "    "
		in.Placeholder = spec.Label
		in.CharLimit = 254
		if spec.Multiline() {
			in.CharLimit = 4000
		}
		in.Width = 40
		m.inputs[i] = in
	}

	events := m.events
	m.state, m.unsubscribe = sess.Lifecycle.Watch(func(t lifecycle.Transition) {
		select {
		case events <- t:
		default:
		}
	})

	m.setFocus(m.firstFocusable())
	return m
}

// Session returns the booking session behind the form.
func (m FormModel) Session() *booking.Session {
	return m.session
}

// Close tears the session down.
func (m FormModel) Close() {
	m.unsubscribe()
	_ = m.registry.Close(m.session.ID)
}

// Init implements tea.Model
func (m FormModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.waitForTransition())
}

func (m FormModel) waitForTransition() tea.Cmd {
	events, done := m.events, m.session.Lifecycle.Done()
	return func() tea.Msg {
		select {
		case t := <-events:
			return transitionMsg(t)
		case <-done:
			return sessionClosedMsg{}
		}
	}
}

// Update implements tea.Model
func (m FormModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = clampWidth(msg.Width)
		m.help.Width = m.width
		return m, nil

	case transitionMsg:
		m.state = msg.To
		if m.state == lifecycle.Idle {
			m.notice = ""
		}
		return m, m.waitForTransition()

	case sessionClosedMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		// The overlay blocks input until the lifecycle is back to Idle
		if m.state != lifecycle.Idle {
			return m, nil
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m FormModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.submit()
	case key.Matches(msg, m.keys.Enter):
		if m.onSubmitButton() {
			return m.submit()
		}
		m.setFocus(m.focus + 1)
		return m, nil
	case key.Matches(msg, m.keys.Next):
		m.setFocus(m.focus + 1)
		return m, nil
	case key.Matches(msg, m.keys.Prev):
		m.setFocus(m.focus - 1)
		return m, nil
	}

	if m.onSubmitButton() {
		return m, nil
	}
	b := m.bindings[m.focus]
	if b.Spec().Select {
		switch {
		case key.Matches(msg, m.keys.Left):
			m.cycleChoice(b, -1)
		case key.Matches(msg, m.keys.Right):
			m.cycleChoice(b, 1)
		}
		return m, nil
	}

	in := m.inputs[m.focus]
	before := in.Value()
	var cmd tea.Cmd
	in, cmd = in.Update(msg)
	m.inputs[m.focus] = in
	if in.Value() != before {
		if _, err := m.session.Change(b.Field(), in.Value()); err != nil {
			m.notice = err.Error()
		}
	}
	return m, cmd
}

// submit hands the form to the session. Flagged fields stay on screen with
// their messages; an accepted submit empties every input.
func (m FormModel) submit() (tea.Model, tea.Cmd) {
	_, err := m.session.Submit(context.Background())

	var verrs booking.ValidationErrors
	switch {
	case err == nil:
		m.state = m.session.State()
		m.notice = ""
		for i, b := range m.bindings {
			if !b.Spec().Select {
				m.inputs[i].SetValue("")
			}
		}
		m.setFocus(m.firstFocusable())
	case errors.As(err, &verrs):
		m.notice = "Please fix the highlighted fields"
		for i, b := range m.bindings {
			if _, flagged := verrs.For(b.Field()); flagged {
				m.setFocus(i)
				break
			}
		}
	case errors.Is(err, lifecycle.ErrBusy):
	default:
		m.notice = err.Error()
	}
	return m, nil
}

func (m *FormModel) cycleChoice(b *booking.Binding, step int) {
	if b.Disabled() {
		return
	}
	choices := b.Choices()
	if len(choices) == 0 {
		return
	}
	current := -1
	for i, c := range choices {
		if c == b.Value() {
			current = i
			break
		}
	}
	next := current + step
	if current < 0 && step < 0 {
		next = len(choices) - 1
	}
	next = (next%len(choices) + len(choices)) % len(choices)
	if _, err := m.session.Change(b.Field(), choices[next]); err != nil {
		m.notice = err.Error()
	}
}

func (m *FormModel) onSubmitButton() bool {
	return m.focus == len(m.bindings)
}

// firstFocusable skips a locked chooser.
func (m *FormModel) firstFocusable() int {
	for i, b := range m.bindings {
		if !b.Disabled() {
			return i
		}
	}
	return len(m.bindings)
}

func (m *FormModel) setFocus(i int) {
	stops := len(m.bindings) + 1
	i = (i%stops + stops) % stops
	if i < len(m.bindings) && m.bindings[i].Disabled() {
		if i >= m.focus {
			i = (i + 1) % stops
		} else {
			i = (i - 1 + stops) % stops
		}
	}
	m.focus = i

	for j := range m.inputs {
		if m.bindings[j].Spec().Select {
			continue
		}
		if j == i {
			m.inputs[j].Focus()
		} else {
			m.inputs[j].Blur()
		}
	}
}

// View implements tea.Model
func (m FormModel) View() string {
	header := NewHeader("Booking", "coachsite book", map[string]string{
		"Session": m.session.ID,
	}).SetWidth(m.width).Render()

	if m.state.Overlay() {
		return lipgloss.JoinVertical(lipgloss.Left, header, m.renderOverlay())
	}

	var lines []string
	for i, b := range m.bindings {
		lines = append(lines, m.renderField(i, b)...)
	}

	button := ButtonStyle.Render("Submit")
	if m.onSubmitButton() {
		button = FocusedButtonStyle.Render("Submit")
	}
	lines = append(lines, "", button)
	if m.notice != "" {
		lines = append(lines, "", FieldErrorStyle.Render(m.notice))
	}
	lines = append(lines, "", HelperTextStyle.Render(m.help.View(m.keys)))

	return lipgloss.JoinVertical(lipgloss.Left, header, strings.Join(lines, "\n"))
}

func (m FormModel) renderField(i int, b *booking.Binding) []string {
	spec := b.Spec()
	label := spec.Label
	if spec.Required {
		label += " *"
	}
	labelStyle := LabelStyle
	if i == m.focus {
		labelStyle = FocusedLabelStyle
		label = CursorMarker + " " + label
	}

	var value string
	switch {
	case spec.Select && b.Disabled():
		value = DisabledChoiceStyle.Render(b.Value() + " (locked)")
	case spec.Select:
		current := b.Value()
		if current == "" {
			current = "·"
		}
		value = ChoiceStyle.Render("‹ " + current + " ›")
	default:
		value = m.inputs[i].View()
	}

	helper := HelperTextStyle.Render(" ")
	if msg := b.Error(); msg != "" {
		helper = FieldErrorStyle.Render(msg)
	}
	return []string{labelStyle.Render(label), value, helper}
}

func (m FormModel) renderOverlay() string {
	var content string
	switch m.state {
	case lifecycle.Submitting:
		content = m.spinner.View() + " Sending your inquiry..."
	case lifecycle.Succeeded:
		content = CheckmarkStyle.Render(CheckMarker + "  Inquiry sent")
	}
	return OverlayStyle(m.width).Render(content)
}
