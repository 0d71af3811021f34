package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette, taken from the site theme
var (
	PrimaryColor   = lipgloss.Color("#2f2f2f") // Charcoal - active nav, primary buttons
	SecondaryColor = lipgloss.Color("#858585") // Gray - inactive nav, helper text
	SuccessColor   = lipgloss.Color("#22BB33") // Green - checkmark
	ErrorColor     = lipgloss.Color("#D32F2F") // Red - field flags
	AccentColor    = lipgloss.Color("#7D56F4") // Purple - focus, borders
	TextColor      = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60  // Minimum supported terminal width
	MaxContentWidth  = 100 // Maximum content width before capping
	DefaultPadding   = 2   // Default padding inside boxes
)

var (
	// HeaderTitleStyle is for the main command title (e.g., "BOOKING")
	HeaderTitleStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Bold(true).
				PaddingLeft(2)

	// HeaderCommandStyle is for the command path (e.g., "coachsite book")
	HeaderCommandStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				PaddingLeft(2)

	// HeaderParamKeyStyle is for parameter keys (e.g., "Service:")
	HeaderParamKeyStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				PaddingLeft(2)

	HeaderParamValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	// LabelStyle is for an unfocused field label
	LabelStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			PaddingLeft(2)

	// FocusedLabelStyle is for the label of the field being edited
	FocusedLabelStyle = lipgloss.NewStyle().
				Foreground(AccentColor).
				Bold(true).
				PaddingLeft(2)

	// HelperTextStyle is the line beneath a valid field
	HelperTextStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			PaddingLeft(4)

	// FieldErrorStyle is the line beneath a flagged field
	FieldErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor).
			PaddingLeft(4)

	ChoiceStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			PaddingLeft(4)

	DisabledChoiceStyle = lipgloss.NewStyle().
				Foreground(SecondaryColor).
				Italic(true).
				PaddingLeft(4)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Background(PrimaryColor).
			Padding(0, 2).
			MarginLeft(2)

	FocusedButtonStyle = ButtonStyle.
				Background(AccentColor).
				Bold(true)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(AccentColor)

	CheckmarkStyle = lipgloss.NewStyle().
			Foreground(SuccessColor).
			Bold(true)

	// TableKeyStyle is for the first column of route and scan listings
	TableKeyStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Width(18)

	TableValueStyle = lipgloss.NewStyle().
			Foreground(TextColor)

	ErrorMessageStyle = lipgloss.NewStyle().
				Foreground(ErrorColor)
)

// Markers
const (
	CheckMarker   = "✓"
	CursorMarker  = "›"
	FailureMarker = "✗"
)

// GetTerminalWidth returns the current terminal width, with fallback
func GetTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return MinTerminalWidth
	}
	return clampWidth(width)
}

func clampWidth(width int) int {
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// BoxStyle returns the rounded border used around the form and headers
func BoxStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(AccentColor).
		Width(width - 2) // Account for border characters
}

// OverlayStyle returns the box shown while a submission is running
func OverlayStyle(width int) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(SuccessColor).
		Width(width-2).
		Padding(1, 2).
		Align(lipgloss.Center)
}

// RenderHorizontalDivider creates a horizontal line of the specified width
func RenderHorizontalDivider(width int, char string) string {
	return lipgloss.NewStyle().
		Foreground(AccentColor).
		Render(strings.Repeat(char, width))
}
