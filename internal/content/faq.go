package content

import "fmt"

// Accordion themes alternate by panel index.
const (
	ThemePrimary   = "primary"
	ThemeSecondary = "secondary"
)

// Panel is one FAQ accordion panel ready to render.
type Panel struct {
	Label    string
	Theme    string
	Question string
	Answer   string
	Expanded bool
}

// PanelLabel names the panel at index i.
func PanelLabel(i int) string {
	return fmt.Sprintf("panel%d", i)
}

// FAQPanels lays out the accordion with at most one panel expanded: the one
// labelled open. An unknown or empty label leaves every panel collapsed.
func (s *Site) FAQPanels(open string) []Panel {
	panels := make([]Panel, len(s.FAQ.Entries))
	for i, e := range s.FAQ.Entries {
		label := PanelLabel(i)
		theme := ThemePrimary
		if i%2 == 1 {
			theme = ThemeSecondary
		}
		panels[i] = Panel{
			Label:    label,
			Theme:    theme,
			Question: e.Question,
			Answer:   e.Answer,
			Expanded: label == open,
		}
	}
	return panels
}

// Toggle returns the panel that should be open after clicking label while
// current is open: clicking the open panel collapses it.
func Toggle(current, label string) string {
	if current == label {
		return ""
	}
	return label
}
