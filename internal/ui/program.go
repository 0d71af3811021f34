package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/coachsite/internal/booking"
	"github.com/muurk/coachsite/internal/discovery"
	"github.com/muurk/coachsite/internal/urls"
)

// RunForm runs the terminal booking form until the visitor quits.
// The session is torn down on exit.
func RunForm(reg *booking.Registry, preset string) error {
	model := NewFormModel(reg, preset)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, err := p.Run()
	return err
}

// Printer prints styled command output to a writer.
type Printer struct {
	out   io.Writer
	width int
}

// NewPrinter creates a new Printer that writes to the given writer.
// If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		out:   w,
		width: GetTerminalWidth(),
	}
}

// Width returns the current terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Print writes content to the output
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline prints an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command header box
func (p *Printer) PrintHeader(title, command string, params map[string]string) {
	p.Println(NewHeader(title, command, params).SetWidth(p.width).Render())
}

// PrintRoutes prints the page routing table.
func (p *Printer) PrintRoutes(routes []urls.Route) {
	for _, r := range routes {
		nav := ""
		if r.Nav {
			nav = "  (nav)"
		}
		p.Println(TableKeyStyle.Render(r.Path) + TableValueStyle.Render(r.Title+" → "+r.Page+nav))
	}
}

// PrintInstances prints the site instances found on the LAN.
func (p *Printer) PrintInstances(instances []*discovery.Instance) {
	if len(instances) == 0 {
		p.Println(HelperTextStyle.Render("No coachsite instances found"))
		return
	}
	for _, inst := range instances {
		var details []string
		if inst.Version != "" {
			details = append(details, "version "+inst.Version)
		}
		if inst.Hostname != "" {
			details = append(details, inst.Hostname)
		}
		line := TableKeyStyle.Render(inst.Name) + TableValueStyle.Render(inst.URL())
		if len(details) > 0 {
			line += HelperTextStyle.Render(strings.Join(details, ", "))
		}
		p.Println(line)
	}
}

// PrintInquiries prints recorded inquiries, oldest first.
func (p *Printer) PrintInquiries(inquiries []booking.Inquiry) {
	if len(inquiries) == 0 {
		p.Println(HelperTextStyle.Render("No inquiries recorded"))
		return
	}
	for _, inq := range inquiries {
		v := inq.Values
		p.Println(TableKeyStyle.Render(inq.ReceivedAt.Format("2006-01-02 15:04")) +
			TableValueStyle.Render(v.FirstName+" "+v.LastName+" · "+v.Service))
		p.Println(TableKeyStyle.Render("") + HelperTextStyle.Render(v.Email+", "+v.Mobile))
		if v.Message != "" {
			p.Println(TableKeyStyle.Render("") + HelperTextStyle.Render(v.Message))
		}
	}
}

// PrintError prints a failure line.
func (p *Printer) PrintError(title string, err error) {
	msg := FailureMarker + "  " + title
	if err != nil {
		msg += ": " + err.Error()
	}
	p.Println(ErrorMessageStyle.Render(msg))
}
