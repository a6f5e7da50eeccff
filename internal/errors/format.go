package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type style string

const (
	styleReset style = "\033[0m"
	styleError style = "\033[1;31m"
	styleTitle style = "\033[1;37m"
	styleField style = "\033[36m"
	styleLabel style = "\033[90m"
	styleLink  style = "\033[4;34m"
)

// colorMode is 0 for auto detection, 1 forced on, -1 forced off.
var colorMode int

// DisableColors turns ANSI styling off regardless of the output.
func DisableColors() { colorMode = -1 }

// EnableColors turns ANSI styling on regardless of the output.
func EnableColors() { colorMode = 1 }

// colorsFor reports whether output to w should be styled. In auto mode that
// is a terminal with NO_COLOR unset.
func colorsFor(w io.Writer) bool {
	switch colorMode {
	case 1:
		return true
	case -1:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// painter applies styles when enabled.
type painter bool

func (p painter) paint(s style, text string) string {
	if !p || text == "" {
		return text
	}
	return string(s) + text + string(styleReset)
}

// Format returns the error formatted for terminal display. Colors are used
// unless disabled; Fprint decides by the destination instead.
func (e *Error) Format() string {
	return e.format(painter(colorMode != -1))
}

func (e *Error) format(p painter) string {
	var sections []string

	title := p.paint(styleError, "ERROR")
	if e.Code != "" {
		title += " " + p.paint(styleTitle, e.Code+": "+e.Message)
	} else {
		title += ": " + p.paint(styleTitle, e.Message)
	}
	sections = append(sections, title)

	if len(e.Fields) > 0 {
		sections = append(sections, indent(p.paint(styleField, e.fieldString())))
	}
	if lines := wrapText(e.Detail, 70); len(lines) > 0 {
		sections = append(sections, indent(lines...))
	}
	if e.Wrapped != nil {
		sections = append(sections, indent(p.paint(styleLabel, "Cause: ")+e.Wrapped.Error()))
	}
	if e.Suggestion != "" {
		sections = append(sections, indent(p.paint(styleField, "Hint: ")+e.Suggestion))
	}
	if e.DocURL != "" {
		sections = append(sections, indent(p.paint(styleLabel, "Learn more: ")+p.paint(styleLink, e.DocURL)))
	}

	return "\n" + strings.Join(sections, "\n\n") + "\n\n"
}

func indent(lines ...string) string {
	return "  " + strings.Join(lines, "\n  ")
}

// FormatCompact returns the error on one line: "CODE: message: cause".
func (e *Error) FormatCompact() string {
	parts := make([]string, 0, 3)
	if e.Code != "" {
		parts = append(parts, e.Code)
	}
	parts = append(parts, e.Message)
	if e.Wrapped != nil {
		parts = append(parts, e.Wrapped.Error())
	}
	return strings.Join(parts, ": ")
}

// FormatJSON returns the error as a JSON object.
func (e *Error) FormatJSON() string {
	out := struct {
		Code       string            `json:"code,omitempty"`
		Category   Category          `json:"category"`
		Message    string            `json:"message"`
		Detail     string            `json:"detail,omitempty"`
		Fields     map[string]string `json:"fields,omitempty"`
		Cause      string            `json:"cause,omitempty"`
		Suggestion string            `json:"suggestion,omitempty"`
		DocURL     string            `json:"docUrl,omitempty"`
	}{
		Code:       e.Code,
		Category:   e.Category,
		Message:    e.Message,
		Detail:     e.Detail,
		Fields:     e.Fields,
		Suggestion: e.Suggestion,
		DocURL:     e.DocURL,
	}
	if e.Wrapped != nil {
		out.Cause = e.Wrapped.Error()
	}
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Sprintf(`{"message":%q}`, e.Message)
	}
	return string(data)
}

// wrapText breaks text into lines of at most width bytes. A single word
// longer than width gets a line of its own.
func wrapText(text string, width int) []string {
	var lines []string
	line := ""
	for _, word := range strings.Fields(text) {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			lines = append(lines, line)
			line = word
		}
	}
	if line != "" {
		lines = append(lines, line)
	}
	return lines
}

// Fprint writes err to w, formatted for a terminal when w is one.
func Fprint(w io.Writer, err error) {
	p := painter(colorsFor(w))
	var e *Error
	if stderrors.As(err, &e) {
		fmt.Fprint(w, e.format(p))
		return
	}
	fmt.Fprintf(w, "\n%s %s\n\n", p.paint(styleError, "ERROR:"), err.Error())
}

// PrintError prints a formatted error to stderr.
func PrintError(err error) {
	Fprint(os.Stderr, err)
}
