package comment

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/alexcrichton/futures-await/syntax"
	"github.com/charmbracelet/lipgloss"
)

var (
	infoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#87CEEB"))

	warnStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	positionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type entry struct {
	header   string
	position string
	message  string
}

type ConsolePrinter struct {
	mu       sync.Mutex
	appRoot  string
	out      io.Writer
	comments []entry
}

// initialize this if you want to use it at the start of the program
var printer *ConsolePrinter

func EnableConsolePrinter(applicationPath string) {
	printer = &ConsolePrinter{
		appRoot: applicationPath,
		out:     os.Stderr,
	}
}

func WriteAll() {
	if printer != nil {
		printer.Flush()
	}
}

// Add appends a new comment to the console printer.
// This function is used to add comments that will be printed to console.
// The message is the main comment, and additionalInfo is a list of optional
// comments that will be printed on new lines below the main comment.
// Add is safe for concurrent use.
func (p *ConsolePrinter) Add(file string, sp syntax.Span, header, message string, additionalInfo ...string) {
	if p == nil {
		return
	}

	b := strings.Builder{}
	b.WriteString(message)
	for _, info := range additionalInfo {
		b.WriteString("\n\t")
		b.WriteString(info)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.comments = append(p.comments, entry{
		header:   header,
		position: getPosition(file, sp, p.appRoot),
		message:  b.String(),
	})
}

// Flush writes all collected comments and forgets them.
func (p *ConsolePrinter) Flush() {
	if p == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.comments {
		Logger().Debug(c.message, zapHeader(c.header), zapPosition(c.position))
		fmt.Fprintln(p.out, c.render())
	}
	p.comments = nil
}

func (e entry) render() string {
	style := infoStyle
	if e.header == WarnHeader {
		style = warnStyle
	}
	b := strings.Builder{}
	b.WriteString(style.Render(e.header))
	b.WriteString(": ")
	if e.position != "" {
		b.WriteString(positionStyle.Render(e.position))
		b.WriteByte(' ')
	}
	b.WriteString(e.message)
	return b.String()
}

// getPosition creates a human readable string for a span in file. The file
// name is made relative to the application root when possible.
//
// Info 				|		Formatting
// ------------------------------------------------------------------
// file, valid span		|	file line:column
// file					|	file
// no file				|	line:column, or "" for an invalid span
func getPosition(file string, sp syntax.Span, appRoot string) string {
	if file != "" && appRoot != "" {
		if rel, err := filepath.Rel(appRoot, file); err == nil && !strings.HasPrefix(rel, "..") {
			file = rel
		}
	}

	path := strings.Builder{}
	path.WriteString(file)
	if sp.IsValid() {
		if path.Len() != 0 {
			path.WriteByte(' ')
		}
		path.WriteString(sp.Lo.String())
	}
	return path.String()
}
