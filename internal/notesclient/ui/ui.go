package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"

	"github.com/2beens/diarynotes/internal/notesclient"
)

const (
	timeLayout = "2006-01-02 15:04"
	wordWrap   = 100
)

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
)

// Notifier prints session notifications, green for success and red for errors.
type Notifier struct {
	Out io.Writer
}

func (n *Notifier) Notify(level notesclient.Level, msg string) {
	if level == notesclient.LevelError {
		_, _ = errorColor.Fprintln(n.Out, "✗ "+msg)
		return
	}
	_, _ = successColor.Fprintln(n.Out, "✓ "+msg)
}

// Confirmer asks on Out and reads the answer from In. Only y/yes confirms.
type Confirmer struct {
	In  io.Reader
	Out io.Writer
	// AssumeYes skips the prompt.
	AssumeYes bool
}

func (c *Confirmer) Confirm(question string) bool {
	if c.AssumeYes {
		return true
	}
	_, _ = fmt.Fprintf(c.Out, "%s [y/N]: ", question)
	answer, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

type Renderer struct {
	term *glamour.TermRenderer
}

// NewRenderer picks a style from the terminal background, plain "notty" output when
// styled is false.
func NewRenderer(styled bool) (*Renderer, error) {
	styleOpt := glamour.WithAutoStyle()
	if !styled {
		styleOpt = glamour.WithStandardStyle("notty")
	}
	term, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(wordWrap))
	if err != nil {
		return nil, fmt.Errorf("new term renderer: %w", err)
	}
	return &Renderer{term: term}, nil
}

func (r *Renderer) RenderNote(note notesclient.Note) (string, error) {
	return r.term.Render(NoteMarkdown(note))
}

// RenderPage renders one page of notes with a pager footer.
func (r *Renderer) RenderPage(notes []notesclient.Note, page, pageCount int, search string) (string, error) {
	var sb strings.Builder
	sb.WriteString("# Diary Notes\n\n")
	if search != "" {
		fmt.Fprintf(&sb, "_search: %q_\n\n", search)
	}
	if len(notes) == 0 {
		sb.WriteString("No notes found.\n")
	}
	for _, n := range notes {
		sb.WriteString(noteSection(n, "##"))
		sb.WriteString("\n---\n\n")
	}
	fmt.Fprintf(&sb, "page %d of %d\n", page, pageCount)
	return r.term.Render(sb.String())
}

// NoteMarkdown is the markdown form of a single note, also used by export.
func NoteMarkdown(note notesclient.Note) string {
	return noteSection(note, "#")
}

func noteSection(n notesclient.Note, heading string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s\n\n", heading, n.Title)
	fmt.Fprintf(&sb, "%s\n\n", n.Content)
	fmt.Fprintf(&sb, "`%s` created %s", n.ID, formatTime(n.CreatedAt))
	if !n.UpdatedAt.IsZero() && !n.UpdatedAt.Equal(n.CreatedAt) {
		fmt.Fprintf(&sb, ", updated %s", formatTime(n.UpdatedAt))
	}
	sb.WriteString("\n")
	return sb.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}
