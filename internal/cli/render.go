package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/calvinalkan/note/internal/note"
)

// styler paints text with status style tokens such as "yellow" or
// "bold red on_white". Unknown tokens are ignored.
type styler struct {
	enabled bool
}

var styleAttributes = map[string]color.Attribute{
	"bold":      color.Bold,
	"dim":       color.Faint,
	"italic":    color.Italic,
	"underline": color.Underline,
	"blink":     color.BlinkSlow,
	"reverse":   color.ReverseVideo,
	"strike":    color.CrossedOut,
}

var styleColors = map[string][3]color.Attribute{
	// foreground, bright foreground, background
	"black":   {color.FgBlack, color.FgHiBlack, color.BgBlack},
	"red":     {color.FgRed, color.FgHiRed, color.BgRed},
	"green":   {color.FgGreen, color.FgHiGreen, color.BgGreen},
	"yellow":  {color.FgYellow, color.FgHiYellow, color.BgYellow},
	"blue":    {color.FgBlue, color.FgHiBlue, color.BgBlue},
	"magenta": {color.FgMagenta, color.FgHiMagenta, color.BgMagenta},
	"cyan":    {color.FgCyan, color.FgHiCyan, color.BgCyan},
	"white":   {color.FgWhite, color.FgHiWhite, color.BgWhite},
}

func parseStyle(style string) []color.Attribute {
	var attrs []color.Attribute

	for _, token := range strings.Fields(strings.ToLower(style)) {
		if attr, ok := styleAttributes[token]; ok {
			attrs = append(attrs, attr)

			continue
		}

		slot := 0

		switch {
		case strings.HasPrefix(token, "on_"):
			token, slot = strings.TrimPrefix(token, "on_"), 2
		case strings.HasPrefix(token, "bright_"):
			token, slot = strings.TrimPrefix(token, "bright_"), 1
		}

		if colors, ok := styleColors[token]; ok {
			attrs = append(attrs, colors[slot])
		}
	}

	return attrs
}

func (s styler) paint(style, text string) string {
	attrs := parseStyle(style)
	if len(attrs) == 0 {
		return text
	}

	c := color.New(attrs...)

	// Per-value switch; color.NoColor is process global.
	if s.enabled {
		c.EnableColor()
	} else {
		c.DisableColor()
	}

	return c.Sprint(text)
}

// colorEnabled resolves the color mode. In auto mode colors are used only
// when out is a terminal and NO_COLOR is not set.
func colorEnabled(mode string, out io.Writer, env map[string]string) bool {
	switch mode {
	case note.ColorAlways:
		return true
	case note.ColorNever:
		return false
	}

	if _, ok := env["NO_COLOR"]; ok {
		return false
	}

	if env["TERM"] == "dumb" {
		return false
	}

	return isTerminal(out)
}

func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// renderNotes prints entries as a table. The painted status is the last
// column so escape sequences do not disturb the alignment.
func renderNotes(o *IO, sty styler, entries []note.Entry) {
	var buf strings.Builder

	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tCONTENT\tTAGS\tSTATUS")

	for _, e := range entries {
		status := ""
		if e.Status.Name != "" {
			status = sty.paint(e.Status.Style, e.Status.Name)
		}

		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", e.Position, oneLine(e.Note.Content), formatTags(e.Note.Tags), status)
	}

	_ = w.Flush()

	o.Printf("%s", buf.String())
}

// warnMissingStatuses reports notes whose status is not configured.
func warnMissingStatuses(o *IO, entries []note.Entry) {
	for _, e := range entries {
		if e.Status.Missing {
			o.Warn(
				fmt.Sprintf("note %d has unknown status %q", e.Position, e.Status.Name),
				fmt.Sprintf("recreate it with `note status --add %s`", e.Status.Name),
			)
		}
	}
}

func renderTags(o *IO, tags []string) {
	for _, tag := range tags {
		o.Println("#" + tag)
	}
}

func renderStatuses(o *IO, sty styler, statuses []note.NamedStatus) {
	var buf strings.Builder

	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PRIORITY\tSTYLE\tSTATUS")

	for _, st := range statuses {
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\n", st.Priority, st.Style, sty.paint(st.Style, st.Name))
	}

	_ = w.Flush()

	o.Printf("%s", buf.String())
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}

	return "#" + strings.Join(tags, " #")
}

func oneLine(content string) string {
	return strings.Join(strings.Fields(content), " ")
}
