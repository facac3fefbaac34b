// Package terminal renders a dashboard view for the console.
package terminal

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/okian/healthui/internal/domain/render"
)

// Printer writes views to one output.
type Printer struct {
	w      io.Writer
	styles styles
	now    func() time.Time
}

// New creates a Printer for w. Colours are used only when w is a terminal.
func New(w io.Writer) *Printer {
	return &Printer{
		w:      w,
		styles: newStyles(lipgloss.NewRenderer(w)),
		now:    time.Now,
	}
}

// Print writes the rendering of v followed by a newline.
func (p *Printer) Print(v *render.View) error {
	_, err := fmt.Fprintln(p.w, p.Render(v))
	return err
}

// Render returns the console rendering of v.
func (p *Printer) Render(v *render.View) string {
	s := p.styles
	var b strings.Builder

	b.WriteString(s.banner.Render(v.Title))
	b.WriteString(s.subtitle.Render("  " + v.Endpoint))
	b.WriteString("\n\n")

	if v.Pending() {
		b.WriteString(s.dimText.Render("no data yet"))
		return b.String()
	}

	b.WriteString(s.badgeFor(string(v.Badge.Style)).Render("● " + v.Badge.Label))
	if !v.UpdatedAt.IsZero() {
		b.WriteString(s.dimText.Render("  " + humanize.RelTime(v.UpdatedAt, p.now(), "ago", "from now")))
	}
	b.WriteString("\n")

	if v.Error != nil {
		b.WriteString(p.renderError(v.Error))
		return b.String()
	}

	cards := make([]string, 0, len(v.Cards))
	for i := range v.Cards {
		cards = append(cards, p.renderCard(&v.Cards[i]))
	}
	b.WriteString(lipgloss.JoinVertical(lipgloss.Left, cards...))
	return b.String()
}

func (p *Printer) renderCard(c *render.Card) string {
	s := p.styles
	lines := []string{s.bold.Render(c.Name)}

	width := 0
	for _, r := range c.Rows {
		width = max(width, lipgloss.Width(r.Key))
	}
	for _, r := range c.Rows {
		lines = append(lines, s.key.Width(width+2).Render(r.Key)+s.val.Render(r.Value))
	}
	return s.cardFor(string(c.Style)).Render(strings.Join(lines, "\n"))
}

func (p *Printer) renderError(e *render.ErrorBlock) string {
	body := e.Body
	if body == "" {
		body = e.Message
	}
	text := fmt.Sprintf("Error while fetching data from [%s]", e.URL)
	if body != "" {
		text += "\n" + body
	}
	return p.styles.errorBox.Render(text)
}
