package terminal

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primary = lipgloss.Color("#7C3AED")
	green   = lipgloss.Color("#10B981")
	red     = lipgloss.Color("#EF4444")
	yellow  = lipgloss.Color("#F59E0B")
	dim     = lipgloss.Color("#6B7280")
	white   = lipgloss.Color("#F9FAFB")
)

// styles are bound to one renderer so colour follows the output's profile.
type styles struct {
	banner   lipgloss.Style
	subtitle lipgloss.Style
	bold     lipgloss.Style
	dimText  lipgloss.Style
	badge    map[string]lipgloss.Style
	card     map[string]lipgloss.Style
	key      lipgloss.Style
	val      lipgloss.Style
	errorBox lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	badge := r.NewStyle().Padding(0, 1).Bold(true)
	card := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#374151")).
		Padding(0, 1)

	return styles{
		banner:   r.NewStyle().Bold(true).Foreground(primary),
		subtitle: r.NewStyle().Foreground(dim).Italic(true),
		bold:     r.NewStyle().Bold(true).Foreground(white),
		dimText:  r.NewStyle().Foreground(dim),
		badge: map[string]lipgloss.Style{
			"success": badge.Foreground(green),
			"danger":  badge.Foreground(red),
			"warning": badge.Foreground(yellow),
		},
		card: map[string]lipgloss.Style{
			"success": card.BorderForeground(green),
			"danger":  card.BorderForeground(red),
		},
		key: r.NewStyle().Foreground(dim).PaddingRight(2),
		val: r.NewStyle().Foreground(white),
		errorBox: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(yellow).
			Foreground(yellow).
			Padding(0, 1),
	}
}

func (s styles) badgeFor(style string) lipgloss.Style {
	if b, ok := s.badge[style]; ok {
		return b
	}
	return s.badge["warning"]
}

func (s styles) cardFor(style string) lipgloss.Style {
	if c, ok := s.card[style]; ok {
		return c
	}
	return s.card["success"]
}
