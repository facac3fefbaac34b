// Package render turns health reports and fetch failures into the dashboard
// view model and its HTML fragments.
package render

import (
	"slices"
	"strings"
	"time"

	"github.com/okian/healthui/internal/domain/health"
)

// Style is the colour family of a badge or card.
type Style string

const (
	StyleSuccess Style = "success"
	StyleDanger  Style = "danger"
	StyleWarning Style = "warning"
)

// Badge labels.
const (
	LabelUp    = "Up"
	LabelDown  = "Down"
	LabelError = "Error fetching data"
)

// Badge is the global status indicator.
type Badge struct {
	Label string `json:"label"`
	Style Style  `json:"style"`
}

// Row is one key/value line of a card.
type Row struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Card is the rendering of one check.
type Card struct {
	Name  string `json:"name"`
	Style Style  `json:"style"`
	Rows  []Row  `json:"rows"`
}

// ErrorBlock describes a failed fetch.
type ErrorBlock struct {
	URL     string `json:"url"`
	Kind    string `json:"kind"`
	Status  int    `json:"statusCode,omitempty"`
	Message string `json:"message"`
	Body    string `json:"body"`
}

// View is everything the dashboard shows. Strings are kept raw; the HTML
// fragment functions encode them.
type View struct {
	Title     string      `json:"title"`
	Badge     Badge       `json:"badge"`
	Cards     []Card      `json:"cards"`
	Error     *ErrorBlock `json:"error,omitempty"`
	Endpoint  string      `json:"endpoint"`
	Sequence  uint64      `json:"sequence"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Pending reports whether no fetch has been applied yet.
func (v View) Pending() bool {
	return v.Badge.Label == ""
}

// Down reports whether the view shows a DOWN report or a fetch failure.
func (v View) Down() bool {
	return v.Error != nil || v.Badge.Style == StyleDanger
}

// Empty is the view shown before the first fetch completes.
func Empty(title, endpoint string) View {
	return View{Title: title, Endpoint: endpoint, Cards: []Card{}}
}

// Render builds the success view for r.
func Render(title, endpoint string, r *health.Report) View {
	v := Empty(title, endpoint)
	v.Badge = Badge{Label: LabelUp, Style: StyleSuccess}
	if r == nil {
		return v
	}
	if r.Status.IsDown() {
		v.Badge = Badge{Label: LabelDown, Style: StyleDanger}
	}

	cards := make([]Card, 0, len(r.Checks))
	for _, c := range r.Checks {
		cards = append(cards, cardOf(c))
	}
	slices.SortStableFunc(cards, func(a, b Card) int {
		return strings.Compare(strings.ToUpper(a.Name), strings.ToUpper(b.Name))
	})
	v.Cards = cards
	return v
}

// RenderError builds the error view for a failed fetch of endpoint.
func RenderError(title, endpoint string, ferr *health.FetchError) View {
	v := Empty(title, endpoint)
	v.Badge = Badge{Label: LabelError, Style: StyleWarning}
	block := &ErrorBlock{URL: endpoint}
	if ferr != nil {
		block.Kind = ferr.Kind.String()
		block.Status = ferr.StatusCode
		block.Message = ferr.Message
		block.Body = ferr.RawBody
	}
	v.Error = block
	return v
}

func cardOf(c health.Check) Card {
	style := StyleSuccess
	if c.Status.IsDown() {
		style = StyleDanger
	}
	rows := make([]Row, 0, len(c.Data))
	for _, e := range c.Data {
		rows = append(rows, Row{Key: e.Key, Value: e.Value})
	}
	return Card{Name: c.Name, Style: style, Rows: rows}
}
