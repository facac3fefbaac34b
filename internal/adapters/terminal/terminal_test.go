package terminal

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/okian/healthui/internal/domain/health"
	"github.com/okian/healthui/internal/domain/render"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPrinter(t *testing.T) {
	Convey("Given a printer writing to a buffer", t, func() {
		var buf bytes.Buffer
		p := New(&buf)
		p.now = func() time.Time { return time.Date(2026, 1, 1, 12, 0, 30, 0, time.UTC) }

		Convey("When printing the DOWN example", func() {
			report := &health.Report{Status: health.StatusDown, Checks: []health.Check{
				{Name: "db", Status: health.StatusDown, Data: health.Data{{Key: "latencyMs", Value: "120"}}},
				{Name: "Cache", Status: health.StatusUp},
			}}
			v := render.Render("Health UI", "http://svc/health", report)
			v.UpdatedAt = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
			So(p.Print(&v), ShouldBeNil)
			out := buf.String()

			Convey("Then the badge, cards and rows are shown without colour codes", func() {
				So(out, ShouldContainSubstring, "Health UI")
				So(out, ShouldContainSubstring, "http://svc/health")
				So(out, ShouldContainSubstring, "● Down")
				So(out, ShouldContainSubstring, "30 seconds ago")
				So(out, ShouldContainSubstring, "latencyMs")
				So(out, ShouldContainSubstring, "120")
				So(strings.Index(out, "Cache"), ShouldBeLessThan, strings.Index(out, "db"))
				So(out, ShouldNotContainSubstring, "\x1b[")
			})
		})

		Convey("When printing an error view", func() {
			v := render.RenderError("Health UI", "/health", &health.FetchError{
				Kind:    health.KindNetwork,
				Message: "dial tcp: connection refused",
			})
			out := p.Render(&v)

			Convey("Then the error box names the endpoint and the cause", func() {
				So(out, ShouldContainSubstring, "● Error fetching data")
				So(out, ShouldContainSubstring, "Error while fetching data from [/health]")
				So(out, ShouldContainSubstring, "connection refused")
			})
		})

		Convey("When printing a pending view", func() {
			v := render.Empty("Health UI", "/health")
			So(p.Render(&v), ShouldContainSubstring, "no data yet")
		})
	})
}
