package render_test

import (
	"strings"
	"testing"

	"github.com/okian/healthui/internal/domain/health"
	"github.com/okian/healthui/internal/domain/render"
	. "github.com/smartystreets/goconvey/convey"
)

func names(cards []render.Card) []string {
	out := make([]string, 0, len(cards))
	for _, c := range cards {
		out = append(out, c.Name)
	}
	return out
}

func TestHTMLEncode(t *testing.T) {
	Convey("Given strings destined for HTML", t, func() {
		cases := map[string]string{
			"<script>":     "&#60;script&#62;",
			"</script>":    "&#60;&#47;script&#62;",
			"Health UI":    "Health UI",
			"v1.2":         "v1.2",
			"a_b-c":        "a&#95;b&#45;c",
			`"x"&'y'`:      "&#34;x&#34;&#38;&#39;y&#39;",
			"café":         "caf&#233;",
			"":             "",
			"http://h/q?a": "http&#58;&#47;&#47;h&#47;q&#63;a",
		}

		Convey("Then only letters, digits, dots and spaces survive", func() {
			for in, want := range cases {
				So(render.HTMLEncode(in), ShouldEqual, want)
			}
		})
	})
}

func TestRender(t *testing.T) {
	Convey("Given the DOWN example payload", t, func() {
		report, err := health.Decode([]byte(`{"status":"DOWN","checks":[{"name":"db","status":"DOWN","data":{"latencyMs":"120"}}]}`))
		So(err, ShouldBeNil)

		v := render.Render("Health UI", "/health", report)

		Convey("Then the badge is Down and the single card is danger", func() {
			So(v.Badge, ShouldResemble, render.Badge{Label: "Down", Style: render.StyleDanger})
			So(v.Cards, ShouldResemble, []render.Card{{
				Name:  "db",
				Style: render.StyleDanger,
				Rows:  []render.Row{{Key: "latencyMs", Value: "120"}},
			}})
			So(v.Error, ShouldBeNil)
			So(v.Down(), ShouldBeTrue)
		})

		Convey("And the fragments carry the original classes", func() {
			So(render.StateHTML(&v), ShouldEqual, "<h3><span class='badge badge-danger'>Down</span></h3>")
			grid := render.GridHTML(&v)
			So(grid, ShouldContainSubstring, "<div class='card border-danger shadow-sm'>")
			So(grid, ShouldContainSubstring, "<div class='card-body text-danger'>")
			So(grid, ShouldContainSubstring, "<h5 class='card-title'>db</h5>")
			So(grid, ShouldContainSubstring, "<table class='table'><tbody><tr><td>latencyMs</td><td>120</td></tr></tbody></table>")
		})
	})

	Convey("Given checks in mixed case with ties", t, func() {
		report := &health.Report{Status: health.StatusUp, Checks: []health.Check{
			{Name: "beta", Status: health.StatusUp},
			{Name: "Alpha", Status: health.StatusUp},
			{Name: "gamma", Status: health.StatusUp},
			{Name: "ALPHA", Status: health.StatusDown},
			{Name: "alpha", Status: health.StatusUp},
			{Name: "Beta", Status: health.StatusUp},
		}}

		v := render.Render("t", "/health", report)

		Convey("Then cards sort case-insensitively and keep payload order on ties", func() {
			So(names(v.Cards), ShouldResemble, []string{"Alpha", "ALPHA", "alpha", "beta", "Beta", "gamma"})
		})

		Convey("And the report itself is not reordered", func() {
			So(report.Checks[0].Name, ShouldEqual, "beta")
		})
	})

	Convey("Given a DOWN report whose checks are all UP", t, func() {
		report := &health.Report{Status: health.StatusDown, Checks: []health.Check{
			{Name: "a", Status: health.StatusUp},
			{Name: "b", Status: health.StatusUp},
		}}

		v := render.Render("t", "/health", report)

		Convey("Then the badge is Down while every card is success", func() {
			So(v.Badge.Label, ShouldEqual, render.LabelDown)
			for _, c := range v.Cards {
				So(c.Style, ShouldEqual, render.StyleSuccess)
			}
		})
	})

	Convey("Given an UP report with a DOWN check", t, func() {
		report := &health.Report{Status: health.StatusUp, Checks: []health.Check{
			{Name: "a", Status: health.StatusDown},
			{Name: "b", Status: "MAYBE"},
		}}

		v := render.Render("t", "/health", report)

		Convey("Then the badge is Up and styles follow each check", func() {
			So(v.Badge, ShouldResemble, render.Badge{Label: render.LabelUp, Style: render.StyleSuccess})
			So(v.Cards[0].Style, ShouldEqual, render.StyleDanger)
			So(v.Cards[1].Style, ShouldEqual, render.StyleSuccess)
			So(v.Down(), ShouldBeFalse)
		})
	})

	Convey("Given rows with several entries", t, func() {
		report, err := health.Decode([]byte(`{"status":"UP","checks":[{"name":"mem","status":"UP","data":{"z":"1","a":"2","m":"3"}}]}`))
		So(err, ShouldBeNil)

		v := render.Render("t", "/health", report)

		Convey("Then rows keep payload order", func() {
			So(v.Cards[0].Rows, ShouldResemble, []render.Row{{Key: "z", Value: "1"}, {Key: "a", Value: "2"}, {Key: "m", Value: "3"}})
		})
	})
}

func TestRenderError(t *testing.T) {
	Convey("Given a failed fetch", t, func() {
		ferr := &health.FetchError{
			Kind:       health.KindUnexpectedStatus,
			URL:        "/q/<health>",
			StatusCode: 404,
			Message:    "404 Not Found",
			RawBody:    "<h1>Not Found</h1>",
		}

		v := render.RenderError("Health UI", "/q/<health>", ferr)

		Convey("Then the view carries a warning badge and the error block", func() {
			So(v.Badge, ShouldResemble, render.Badge{Label: render.LabelError, Style: render.StyleWarning})
			So(v.Cards, ShouldBeEmpty)
			So(v.Error.URL, ShouldEqual, "/q/<health>")
			So(v.Error.Body, ShouldEqual, "<h1>Not Found</h1>")
			So(v.Error.Kind, ShouldEqual, "unexpected_status")
			So(v.Down(), ShouldBeTrue)
		})

		Convey("And the fragments encode the URL and the body", func() {
			So(render.StateHTML(&v), ShouldEqual, "<h3><span class='badge badge-warning'>Error fetching data</span></h3>")
			grid := render.GridHTML(&v)
			So(grid, ShouldStartWith, "<blockquote class='blockquote text-center'>")
			So(grid, ShouldContainSubstring, "Error while fetching data from [&#47;q&#47;&#60;health&#62;]")
			So(grid, ShouldContainSubstring, "&#60;h1&#62;Not Found&#60;&#47;h1&#62;")
			So(grid, ShouldNotContainSubstring, "<h1>")
		})
	})

	Convey("Given a network failure without a body", t, func() {
		v := render.RenderError("t", "/health", &health.FetchError{Kind: health.KindNetwork, Message: "connection refused"})

		Convey("Then the message stands in for the body", func() {
			So(render.GridHTML(&v), ShouldContainSubstring, "connection refused")
		})
	})
}

func TestPayloadEscaping(t *testing.T) {
	Convey("Given a payload with markup in names and data", t, func() {
		report := &health.Report{Status: health.StatusUp, Checks: []health.Check{{
			Name:   "<img src=x onerror=alert(1)>",
			Status: health.StatusUp,
			Data:   health.Data{{Key: "<b>", Value: "<script>alert(1)</script>"}},
		}}}

		v := render.Render("<i>Ops</i>", "/health", report)
		grid := render.GridHTML(&v)

		Convey("Then no payload markup reaches the fragment", func() {
			So(grid, ShouldNotContainSubstring, "<img")
			So(grid, ShouldNotContainSubstring, "<script")
			So(grid, ShouldNotContainSubstring, "<b>")
			So(strings.Count(grid, "&#60;"), ShouldBeGreaterThanOrEqualTo, 4)
			So(render.Title(&v), ShouldEqual, "&#60;i&#62;Ops&#60;&#47;i&#62;")
		})
	})

	Convey("Given a view before any fetch", t, func() {
		v := render.Empty("t", "/health")
		So(v.Pending(), ShouldBeTrue)
		So(render.StateHTML(&v), ShouldEqual, "")
		So(render.GridHTML(&v), ShouldEqual, "")
	})
}
