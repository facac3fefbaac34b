package render

import "strings"

// StateHTML renders the badge fragment. It is empty while the view is pending.
func StateHTML(v *View) string {
	if v.Pending() {
		return ""
	}
	var b strings.Builder
	b.WriteString("<h3><span class='badge badge-")
	b.WriteString(string(v.Badge.Style))
	b.WriteString("'>")
	b.WriteString(HTMLEncode(v.Badge.Label))
	b.WriteString("</span></h3>")
	return b.String()
}

// GridHTML renders the cards, or the error block for a failed fetch.
func GridHTML(v *View) string {
	var b strings.Builder
	if v.Error != nil {
		writeError(&b, v.Error)
		return b.String()
	}
	for i := range v.Cards {
		writeCard(&b, &v.Cards[i])
	}
	return b.String()
}

// Title is the encoded page and navbar title.
func Title(v *View) string {
	return HTMLEncode(v.Title)
}

func writeCard(b *strings.Builder, c *Card) {
	b.WriteString("<div class='card border-")
	b.WriteString(string(c.Style))
	b.WriteString(" shadow-sm'><div class='card-body text-")
	b.WriteString(string(c.Style))
	b.WriteString("'><h5 class='card-title'>")
	b.WriteString(HTMLEncode(c.Name))
	b.WriteString("</h5><table class='table'><tbody>")
	for _, r := range c.Rows {
		b.WriteString("<tr><td>")
		b.WriteString(HTMLEncode(r.Key))
		b.WriteString("</td><td>")
		b.WriteString(HTMLEncode(r.Value))
		b.WriteString("</td></tr>")
	}
	b.WriteString("</tbody></table></div></div>")
}

func writeError(b *strings.Builder, e *ErrorBlock) {
	b.WriteString("<blockquote class='blockquote text-center'><p class='mb-0'> Error while fetching data from [")
	b.WriteString(HTMLEncode(e.URL))
	b.WriteString("]</p><p class='mb-0'>")
	body := e.Body
	if body == "" {
		body = e.Message
	}
	b.WriteString(HTMLEncode(body))
	b.WriteString("</p></blockquote>")
}
