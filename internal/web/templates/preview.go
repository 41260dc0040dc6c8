// Package templates holds the HTML components served by the web package.
package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/JonMunkholm/featureprep/internal/core"
	"github.com/a-h/templ"
)

// PreviewData is what the preview page renders.
type PreviewData struct {
	File    string
	Target  string
	RunID   string
	Summary core.PreviewSummary
}

const pageStyle = `body{font-family:system-ui,sans-serif;margin:2rem;color:#1f2937}` +
	`table{border-collapse:collapse;font-size:.875rem}` +
	`th,td{border:1px solid #d1d5db;padding:.25rem .5rem;text-align:right}` +
	`th{background:#f3f4f6}td.missing{color:#9ca3af}` +
	`.alert{border:1px solid #fca5a5;background:#fef2f2;padding:1rem;border-radius:.375rem}` +
	`.meta{color:#6b7280;font-size:.875rem}`

// PreviewPage renders a summary and the head of a feature table.
func PreviewPage(d PreviewData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.open("Feature preview: " + d.File)

		hw.raw("<h1>")
		hw.text(d.File)
		hw.raw("</h1><p class=\"meta\">")
		hw.text(strconv.Itoa(d.Summary.Rows) + " rows x " + strconv.Itoa(len(d.Summary.Columns)) + " columns")
		if d.Target != "" {
			hw.raw(" &middot; target ")
			hw.raw("<code>")
			hw.text(d.Target)
			hw.raw("</code>")
		}
		hw.raw(" &middot; run ")
		hw.text(d.RunID)
		hw.raw("</p>")

		hw.raw("<table><thead><tr><th></th>")
		for _, c := range d.Summary.Columns {
			hw.raw("<th title=\"")
			hw.text(c.Type + ", " + strconv.Itoa(c.Missing) + " missing")
			hw.raw("\">")
			hw.text(c.Name)
			hw.raw("</th>")
		}
		hw.raw("</tr></thead><tbody>")
		for i, row := range d.Summary.Head {
			hw.raw("<tr><th>")
			hw.text(strconv.Itoa(i))
			hw.raw("</th>")
			for _, cell := range row {
				if cell == "NaN" {
					hw.raw("<td class=\"missing\">")
				} else {
					hw.raw("<td>")
				}
				hw.text(cell)
				hw.raw("</td>")
			}
			hw.raw("</tr>")
		}
		hw.raw("</tbody></table>")

		hw.close()
		return hw.err
	})
}

// ErrorAlert renders an error box with a message, the suggested action and
// the support code.
func ErrorAlert(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.raw("<div class=\"alert\" role=\"alert\"><strong>")
		hw.text(message)
		hw.raw("</strong>")
		if action != "" {
			hw.raw("<p>")
			hw.text(action)
			hw.raw("</p>")
		}
		if code != "" {
			hw.raw("<p class=\"meta\">Code: ")
			hw.text(code)
			hw.raw("</p>")
		}
		hw.raw("</div>")
		return hw.err
	})
}

// ErrorPage wraps ErrorAlert in a full document.
func ErrorPage(message, action, code string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := &htmlWriter{w: w}
		hw.open("Error")
		if hw.err != nil {
			return hw.err
		}
		if err := ErrorAlert(message, action, code).Render(ctx, w); err != nil {
			return err
		}
		hw.close()
		return hw.err
	})
}

// htmlWriter keeps the first write error so components can write freely.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *htmlWriter) open(title string) {
	h.raw("<!DOCTYPE html><html lang=\"en\"><head><meta charset=\"utf-8\"><title>")
	h.text(title)
	h.raw("</title><style>" + pageStyle + "</style></head><body>")
}

func (h *htmlWriter) close() {
	h.raw("</body></html>")
}
