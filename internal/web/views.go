package web

import (
	"context"
	"fmt"
	"io"

	"github.com/JonMunkholm/partconfig/internal/core"
	"github.com/a-h/templ"
)

// ErrorAlert renders an HTMX error fragment.
func ErrorAlert(msg core.UserMessage) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<div class="alert alert-error" role="alert"><p>%s</p><p class="action">%s</p><small>Code: %s</small></div>`,
			templ.EscapeString(msg.Message),
			templ.EscapeString(msg.Action),
			templ.EscapeString(msg.Code),
		)
		return err
	})
}

// ResultPanel renders the generated description and quality block.
func ResultPanel(res *core.Result) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := fmt.Fprintf(w,
			`<section class="result" data-id="%s"><h2>Description</h2><pre class="description">%s</pre><h2>Quality</h2><ol class="quality">`,
			templ.EscapeString(res.ID),
			templ.EscapeString(res.Record.Description),
		); err != nil {
			return err
		}
		for _, tag := range res.Tags {
			if _, err := fmt.Fprintf(w, `<li><code>%s</code> %s</li>`,
				templ.EscapeString(tag.Code), templ.EscapeString(tag.Line)); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, `</ol>`); err != nil {
			return err
		}
		if len(res.Warnings) > 0 {
			if _, err := io.WriteString(w, `<ul class="warnings">`); err != nil {
				return err
			}
			for _, warn := range res.Warnings {
				if _, err := fmt.Fprintf(w, `<li>%s</li>`, templ.EscapeString(warn.Error())); err != nil {
					return err
				}
			}
			if _, err := io.WriteString(w, `</ul>`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</section>`)
		return err
	})
}

// IndexPage lists the registered parts and the API entry points.
func IndexPage(parts []core.PartInfo) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html><head><meta charset="utf-8"><title>Part configurator</title></head><body><h1>Part configurator</h1><table><thead><tr><th>Key</th><th>Label</th><th>Group</th><th>Template</th></tr></thead><tbody>`); err != nil {
			return err
		}
		for _, p := range parts {
			if _, err := fmt.Fprintf(w, `<tr><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
				templ.EscapeString(p.Key),
				templ.EscapeString(p.Label),
				templ.EscapeString(p.Group),
				templ.EscapeString(p.Template),
			); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</tbody></table><p>POST /api/generate, POST /api/quality, POST /api/dataload/{create|update}</p></body></html>`)
		return err
	})
}
