// Package web renders the informational pages shown by the public
// referral endpoint when a redirect is not possible: giveaway not
// found, or giveaway ended (with the winner, if any).
package web

import (
	"embed"
	"html/template"
	"io"

	"luminora-backend/internal/features/giveaway/models"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: templates}, nil
}

// NotFound renders the page for an unknown giveaway.
func (r *Renderer) NotFound(w io.Writer) error {
	return r.templates.ExecuteTemplate(w, "notfound.html.tmpl", nil)
}

// EndedPage is the data for the ended-giveaway page.
type EndedPage struct {
	Giveaway *models.Giveaway
	Winner   *models.Participant
}

// Ended renders the winner page for an ended giveaway.
func (r *Renderer) Ended(w io.Writer, page *EndedPage) error {
	return r.templates.ExecuteTemplate(w, "ended.html.tmpl", page)
}
