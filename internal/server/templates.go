package server

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	fare "github.com/cubny/taxifare"
)

const formTemplate = "index.html"

//go:embed templates/*.html
var templateFS embed.FS

// templateRenderer renders the embedded html templates for echo
type templateRenderer struct {
	templates *template.Template
}

func newTemplateRenderer() (*templateRenderer, error) {
	t, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &templateRenderer{templates: t}, nil
}

func (r *templateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// formPage is the data of the estimate form
type formPage struct {
	Form       estimateRequest
	Passengers []int
	Payments   []string
	Result     string
	Error      string
}

func newFormPage(req estimateRequest) formPage {
	page := formPage{Form: req}
	for i := 1; i <= 6; i++ {
		page.Passengers = append(page.Passengers, i)
	}
	for _, p := range fare.PaymentTypes() {
		page.Payments = append(page.Payments, p.String())
	}
	return page
}
