package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/desertthunder/spotdash/internal/dashboard"
	"github.com/desertthunder/spotdash/internal/services"
	"github.com/desertthunder/spotdash/internal/shared"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded page templates.
type Renderer struct {
	templates *template.Template
}

type dashboardPage struct {
	View       *dashboard.View
	Chart      *Chart
	TimeRanges []string
	LogoutPath string
}

type errorPage struct {
	Title       string
	Status      int
	StatusText  string
	Message     string
	Reauthorize bool
	LoginPath   string
}

// NewRenderer parses the embedded templates.
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"num":   func(v float64) string { return fmt.Sprintf("%.1f", v) },
		"value": tickLabel,
	}).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{templates: tmpl}, nil
}

// Dashboard renders the full dashboard page for view.
func (r *Renderer) Dashboard(view *dashboard.View) ([]byte, error) {
	return r.execute("dashboard.html", dashboardPage{
		View:       view,
		Chart:      NewChart(view.Features),
		TimeRanges: services.TimeRanges,
		LogoutPath: logoutPath,
	})
}

// Error renders an error page without any chart or table. Auth errors link to the login route.
func (r *Renderer) Error(status int, err error) ([]byte, error) {
	return r.execute("error.html", errorPage{
		Title:       dashboard.Title,
		Status:      status,
		StatusText:  http.StatusText(status),
		Message:     err.Error(),
		Reauthorize: shared.IsAuthError(err) || status == http.StatusUnauthorized,
		LoginPath:   loginPath,
	})
}

func (r *Renderer) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
