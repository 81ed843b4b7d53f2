package portal

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/skybi/zoom-dashboard/internal/dashboard"
)

const (
	templateLogin     = "login.html"
	templateDashboard = "dashboard.html"
)

//go:embed templates/*.html
var templateFiles embed.FS

type loginPage struct {
	Error    string
	Username string
}

type dashboardPage struct {
	Username    string
	Users       []*dashboard.UserView
	GeneratedAt time.Time
}

func parseTemplates() (*template.Template, error) {
	return template.ParseFS(templateFiles, "templates/*.html")
}

// render executes a template into a buffer first so that a failing template never produces a half written page
func (service *Service) render(writer http.ResponseWriter, request *http.Request, status int, name string, data interface{}) {
	buf := new(bytes.Buffer)
	if err := service.templates.ExecuteTemplate(buf, name, data); err != nil {
		service.internalError(writer, request, err)
		return
	}
	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(status)
	writer.Write(buf.Bytes())
}
