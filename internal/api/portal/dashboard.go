package portal

import (
	"net/http"
	"time"
)

// EndpointDashboard handles the 'GET /' endpoint
func (service *Service) EndpointDashboard(writer http.ResponseWriter, request *http.Request) {
	views, err := service.Dashboard.Build(request.Context())
	if err != nil {
		service.upstreamError(writer, request, err)
		return
	}

	page := &dashboardPage{
		Users:       views,
		GeneratedAt: time.Now(),
	}
	if ses := sessionFromContext(request.Context()); ses != nil {
		page.Username = ses.Username
	}
	service.render(writer, request, http.StatusOK, templateDashboard, page)
}

// EndpointGetUsers handles the 'GET /api/v1/users' endpoint
func (service *Service) EndpointGetUsers(writer http.ResponseWriter, request *http.Request) {
	views, err := service.Dashboard.Build(request.Context())
	if err != nil {
		service.upstreamErrorJSON(writer, request, err)
		return
	}
	service.writer.WriteJSON(writer, views)
}
