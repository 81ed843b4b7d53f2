package api

import (
	"errors"
	"net/http"

	"github.com/skybi/zoom-dashboard/internal/api/portal"
	"github.com/skybi/zoom-dashboard/internal/config"
	"github.com/skybi/zoom-dashboard/internal/credential"
	"github.com/skybi/zoom-dashboard/internal/session"
)

// Service represents the HTTP service hosting the dashboard pages and its JSON API
type Service struct {
	Config      *config.Config
	Credentials credential.Validator
	Sessions    session.Storage
	Dashboard   portal.DashboardBuilder

	portal *portal.Service
}

// Startup starts up the dashboard service in the background.
// Errors occurring while serving are sent to errs; a regular shutdown sends nothing.
func (service *Service) Startup(errs chan<- error) {
	portalService := &portal.Service{
		Config:      service.Config,
		Credentials: service.Credentials,
		Sessions:    service.Sessions,
		Dashboard:   service.Dashboard,
	}
	service.portal = portalService
	go func() {
		if err := portalService.Startup(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
		}
	}()
}

// Shutdown shuts down the dashboard service
func (service *Service) Shutdown() {
	if service.portal != nil {
		service.portal.Shutdown()
		service.portal = nil
	}
}
