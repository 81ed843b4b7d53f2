package portal

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"
	"github.com/skybi/zoom-dashboard/internal/api/schema"
	"github.com/skybi/zoom-dashboard/internal/zoom"
)

const (
	messageUpstreamAuth  = "Failed to get Zoom access token."
	messageUpstreamUsers = "Failed to get licensed users."
	messageInternal      = "Internal server error."
)

func (service *Service) error(writer http.ResponseWriter, status int, message string) {
	writer.Header().Set("Content-Type", "text/plain; charset=utf-8")
	writer.Header().Set("X-Content-Type-Options", "nosniff")
	writer.WriteHeader(status)
	writer.Write([]byte(message))
}

func (service *Service) internalError(writer http.ResponseWriter, request *http.Request, err error) {
	hlog.FromRequest(request).Error().Err(err).Msg("the dashboard service experienced an unexpected error")
	service.error(writer, http.StatusInternalServerError, messageInternal)
}

// upstreamError answers a failed dashboard build with the plain text message belonging to the failed upstream step
func (service *Service) upstreamError(writer http.ResponseWriter, request *http.Request, err error) {
	var authErr *zoom.UpstreamAuthError
	if errors.As(err, &authErr) {
		hlog.FromRequest(request).Error().Err(err).Msg("could not obtain a Zoom access token")
		service.error(writer, http.StatusInternalServerError, messageUpstreamAuth)
		return
	}
	var fetchErr *zoom.UpstreamFetchError
	if errors.As(err, &fetchErr) {
		hlog.FromRequest(request).Error().Err(err).Msg("could not fetch the licensed users")
		service.error(writer, http.StatusInternalServerError, messageUpstreamUsers)
		return
	}
	service.internalError(writer, request, err)
}

// upstreamErrorJSON works like upstreamError but answers using the JSON error envelope
func (service *Service) upstreamErrorJSON(writer http.ResponseWriter, request *http.Request, err error) {
	var authErr *zoom.UpstreamAuthError
	if errors.As(err, &authErr) {
		hlog.FromRequest(request).Error().Err(err).Msg("could not obtain a Zoom access token")
		service.writer.WriteErrors(writer, http.StatusInternalServerError, schema.ErrUpstreamAuth)
		return
	}
	var fetchErr *zoom.UpstreamFetchError
	if errors.As(err, &fetchErr) {
		hlog.FromRequest(request).Error().Err(err).Msg("could not fetch the licensed users")
		service.writer.WriteErrors(writer, http.StatusInternalServerError, schema.ErrUpstreamUsers)
		return
	}
	service.writer.WriteInternalError(writer, err)
}
