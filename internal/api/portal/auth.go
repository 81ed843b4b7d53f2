package portal

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"
	"github.com/skybi/zoom-dashboard/internal/api/schema"
	"github.com/skybi/zoom-dashboard/internal/session"
)

type contextKey string

const (
	cookieNameToken = "session_token"

	contextValueSession contextKey = "session"

	messageInvalidCredentials = "Invalid username or password"
)

// EndpointLoginPage handles the 'GET /login' endpoint
func (service *Service) EndpointLoginPage(writer http.ResponseWriter, request *http.Request) {
	ses, err := service.sessionFromCookie(request)
	if err != nil {
		service.internalError(writer, request, err)
		return
	}
	if ses != nil {
		http.Redirect(writer, request, "/", http.StatusFound)
		return
	}
	service.render(writer, request, http.StatusOK, templateLogin, &loginPage{})
}

// EndpointLogin handles the 'POST /login' endpoint
func (service *Service) EndpointLogin(writer http.ResponseWriter, request *http.Request) {
	if err := request.ParseForm(); err != nil {
		service.render(writer, request, http.StatusBadRequest, templateLogin, &loginPage{Error: messageInvalidCredentials})
		return
	}
	username := request.PostForm.Get("username")
	password := request.PostForm.Get("password")

	// Any session the client still holds is replaced, whatever the outcome
	hadSession := false
	if cookie, err := request.Cookie(cookieNameToken); err == nil && cookie.Value != "" {
		hadSession = true
		if err := service.Sessions.TerminateByRawToken(request.Context(), cookie.Value); err != nil {
			hlog.FromRequest(request).Error().Err(err).Msg("could not terminate the previous session")
		}
	}

	if !service.Credentials.Validate(username, password) {
		hlog.FromRequest(request).Warn().Str("username", username).Msg("rejected login attempt")
		if hadSession {
			service.clearSessionCookie(writer)
		}
		service.render(writer, request, http.StatusOK, templateLogin, &loginPage{Error: messageInvalidCredentials, Username: username})
		return
	}

	expires := time.Now().Add(service.Config.SessionLifetime)
	ses, rawToken, err := service.Sessions.Create(request.Context(), username, expires.Unix())
	if err != nil {
		service.internalError(writer, request, err)
		return
	}
	hlog.FromRequest(request).Info().Str("username", username).Stringer("session_id", ses.ID).Msg("operator logged in")

	service.setSessionCookie(writer, rawToken, expires)
	http.Redirect(writer, request, "/", http.StatusFound)
}

// EndpointLogout handles the 'GET /logout' endpoint
func (service *Service) EndpointLogout(writer http.ResponseWriter, request *http.Request) {
	if cookie, err := request.Cookie(cookieNameToken); err == nil && cookie.Value != "" {
		if err := service.Sessions.TerminateByRawToken(request.Context(), cookie.Value); err != nil {
			hlog.FromRequest(request).Error().Err(err).Msg("could not terminate the session")
		}
	}
	service.clearSessionCookie(writer)
	http.Redirect(writer, request, "/login", http.StatusFound)
}

// MiddlewareVerifySession makes sure that the requesting operator is logged in and redirects to the login page
// otherwise.
// Additionally, it injects the session itself into the request context.
func (service *Service) MiddlewareVerifySession(next http.HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		ses, err := service.sessionFromCookie(request)
		if err != nil {
			service.internalError(writer, request, err)
			return
		}
		if ses == nil {
			http.Redirect(writer, request, "/login", http.StatusFound)
			return
		}
		next(writer, withSession(request, ses))
	}
}

// MiddlewareRequireSession works like MiddlewareVerifySession but answers with a JSON 401 error instead of redirecting
func (service *Service) MiddlewareRequireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		ses, err := service.sessionFromCookie(request)
		if err != nil {
			service.writer.WriteInternalError(writer, err)
			return
		}
		if ses == nil {
			service.writer.WriteErrors(writer, http.StatusUnauthorized, schema.ErrUnauthorized)
			return
		}
		next(writer, withSession(request, ses))
	}
}

func (service *Service) sessionFromCookie(request *http.Request) (*session.Session, error) {
	cookie, err := request.Cookie(cookieNameToken)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}
	return service.Sessions.GetByRawToken(request.Context(), cookie.Value)
}

func (service *Service) setSessionCookie(writer http.ResponseWriter, rawToken string, expires time.Time) {
	http.SetCookie(writer, &http.Cookie{
		Name:     cookieNameToken,
		Value:    rawToken,
		Path:     "/",
		Expires:  expires,
		MaxAge:   int(time.Until(expires).Seconds()),
		Secure:   service.Config.SessionCookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (service *Service) clearSessionCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     cookieNameToken,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		Secure:   service.Config.SessionCookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func withSession(request *http.Request, ses *session.Session) *http.Request {
	return request.WithContext(context.WithValue(request.Context(), contextValueSession, ses))
}

func sessionFromContext(ctx context.Context) *session.Session {
	ses, _ := ctx.Value(contextValueSession).(*session.Session)
	return ses
}
