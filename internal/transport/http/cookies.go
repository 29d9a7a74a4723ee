package http

import (
	"net/http"

	"github.com/projectpulse/jira-dashboard-service/internal/service"
)

// Cookie names for the OAuth credential store. Tokens live in httpOnly
// cookies; the service never persists them.
const (
	cookieAccessToken = "jira_access_token"
	cookieCloudID     = "jira_cloud_id"
	cookieOAuthState  = "jira_oauth_state"
)

// credentialsFromRequest reads the stored jira credentials. The second return
// is false when either cookie is missing.
func credentialsFromRequest(r *http.Request) (service.Credentials, bool) {
	token, err := r.Cookie(cookieAccessToken)
	if err != nil || token.Value == "" {
		return service.Credentials{}, false
	}

	cloudID, err := r.Cookie(cookieCloudID)
	if err != nil || cloudID.Value == "" {
		return service.Credentials{}, false
	}

	return service.Credentials{
		AccessToken: token.Value,
		CloudID:     cloudID.Value,
	}, true
}

func (s *Server) setStateCookie(w http.ResponseWriter, state string) {
	http.SetCookie(w, &http.Cookie{
		Name:     cookieOAuthState,
		Value:    state,
		Path:     "/",
		MaxAge:   int(s.cfg.StateCookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Server) setCredentialCookies(w http.ResponseWriter, accessToken, cloudID string) {
	maxAge := int(s.cfg.TokenCookieTTL.Seconds())

	http.SetCookie(w, &http.Cookie{
		Name:     cookieAccessToken,
		Value:    accessToken,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     cookieCloudID,
		Value:    cloudID,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearCookie(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}
