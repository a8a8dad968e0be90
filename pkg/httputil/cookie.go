package httputil

import (
	"errors"
	"net/http"
	"time"
)

const ProfileCookieName = "c4_profile"

// SetProfileCookie stores the signed profile token. secure should be true when
// the site is served over HTTPS.
func SetProfileCookie(w http.ResponseWriter, token string, ttl time.Duration, secure bool) {
	cookie := &http.Cookie{
		Name:     ProfileCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(ttl.Seconds()),
		HttpOnly: true,
		Secure:   secure,
	}

	// SameSite=None requires Secure=true, so use Lax otherwise
	if secure {
		cookie.SameSite = http.SameSiteNoneMode
	} else {
		cookie.SameSite = http.SameSiteLaxMode
	}

	http.SetCookie(w, cookie)
}

// GetTokenFromRequest reads the profile token from the cookie, falling back to
// the Authorization header for non-browser clients.
func GetTokenFromRequest(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(ProfileCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		// Support "Bearer <token>" format
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			return authHeader[7:], nil
		}
		return authHeader, nil
	}

	return "", errors.New("no profile token found in cookie or header")
}
