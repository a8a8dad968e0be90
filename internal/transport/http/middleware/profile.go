package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lfriedrich2/4gewinnt/pkg/auth"
	"github.com/lfriedrich2/4gewinnt/pkg/httputil"
	"github.com/lfriedrich2/4gewinnt/pkg/uid"
)

// ProfileMiddleware identifies the browser by its signed profile cookie. A
// missing or invalid token gets a fresh profile and cookie, so every request
// after it carries httputil.ProfileIDKey.
func ProfileMiddleware(issuer *auth.TokenIssuer, secureCookie bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, err := httputil.GetTokenFromRequest(c.Request); err == nil {
			claims, err := issuer.ValidateProfileToken(token)
			if err == nil {
				c.Set(httputil.ProfileIDKey, claims.ProfileID)
				c.Next()
				return
			}
			log.Printf("[PROFILE] Rejected profile token: %v", err)
		}

		profileID, err := uid.GenerateProfileID()
		if err != nil {
			log.Printf("[PROFILE] Failed to generate profile ID: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile"})
			return
		}
		token, err := issuer.GenerateProfileToken(profileID)
		if err != nil {
			log.Printf("[PROFILE] Failed to sign profile token: %v", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create profile"})
			return
		}

		httputil.SetProfileCookie(c.Writer, token, issuer.TTL(), secureCookie)
		log.Printf("[PROFILE] Issued new profile %.8s", profileID)

		c.Set(httputil.ProfileIDKey, profileID)
		c.Next()
	}
}
