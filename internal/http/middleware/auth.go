package middleware

import (
	"net/http"
	"strings"
	"time"

	"tsharaki/internal/session"

	"github.com/gin-gonic/gin"
)

const sessionKey = "auth_session"

// TokenVerifier checks a bearer token and returns the auth account id and
// expiry. The auth service implements it.
type TokenVerifier func(token string) (authID string, expiresAt time.Time, err error)

// Auth requires a valid bearer token and attaches the session snapshot to
// the request. A token the manager does not know yet (e.g. after a process
// restart) is adopted through the regular sign-in event path.
func Auth(verify TokenVerifier, sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			abortUnauthenticated(c, "authentication required")
			return
		}

		authID, expiresAt, err := verify(token)
		if err != nil {
			abortUnauthenticated(c, "invalid or expired token")
			return
		}

		sess, ok := sessions.Resolve(token)
		if !ok {
			sessions.Dispatch(session.Event{
				Kind:      session.EventSignedIn,
				Token:     token,
				AuthID:    authID,
				ExpiresAt: expiresAt,
			})
			sess, ok = sessions.Resolve(token)
			if !ok {
				abortUnauthenticated(c, "invalid or expired token")
				return
			}
		}

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// GetSession returns the session attached by Auth.
func GetSession(c *gin.Context) (session.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return session.Session{}, false
	}
	sess, ok := v.(session.Session)
	return sess, ok
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func abortUnauthenticated(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error":      msg,
		"code":       "unauthenticated",
		"request_id": GetRequestID(c),
	})
}
