package http

import (
	"log"
	"net/http"
	"strings"
	"time"

	"caseshop/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	RequestIDHeader = "X-Request-ID"
	SessionCookie   = "access_token"

	requestIDKey = "requestID"
	sessionKey   = "session"
)

// RequestID tags every request with an id and writes one access-log line.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		start := time.Now()
		c.Next()

		log.Printf("[%s] %s %s %d %s", id, c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// Authenticate parses the caller's token, when there is one, into an
// auth.Session on the context. Invalid tokens leave the request anonymous.
func Authenticate(v *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token != "" {
			sess, err := v.Verify(token)
			if err == nil {
				c.Set(sessionKey, sess)
			} else {
				log.Printf("[%s] rejected session token: %v", c.GetString(requestIDKey), err)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}

// SessionFrom returns the request's session; the zero Session when anonymous.
func SessionFrom(c *gin.Context) auth.Session {
	if v, ok := c.Get(sessionKey); ok {
		if sess, ok := v.(auth.Session); ok {
			return sess
		}
	}
	return auth.Session{}
}

func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !SessionFrom(c).Complete() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "you need to be logged in"})
			return
		}
		c.Next()
	}
}

// RequireAdmin hides admin routes: anyone not on the allowlist gets 404.
func RequireAdmin(isAdmin func(email string) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)
		if !sess.Complete() || !isAdmin(sess.Email) {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.Next()
	}
}
