package middleware

import (
	"net/http"
	"net/url"

	"task-tracker/internal/models"
	"task-tracker/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SessionCookie holds the signed session token.
const SessionCookie = "tracker_session"

const workerContextKey = "current_worker"

// RequireLogin resolves the session cookie to a worker and stores it in the
// request context. Unauthenticated requests are redirected to the login page
// with the original path preserved in ?next= for the post-login return.
func RequireLogin(db *gorm.DB, auth services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			redirectToLogin(c)
			return
		}

		worker, err := auth.ResolveSession(db, token)
		if err != nil {
			redirectToLogin(c)
			return
		}

		SetCurrentWorker(c, worker)
		c.Next()
	}
}

// SetCurrentWorker stores the authenticated worker in the request context.
// Exposed for handler tests that bypass the login gate.
func SetCurrentWorker(c *gin.Context, worker *models.Worker) {
	c.Set(workerContextKey, worker)
}

// CurrentWorker returns the worker set by RequireLogin.
func CurrentWorker(c *gin.Context) (*models.Worker, bool) {
	value, exists := c.Get(workerContextKey)
	if !exists {
		return nil, false
	}
	worker, ok := value.(*models.Worker)
	return worker, ok
}

func redirectToLogin(c *gin.Context) {
	next := url.QueryEscape(c.Request.URL.RequestURI())
	c.Redirect(http.StatusFound, "/login/?next="+next)
	c.Abort()
}
