package handlers

import (
	"net/http"
	"strings"

	"task-tracker/internal/middleware"
	"task-tracker/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db      *gorm.DB
	auth    services.AuthService
	workers services.WorkerService

	sessionMaxAge int
	secureCookie  bool
}

type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

func NewAuthHandler(db *gorm.DB, auth services.AuthService, workers services.WorkerService, sessionMaxAge int, secureCookie bool) *AuthHandler {
	return &AuthHandler{
		db:            db,
		auth:          auth,
		workers:       workers,
		sessionMaxAge: sessionMaxAge,
		secureCookie:  secureCookie,
	}
}

// LoginPrompt handles GET /login/, the target of the unauthenticated
// redirect. It tells API clients how to authenticate and echoes the
// preserved next path.
func (h *AuthHandler) LoginPrompt(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message": "POST your username and password here to start a session",
		"next":    safeNext(c.Query("next")),
	})
}

// Login handles POST /login/. On success it sets the session cookie and
// redirects to ?next= (the path preserved by the login gate) or the
// dashboard.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	worker, err := h.auth.Login(h.db, strings.TrimSpace(req.Username), req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
		return
	}

	token, err := h.auth.IssueSession(worker)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
		return
	}

	h.setSessionCookie(c, token, h.sessionMaxAge)
	c.Redirect(http.StatusSeeOther, safeNext(c.Query("next")))
}

// Logout handles POST /logout/: drop the cookie, back to the login page.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.Redirect(http.StatusSeeOther, "/login/")
}

// Register handles POST /register/: worker self-registration with an
// immediate session.
func (h *AuthHandler) Register(c *gin.Context) {
	var input services.WorkerInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	worker, err := h.workers.Create(h.db, input)
	if err != nil {
		respondError(c, err)
		return
	}

	token, err := h.auth.IssueSession(&worker)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to start session"})
		return
	}

	h.setSessionCookie(c, token, h.sessionMaxAge)
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.secureCookie, true)
}

// safeNext keeps the post-login redirect on this site.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}
