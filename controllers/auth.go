package controllers

import (
	"context"
	"net/http"
	"time"

	"invoices-dashboard-backend/services"
	"invoices-dashboard-backend/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Authenticator interface {
	Authenticate(ctx context.Context, creds services.Credentials) (*services.Session, string, error)
}

type AuthController struct {
	auth         Authenticator
	secureCookie bool
	logger       *zap.Logger
}

func NewAuthController(auth Authenticator, secureCookie bool, logger *zap.Logger) *AuthController {
	return &AuthController{auth: auth, secureCookie: secureCookie, logger: logger}
}

// Login signs in with email and password and sets the session cookie.
func (ac *AuthController) Login(c *gin.Context) {
	var input services.Credentials
	if err := c.ShouldBind(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input")
		return
	}

	session, message, err := ac.auth.Authenticate(c.Request.Context(), input)
	if err != nil {
		ac.logger.Error("Login failed", zap.Error(err))
		utils.RespondWithError(c, http.StatusInternalServerError, "Login failed")
		return
	}
	if message != "" {
		utils.RespondWithError(c, http.StatusUnauthorized, message)
		return
	}

	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	c.SetCookie(utils.TokenCookie, session.Token, maxAge, "/", "", ac.secureCookie, true)

	c.JSON(http.StatusOK, gin.H{
		"token":     session.Token,
		"userId":    session.UserID,
		"expiresAt": session.ExpiresAt,
	})
}
