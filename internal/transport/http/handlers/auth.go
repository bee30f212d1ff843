package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fahim-cse12/AutoDiagon/internal/core/domain"
	"github.com/fahim-cse12/AutoDiagon/internal/usecase"
)

// AuthHandler exposes authentication endpoints.
type AuthHandler struct {
	auth *usecase.AuthService
}

// NewAuthHandler constructs AuthHandler.
func NewAuthHandler(auth *usecase.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRoutes binds authentication routes onto the group.
func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/login", h.login)
	r.POST("/register", h.register)
	r.GET("/ConfirmEmail", h.confirmEmail)
}

// login authenticates a user and returns a session token. Malformed, absent
// or null bodies map to a nil request so the missing-input response applies.
func (h *AuthHandler) login(c *gin.Context) {
	var req *usecase.Credentials
	decodeBody(c, &req)

	result := h.auth.Login(c.Request.Context(), req)
	writeResult(c, result)
}

// register creates a new user account and sends the confirmation mail.
func (h *AuthHandler) register(c *gin.Context) {
	var req *usecase.RegistrationRequest
	decodeBody(c, &req)

	result := h.auth.Register(c.Request.Context(), req)
	writeResult(c, result)
}

// confirmEmail redeems the token and email carried in the query string, as
// placed there by the mailed confirmation link.
func (h *AuthHandler) confirmEmail(c *gin.Context) {
	token := c.Query("token")
	email := c.Query("email")

	result := h.auth.ConfirmEmail(c.Request.Context(), token, email)
	writeResult(c, result)
}

// decodeBody decodes the request body into the given pointer. A body of
// literal null leaves the target nil, and a decode error resets it to nil,
// so callers hand the service a nil request in either case.
func decodeBody[T any](c *gin.Context, dst **T) {
	if err := json.NewDecoder(c.Request.Body).Decode(dst); err != nil {
		*dst = nil
	}
}

// writeResult maps the envelope's success flag onto the HTTP status; the
// envelope itself is always the body.
func writeResult(c *gin.Context, result domain.AuthResult) {
	if result.Success {
		c.JSON(http.StatusOK, result)
		return
	}
	c.JSON(http.StatusBadRequest, result)
}
