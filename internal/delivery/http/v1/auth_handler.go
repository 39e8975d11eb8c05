package v1

import (
	"net/http"
	"strings"

	"profolio-backend/internal/delivery/http/response"
	"profolio-backend/internal/domain"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authUC domain.AuthUsecase
}

func NewAuthHandler(r *gin.RouterGroup, authUC domain.AuthUsecase) {
	handler := &AuthHandler{authUC: authUC}

	auth := r.Group("/auth")
	{
		auth.POST("/session", handler.SignIn)
		auth.DELETE("/session", handler.SignOut)
		auth.GET("/me", handler.Me)
	}
}

// SignIn godoc
// @Summary      Sync a provider sign-in
// @Description  Ensures a profile exists for the verified identity and caches the session. Idempotent.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      401  {object}  response.Response
// @Router       /auth/session [post]
// @Security     BearerAuth
func (h *AuthHandler) SignIn(c *gin.Context) {
	identity := domain.Identity{
		ID:    c.GetString(string(domain.KeyUserID)),
		Email: c.GetString(string(domain.KeyUserEmail)),
		Name:  c.GetString(string(domain.KeyUserName)),
	}

	profile, err := h.authUC.EnsureProfileExists(c.Request.Context(), identity)
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Signed in", profile)
}

// SignOut godoc
// @Summary      Sign out
// @Description  Clears the cached session, then confirms sign-out with the identity provider
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Router       /auth/session [delete]
// @Security     BearerAuth
func (h *AuthHandler) SignOut(c *gin.Context) {
	token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")

	if err := h.authUC.SignOut(c.Request.Context(), token); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Signed out", nil)
}

// Me godoc
// @Summary      Get the signed-in user
// @Description  Returns the current identity's profile, preferring the session cache
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response{data=domain.Profile}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := h.authUC.CurrentProfile(c.Request.Context())
	if err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, "Current user", profile)
}
