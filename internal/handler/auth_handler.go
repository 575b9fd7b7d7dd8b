package handler

import (
	"net/http"

	"expoflow/internal/service"
	"expoflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	actorService service.ActorService
}

func NewAuthHandler(actorService service.ActorService) *AuthHandler {
	return &AuthHandler{actorService: actorService}
}

// RegisterPublicRoutes mounts routes that need no actor.
func (h *AuthHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.POST("/auth/token", h.IssueToken)
}

// RegisterRoutes mounts routes behind Authenticate.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/auth/me", h.Me)
	router.GET("/actors", h.ListActors)
}

// IssueToken issues a demo bearer token for a preloaded actor
// @Summary      Issue token
// @Description  Issues an HS256 token whose subject is the actor id. FOR DEMO USE ONLY.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.IssueTokenRequest  true  "Actor to impersonate"
// @Success      200      {object}  response.Response{data=service.TokenResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /api/auth/token [post]
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req service.IssueTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	tok, err := h.actorService.IssueToken(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, tok))
}

// Me returns the resolved actor
// @Summary      Get current actor
// @Tags         auth
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  response.Response{data=model.Actor}
// @Failure      401  {object}  response.Response
// @Router       /api/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, currentActor(c)))
}

func (h *AuthHandler) ListActors(c *gin.Context) {
	c.JSON(http.StatusOK, response.Success(http.StatusOK, h.actorService.ListActors(c.Request.Context())))
}
