package handler

import (
	"net/http"

	"expoflow/internal/middleware"
	"expoflow/internal/permission"
	"expoflow/internal/service"
	"expoflow/pkg/pagination"
	"expoflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type ExhibitionHandler struct {
	exhibitionService service.ExhibitionService
	approvalService   service.ApprovalService
}

func NewExhibitionHandler(exhibitionService service.ExhibitionService, approvalService service.ApprovalService) *ExhibitionHandler {
	return &ExhibitionHandler{exhibitionService: exhibitionService, approvalService: approvalService}
}

// RegisterRoutes mounts exhibition routes. The :id segment accepts either
// the exhibition id or its code, except on PUT which takes the id.
func (h *ExhibitionHandler) RegisterRoutes(router *gin.RouterGroup) {
	exhibitions := router.Group("/exhibitions")
	{
		exhibitions.GET("", middleware.RequirePermission(permission.ExhibitionRead), h.ListExhibitions)
		exhibitions.GET("/:id", middleware.RequirePermission(permission.ExhibitionRead), h.GetExhibition)
		exhibitions.POST("", middleware.RequirePermission(permission.ExhibitionCreate), h.CreateExhibition)
		exhibitions.PUT("/:id", middleware.RequirePermission(permission.ExhibitionUpdate), h.UpdateExhibition)
		exhibitions.GET("/:id/products", middleware.RequirePermission(permission.ExhibitionRead), h.ListExhibitionProducts)
		exhibitions.POST("/:id/products", middleware.RequirePermission(permission.ExhibitionUpdate), h.AddExhibitionProducts)
		exhibitions.GET("/:id/products/approved", middleware.RequirePermission(permission.ApprovalRead), h.ListApprovedProducts)
	}
}

// ListExhibitions returns a paginated list of exhibitions
// @Summary      List exhibitions
// @Tags         exhibitions
// @Security     BearerAuth
// @Produce      json
// @Param        page    query     int     false  "Page number (default 1)"
// @Param        limit   query     int     false  "Number of items per page (default 20)"
// @Param        status  query     string  false  "Filter by status (PLANNING, ACTIVE, COMPLETED)"
// @Success      200     {object}  response.Response{data=[]model.Exhibition,meta=pagination.Meta}
// @Router       /api/exhibitions [get]
func (h *ExhibitionHandler) ListExhibitions(c *gin.Context) {
	exhibitions, err := h.exhibitionService.ListExhibitions(c.Request.Context(), currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	if status := c.Query("status"); status != "" {
		kept := exhibitions[:0]
		for _, e := range exhibitions {
			if e.Status == status {
				kept = append(kept, e)
			}
		}
		exhibitions = kept
	}

	page, meta := pagination.Slice(exhibitions, pagination.Parse(c))
	c.JSON(http.StatusOK, response.Paged(page, meta))
}

// GetExhibition looks an exhibition up by id or code
// @Summary      Get exhibition
// @Tags         exhibitions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Exhibition ID or code"
// @Success      200  {object}  response.Response{data=model.Exhibition}
// @Failure      404  {object}  response.Response
// @Router       /api/exhibitions/{id} [get]
func (h *ExhibitionHandler) GetExhibition(c *gin.Context) {
	exhibition, err := h.exhibitionService.GetExhibition(c.Request.Context(), currentActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, exhibition))
}

// CreateExhibition creates an exhibition with optional initial products
// @Summary      Create exhibition
// @Description  Creates an exhibition. Initial products are linked as pending.
// @Tags         exhibitions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateExhibitionRequest  true  "Create Exhibition Payload"
// @Success      201      {object}  response.Response{data=service.ExhibitionDetail}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/exhibitions [post]
func (h *ExhibitionHandler) CreateExhibition(c *gin.Context) {
	var req service.CreateExhibitionRequest
	if !bindJSON(c, &req) {
		return
	}

	detail, err := h.exhibitionService.CreateExhibition(c.Request.Context(), currentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, detail))
}

// UpdateExhibition merges the supplied fields. The code cannot change.
// @Summary      Update exhibition
// @Tags         exhibitions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                           true  "Exhibition ID"
// @Param        payload  body      service.UpdateExhibitionRequest  true  "Update Exhibition Payload"
// @Success      200      {object}  response.Response{data=model.Exhibition}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/exhibitions/{id} [put]
func (h *ExhibitionHandler) UpdateExhibition(c *gin.Context) {
	var req service.UpdateExhibitionRequest
	if !bindJSON(c, &req) {
		return
	}

	exhibition, err := h.exhibitionService.UpdateExhibition(c.Request.Context(), currentActor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, exhibition))
}

// ListExhibitionProducts returns every product link of an exhibition
// @Summary      List exhibition products
// @Tags         exhibitions
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Exhibition ID or code"
// @Success      200  {object}  response.Response{data=[]model.ExhibitionProduct}
// @Failure      404  {object}  response.Response
// @Router       /api/exhibitions/{id}/products [get]
func (h *ExhibitionHandler) ListExhibitionProducts(c *gin.Context) {
	links, err := h.exhibitionService.ListExhibitionProducts(c.Request.Context(), currentActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, links))
}

// AddExhibitionProducts links more products, each starting pending
// @Summary      Add exhibition products
// @Tags         exhibitions
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                                true  "Exhibition ID or code"
// @Param        payload  body      service.AddExhibitionProductsRequest  true  "Products to link"
// @Success      201      {object}  response.Response{data=[]model.ExhibitionProduct}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      409      {object}  response.Response
// @Router       /api/exhibitions/{id}/products [post]
func (h *ExhibitionHandler) AddExhibitionProducts(c *gin.Context) {
	var req service.AddExhibitionProductsRequest
	if !bindJSON(c, &req) {
		return
	}

	links, err := h.exhibitionService.AddExhibitionProducts(c.Request.Context(), currentActor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, links))
}

func (h *ExhibitionHandler) ListApprovedProducts(c *gin.Context) {
	links, err := h.approvalService.ListApproved(c.Request.Context(), currentActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, links))
}
