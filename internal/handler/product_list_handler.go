package handler

import (
	"net/http"

	"expoflow/internal/middleware"
	"expoflow/internal/permission"
	"expoflow/internal/service"
	"expoflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type ProductListHandler struct {
	productListService service.ProductListService
}

func NewProductListHandler(productListService service.ProductListService) *ProductListHandler {
	return &ProductListHandler{productListService: productListService}
}

func (h *ProductListHandler) RegisterRoutes(router *gin.RouterGroup) {
	lists := router.Group("/product-lists")
	{
		lists.GET("", middleware.RequirePermission(permission.ExhibitionRead), h.ListProductLists)
		lists.GET("/:id", middleware.RequirePermission(permission.ExhibitionRead), h.GetProductList)
		lists.POST("", middleware.RequirePermission(permission.ProductCreate), h.CreateProductList)
		// Capabilities depend on which fields are present; the service checks them.
		lists.PUT("/:id", h.UpdateProductList)
	}
}

// ListProductLists returns supplier manifests, optionally for one exhibition
// @Summary      List product lists
// @Tags         product-lists
// @Security     BearerAuth
// @Produce      json
// @Param        exhibition_code  query     string  false  "Exhibition code"
// @Success      200              {object}  response.Response{data=[]model.ProductList}
// @Router       /api/product-lists [get]
func (h *ProductListHandler) ListProductLists(c *gin.Context) {
	lists, err := h.productListService.ListProductLists(c.Request.Context(), currentActor(c), c.Query("exhibition_code"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, lists))
}

// GetProductList returns one list with its items
// @Summary      Get product list
// @Tags         product-lists
// @Security     BearerAuth
// @Produce      json
// @Param        id   path      string  true  "Product list ID"
// @Success      200  {object}  response.Response{data=model.ProductListWithItems}
// @Failure      404  {object}  response.Response
// @Router       /api/product-lists/{id} [get]
func (h *ProductListHandler) GetProductList(c *gin.Context) {
	list, err := h.productListService.GetProductList(c.Request.Context(), currentActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, list))
}

// CreateProductList records a supplier manifest
// @Summary      Create product list
// @Tags         product-lists
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateProductListRequest  true  "Create Product List Payload"
// @Success      201      {object}  response.Response{data=model.ProductListWithItems}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/product-lists [post]
func (h *ProductListHandler) CreateProductList(c *gin.Context) {
	var req service.CreateProductListRequest
	if !bindJSON(c, &req) {
		return
	}

	list, err := h.productListService.CreateProductList(c.Request.Context(), currentActor(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, list))
}

// UpdateProductList changes status and/or replaces the items
// @Summary      Update product list
// @Description  Replacing items needs product.update; changing status needs approval.approve.
// @Tags         product-lists
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                            true  "Product list ID"
// @Param        payload  body      service.UpdateProductListRequest  true  "Update Product List Payload"
// @Success      200      {object}  response.Response{data=model.ProductListWithItems}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/product-lists/{id} [put]
func (h *ProductListHandler) UpdateProductList(c *gin.Context) {
	var req service.UpdateProductListRequest
	if !bindJSON(c, &req) {
		return
	}

	list, err := h.productListService.UpdateProductList(c.Request.Context(), currentActor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, list))
}
