package handler

import (
	"net/http"

	"expoflow/internal/middleware"
	"expoflow/internal/model"
	"expoflow/internal/permission"
	"expoflow/internal/service"
	"expoflow/pkg/pagination"
	"expoflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type ApprovalHandler struct {
	approvalService service.ApprovalService
}

func NewApprovalHandler(approvalService service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

func (h *ApprovalHandler) RegisterRoutes(router *gin.RouterGroup) {
	approvals := router.Group("/approvals")
	{
		approvals.GET("/pending", middleware.RequirePermission(permission.ApprovalRead), h.ListPending)
		approvals.PUT("/:id", middleware.RequirePermission(permission.ApprovalApprove), h.SetApproval)
		approvals.PUT("/:id/approve", middleware.RequirePermission(permission.ApprovalApprove), h.Approve)
		approvals.PUT("/:id/reject", middleware.RequirePermission(permission.ApprovalApprove), h.Reject)
	}
}

// ListPending returns exhibition product links still awaiting review
func (h *ApprovalHandler) ListPending(c *gin.Context) {
	pending, err := h.approvalService.ListPendingApprovals(c.Request.Context(), currentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}

	page, meta := pagination.Slice(pending, pagination.Parse(c))
	c.JSON(http.StatusOK, response.Paged(page, meta))
}

// SetApproval sets the review status from the request body
// @Summary      Review exhibition product
// @Description  Sets an exhibition product link to approved or rejected
// @Tags         approvals
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path      string                      true  "Exhibition product ID"
// @Param        payload  body      service.SetApprovalRequest  true  "Status payload"
// @Success      200      {object}  response.Response{data=model.ExhibitionProduct}
// @Failure      400      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Router       /api/approvals/{id} [put]
func (h *ApprovalHandler) SetApproval(c *gin.Context) {
	var req service.SetApprovalRequest
	if !bindJSON(c, &req) {
		return
	}
	h.setStatus(c, req)
}

// Approve approves a pending exhibition product
func (h *ApprovalHandler) Approve(c *gin.Context) {
	h.setStatus(c, service.SetApprovalRequest{Status: model.ApprovalApproved})
}

// Reject rejects a pending exhibition product
func (h *ApprovalHandler) Reject(c *gin.Context) {
	h.setStatus(c, service.SetApprovalRequest{Status: model.ApprovalRejected})
}

func (h *ApprovalHandler) setStatus(c *gin.Context, req service.SetApprovalRequest) {
	link, err := h.approvalService.SetApproval(c.Request.Context(), currentActor(c), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, link))
}
