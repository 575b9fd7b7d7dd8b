package handler

import (
	"net/http"

	"expoflow/internal/middleware"
	"expoflow/internal/permission"
	"expoflow/internal/service"
	"expoflow/pkg/response"

	"github.com/gin-gonic/gin"
)

type StatisticsHandler struct {
	statisticsService service.StatisticsService
}

func NewStatisticsHandler(statisticsService service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{statisticsService: statisticsService}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup) {
	statsGroup := router.Group("/statistics")
	{
		statsGroup.GET("/exhibitions/:id", middleware.RequirePermission(permission.OrderRead), h.GetExhibitionStatistics)
	}
}

// @Summary      Get exhibition statistics
// @Description  Review progress, order counts by status and top ordered products
// @Tags         statistics
// @Produce      json
// @Param        id   path      string  true  "Exhibition ID or code"
// @Success      200  {object}  response.Response{data=model.ExhibitionStatistics}
// @Failure      401  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Security     BearerAuth
// @Router       /api/statistics/exhibitions/{id} [get]
func (h *StatisticsHandler) GetExhibitionStatistics(c *gin.Context) {
	stats, err := h.statisticsService.GetExhibitionStatistics(c.Request.Context(), currentActor(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(http.StatusOK, stats))
}
