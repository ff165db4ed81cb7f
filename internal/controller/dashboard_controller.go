package controller

import (
	"zenda_backend/internal/service"
	"zenda_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	StatsService *service.StatsService
}

func NewDashboardController(statsService *service.StatsService) *DashboardController {
	return &DashboardController{StatsService: statsService}
}

// @Summary 管理后台统计
// @Description 用户、课程、报名与测评提交的汇总数据
// @Tags 管理-统计
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=repository.AdminStats}
// @Router /api/course/admin/stats [get]
func (c *DashboardController) GetStats(ctx *gin.Context) {
	stats, err := c.StatsService.Dashboard()
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}
