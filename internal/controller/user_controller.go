package controller

import (
	"zenda_backend/internal/service"
	"zenda_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// UserController 处理用户管理相关的HTTP请求
type UserController struct {
	UserService *service.UserService
}

// NewUserController 创建一个新的用户控制器实例
func NewUserController(userService *service.UserService) *UserController {
	return &UserController{
		UserService: userService,
	}
}

// GetUsers godoc
// @Summary 获取用户列表
// @Description 获取用户列表，支持分页和按邮箱/用户名搜索
// @Tags 用户管理
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页条数" default(20)
// @Param   search query string false "搜索关键词"
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Failure 500 {object} util.Response "服务器内部错误"
// @Router /api/course/admin/users [get]
func (c *UserController) GetUsers(ctx *gin.Context) {
	page, limit := pagination(ctx)
	users, total, err := c.UserService.List(ctx.Query("search"), page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Page(ctx, users, total, page, limit)
}

// GetUser godoc
// @Summary 获取单个用户信息
// @Tags 用户管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/course/admin/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	user, err := c.UserService.Get(id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

// ToggleStaff godoc
// @Summary 切换员工权限
// @Description 仅超级管理员可用，不能修改自己
// @Tags 用户管理
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=model.User} "成功"
// @Failure 403 {object} util.Response "无权限"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /api/course/admin/users/{id}/toggle-staff [post]
func (c *UserController) ToggleStaff(ctx *gin.Context) {
	actor, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	user, err := c.UserService.ToggleStaff(actor, id)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, user)
}
