package controller

import (
	"zenda_backend/internal/service"
	"zenda_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	EnrollmentService *service.EnrollmentService
}

func NewEnrollmentController(enrollmentService *service.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{EnrollmentService: enrollmentService}
}

// @Summary 我的报名
// @Tags 报名
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]model.Enrollment}
// @Router /api/course/enrollment [get]
func (c *EnrollmentController) List(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	enrollments, err := c.EnrollmentService.List(user.UserID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, enrollments)
}

// @Summary 报名课程
// @Description 新报名状态为 pending，重复报名返回400
// @Tags 报名
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.EnrollRequest true "课程"
// @Success 201 {object} util.Response{data=model.Enrollment}
// @Failure 400 {object} util.Response
// @Router /api/course/enrollment [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req service.EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	enrollment, err := c.EnrollmentService.Enroll(user.UserID, req.CourseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, enrollment)
}

// @Summary 报名详情
// @Tags 报名
// @Produce json
// @Security BearerAuth
// @Param id path int true "报名ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 404 {object} util.Response
// @Router /api/course/enrollment/{id} [get]
func (c *EnrollmentController) Get(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	enrollment, err := c.EnrollmentService.Get(user.UserID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}

// @Summary 课程测验成绩汇总
// @Description 仅统计已完成的测验，course_passed 表示平均分达到阈值
// @Tags 报名
// @Produce json
// @Security BearerAuth
// @Param id path int true "报名ID"
// @Success 200 {object} util.Response{data=service.CourseQuizReport}
// @Failure 404 {object} util.Response
// @Router /api/course/enrollment/{id}/quiz-results [get]
func (c *EnrollmentController) QuizResults(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	report, err := c.EnrollmentService.QuizResults(ctx.Request.Context(), user.UserID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// @Summary 重修课程
// @Description 清空该课程的学习进度、测验与考试记录，报名状态不变
// @Tags 报名
// @Produce json
// @Security BearerAuth
// @Param id path int true "报名ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Failure 404 {object} util.Response
// @Router /api/course/enrollment/{id}/retake-course [post]
func (c *EnrollmentController) RetakeCourse(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	enrollment, err := c.EnrollmentService.RetakeCourse(ctx.Request.Context(), user.UserID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"message":    "course progress reset",
		"enrollment": enrollment,
	})
}

// ---- 管理端 ----

// @Summary 报名列表(管理)
// @Tags 管理-报名
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending/active/cancelled"
// @Param course query int false "课程ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页条数" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/course/admin/enrollments [get]
func (c *EnrollmentController) AdminList(ctx *gin.Context) {
	courseID, ok := queryID(ctx, "course")
	if !ok {
		return
	}
	page, limit := pagination(ctx)
	enrollments, total, err := c.EnrollmentService.ListAll(ctx.Query("status"), courseID, page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Page(ctx, enrollments, total, page, limit)
}

// @Summary 报名详情(管理)
// @Tags 管理-报名
// @Produce json
// @Security BearerAuth
// @Param id path int true "报名ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Router /api/course/admin/enrollments/{id} [get]
func (c *EnrollmentController) AdminGet(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	enrollment, err := c.EnrollmentService.AdminGet(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}

// @Summary 审核通过报名
// @Tags 管理-报名
// @Produce json
// @Security BearerAuth
// @Param id path int true "报名ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Router /api/course/admin/enrollments/{id}/approve [post]
func (c *EnrollmentController) Approve(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	enrollment, err := c.EnrollmentService.Approve(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}

// @Summary 取消报名
// @Tags 管理-报名
// @Produce json
// @Security BearerAuth
// @Param id path int true "报名ID"
// @Success 200 {object} util.Response{data=model.Enrollment}
// @Router /api/course/admin/enrollments/{id}/cancel [post]
func (c *EnrollmentController) Cancel(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	enrollment, err := c.EnrollmentService.Cancel(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, enrollment)
}

// @Summary 删除报名
// @Tags 管理-报名
// @Security BearerAuth
// @Param id path int true "报名ID"
// @Success 204
// @Router /api/course/admin/enrollments/{id} [delete]
func (c *EnrollmentController) AdminDelete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.EnrollmentService.Delete(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.NoContent(ctx)
}
