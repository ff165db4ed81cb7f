package controller

import (
	"zenda_backend/internal/service"
	"zenda_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService *service.CourseService
}

func NewCourseController(courseService *service.CourseService) *CourseController {
	return &CourseController{CourseService: courseService}
}

// @Summary 课程列表
// @Description 返回已上架课程，登录用户附带报名状态
// @Tags 课程
// @Produce json
// @Success 200 {object} util.Response{data=[]service.CourseView}
// @Router /api/course/course [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	courses, err := c.CourseService.ListCourses(util.GetUserFromContext(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// @Summary 课程详情
// @Tags 课程
// @Produce json
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseDetail}
// @Failure 404 {object} util.Response
// @Router /api/course/course/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	course, err := c.CourseService.GetCourse(util.GetUserFromContext(ctx), id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// @Summary 免费课时
// @Tags 课程
// @Produce json
// @Success 200 {object} util.Response{data=[]service.LessonView}
// @Router /api/course/course/free-lesson [get]
func (c *CourseController) FreeLessons(ctx *gin.Context) {
	lessons, err := c.CourseService.FreeLessons(util.GetUserFromContext(ctx))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// @Summary 课时列表
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Param course query int false "课程ID"
// @Success 200 {object} util.Response{data=[]service.LessonView}
// @Router /api/course/lesson [get]
func (c *CourseController) ListLessons(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	courseID, ok := queryID(ctx, "course")
	if !ok {
		return
	}
	lessons, err := c.CourseService.ListLessons(user, courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// @Summary 课时详情
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Param id path int true "课时ID"
// @Success 200 {object} util.Response{data=service.LessonView}
// @Failure 404 {object} util.Response
// @Router /api/course/lesson/{id} [get]
func (c *CourseController) GetLesson(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	lesson, err := c.CourseService.GetLesson(user, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary 标记课时完成
// @Description 需要免费课时或有效报名
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Param id path int true "课时ID"
// @Success 200 {object} util.Response{data=model.Progress}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/course/lesson/{id}/mark-completed [post]
func (c *CourseController) MarkCompleted(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	progress, err := c.CourseService.MarkCompleted(user.UserID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}

// @Summary 学习进度
// @Tags 课程
// @Produce json
// @Security BearerAuth
// @Param course query int false "课程ID"
// @Success 200 {object} util.Response{data=[]model.Progress}
// @Router /api/course/progress [get]
func (c *CourseController) ListProgress(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	courseID, ok := queryID(ctx, "course")
	if !ok {
		return
	}
	progress, err := c.CourseService.ListProgress(user.UserID, courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, progress)
}
