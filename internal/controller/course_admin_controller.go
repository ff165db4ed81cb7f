package controller

import (
	"zenda_backend/internal/service"
	"zenda_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// 课程与课时的管理接口，挂在 StaffMiddleware 之后

// @Summary 课程列表(管理)
// @Description 包含未上架课程
// @Tags 管理-课程
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=[]service.CourseView}
// @Router /api/course/admin/courses [get]
func (c *CourseController) AdminListCourses(ctx *gin.Context) {
	courses, err := c.CourseService.AdminListCourses()
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, courses)
}

// @Summary 课程详情(管理)
// @Tags 管理-课程
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 200 {object} util.Response{data=service.CourseDetail}
// @Router /api/course/admin/courses/{id} [get]
func (c *CourseController) AdminGetCourse(ctx *gin.Context) {
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

// @Summary 创建课程
// @Description slug 为空时由标题生成
// @Tags 管理-课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CourseRequest true "课程"
// @Success 201 {object} util.Response{data=model.Course}
// @Router /api/course/admin/courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	course, err := c.CourseService.CreateCourse(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, course)
}

// @Summary 更新课程
// @Tags 管理-课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Param body body service.CourseRequest true "课程"
// @Success 200 {object} util.Response{data=model.Course}
// @Router /api/course/admin/courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	course, err := c.CourseService.UpdateCourse(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, course)
}

// @Summary 删除课程
// @Description 级联删除课时、测验、考试、报名与学习记录
// @Tags 管理-课程
// @Security BearerAuth
// @Param id path int true "课程ID"
// @Success 204
// @Router /api/course/admin/courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.CourseService.DeleteCourse(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.NoContent(ctx)
}

// @Summary 课时列表(管理)
// @Tags 管理-课程
// @Produce json
// @Security BearerAuth
// @Param course query int false "课程ID"
// @Success 200 {object} util.Response{data=[]service.LessonView}
// @Router /api/course/admin/lessons [get]
func (c *CourseController) AdminListLessons(ctx *gin.Context) {
	courseID, ok := queryID(ctx, "course")
	if !ok {
		return
	}
	lessons, err := c.CourseService.ListLessons(nil, courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lessons)
}

// @Summary 课时详情(管理)
// @Tags 管理-课程
// @Produce json
// @Security BearerAuth
// @Param id path int true "课时ID"
// @Success 200 {object} util.Response{data=service.LessonView}
// @Router /api/course/admin/lessons/{id} [get]
func (c *CourseController) AdminGetLesson(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	lesson, err := c.CourseService.GetLesson(nil, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary 创建课时
// @Tags 管理-课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.LessonRequest true "课时"
// @Success 201 {object} util.Response{data=model.Lesson}
// @Router /api/course/admin/lessons [post]
func (c *CourseController) CreateLesson(ctx *gin.Context) {
	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	lesson, err := c.CourseService.CreateLesson(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, lesson)
}

// @Summary 更新课时
// @Tags 管理-课程
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "课时ID"
// @Param body body service.LessonRequest true "课时"
// @Success 200 {object} util.Response{data=model.Lesson}
// @Router /api/course/admin/lessons/{id} [put]
func (c *CourseController) UpdateLesson(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.LessonRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	lesson, err := c.CourseService.UpdateLesson(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, lesson)
}

// @Summary 删除课时
// @Tags 管理-课程
// @Security BearerAuth
// @Param id path int true "课时ID"
// @Success 204
// @Router /api/course/admin/lessons/{id} [delete]
func (c *CourseController) DeleteLesson(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.CourseService.DeleteLesson(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.NoContent(ctx)
}
