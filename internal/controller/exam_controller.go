package controller

import (
	"zenda_backend/internal/service"
	"zenda_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	ExamService *service.ExamService
}

func NewExamController(examService *service.ExamService) *ExamController {
	return &ExamController{ExamService: examService}
}

// @Summary 获取课程期末考试
// @Description 需要有效报名；返回已用次数与剩余次数
// @Tags 考试
// @Produce json
// @Security BearerAuth
// @Param course_id path int true "课程ID"
// @Success 200 {object} util.Response{data=service.ExamView}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/course/final-exam/by-course/{course_id} [get]
func (c *ExamController) GetByCourse(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	courseID, ok := pathID(ctx, "course_id")
	if !ok {
		return
	}
	exam, err := c.ExamService.GetByCourse(ctx.Request.Context(), user, courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// @Summary 提交期末考试
// @Description 每次提交生成新的尝试记录，超过 max_attempts 返回400
// @Tags 考试
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Param body body service.SubmitRequest true "答案"
// @Success 200 {object} util.Response{data=service.ExamSubmission}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/course/final-exam/{id}/submit [post]
func (c *ExamController) Submit(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	result, err := c.ExamService.Submit(ctx.Request.Context(), user.UserID, id, req.Answers)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 考试尝试记录
// @Tags 考试
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Success 200 {object} util.Response{data=[]model.ExamResult}
// @Router /api/course/final-exam/{id}/attempts [get]
func (c *ExamController) ListAttempts(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	attempts, err := c.ExamService.ListAttempts(user.UserID, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, attempts)
}

// ---- 管理端 ----

// @Summary 考试列表(管理)
// @Tags 管理-考试
// @Produce json
// @Security BearerAuth
// @Param course query int false "课程ID"
// @Success 200 {object} util.Response{data=[]model.FinalExam}
// @Router /api/course/admin/final-exams [get]
func (c *ExamController) AdminList(ctx *gin.Context) {
	courseID, ok := queryID(ctx, "course")
	if !ok {
		return
	}
	exams, err := c.ExamService.List(courseID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, exams)
}

// @Summary 考试详情(管理)
// @Tags 管理-考试
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Success 200 {object} util.Response{data=model.FinalExam}
// @Router /api/course/admin/final-exams/{id} [get]
func (c *ExamController) AdminGet(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	exam, err := c.ExamService.AdminGet(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// @Summary 创建考试
// @Tags 管理-考试
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ExamRequest true "考试"
// @Success 201 {object} util.Response{data=model.FinalExam}
// @Router /api/course/admin/final-exams [post]
func (c *ExamController) Create(ctx *gin.Context) {
	var req service.ExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	exam, err := c.ExamService.Create(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, exam)
}

// @Summary 更新考试
// @Tags 管理-考试
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Param body body service.ExamRequest true "考试"
// @Success 200 {object} util.Response{data=model.FinalExam}
// @Router /api/course/admin/final-exams/{id} [put]
func (c *ExamController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.ExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	exam, err := c.ExamService.Update(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, exam)
}

// @Summary 删除考试
// @Tags 管理-考试
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Success 204
// @Router /api/course/admin/final-exams/{id} [delete]
func (c *ExamController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.ExamService.Delete(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.NoContent(ctx)
}

// @Summary 考试添加题目
// @Tags 管理-考试
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Param body body service.AddQuestionRequest true "题目"
// @Success 201 {object} util.Response{data=model.FinalExamQuestion}
// @Router /api/course/admin/final-exams/{id}/add-question [post]
func (c *ExamController) AddQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.AddQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	link, err := c.ExamService.AddQuestion(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, link)
}

// @Summary 考试移除题目
// @Tags 管理-考试
// @Security BearerAuth
// @Param id path int true "考试ID"
// @Param question_id path int true "题目ID"
// @Success 204
// @Router /api/course/admin/final-exams/{id}/remove-question/{question_id} [delete]
func (c *ExamController) RemoveQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	questionID, ok := pathID(ctx, "question_id")
	if !ok {
		return
	}
	if err := c.ExamService.RemoveQuestion(id, questionID); err != nil {
		respondError(ctx, err)
		return
	}
	util.NoContent(ctx)
}
