package controller

import (
	"zenda_backend/internal/service"
	"zenda_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// @Summary 获取课时测验
// @Description 学员看不到正确答案；返回上次成绩 previous_result
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param lesson_id path int true "课时ID"
// @Success 200 {object} util.Response{data=service.QuizView}
// @Failure 403 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/course/lesson-quiz/by-lesson/{lesson_id} [get]
func (c *QuizController) GetByLesson(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	lessonID, ok := pathID(ctx, "lesson_id")
	if !ok {
		return
	}
	quiz, err := c.QuizService.GetByLesson(ctx.Request.Context(), user, lessonID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// @Summary 测验详情
// @Tags 测验
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response{data=service.QuizView}
// @Router /api/course/lesson-quiz/{id} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	quiz, err := c.QuizService.Get(ctx.Request.Context(), user, id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// @Summary 提交测验
// @Description 重做会覆盖上次答案与成绩
// @Tags 测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Param body body service.SubmitRequest true "答案"
// @Success 200 {object} util.Response{data=service.QuizSubmission}
// @Failure 400 {object} util.Response
// @Failure 403 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/course/lesson-quiz/{id}/submit [post]
func (c *QuizController) Submit(ctx *gin.Context) {
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
	result, err := c.QuizService.Submit(ctx.Request.Context(), user.UserID, id, req.Answers)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// ---- 管理端 ----

// @Summary 测验列表(管理)
// @Tags 管理-测验
// @Produce json
// @Security BearerAuth
// @Param lesson query int false "课时ID"
// @Success 200 {object} util.Response{data=[]model.LessonQuiz}
// @Router /api/course/admin/lesson-quizzes [get]
func (c *QuizController) AdminList(ctx *gin.Context) {
	lessonID, ok := queryID(ctx, "lesson")
	if !ok {
		return
	}
	quizzes, err := c.QuizService.List(lessonID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, quizzes)
}

// @Summary 测验详情(管理)
// @Tags 管理-测验
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Success 200 {object} util.Response{data=model.LessonQuiz}
// @Router /api/course/admin/lesson-quizzes/{id} [get]
func (c *QuizController) AdminGet(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	quiz, err := c.QuizService.AdminGet(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// @Summary 创建测验
// @Tags 管理-测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.QuizRequest true "测验"
// @Success 201 {object} util.Response{data=model.LessonQuiz}
// @Router /api/course/admin/lesson-quizzes [post]
func (c *QuizController) Create(ctx *gin.Context) {
	var req service.QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	quiz, err := c.QuizService.Create(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, quiz)
}

// @Summary 更新测验
// @Tags 管理-测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Param body body service.QuizRequest true "测验"
// @Success 200 {object} util.Response{data=model.LessonQuiz}
// @Router /api/course/admin/lesson-quizzes/{id} [put]
func (c *QuizController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.QuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	quiz, err := c.QuizService.Update(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, quiz)
}

// @Summary 删除测验
// @Tags 管理-测验
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Success 204
// @Router /api/course/admin/lesson-quizzes/{id} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.QuizService.Delete(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.NoContent(ctx)
}

// @Summary 测验添加题目
// @Tags 管理-测验
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Param body body service.AddQuestionRequest true "题目"
// @Success 201 {object} util.Response{data=model.LessonQuizQuestion}
// @Router /api/course/admin/lesson-quizzes/{id}/add-question [post]
func (c *QuizController) AddQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.AddQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	link, err := c.QuizService.AddQuestion(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, link)
}

// @Summary 测验移除题目
// @Tags 管理-测验
// @Security BearerAuth
// @Param id path int true "测验ID"
// @Param question_id path int true "题目ID"
// @Success 204
// @Router /api/course/admin/lesson-quizzes/{id}/remove-question/{question_id} [delete]
func (c *QuizController) RemoveQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	questionID, ok := pathID(ctx, "question_id")
	if !ok {
		return
	}
	if err := c.QuizService.RemoveQuestion(id, questionID); err != nil {
		respondError(ctx, err)
		return
	}
	util.NoContent(ctx)
}
