package controller

import (
	"zenda_backend/internal/service"
	"zenda_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// QuestionController 题库与选项管理
type QuestionController struct {
	QuestionService *service.QuestionService
}

func NewQuestionController(questionService *service.QuestionService) *QuestionController {
	return &QuestionController{QuestionService: questionService}
}

// @Summary 题目列表
// @Tags 管理-题库
// @Produce json
// @Security BearerAuth
// @Param search query string false "搜索题干"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页条数" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/course/admin/questions [get]
func (c *QuestionController) List(ctx *gin.Context) {
	page, limit := pagination(ctx)
	questions, total, err := c.QuestionService.List(ctx.Query("search"), page, limit)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Page(ctx, questions, total, page, limit)
}

// @Summary 题目详情
// @Tags 管理-题库
// @Produce json
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Success 200 {object} util.Response{data=model.Question}
// @Router /api/course/admin/questions/{id} [get]
func (c *QuestionController) Get(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	question, err := c.QuestionService.Get(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// @Summary 创建题目
// @Tags 管理-题库
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.QuestionRequest true "题目，可带选项"
// @Success 201 {object} util.Response{data=model.Question}
// @Router /api/course/admin/questions [post]
func (c *QuestionController) Create(ctx *gin.Context) {
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	question, err := c.QuestionService.Create(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, question)
}

// @Summary 更新题目
// @Tags 管理-题库
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Param body body service.QuestionRequest true "题目"
// @Success 200 {object} util.Response{data=model.Question}
// @Router /api/course/admin/questions/{id} [put]
func (c *QuestionController) Update(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.QuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	question, err := c.QuestionService.Update(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// @Summary 删除题目
// @Description 同时移除其在测验与考试中的关联
// @Tags 管理-题库
// @Security BearerAuth
// @Param id path int true "题目ID"
// @Success 204
// @Router /api/course/admin/questions/{id} [delete]
func (c *QuestionController) Delete(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.QuestionService.Delete(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.NoContent(ctx)
}

// @Summary 选项列表
// @Tags 管理-题库
// @Produce json
// @Security BearerAuth
// @Param question query int false "题目ID"
// @Success 200 {object} util.Response{data=[]model.Choice}
// @Router /api/course/admin/choices [get]
func (c *QuestionController) ListChoices(ctx *gin.Context) {
	questionID, ok := queryID(ctx, "question")
	if !ok {
		return
	}
	choices, err := c.QuestionService.ListChoices(questionID)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, choices)
}

// @Summary 选项详情
// @Tags 管理-题库
// @Produce json
// @Security BearerAuth
// @Param id path int true "选项ID"
// @Success 200 {object} util.Response{data=model.Choice}
// @Router /api/course/admin/choices/{id} [get]
func (c *QuestionController) GetChoice(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	choice, err := c.QuestionService.GetChoice(id)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, choice)
}

// @Summary 创建选项
// @Tags 管理-题库
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.ChoiceRequest true "选项"
// @Success 201 {object} util.Response{data=model.Choice}
// @Router /api/course/admin/choices [post]
func (c *QuestionController) CreateChoice(ctx *gin.Context) {
	var req service.ChoiceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	choice, err := c.QuestionService.CreateChoice(req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, choice)
}

// @Summary 更新选项
// @Tags 管理-题库
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "选项ID"
// @Param body body service.ChoiceRequest true "选项"
// @Success 200 {object} util.Response{data=model.Choice}
// @Router /api/course/admin/choices/{id} [put]
func (c *QuestionController) UpdateChoice(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	var req service.ChoiceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	choice, err := c.QuestionService.UpdateChoice(id, req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, choice)
}

// @Summary 删除选项
// @Tags 管理-题库
// @Security BearerAuth
// @Param id path int true "选项ID"
// @Success 204
// @Router /api/course/admin/choices/{id} [delete]
func (c *QuestionController) DeleteChoice(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}
	if err := c.QuestionService.DeleteChoice(id); err != nil {
		respondError(ctx, err)
		return
	}
	util.NoContent(ctx)
}
