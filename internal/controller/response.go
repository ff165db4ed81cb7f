package controller

import (
	"errors"
	"net/http"
	"strconv"
	"zenda_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// respondError 将服务层错误映射为对应的 HTTP 状态码
func respondError(ctx *gin.Context, err error) {
	switch {
	case util.IsNotFound(err):
		util.NotFoundWithMessage(ctx, err.Error())
	case errors.Is(err, util.ErrAccessDenied),
		errors.Is(err, util.ErrEnrollmentRequired),
		errors.Is(err, util.ErrPermissionDenied):
		util.ForbiddenWithMessage(ctx, err.Error())
	case errors.Is(err, util.ErrSubmissionInProgress):
		util.Error(ctx, http.StatusConflict, err.Error())
	case errors.Is(err, util.ErrValidation),
		errors.Is(err, util.ErrAttemptLimitExceeded),
		errors.Is(err, util.ErrAlreadyEnrolled),
		errors.Is(err, util.ErrQuestionAlreadyAdded),
		errors.Is(err, util.ErrInvalidStatus):
		util.BadRequest(ctx, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}

// pathID 解析路径中的数字ID，失败时直接返回400
func pathID(ctx *gin.Context, name string) (uint, bool) {
	id, ok := util.ParseUintParam(ctx.Param(name))
	if !ok {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return id, true
}

// queryID 读取可选的数字过滤参数，缺省为 0
func queryID(ctx *gin.Context, name string) (uint, bool) {
	raw := ctx.Query(name)
	if raw == "" {
		return 0, true
	}
	id, ok := util.ParseUintParam(raw)
	if !ok {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return id, true
}

func pagination(ctx *gin.Context) (int, int) {
	page, err := strconv.Atoi(ctx.DefaultQuery("page", strconv.Itoa(util.DefaultPage)))
	if err != nil || page < 1 {
		page = util.DefaultPage
	}
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(util.DefaultPageSize)))
	if err != nil || limit < 1 {
		limit = util.DefaultPageSize
	}
	if limit > util.MaxPageSize {
		limit = util.MaxPageSize
	}
	return page, limit
}

func currentUser(ctx *gin.Context) (*util.Claims, bool) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return nil, false
	}
	return user, true
}
