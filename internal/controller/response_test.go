package controller

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"zenda_backend/internal/util"

	"github.com/gin-gonic/gin"
)

func TestRespondErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err  error
		want int
	}{
		{util.ErrQuizNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", util.ErrLessonNotFound), http.StatusNotFound},
		{util.ErrAccessDenied, http.StatusForbidden},
		{util.ErrEnrollmentRequired, http.StatusForbidden},
		{util.ErrPermissionDenied, http.StatusForbidden},
		{util.ErrAttemptLimitExceeded, http.StatusBadRequest},
		{fmt.Errorf("%w: title is required", util.ErrValidation), http.StatusBadRequest},
		{util.ErrAlreadyEnrolled, http.StatusBadRequest},
		{util.ErrSubmissionInProgress, http.StatusConflict},
		{errors.New("connection reset"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		ctx, _ := gin.CreateTestContext(w)
		ctx.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		respondError(ctx, tc.err)
		if w.Code != tc.want {
			t.Fatalf("%v: want=%d got=%d", tc.err, tc.want, w.Code)
		}
	}
}

func TestPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		query     string
		page, lim int
	}{
		{"", util.DefaultPage, util.DefaultPageSize},
		{"?page=3&limit=5", 3, 5},
		{"?page=-1&limit=abc", util.DefaultPage, util.DefaultPageSize},
		{"?limit=1000", util.DefaultPage, util.MaxPageSize},
	}
	for _, tc := range cases {
		ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
		ctx.Request = httptest.NewRequest(http.MethodGet, "/"+tc.query, nil)
		page, limit := pagination(ctx)
		if page != tc.page || limit != tc.lim {
			t.Fatalf("%q: want=%d/%d got=%d/%d", tc.query, tc.page, tc.lim, page, limit)
		}
	}
}
