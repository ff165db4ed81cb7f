package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"zenda_backend/internal/config"
	"zenda_backend/internal/middleware"
	"zenda_backend/internal/model"
	"zenda_backend/internal/testutil"
	"zenda_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const testSecret = "router-test-secret-router-test-secret"

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewDB(t)
	cfg := &config.Config{
		JWT:        config.JWTConfig{Secret: testSecret},
		Assessment: config.AssessmentConfig{CoursePassThreshold: 70, SubmissionLockSeconds: 5},
	}
	a := &App{Config: cfg, DB: db}
	repos := a.initRepositories(db, nil, cfg)
	services := a.initServices(repos, cfg)
	controllers := a.initControllers(services, db, nil)

	router := gin.New()
	router.Use(middleware.RequestID())
	a.registerRoutes(router, controllers, cfg)
	return &testServer{router: router, db: db}
}

func (s *testServer) token(t *testing.T, user *model.User) string {
	t.Helper()
	token, err := util.GenerateJWT(user, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data interface{}) {
	t.Helper()
	resp := struct {
		Code int             `json:"code"`
		Data json.RawMessage `json:"data"`
	}{}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode envelope: %v body=%s", err, w.Body.String())
	}
	if err := json.Unmarshal(resp.Data, data); err != nil {
		t.Fatalf("decode data: %v body=%s", err, w.Body.String())
	}
}

func TestHealthAndGuestCourseList(t *testing.T) {
	s := newTestServer(t)
	testutil.Course(t, s.db, "publico")

	if w := s.do(t, http.MethodGet, "/api/health", "", nil); w.Code != http.StatusOK {
		t.Fatalf("health: want=%d got=%d body=%s", http.StatusOK, w.Code, w.Body.String())
	}

	w := s.do(t, http.MethodGet, "/api/course/course", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("course list: want=%d got=%d", http.StatusOK, w.Code)
	}
	var courses []map[string]interface{}
	decode(t, w, &courses)
	if len(courses) != 1 || courses[0]["enrollment_status"] != nil {
		t.Fatalf("guest courses: want 1 without enrollment_status got=%v", courses)
	}
}

func TestQuizSubmitOverHTTP(t *testing.T) {
	s := newTestServer(t)
	learner := testutil.User(t, s.db, "http@zenda.ao", false)
	outsider := testutil.User(t, s.db, "fora@zenda.ao", false)
	course := testutil.Course(t, s.db, "http")
	testutil.Enrollment(t, s.db, learner.ID, course.ID, model.EnrollmentActive)
	lesson := testutil.Lesson(t, s.db, course.ID, "aula", false, 1)
	quiz := testutil.Quiz(t, s.db, lesson.ID, 50)
	q := testutil.Question(t, s.db, "Poupar?", 0, "Sim", "Não")
	testutil.QuizQuestion(t, s.db, quiz.ID, q.ID, 1, 0)

	path := fmt.Sprintf("/api/course/lesson-quiz/%d/submit", quiz.ID)
	body := gin.H{"answers": []gin.H{{"question_id": q.ID, "choice_id": q.Choices[0].ID}}}

	if w := s.do(t, http.MethodPost, path, "", body); w.Code != http.StatusUnauthorized {
		t.Fatalf("no token: want=%d got=%d", http.StatusUnauthorized, w.Code)
	}
	if w := s.do(t, http.MethodPost, path, s.token(t, outsider), body); w.Code != http.StatusForbidden {
		t.Fatalf("outsider: want=%d got=%d", http.StatusForbidden, w.Code)
	}
	if w := s.do(t, http.MethodPost, path, s.token(t, learner), gin.H{}); w.Code != http.StatusBadRequest {
		t.Fatalf("missing answers: want=%d got=%d", http.StatusBadRequest, w.Code)
	}

	w := s.do(t, http.MethodPost, path, s.token(t, learner), body)
	if w.Code != http.StatusOK {
		t.Fatalf("submit: want=%d got=%d body=%s", http.StatusOK, w.Code, w.Body.String())
	}
	var result struct {
		Score  float64 `json:"score"`
		Passed bool    `json:"passed"`
	}
	decode(t, w, &result)
	if result.Score != 100 || !result.Passed {
		t.Fatalf("result: want 100/true got=%v/%v", result.Score, result.Passed)
	}

	missing := fmt.Sprintf("/api/course/lesson-quiz/%d/submit", quiz.ID+100)
	if w := s.do(t, http.MethodPost, missing, s.token(t, learner), body); w.Code != http.StatusNotFound {
		t.Fatalf("missing quiz: want=%d got=%d", http.StatusNotFound, w.Code)
	}
}

func TestExamAttemptLimitOverHTTP(t *testing.T) {
	s := newTestServer(t)
	learner := testutil.User(t, s.db, "exam@zenda.ao", false)
	course := testutil.Course(t, s.db, "exame")
	testutil.Enrollment(t, s.db, learner.ID, course.ID, model.EnrollmentActive)
	exam := testutil.Exam(t, s.db, course.ID, 70, 1)

	path := fmt.Sprintf("/api/course/final-exam/%d/submit", exam.ID)
	body := gin.H{"answers": []gin.H{}}
	token := s.token(t, learner)

	if w := s.do(t, http.MethodPost, path, token, body); w.Code != http.StatusOK {
		t.Fatalf("first attempt: want=%d got=%d body=%s", http.StatusOK, w.Code, w.Body.String())
	}
	if w := s.do(t, http.MethodPost, path, token, body); w.Code != http.StatusBadRequest {
		t.Fatalf("second attempt: want=%d got=%d", http.StatusBadRequest, w.Code)
	}

	w := s.do(t, http.MethodGet, fmt.Sprintf("/api/course/final-exam/%d/attempts", exam.ID), token, nil)
	var attempts []model.ExamResult
	decode(t, w, &attempts)
	if len(attempts) != 1 {
		t.Fatalf("attempts: want=1 got=%d", len(attempts))
	}
}

func TestEnrollmentRoutes(t *testing.T) {
	s := newTestServer(t)
	learner := testutil.User(t, s.db, "enroll@zenda.ao", false)
	other := testutil.User(t, s.db, "other@zenda.ao", false)
	course := testutil.Course(t, s.db, "matricula")

	w := s.do(t, http.MethodPost, "/api/course/enrollment", s.token(t, learner), gin.H{"course_id": course.ID})
	if w.Code != http.StatusCreated {
		t.Fatalf("enroll: want=%d got=%d body=%s", http.StatusCreated, w.Code, w.Body.String())
	}
	var enrollment model.Enrollment
	decode(t, w, &enrollment)

	if w := s.do(t, http.MethodPost, "/api/course/enrollment", s.token(t, learner), gin.H{"course_id": course.ID}); w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate enroll: want=%d got=%d", http.StatusBadRequest, w.Code)
	}

	path := fmt.Sprintf("/api/course/enrollment/%d", enrollment.ID)
	if w := s.do(t, http.MethodGet, path, s.token(t, other), nil); w.Code != http.StatusNotFound {
		t.Fatalf("other user: want=%d got=%d", http.StatusNotFound, w.Code)
	}
	if w := s.do(t, http.MethodGet, path+"/quiz-results", s.token(t, learner), nil); w.Code != http.StatusOK {
		t.Fatalf("quiz results: want=%d got=%d", http.StatusOK, w.Code)
	}
	if w := s.do(t, http.MethodGet, "/api/course/enrollment/abc", s.token(t, learner), nil); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: want=%d got=%d", http.StatusBadRequest, w.Code)
	}
}

func TestAdminRoutesRequireStaff(t *testing.T) {
	s := newTestServer(t)
	learner := testutil.User(t, s.db, "aluno@zenda.ao", false)
	staff := testutil.User(t, s.db, "staff@zenda.ao", true)

	if w := s.do(t, http.MethodGet, "/api/course/admin/stats", s.token(t, learner), nil); w.Code != http.StatusForbidden {
		t.Fatalf("learner stats: want=%d got=%d", http.StatusForbidden, w.Code)
	}
	w := s.do(t, http.MethodGet, "/api/course/admin/stats", s.token(t, staff), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("staff stats: want=%d got=%d", http.StatusOK, w.Code)
	}
	var stats struct {
		TotalUsers int64 `json:"total_users"`
		StaffUsers int64 `json:"staff_users"`
	}
	decode(t, w, &stats)
	if stats.TotalUsers != 2 || stats.StaffUsers != 1 {
		t.Fatalf("stats: want users=2 staff=1 got=%d/%d", stats.TotalUsers, stats.StaffUsers)
	}

	w = s.do(t, http.MethodPost, "/api/course/admin/courses", s.token(t, staff), gin.H{"title": "Novo Curso"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create course: want=%d got=%d body=%s", http.StatusCreated, w.Code, w.Body.String())
	}
	var course model.Course
	decode(t, w, &course)
	if course.Slug != "novo-curso" {
		t.Fatalf("slug: want=novo-curso got=%s", course.Slug)
	}

	toggle := fmt.Sprintf("/api/course/admin/users/%d/toggle-staff", learner.ID)
	if w := s.do(t, http.MethodPost, toggle, s.token(t, staff), nil); w.Code != http.StatusForbidden {
		t.Fatalf("staff toggle: want=%d got=%d", http.StatusForbidden, w.Code)
	}

	del := fmt.Sprintf("/api/course/admin/courses/%d", course.ID)
	if w := s.do(t, http.MethodDelete, del, s.token(t, staff), nil); w.Code != http.StatusNoContent {
		t.Fatalf("delete course: want=%d got=%d", http.StatusNoContent, w.Code)
	}
}
