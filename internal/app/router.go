package app

import (
	"zenda_backend/docs"
	"zenda_backend/internal/config"
	"zenda_backend/internal/middleware"
	"zenda_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/api/health", c.health.HealthCheck)

	course := router.Group("/api/course")

	// 1. 公共路由(可选登录)
	registerPublicRoutes(course, c, cfg)

	// 2. 学员路由
	learner := course.Group("")
	learner.Use(middleware.AuthMiddleware(cfg))
	registerLearnerRoutes(learner, c)

	// 3. 管理员路由
	admin := course.Group("/admin")
	admin.Use(middleware.AuthMiddleware(cfg), middleware.StaffMiddleware())
	registerAdminRoutes(admin, c)
}

func registerPublicRoutes(group *gin.RouterGroup, c *controllers, cfg *config.Config) {
	public := group.Group("/course")
	public.Use(middleware.TryAuthMiddleware(cfg))
	{
		public.GET("", c.course.ListCourses)
		public.GET("/free-lesson", c.course.FreeLessons)
		public.GET("/:id", c.course.GetCourse)
	}
}

func registerLearnerRoutes(group *gin.RouterGroup, c *controllers) {
	lessons := group.Group("/lesson")
	{
		lessons.GET("", c.course.ListLessons)
		lessons.GET("/:id", c.course.GetLesson)
		lessons.POST("/:id/mark-completed", c.course.MarkCompleted)
	}

	group.GET("/progress", c.course.ListProgress)

	enrollments := group.Group("/enrollment")
	{
		enrollments.GET("", c.enrollment.List)
		enrollments.POST("", c.enrollment.Enroll)
		enrollments.GET("/:id", c.enrollment.Get)
		enrollments.GET("/:id/quiz-results", c.enrollment.QuizResults)
		enrollments.POST("/:id/retake-course", c.enrollment.RetakeCourse)
	}

	quizzes := group.Group("/lesson-quiz")
	{
		quizzes.GET("/by-lesson/:lesson_id", c.quiz.GetByLesson)
		quizzes.GET("/:id", c.quiz.Get)
		quizzes.POST("/:id/submit", c.quiz.Submit)
	}

	exams := group.Group("/final-exam")
	{
		exams.GET("/by-course/:course_id", c.exam.GetByCourse)
		exams.POST("/:id/submit", c.exam.Submit)
		exams.GET("/:id/attempts", c.exam.ListAttempts)
	}
}

func registerAdminRoutes(admin *gin.RouterGroup, c *controllers) {
	courses := admin.Group("/courses")
	{
		courses.GET("", c.course.AdminListCourses)
		courses.POST("", c.course.CreateCourse)
		courses.GET("/:id", c.course.AdminGetCourse)
		courses.PUT("/:id", c.course.UpdateCourse)
		courses.DELETE("/:id", c.course.DeleteCourse)
	}

	lessons := admin.Group("/lessons")
	{
		lessons.GET("", c.course.AdminListLessons)
		lessons.POST("", c.course.CreateLesson)
		lessons.GET("/:id", c.course.AdminGetLesson)
		lessons.PUT("/:id", c.course.UpdateLesson)
		lessons.DELETE("/:id", c.course.DeleteLesson)
	}

	questions := admin.Group("/questions")
	{
		questions.GET("", c.question.List)
		questions.POST("", c.question.Create)
		questions.GET("/:id", c.question.Get)
		questions.PUT("/:id", c.question.Update)
		questions.DELETE("/:id", c.question.Delete)
	}

	choices := admin.Group("/choices")
	{
		choices.GET("", c.question.ListChoices)
		choices.POST("", c.question.CreateChoice)
		choices.GET("/:id", c.question.GetChoice)
		choices.PUT("/:id", c.question.UpdateChoice)
		choices.DELETE("/:id", c.question.DeleteChoice)
	}

	quizzes := admin.Group("/lesson-quizzes")
	{
		quizzes.GET("", c.quiz.AdminList)
		quizzes.POST("", c.quiz.Create)
		quizzes.GET("/:id", c.quiz.AdminGet)
		quizzes.PUT("/:id", c.quiz.Update)
		quizzes.DELETE("/:id", c.quiz.Delete)
		quizzes.POST("/:id/add-question", c.quiz.AddQuestion)
		quizzes.DELETE("/:id/remove-question/:question_id", c.quiz.RemoveQuestion)
	}

	exams := admin.Group("/final-exams")
	{
		exams.GET("", c.exam.AdminList)
		exams.POST("", c.exam.Create)
		exams.GET("/:id", c.exam.AdminGet)
		exams.PUT("/:id", c.exam.Update)
		exams.DELETE("/:id", c.exam.Delete)
		exams.POST("/:id/add-question", c.exam.AddQuestion)
		exams.DELETE("/:id/remove-question/:question_id", c.exam.RemoveQuestion)
	}

	enrollments := admin.Group("/enrollments")
	{
		enrollments.GET("", c.enrollment.AdminList)
		enrollments.GET("/:id", c.enrollment.AdminGet)
		enrollments.POST("/:id/approve", c.enrollment.Approve)
		enrollments.POST("/:id/cancel", c.enrollment.Cancel)
		enrollments.DELETE("/:id", c.enrollment.AdminDelete)
	}

	users := admin.Group("/users")
	{
		users.GET("", c.user.GetUsers)
		users.GET("/:id", c.user.GetUser)
		users.POST("/:id/toggle-staff", middleware.SuperuserMiddleware(), c.user.ToggleStaff)
	}

	admin.GET("/stats", c.dashboard.GetStats)
}
