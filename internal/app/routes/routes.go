package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/edubridge/platform/internal/app/controllers"
	"github.com/edubridge/platform/internal/app/models"
	"github.com/edubridge/platform/internal/middleware"
)

// Controllers groups the HTTP handlers mounted by SetupRouter
type Controllers struct {
	Auth    *controllers.AuthController
	User    *controllers.UserController
	Student *controllers.StudentController
	Parent  *controllers.ParentController
	School  *controllers.SchoolController
	Program *controllers.ProgramController
	Health  *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/health", c.Health.Health)

	api := router.Group("/api")

	// --- Auth ---
	auth := api.Group("/auth")
	{
		auth.POST("/register", c.Auth.Register)
		auth.POST("/login", c.Auth.Login)
		auth.GET("/google", c.Auth.GoogleAuth)
		auth.GET("/google/callback", c.Auth.GoogleCallback)
		auth.GET("/me", authMiddleware.Authenticate(), c.User.Me)
	}

	// --- Students ---
	students := api.Group("/students")
	{
		students.POST("/register", c.Student.Register)

		own := students.Group("")
		own.Use(authMiddleware.Authenticate(), authMiddleware.RequireRoles(models.RoleStudent))
		{
			own.GET("/profile", c.Student.GetProfile)
			own.PUT("/", c.Student.Update)
			own.POST("/enroll", c.Student.Enroll)
			own.GET("/enrollments", c.Student.ListEnrollments)
			own.GET("/enrollments/export", c.Student.ExportEnrollments)
		}
	}

	// --- Parents ---
	parents := api.Group("/parents")
	{
		parents.POST("/register", c.Parent.Register)

		own := parents.Group("")
		own.Use(authMiddleware.Authenticate(), authMiddleware.RequireRoles(models.RoleParent))
		{
			own.GET("/profile", c.Parent.GetProfile)
			own.PUT("/", c.Parent.Update)
			own.POST("/add-child", c.Parent.AddChild)
			own.GET("/children", c.Parent.ListChildren)
		}
	}

	// --- Schools ---
	schools := api.Group("/schools")
	{
		schools.POST("/register", c.School.Register)
		schools.GET("/", c.School.List)

		own := schools.Group("")
		own.Use(authMiddleware.Authenticate(), authMiddleware.RequireRoles(models.RoleSchool))
		{
			own.GET("/profile", c.School.GetProfile)
			own.PUT("/", c.School.Update)
		}
	}

	api.GET("/programs", c.Program.List)
}
