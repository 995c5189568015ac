package handler

import (
	"task-management-backend/internal/config"
	"task-management-backend/internal/middleware"
	"task-management-backend/internal/models"
	"task-management-backend/internal/service"
	"task-management-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RouterDeps collects what the HTTP layer needs. Limiter may be nil.
type RouterDeps struct {
	Config          *config.Config
	Logger          *zap.Logger
	AuthService     *service.AuthService
	TaskService     *service.TaskService
	SubTaskService  *service.SubTaskService
	ReminderService *service.ReminderService
	Limiter         middleware.RateLimiter
}

// NewRouter builds the gin engine with every route under /api/v1
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestLogger(deps.Logger), middleware.Recovery(deps.Logger))
	r.Use(middleware.CORS(deps.Config.CORS))

	authHandler := NewAuthHandler(deps.AuthService)
	taskHandler := NewTaskHandler(deps.TaskService)
	subTaskHandler := NewSubTaskHandler(deps.SubTaskService)
	reminderHandler := NewReminderHandler(deps.ReminderService)

	authenticated := middleware.AuthMiddleware(deps.AuthService)
	adminOnly := middleware.RequireAdmin()
	acl := middleware.NewAccessControlMiddleware(deps.TaskService)

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		utils.SuccessResponse(c, gin.H{
			"status":  "healthy",
			"service": deps.Config.App.Name,
		})
	})

	api := r.Group("/api/v1")

	users := api.Group("/users")
	{
		users.POST("/register",
			middleware.RateLimit(deps.Limiter, deps.Config.RateLimit, "register",
				"Too many registration attempts from this IP, please try again later.", deps.Logger),
			authHandler.Register)
		users.POST("/login",
			middleware.RateLimit(deps.Limiter, deps.Config.RateLimit, "login",
				"Too many login attempts from this IP, please try again later.", deps.Logger),
			authHandler.Login)
		users.POST("/logout", authenticated, authHandler.Logout)
	}

	task := api.Group("/task")
	task.Use(authenticated)
	{
		task.POST("/create-task", adminOnly, taskHandler.CreateTask)
		task.GET("/get-tasks", middleware.RequireRole(models.RoleAdmin, models.RoleUser), taskHandler.GetTasks)
		task.GET("/get-task/:id", taskHandler.GetTask)
		task.PUT("/update-task/:id", adminOnly, taskHandler.UpdateTask)
		task.DELETE("/delete-task/:id", adminOnly, taskHandler.DeleteTask)
		task.POST("/shared-task", adminOnly, taskHandler.ShareTask)
		task.PUT("/move-task/:id", acl.CheckTaskAccess(), taskHandler.MoveTask)
		task.GET("/get-list/grouped", taskHandler.GetTasksGrouped)
		task.GET("/get-list/filtered", taskHandler.GetTasksFiltered)
	}

	subTask := api.Group("/subtask")
	subTask.Use(authenticated, adminOnly)
	{
		subTask.POST("/create-subtask", subTaskHandler.CreateSubTask)
		subTask.PUT("/update-status/:id", subTaskHandler.UpdateStatus)
		subTask.PUT("/update-due-date/:id", subTaskHandler.UpdateDueDate)
	}

	reminder := api.Group("/reminder")
	reminder.Use(authenticated, adminOnly)
	{
		reminder.POST("/create-reminder", reminderHandler.CreateReminder)
		reminder.PUT("/update-reminder/:id", reminderHandler.UpdateReminder)
	}

	return r
}
