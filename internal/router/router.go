package router

import (
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/cms"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/config"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/handler"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/middleware"
	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/service"

	"github.com/gin-gonic/gin"
)

func InitRouter(cfg config.Config) *gin.Engine {
	r := gin.Default()

	cmsClient := cms.NewClient(cfg.CMS.BaseURL, cfg.CMS.APIKey)
	members := cmsClient.Members()
	content := cmsClient.Content()

	var notifier service.Notifier = service.NoopNotifier{}
	if cfg.SMTP.Host != "" {
		notifier = service.NewEmailService(cfg.SMTP)
	}

	crewSvc := service.NewCrewService(members, content)
	permSvc := service.NewPermissionService(members, content, cfg.Roles)
	jobSvc := service.NewJobService(content, crewSvc, permSvc)
	appSvc := service.NewApplicationService(members, crewSvc, permSvc, notifier)

	job := handler.NewJobHandler(jobSvc)
	app := handler.NewApplicationHandler(appSvc)
	crew := handler.NewCrewHandler(crewSvc, permSvc)

	// 岗位接口：浏览可匿名，管理要登录
	jobGroup := r.Group("/api/jobs")
	{
		jobGroup.GET("/available", middleware.OptionalAuthMiddleware(), job.Available)
		jobGroup.GET("/:id", middleware.OptionalAuthMiddleware(), job.Get)

		jobAuth := jobGroup.Group("")
		jobAuth.Use(middleware.AuthMiddleware())
		{
			jobAuth.GET("/crew/:id", job.ListByCrew)
			jobAuth.GET("/:id/applications", app.ListForJob)
			jobAuth.POST("", job.Create)
			jobAuth.PUT("/:id", job.Update)
			jobAuth.DELETE("/:id", job.Delete)
		}
	}

	// 报名接口：全部要登录
	appGroup := r.Group("/api/applications")
	appGroup.Use(middleware.AuthMiddleware())
	{
		appGroup.POST("", app.Submit)
		appGroup.POST("/:id/withdraw", app.Withdraw)
		appGroup.POST("/:id/review", app.Review)
		appGroup.GET("/mine", app.Mine)
		appGroup.GET("/review", app.ReviewList)
		appGroup.GET("/pending-count", app.PendingCount)
		appGroup.GET("/:id", app.Get)
	}

	// crew 目录
	crewGroup := r.Group("/api/crews")
	crewGroup.Use(middleware.AuthMiddleware())
	{
		crewGroup.GET("", crew.List)
		crewGroup.GET("/:id", crew.Get)
	}

	return r
}
