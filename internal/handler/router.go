package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Nayeem09864/exam-management-system/internal/middleware"
)

// Routes - обработчики и middleware, из которых собирается API консоли
type Routes struct {
	Auth      *AuthHandler
	Dashboard *DashboardHandler
	Questions *QuestionHandler
	Forms     *FormHandler
	Sessions  *middleware.SessionMiddleware
	// LoginLimit - ограничитель попыток входа, может быть nil
	LoginLimit gin.HandlerFunc
}

// Register настраивает маршруты API на роутере
func (r *Routes) Register(router gin.IRouter) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			loginChain := []gin.HandlerFunc{}
			if r.LoginLimit != nil {
				loginChain = append(loginChain, r.LoginLimit)
			}
			authGroup.POST("/login", append(loginChain, r.Auth.Login)...)

			authed := authGroup.Group("", r.Sessions.RequireAuth())
			authed.POST("/logout", r.Auth.Logout)
			authed.GET("/me", r.Auth.Me)
		}

		// Всё остальное доступно только после входа
		protected := api.Group("", r.Sessions.RequireAuth())

		protected.GET("/dashboard", r.Dashboard.Get)

		questions := protected.Group("/questions")
		{
			questions.GET("", r.Questions.List)
			questions.GET("/export", r.Questions.Export)

			withID := questions.Group("/:id", middleware.ExtractUintParam("id", "questionID"))
			withID.GET("", r.Questions.Get)
			withID.DELETE("", r.Questions.Delete)
		}

		forms := protected.Group("/forms")
		{
			forms.POST("", r.Forms.Open)

			form := forms.Group("/:formID")
			form.GET("", r.Forms.Get)
			form.DELETE("", r.Forms.Cancel)
			form.PUT("/fields", r.Forms.SetFields)
			form.POST("/options", r.Forms.AddOption)
			form.GET("/validation", r.Forms.Validation)
			form.POST("/submit", r.Forms.Submit)

			withIndex := middleware.ExtractIntParam("index", "optionIndex")
			form.PUT("/options/:index", withIndex, r.Forms.SetOption)
			form.DELETE("/options/:index", withIndex, r.Forms.RemoveOption)
			form.POST("/correct/:index", withIndex, r.Forms.ToggleCorrect)
		}
	}
}
