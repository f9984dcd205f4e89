package routes

import (
	"github.com/gin-gonic/gin"
	usercontroller "github.com/junaidrashid-git/eshop-api/controllers/user"
	"github.com/junaidrashid-git/eshop-api/middleware"
)

// SetupUserRoutes registers all "/users/*" endpoints. Only login and
// register are public. Creating and deleting accounts is for admins; a
// non-admin may only update their own account.
func SetupUserRoutes(api *gin.RouterGroup, d Deps) {
	g := api.Group("/users")
	{
		g.POST("/register", usercontroller.Register(d.Store))
		g.POST("/login", usercontroller.Login(d.Store, d.Tokens))

		g.GET("", usercontroller.GetAllUsers(d.Store))
		g.GET("/me", usercontroller.GetCurrentUser(d.Store))
		g.GET("/:id", usercontroller.GetUser(d.Store))
		g.POST("", middleware.RequireAdmin(), usercontroller.CreateUser(d.Store))
		g.PUT("/:id", usercontroller.UpdateUser(d.Store))
		g.DELETE("/:id", middleware.RequireAdmin(), usercontroller.DeleteUser(d.Store))
		g.GET("/get/count", usercontroller.GetUserCount(d.Store))
	}
}
