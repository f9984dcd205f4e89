package routes

import (
	"github.com/gin-gonic/gin"
	categorycontroller "github.com/junaidrashid-git/eshop-api/controllers/category"
)

// SetupCategoryRoutes registers all "/categories/*" endpoints. Reads are public.
func SetupCategoryRoutes(api *gin.RouterGroup, d Deps) {
	g := api.Group("/categories")
	{
		g.GET("", categorycontroller.GetAllCategories(d.Store))
		g.GET("/:id", categorycontroller.GetCategoryByID(d.Store))
		g.POST("", categorycontroller.CreateCategory(d.Store))
		g.PUT("/:id", categorycontroller.UpdateCategory(d.Store))
		g.DELETE("/:id", categorycontroller.DeleteCategory(d.Store))
	}
}
