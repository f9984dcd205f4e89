package routes

import (
	"github.com/gin-gonic/gin"
	productcontroller "github.com/junaidrashid-git/eshop-api/controllers/product"
)

// SetupProductRoutes registers all "/products/*" endpoints. Reads, the
// export included, are public.
func SetupProductRoutes(api *gin.RouterGroup, d Deps) {
	g := api.Group("/products")
	{
		g.GET("", productcontroller.GetProducts(d.Store))
		g.GET("/:id", productcontroller.GetProductByID(d.Store))
		g.POST("", productcontroller.CreateProduct(d.Store, d.Images))
		g.PUT("/:id", productcontroller.UpdateProduct(d.Store, d.Images))
		g.DELETE("/:id", productcontroller.DeleteProduct(d.Store, d.Images))

		g.GET("/get/count", productcontroller.GetProductCount(d.Store))
		g.GET("/get/featured/:count", productcontroller.GetFeaturedProducts(d.Store))
		g.GET("/get/export", productcontroller.ExportProductsToExcel(d.Store))
		g.POST("/import", productcontroller.ImportProductsFromExcel(d.Store))
	}
}
