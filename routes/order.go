package routes

import (
	"github.com/gin-gonic/gin"
	ordercontroller "github.com/junaidrashid-git/eshop-api/controllers/order"
)

// SetupOrderRoutes registers all "/orders/*" endpoints, the live event feed
// included. Everything here needs a token.
func SetupOrderRoutes(api *gin.RouterGroup, d Deps) {
	g := api.Group("/orders")
	{
		g.GET("", ordercontroller.GetAllOrdersHandler(d.Orders))
		g.GET("/ws", d.Hub.ServeWS())
		g.GET("/:id", ordercontroller.GetOrderByIDHandler(d.Orders))
		g.POST("", ordercontroller.PlaceOrderHandler(d.Orders))
		g.PUT("/:id", ordercontroller.UpdateOrderStatusHandler(d.Orders))
		g.DELETE("/:id", ordercontroller.DeleteOrderHandler(d.Orders))

		g.GET("/get/count", ordercontroller.GetOrderCountHandler(d.Orders))
		g.GET("/get/totalsales", ordercontroller.GetTotalSalesHandler(d.Orders))
		g.GET("/get/userorders/:userid", ordercontroller.GetUserOrdersHandler(d.Orders))
	}
}
