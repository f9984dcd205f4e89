package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/eshop-api/respond"
	"github.com/junaidrashid-git/eshop-api/store"
	"github.com/junaidrashid-git/eshop-api/upload"
)

func DeleteProduct(s store.Products, images *upload.Intake) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := s.DeleteProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.StoreError(c, err, "product not found!")
			return
		}

		discardStoredImage(images, product.Image)
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "the product is deleted!"})
	}
}
