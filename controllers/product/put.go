package productcontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/eshop-api/respond"
	"github.com/junaidrashid-git/eshop-api/upload"
)

// UpdateProduct replaces a product's fields. The image is optional; without
// one the previous URL is kept. A replaced image file is removed once the
// new record is stored.
func UpdateProduct(s Catalog, images *upload.Intake) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		product, err := s.GetProduct(ctx, c.Param("id"))
		if err != nil {
			respond.StoreError(c, err, "Invalid Product!")
			return
		}

		var form productForm
		if err := c.ShouldBind(&form); err != nil {
			respond.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		if err := checkCategory(ctx, s, form.Category); err != nil {
			categoryError(c, err)
			return
		}

		saved, err := images.Save(c, false)
		if err != nil {
			imageError(c, err)
			return
		}

		previous := product.Image
		form.apply(product)
		if saved != nil {
			product.Image = saved.URL
		}

		if err := s.UpdateProduct(ctx, product); err != nil {
			if saved != nil {
				discardImage(images, saved.Name)
			}
			respond.StoreError(c, err, "the product cannot be updated!")
			return
		}

		if saved != nil {
			discardStoredImage(images, previous)
		}
		c.JSON(http.StatusOK, product)
	}
}
