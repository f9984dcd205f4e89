package productcontroller

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/eshop-api/models"
	"github.com/junaidrashid-git/eshop-api/respond"
	"github.com/junaidrashid-git/eshop-api/upload"
)

// CreateProduct creates a product from a multipart form. The category must
// exist and an image is required; nothing is written otherwise.
func CreateProduct(s Catalog, images *upload.Intake) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		var form productForm
		if err := c.ShouldBind(&form); err != nil {
			respond.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		if err := checkCategory(ctx, s, form.Category); err != nil {
			categoryError(c, err)
			return
		}

		saved, err := images.Save(c, true)
		if err != nil {
			imageError(c, err)
			return
		}

		product := models.Product{Image: saved.URL, DateCreated: time.Now().UTC()}
		form.apply(&product)

		if err := s.CreateProduct(ctx, &product); err != nil {
			discardImage(images, saved.Name)
			respond.StoreError(c, err, "The product cannot be created")
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func categoryError(c *gin.Context, err error) {
	if errors.Is(err, errInvalidCategory) {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	respond.StoreError(c, err, "Invalid Category")
}

func imageError(c *gin.Context, err error) {
	if errors.Is(err, upload.ErrMissingImage) || errors.Is(err, upload.ErrInvalidImageType) {
		respond.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	slog.Error("failed to store product image", "error", err)
	respond.Error(c, http.StatusInternalServerError, "Failed to save image")
}

func discardImage(images *upload.Intake, name string) {
	if err := images.Remove(name); err != nil {
		slog.Error("failed to remove product image", "file", name, "error", err)
	}
}

// discardStoredImage removes the file behind an image URL, but only when the
// URL points into the upload directory. Imported products may carry any URL.
func discardStoredImage(images *upload.Intake, imageURL string) {
	if name, ok := images.NameFromURL(imageURL); ok {
		discardImage(images, name)
	}
}
