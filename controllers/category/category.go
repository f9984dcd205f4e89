package categorycontroller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/eshop-api/models"
	"github.com/junaidrashid-git/eshop-api/respond"
	"github.com/junaidrashid-git/eshop-api/store"
)

type categoryRequest struct {
	Name  string `json:"name" binding:"required"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
	Image string `json:"image"`
}

func (r categoryRequest) apply(cat *models.Category) {
	cat.Name = r.Name
	cat.Icon = r.Icon
	cat.Color = r.Color
	cat.Image = r.Image
}

// GetAllCategories returns all categories.
func GetAllCategories(s store.Categories) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := s.ListCategories(c.Request.Context())
		if err != nil {
			respond.StoreError(c, err, "Failed to fetch categories")
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func GetCategoryByID(s store.Categories) gin.HandlerFunc {
	return func(c *gin.Context) {
		category, err := s.GetCategory(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.StoreError(c, err, "The category with the given ID was not found")
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func CreateCategory(s store.Categories) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, err.Error())
			return
		}

		var category models.Category
		req.apply(&category)
		if err := s.CreateCategory(c.Request.Context(), &category); err != nil {
			respond.StoreError(c, err, "The category cannot be created")
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func UpdateCategory(s store.Categories) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req categoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, err.Error())
			return
		}

		category := models.Category{ID: c.Param("id")}
		req.apply(&category)
		if err := s.UpdateCategory(c.Request.Context(), &category); err != nil {
			respond.StoreError(c, err, "The category cannot be updated")
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

// DeleteCategory removes the category only. Products keep their reference.
func DeleteCategory(s store.Categories) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := s.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
			respond.StoreError(c, err, "Category not found")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "the category is deleted!"})
	}
}
