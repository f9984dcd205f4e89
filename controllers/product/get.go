package productcontroller

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/eshop-api/models"
	"github.com/junaidrashid-git/eshop-api/respond"
	"github.com/junaidrashid-git/eshop-api/store"
)

// GetProducts lists products, optionally restricted to ?categories=a,b.
func GetProducts(s Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter store.ProductFilter
		if raw := c.Query("categories"); raw != "" {
			for _, id := range strings.Split(raw, ",") {
				if id = strings.TrimSpace(id); id != "" {
					filter.CategoryIDs = append(filter.CategoryIDs, id)
				}
			}
		}

		products, err := s.ListProducts(c.Request.Context(), filter)
		if err != nil {
			respond.StoreError(c, err, "Failed to fetch products")
			return
		}
		views, err := populate(c.Request.Context(), s, products)
		if err != nil {
			respond.StoreError(c, err, "Failed to fetch products")
			return
		}
		c.JSON(http.StatusOK, views)
	}
}

func GetProductByID(s Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := s.GetProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.StoreError(c, err, "Product not found")
			return
		}
		views, err := populate(c.Request.Context(), s, []models.Product{*product})
		if err != nil {
			respond.StoreError(c, err, "Product not found")
			return
		}
		c.JSON(http.StatusOK, views[0])
	}
}

func GetProductCount(s store.Products) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := s.CountProducts(c.Request.Context())
		if err != nil {
			respond.StoreError(c, err, "Failed to count products")
			return
		}
		c.JSON(http.StatusOK, gin.H{"productCount": count})
	}
}

// GetFeaturedProducts returns up to :count featured products; 0 means all.
func GetFeaturedProducts(s store.Products) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := strconv.Atoi(c.Param("count"))
		if err != nil || limit < 0 {
			respond.Error(c, http.StatusBadRequest, "count must be a non-negative integer")
			return
		}

		products, err := s.ListProducts(c.Request.Context(), store.ProductFilter{FeaturedOnly: true, Limit: limit})
		if err != nil {
			respond.StoreError(c, err, "Failed to fetch products")
			return
		}
		c.JSON(http.StatusOK, products)
	}
}
