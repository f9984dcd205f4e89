package productcontroller

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/eshop-api/models"
	"github.com/junaidrashid-git/eshop-api/respond"
	"github.com/junaidrashid-git/eshop-api/store"
	"github.com/tealeg/xlsx"
)

const dateLayout = "2006-01-02 15:04:05"

// exportHeaders is the sheet layout shared by export and import.
var exportHeaders = []string{
	"ID", "Name", "Description", "RichDescription", "Brand", "Price",
	"Category", "CountInStock", "Rating", "NumReviews", "IsFeatured",
	"Image", "DateCreated",
}

// buildWorkbook renders products into a single "Products" sheet.
func buildWorkbook(products []models.Product) (*xlsx.File, error) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return nil, err
	}

	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetString(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetString(p.ID)
		row.AddCell().SetString(p.Name)
		row.AddCell().SetString(p.Description)
		row.AddCell().SetString(p.RichDescription)
		row.AddCell().SetString(p.Brand)
		row.AddCell().SetFloat(p.Price)
		row.AddCell().SetString(p.Category)
		row.AddCell().SetInt(p.CountInStock)
		row.AddCell().SetFloat(p.Rating)
		row.AddCell().SetInt(p.NumReviews)
		row.AddCell().SetBool(p.IsFeatured)
		row.AddCell().SetString(p.Image)
		row.AddCell().SetString(p.DateCreated.Format(dateLayout))
	}
	return file, nil
}

// ExportProductsToExcel streams the whole catalog as an xlsx download.
func ExportProductsToExcel(s store.Products) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := s.ListProducts(c.Request.Context(), store.ProductFilter{})
		if err != nil {
			respond.StoreError(c, err, "Failed to fetch products")
			return
		}

		file, err := buildWorkbook(products)
		if err != nil {
			slog.Error("failed to build product sheet", "error", err)
			respond.Error(c, http.StatusInternalServerError, "Failed to create Excel sheet")
			return
		}

		name := "products-" + time.Now().Format("20060102") + ".xlsx"
		c.Header("Content-Disposition", "attachment; filename="+name)
		c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Header("Content-Transfer-Encoding", "binary")
		c.Header("Expires", "0")

		if err := file.Write(c.Writer); err != nil {
			slog.Error("failed to write product sheet", "error", err)
		}
	}
}
