package productcontroller

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/eshop-api/models"
	"github.com/junaidrashid-git/eshop-api/respond"
	"github.com/junaidrashid-git/eshop-api/store"
	"github.com/tealeg/xlsx"
)

// ImportResult counts what an import did with each data row.
type ImportResult struct {
	Created int `json:"createdCount"`
	Updated int `json:"updatedCount"`
	Skipped int `json:"skippedCount"`
}

// ImportProductsFromExcel reads a sheet in the export layout from the
// "file" form field. Rows whose ID names an existing product update it, the
// rest are created. Rows missing a name, a description or a known category,
// and rows with malformed or negative numbers, are skipped.
func ImportProductsFromExcel(s Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		header, err := c.FormFile("file")
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "Excel file is required")
			return
		}

		f, err := header.Open()
		if err != nil {
			slog.Error("failed to open uploaded sheet", "error", err)
			respond.Error(c, http.StatusInternalServerError, "Failed to open Excel file")
			return
		}
		defer f.Close()

		book, err := xlsx.OpenReaderAt(f, header.Size)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "Failed to parse Excel file")
			return
		}
		if len(book.Sheets) == 0 || len(book.Sheets[0].Rows) < 2 {
			respond.Error(c, http.StatusBadRequest, "Excel file is empty or missing header row")
			return
		}

		result, err := importRows(c.Request.Context(), s, book.Sheets[0].Rows[1:])
		if err != nil {
			respond.StoreError(c, err, "Import failed")
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

func importRows(ctx context.Context, s Catalog, rows []*xlsx.Row) (ImportResult, error) {
	var result ImportResult
	for _, row := range rows {
		get := func(i int) string {
			if row == nil || i >= len(row.Cells) {
				return ""
			}
			return strings.TrimSpace(row.Cells[i].Value)
		}

		p := models.Product{
			Name:            get(1),
			Description:     get(2),
			RichDescription: get(3),
			Brand:           get(4),
			Category:        get(6),
			Image:           get(11),
			DateCreated:     time.Now().UTC(),
		}
		var bad bool
		p.Price, bad = parseAmount(get(5), bad)
		p.CountInStock, bad = parseCount(get(7), bad)
		p.Rating, bad = parseAmount(get(8), bad)
		p.NumReviews, bad = parseCount(get(9), bad)
		p.IsFeatured = parseBool(get(10))

		if bad || p.Name == "" || p.Description == "" || p.CountInStock > 255 {
			result.Skipped++
			continue
		}
		if err := checkCategory(ctx, s, p.Category); err != nil {
			if errors.Is(err, errInvalidCategory) {
				result.Skipped++
				continue
			}
			return result, err
		}

		if id := get(0); id != "" {
			existing, err := s.GetProduct(ctx, id)
			switch {
			case err == nil:
				p.ID = existing.ID
				p.DateCreated = existing.DateCreated
				if err := s.UpdateProduct(ctx, &p); err != nil {
					return result, err
				}
				result.Updated++
				continue
			case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrInvalidID):
			default:
				return result, err
			}
		}

		if err := s.CreateProduct(ctx, &p); err != nil {
			return result, err
		}
		result.Created++
	}
	return result, nil
}

// parseAmount reads a non-negative finite number. An empty cell is zero.
// Once bad is set it stays set.
func parseAmount(v string, bad bool) (float64, bool) {
	if v == "" {
		return 0, bad
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, true
	}
	return f, bad
}

// parseCount reads a non-negative integer. Spreadsheets store integers as
// floats, so "3.0" is accepted but "3.5" is not.
func parseCount(v string, bad bool) (int, bool) {
	if v == "" {
		return 0, bad
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, true
	}
	return int(f), bad
}

// parseBool accepts the spellings a spreadsheet tends to produce.
func parseBool(v string) bool {
	switch strings.ToLower(v) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
