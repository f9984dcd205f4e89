package productcontroller

import (
	"context"
	"errors"

	"github.com/junaidrashid-git/eshop-api/models"
	"github.com/junaidrashid-git/eshop-api/store"
)

// Catalog is what the product handlers need from the store: products plus
// the categories they reference.
type Catalog interface {
	store.Products
	store.Categories
}

var errInvalidCategory = errors.New("Invalid Category")

// productForm is the multipart body of product create and update.
type productForm struct {
	Name            string  `form:"name" binding:"required"`
	Description     string  `form:"description" binding:"required"`
	RichDescription string  `form:"richDescription"`
	Brand           string  `form:"brand"`
	Price           float64 `form:"price" binding:"gte=0"`
	Category        string  `form:"category" binding:"required"`
	CountInStock    int     `form:"countInStock" binding:"gte=0,lte=255"`
	Rating          float64 `form:"rating" binding:"gte=0"`
	NumReviews      int     `form:"numReviews" binding:"gte=0"`
	IsFeatured      bool    `form:"isFeatured"`
}

func (f productForm) apply(p *models.Product) {
	p.Name = f.Name
	p.Description = f.Description
	p.RichDescription = f.RichDescription
	p.Brand = f.Brand
	p.Price = f.Price
	p.Category = f.Category
	p.CountInStock = f.CountInStock
	p.Rating = f.Rating
	p.NumReviews = f.NumReviews
	p.IsFeatured = f.IsFeatured
}

// checkCategory resolves a category reference. Unknown and malformed ids are
// both errInvalidCategory; anything else is a store failure.
func checkCategory(ctx context.Context, s store.Categories, id string) error {
	_, err := s.GetCategory(ctx, id)
	if errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrInvalidID) {
		return errInvalidCategory
	}
	return err
}

// populate swaps category ids for the category records. A dangling reference
// leaves the category null.
func populate(ctx context.Context, s store.Categories, products []models.Product) ([]models.ProductView, error) {
	cache := make(map[string]*models.Category)
	views := make([]models.ProductView, 0, len(products))
	for _, p := range products {
		cat, seen := cache[p.Category]
		if !seen {
			found, err := s.GetCategory(ctx, p.Category)
			switch {
			case err == nil:
				cat = found
			case errors.Is(err, store.ErrNotFound), errors.Is(err, store.ErrInvalidID):
			default:
				return nil, err
			}
			cache[p.Category] = cat
		}
		views = append(views, models.ProductView{Product: p, Category: cat})
	}
	return views, nil
}
