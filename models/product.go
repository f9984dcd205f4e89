package models

import "time"

type Product struct {
	ID              string    `json:"id" bson:"_id,omitempty" gorm:"primaryKey;size:64"`
	Name            string    `json:"name" bson:"name" gorm:"not null"`
	Description     string    `json:"description" bson:"description" gorm:"not null"`
	RichDescription string    `json:"richDescription" bson:"richDescription"`
	Image           string    `json:"image" bson:"image"` // public URL assigned by the upload intake
	Brand           string    `json:"brand" bson:"brand"`
	Price           float64   `json:"price" bson:"price"`
	Category        string    `json:"category" bson:"category" gorm:"index;size:64"`
	CountInStock    int       `json:"countInStock" bson:"countInStock"`
	Rating          float64   `json:"rating" bson:"rating"`
	NumReviews      int       `json:"numReviews" bson:"numReviews"`
	IsFeatured      bool      `json:"isFeatured" bson:"isFeatured" gorm:"index"`
	DateCreated     time.Time `json:"dateCreated" bson:"dateCreated"`
}

// ProductView is a product with its category resolved for read endpoints.
// Category is nil when the reference dangles.
type ProductView struct {
	Product
	Category *Category `json:"category"`
}
