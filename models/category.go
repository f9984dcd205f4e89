package models

// Category groups products. Products reference a category by id; deleting a
// category does not touch the products that point at it.
type Category struct {
	ID    string `json:"id" bson:"_id,omitempty" gorm:"primaryKey;size:64"`
	Name  string `json:"name" bson:"name" gorm:"not null"`
	Icon  string `json:"icon" bson:"icon"`
	Color string `json:"color" bson:"color"`
	Image string `json:"image" bson:"image"`
}
