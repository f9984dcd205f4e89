package models

// User is an account. PasswordHash never leaves the server.
type User struct {
	ID           string `json:"id" bson:"_id,omitempty" gorm:"primaryKey;size:64"`
	Name         string `json:"name" bson:"name" gorm:"not null"`
	Email        string `json:"email" bson:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string `json:"-" bson:"passwordHash" gorm:"not null"`
	Phone        string `json:"phone" bson:"phone"`
	IsAdmin      bool   `json:"isAdmin" bson:"isAdmin"`
	Street       string `json:"street" bson:"street"`
	Apartment    string `json:"apartment" bson:"apartment"`
	Zip          string `json:"zip" bson:"zip"`
	City         string `json:"city" bson:"city"`
	Country      string `json:"country" bson:"country"`
}
