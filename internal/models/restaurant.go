package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Price range buckets used by the discovery filters.
const (
	PriceRangeLow    = "low"
	PriceRangeMedium = "medium"
	PriceRangeHigh   = "high"
)

// MenuItem is embedded inside a MenuCategory.
type MenuItem struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Description  string             `bson:"description" json:"description"`
	Price        float64            `bson:"price" json:"price"`
	ImageURL     string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	IsAvailable  bool               `bson:"isAvailable" json:"isAvailable"`
	Allergens    []string           `bson:"allergens" json:"allergens"`
	IsVegetarian bool               `bson:"isVegetarian" json:"isVegetarian"`
	IsVegan      bool               `bson:"isVegan" json:"isVegan"`
	IsGlutenFree bool               `bson:"isGlutenFree" json:"isGlutenFree"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    *time.Time         `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// MenuCategory groups menu items. Order is a manually assigned integer and is
// not required to be unique or contiguous.
type MenuCategory struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description" json:"description"`
	Order       int                `bson:"order" json:"order"`
	Items       []MenuItem         `bson:"items" json:"items"`
}

// Restaurant is owned by exactly one user of role "restaurant" (enforced by a
// unique index on ownerId). Rating is denormalized: it is the mean of approved
// review ratings and is unset while no approved reviews exist.
type Restaurant struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID                primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Name                   string             `bson:"name" json:"name"`
	Description            string             `bson:"description" json:"description"`
	Cuisine                string             `bson:"cuisine" json:"cuisine"`
	Location               string             `bson:"location" json:"location"`
	Phone                  string             `bson:"phone" json:"phone"`
	Hours                  string             `bson:"hours" json:"hours"`
	Images                 []string           `bson:"images" json:"images"`
	Menu                   []MenuCategory     `bson:"menu" json:"menu"`
	PriceRange             string             `bson:"priceRange" json:"priceRange"`
	IsLgbtqFriendly        bool               `bson:"isLgbtqFriendly" json:"isLgbtqFriendly"`
	IsSmokingAllowed       bool               `bson:"isSmokingAllowed" json:"isSmokingAllowed"`
	HasOutdoorSeating      bool               `bson:"hasOutdoorSeating" json:"hasOutdoorSeating"`
	IsWheelchairAccessible bool               `bson:"isWheelchairAccessible" json:"isWheelchairAccessible"`
	HasVeganOptions        bool               `bson:"hasVeganOptions" json:"hasVeganOptions"`
	HasVegetarianOptions   bool               `bson:"hasVegetarianOptions" json:"hasVegetarianOptions"`
	Rating                 *float64           `bson:"rating,omitempty" json:"rating,omitempty"`
	CreatedAt              time.Time          `bson:"createdAt" json:"createdAt"`
}
