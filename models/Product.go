package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
)

// Product is a catalog entry for one pet-food product. The tuple
// (brand, flavor, species, lifeStage, foodType) acts as the natural key;
// the repository rejects duplicates at write time.
//
// Ingredients are stored as an ordered list of names, matched against the
// ingredient catalog by name rather than by foreign key. Deleting an
// ingredient never cascades to products.
type Product struct {
	gorm.Model
	Brand        string          `gorm:"not null;index" json:"brand"`
	Flavor       string          `gorm:"not null" json:"flavor"`
	Species      string          `gorm:"not null;check:species IN ('cat','dog')" json:"species"`
	LifeStage    string          `gorm:"not null;check:life_stage IN ('adult','young','all')" json:"lifeStage"`
	FoodType     string          `gorm:"not null;check:food_type IN ('dry','wet')" json:"foodType"`
	Ingredients  IngredientNames `gorm:"type:jsonb;not null;default:'[]'" json:"ingredients"`
	Sizes        []ProductSize   `gorm:"foreignKey:ProductID" json:"sizes"`
	FeedingChart FeedingChart    `gorm:"type:jsonb;not null;default:'[]'" json:"feedingChart"`
}

// ProductSize is a purchasable packaging option owned by its parent product.
// The row id is the sub-record identifier used for targeted updates.
type ProductSize struct {
	gorm.Model
	ProductID uint     `gorm:"not null;index" json:"productId"`
	Packaging string   `gorm:"not null" json:"packaging"`
	Price     float64  `gorm:"not null;check:price >= 0" json:"price"`
	Count     float64  `gorm:"not null" json:"count"`
	Unit      string   `gorm:"not null;check:unit IN ('lb','can')" json:"unit"`
	Links     URLList  `gorm:"type:jsonb;not null;default:'[]'" json:"links"`
	ImageURLs URLList  `gorm:"type:jsonb;not null;default:'[]'" json:"imageUrls"`
}

// FeedingChartRow is one band of the feeding chart. Ages are in years,
// weights in lbs, servings in cups (dry) or cans (wet) per day.
type FeedingChartRow struct {
	MinAge     float64 `json:"minAge"`
	MaxAge     float64 `json:"maxAge"`
	MinWeight  float64 `json:"minWeight"`
	MaxWeight  float64 `json:"maxWeight"`
	MinServing float64 `json:"minServing"`
	MaxServing float64 `json:"maxServing"`
}

type (
	// IngredientNames is an ordered list of ingredient names stored as JSONB.
	IngredientNames []string
	// URLList is an ordered list of URLs stored as JSONB.
	URLList []string
	// FeedingChart is an ordered list of feeding bands stored as JSONB.
	FeedingChart []FeedingChartRow
)

func jsonbBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, errors.New("unsupported jsonb source type")
	}
}

func (n *IngredientNames) Scan(value interface{}) error {
	if value == nil {
		*n = make(IngredientNames, 0)
		return nil
	}
	bytes, err := jsonbBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, n)
}

func (n IngredientNames) Value() (driver.Value, error) {
	if n == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(n)
}

func (u *URLList) Scan(value interface{}) error {
	if value == nil {
		*u = make(URLList, 0)
		return nil
	}
	bytes, err := jsonbBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, u)
}

func (u URLList) Value() (driver.Value, error) {
	if u == nil {
		return json.Marshal([]string{})
	}
	return json.Marshal(u)
}

func (f *FeedingChart) Scan(value interface{}) error {
	if value == nil {
		*f = make(FeedingChart, 0)
		return nil
	}
	bytes, err := jsonbBytes(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(bytes, f)
}

func (f FeedingChart) Value() (driver.Value, error) {
	if f == nil {
		return json.Marshal([]FeedingChartRow{})
	}
	return json.Marshal(f)
}
