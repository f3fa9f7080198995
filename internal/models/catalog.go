package models

import "time"

// TableType enumerates the seating categories a table can have.
type TableType int

const (
	TableTypeStandard TableType = 0
	TableTypeVIP      TableType = 1
	TableTypeBar      TableType = 2
	TableTypeTerrace  TableType = 3
	TableTypeBooth    TableType = 4
	TableTypeKids     TableType = 5
)

// TableTypeNames maps table types to display labels.
var TableTypeNames = map[TableType]string{
	TableTypeStandard: "Standard",
	TableTypeVIP:      "VIP",
	TableTypeBar:      "Bar",
	TableTypeTerrace:  "Terrace",
	TableTypeBooth:    "Booth",
	TableTypeKids:     "Kids",
}

// Table is a physical table with its QR binding.
type Table struct {
	ID             string    `json:"id"`
	Number         int       `json:"number"`
	Name           string    `json:"name,omitempty"`
	Type           TableType `json:"type"`
	TypeName       string    `json:"typeName"`
	Capacity       int       `json:"capacity"`
	QRCode         string    `json:"qrCode"`
	IsActive       bool      `json:"isActive"`
	CreatedAt      time.Time `json:"createdAt"`
	RestaurantID   string    `json:"restaurantId"`
	RestaurantName string    `json:"restaurantName"`
	MenuID         string    `json:"menuId,omitempty"`
	MenuName       string    `json:"menuName,omitempty"`
}

// QRCodeResponse is returned by the QR generation endpoints.
type QRCodeResponse struct {
	TableID      string `json:"tableId"`
	TableNumber  int    `json:"tableNumber"`
	TableName    string `json:"tableName,omitempty"`
	QRCodeBase64 string `json:"qrCodeBase64"`
	QRCodeURL    string `json:"qrCodeUrl"`
}

// Menu groups categories for one restaurant.
type Menu struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	IsActive       bool           `json:"isActive"`
	CreatedAt      time.Time      `json:"createdAt"`
	RestaurantID   string         `json:"restaurantId"`
	RestaurantName string         `json:"restaurantName"`
	Categories     []MenuCategory `json:"categories"`
}

// MenuCategory is a category's placement inside a menu.
type MenuCategory struct {
	ID           string `json:"id"`
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	CategoryIcon string `json:"categoryIcon,omitempty"`
	SortOrder    int    `json:"sortOrder"`
	ProductCount int    `json:"productCount"`
}

// Category is a product grouping, optionally nested and optionally limited to
// a daily availability window.
type Category struct {
	ID                    string  `json:"id"`
	Name                  string  `json:"name"`
	Icon                  string  `json:"icon,omitempty"`
	SortOrder             int     `json:"sortOrder"`
	IsActive              bool    `json:"isActive"`
	ProductCount          int     `json:"productCount"`
	ParentCategoryID      *string `json:"parentCategoryId,omitempty"`
	ParentCategoryName    *string `json:"parentCategoryName,omitempty"`
	AvailableFrom         *string `json:"availableFrom,omitempty"`
	AvailableTo           *string `json:"availableTo,omitempty"`
	IsTemporarilyDisabled bool    `json:"isTemporarilyDisabled"`
	IsCurrentlyAvailable  bool    `json:"isCurrentlyAvailable"`
}

// ProductSize is a sellable size variant with its price delta.
type ProductSize struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	PriceModifier float64 `json:"priceModifier"`
	IsDefault     bool    `json:"isDefault"`
}

// ProductAddon is an optional paid extra.
type ProductAddon struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// Product is a sellable menu item.
type Product struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Description     string         `json:"description,omitempty"`
	BasePrice       float64        `json:"basePrice"`
	ImageURL        string         `json:"imageUrl,omitempty"`
	Rating          float64        `json:"rating,omitempty"`
	Calories        int            `json:"calories,omitempty"`
	PrepTimeMinutes int            `json:"prepTimeMinutes,omitempty"`
	IsAvailable     bool           `json:"isAvailable"`
	CategoryID      string         `json:"categoryId"`
	CategoryName    string         `json:"categoryName"`
	MenuID          string         `json:"menuId,omitempty"`
	MenuName        string         `json:"menuName,omitempty"`
	Sizes           []ProductSize  `json:"sizes"`
	Addons          []ProductAddon `json:"addons"`
}
