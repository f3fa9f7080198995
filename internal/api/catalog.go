package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"orderboard/internal/models"
)

// The catalog endpoints back the CRUD screens of the dashboard. They share
// the client's error taxonomy but carry no reconciliation logic.

// MenuRequest is the create/update payload for menus.
type MenuRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	IsActive     bool   `json:"isActive"`
	RestaurantID string `json:"restaurantId,omitempty"`
}

// CategoryRequest is the create/update payload for categories.
type CategoryRequest struct {
	Name             string  `json:"name"`
	Icon             string  `json:"icon,omitempty"`
	SortOrder        int     `json:"sortOrder"`
	IsActive         bool    `json:"isActive"`
	ParentCategoryID *string `json:"parentCategoryId,omitempty"`
}

// ProductRequest is the create/update payload for products.
type ProductRequest struct {
	Name            string                `json:"name"`
	Description     string                `json:"description,omitempty"`
	BasePrice       float64               `json:"basePrice"`
	Calories        int                   `json:"calories,omitempty"`
	PrepTimeMinutes int                   `json:"prepTimeMinutes,omitempty"`
	IsAvailable     bool                  `json:"isAvailable"`
	CategoryID      string                `json:"categoryId"`
	MenuID          string                `json:"menuId,omitempty"`
	Sizes           []models.ProductSize  `json:"sizes,omitempty"`
	Addons          []models.ProductAddon `json:"addons,omitempty"`
}

// TableRequest is the create/update payload for tables.
type TableRequest struct {
	Number       int              `json:"number"`
	Name         string           `json:"name,omitempty"`
	Type         models.TableType `json:"type"`
	Capacity     int              `json:"capacity"`
	RestaurantID string           `json:"restaurantId,omitempty"`
	MenuID       string           `json:"menuId,omitempty"`
}

// ListMenus fetches menus, optionally filtered by restaurant.
func (c *Client) ListMenus(ctx context.Context, restaurantID string) ([]models.Menu, error) {
	query := url.Values{}
	if restaurantID != "" {
		query.Set("restaurantId", restaurantID)
	}
	var menus []models.Menu
	if err := c.get(ctx, "menus", "/admin/menus", query, &menus); err != nil {
		return nil, err
	}
	return menus, nil
}

// CreateMenu creates a menu.
func (c *Client) CreateMenu(ctx context.Context, req MenuRequest) error {
	return c.write(ctx, "create menu", http.MethodPost, "/admin/menus", req, nil)
}

// UpdateMenu updates a menu.
func (c *Client) UpdateMenu(ctx context.Context, id string, req MenuRequest) error {
	return c.write(ctx, "update menu", http.MethodPut, "/admin/menus/"+id, req, nil)
}

// DeleteMenu deletes a menu.
func (c *Client) DeleteMenu(ctx context.Context, id string) error {
	return c.write(ctx, "delete menu", http.MethodDelete, "/admin/menus/"+id, nil, nil)
}

// AddCategoryToMenu places a category into a menu at the given sort order.
func (c *Client) AddCategoryToMenu(ctx context.Context, menuID, categoryID string, sortOrder int) error {
	body := map[string]interface{}{"categoryId": categoryID, "sortOrder": sortOrder}
	return c.write(ctx, "add category to menu", http.MethodPost, "/admin/menus/"+menuID+"/categories", body, nil)
}

// RemoveCategoryFromMenu removes a category from a menu.
func (c *Client) RemoveCategoryFromMenu(ctx context.Context, menuID, categoryID string) error {
	return c.write(ctx, "remove category from menu", http.MethodDelete, "/admin/menus/"+menuID+"/categories/"+categoryID, nil, nil)
}

// ListCategories fetches all categories.
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.get(ctx, "categories", "/admin/categories", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory creates a category.
func (c *Client) CreateCategory(ctx context.Context, req CategoryRequest) error {
	return c.write(ctx, "create category", http.MethodPost, "/admin/categories", req, nil)
}

// UpdateCategory updates a category.
func (c *Client) UpdateCategory(ctx context.Context, id string, req CategoryRequest) error {
	return c.write(ctx, "update category", http.MethodPut, "/admin/categories/"+id, req, nil)
}

// DeleteCategory deletes a category.
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.write(ctx, "delete category", http.MethodDelete, "/admin/categories/"+id, nil, nil)
}

// ToggleCategoryAvailability temporarily disables or re-enables a category.
func (c *Client) ToggleCategoryAvailability(ctx context.Context, id string, disabled bool) error {
	body := map[string]bool{"isTemporarilyDisabled": disabled}
	return c.write(ctx, "toggle category availability", http.MethodPost, "/admin/categories/"+id+"/toggle-availability", body, nil)
}

// SetCategorySchedule sets the daily availability window of a category.
// Empty bounds clear the schedule.
func (c *Client) SetCategorySchedule(ctx context.Context, id, availableFrom, availableTo string) error {
	body := map[string]string{}
	if availableFrom != "" {
		body["availableFrom"] = availableFrom
	}
	if availableTo != "" {
		body["availableTo"] = availableTo
	}
	return c.write(ctx, "set category schedule", http.MethodPost, "/admin/categories/"+id+"/schedule", body, nil)
}

// ListProducts fetches products, optionally filtered by category and menu.
func (c *Client) ListProducts(ctx context.Context, categoryID, menuID string) ([]models.Product, error) {
	query := url.Values{}
	if categoryID != "" {
		query.Set("categoryId", categoryID)
	}
	if menuID != "" {
		query.Set("menuId", menuID)
	}
	var products []models.Product
	if err := c.get(ctx, "products", "/admin/products", query, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct creates a product.
func (c *Client) CreateProduct(ctx context.Context, req ProductRequest) error {
	return c.write(ctx, "create product", http.MethodPost, "/admin/products", req, nil)
}

// UpdateProduct updates a product.
func (c *Client) UpdateProduct(ctx context.Context, id string, req ProductRequest) error {
	return c.write(ctx, "update product", http.MethodPut, "/admin/products/"+id, req, nil)
}

// DeleteProduct deletes a product.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.write(ctx, "delete product", http.MethodDelete, "/admin/products/"+id, nil, nil)
}

// ToggleProduct flips a product's availability.
func (c *Client) ToggleProduct(ctx context.Context, id string) error {
	return c.write(ctx, "toggle product", http.MethodPut, "/admin/products/"+id+"/toggle", nil, nil)
}

// UploadProductImage uploads a product photo as multipart form data and
// returns the stored image URL.
func (c *Client) UploadProductImage(ctx context.Context, id, filename string, data io.Reader) (string, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("image", filename)
	if err != nil {
		return "", &MutationError{Op: "upload product image", Err: err}
	}
	if _, err := io.Copy(part, data); err != nil {
		return "", &MutationError{Op: "upload product image", Err: err}
	}
	if err := form.Close(); err != nil {
		return "", &MutationError{Op: "upload product image", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/admin/products/"+id+"/image", &buf)
	if err != nil {
		return "", &MutationError{Op: "upload product image", Err: err}
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	c.mu.RLock()
	token := c.token
	hook := c.onUnauthorized
	c.mu.RUnlock()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &MutationError{Op: "upload product image", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		if hook != nil {
			hook()
		}
		return "", &AuthError{Message: "session expired", StatusCode: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &MutationError{Op: "upload product image", StatusCode: resp.StatusCode,
			Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	var out struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &MutationError{Op: "upload product image", Err: fmt.Errorf("decode response: %w", err)}
	}
	return out.ImageURL, nil
}

// ListTables fetches tables, optionally filtered by restaurant.
func (c *Client) ListTables(ctx context.Context, restaurantID string) ([]models.Table, error) {
	query := url.Values{}
	if restaurantID != "" {
		query.Set("restaurantId", restaurantID)
	}
	var tables []models.Table
	if err := c.get(ctx, "tables", "/admin/tables", query, &tables); err != nil {
		return nil, err
	}
	return tables, nil
}

// CreateTable creates a table.
func (c *Client) CreateTable(ctx context.Context, req TableRequest) error {
	return c.write(ctx, "create table", http.MethodPost, "/admin/tables", req, nil)
}

// UpdateTable updates a table.
func (c *Client) UpdateTable(ctx context.Context, id string, req TableRequest) error {
	return c.write(ctx, "update table", http.MethodPut, "/admin/tables/"+id, req, nil)
}

// DeleteTable deletes a table.
func (c *Client) DeleteTable(ctx context.Context, id string) error {
	return c.write(ctx, "delete table", http.MethodDelete, "/admin/tables/"+id, nil, nil)
}

// ToggleTable flips a table's active flag.
func (c *Client) ToggleTable(ctx context.Context, id string) error {
	return c.write(ctx, "toggle table", http.MethodPut, "/admin/tables/"+id+"/toggle", nil, nil)
}

// GetTableQR fetches the current QR code of a table.
func (c *Client) GetTableQR(ctx context.Context, id string) (models.QRCodeResponse, error) {
	var qr models.QRCodeResponse
	err := c.get(ctx, "table qr", "/admin/tables/"+id+"/qr", nil, &qr)
	return qr, err
}

// GenerateTableQR generates a QR code binding a table to a menu.
func (c *Client) GenerateTableQR(ctx context.Context, tableID, menuID, baseURL string) (models.QRCodeResponse, error) {
	body := map[string]string{"tableId": tableID, "menuId": menuID}
	if baseURL != "" {
		body["baseUrl"] = baseURL
	}
	var qr models.QRCodeResponse
	err := c.write(ctx, "generate table qr", http.MethodPost, "/admin/tables/"+tableID+"/generate-qr", body, &qr)
	return qr, err
}

// BulkGenerateQR generates QR codes for several tables at once.
func (c *Client) BulkGenerateQR(ctx context.Context, tableIDs []string, menuID, baseURL string) ([]models.QRCodeResponse, error) {
	body := map[string]interface{}{"tableIds": tableIDs, "menuId": menuID}
	if baseURL != "" {
		body["baseUrl"] = baseURL
	}
	var qrs []models.QRCodeResponse
	err := c.write(ctx, "bulk generate qr", http.MethodPost, "/admin/tables/bulk-generate-qr", body, &qrs)
	return qrs, err
}
