package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"orderboard/internal/models"
)

// Login authenticates an operator and returns the bearer token with identity
// claims. Rejected credentials come back as AuthError.
func (c *Client) Login(ctx context.Context, email, password string) (models.AuthResponse, error) {
	var resp models.AuthResponse
	body := map[string]string{"email": email, "password": password}
	status, err := c.do(ctx, http.MethodPost, "/admin/auth/login", nil, body, &resp)
	if err != nil {
		if _, ok := err.(*AuthError); ok {
			return resp, &AuthError{Message: "invalid credentials", StatusCode: status}
		}
		if status == http.StatusBadRequest || status == http.StatusForbidden {
			return resp, &AuthError{Message: "invalid credentials", StatusCode: status}
		}
		return resp, &FetchError{Resource: "login", StatusCode: failStatus(status), Err: err}
	}
	return resp, nil
}

// ListOrders fetches orders, optionally filtered by status and restaurant.
func (c *Client) ListOrders(ctx context.Context, status *models.OrderStatus, restaurantID string) ([]models.Order, error) {
	query := url.Values{}
	if status != nil {
		query.Set("status", strconv.Itoa(int(*status)))
	}
	if restaurantID != "" {
		query.Set("restaurantId", restaurantID)
	}
	var orders []models.Order
	if err := c.get(ctx, "orders", "/admin/orders", query, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrder fetches a single order by id.
func (c *Client) GetOrder(ctx context.Context, id string) (models.Order, error) {
	var order models.Order
	err := c.get(ctx, "order", "/admin/orders/"+id, nil, &order)
	return order, err
}

// UpdateOrderStatus moves an order to the given status.
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status models.OrderStatus) error {
	body := map[string]int{"status": int(status)}
	return c.write(ctx, "update order status", http.MethodPut, "/admin/orders/"+id+"/status", body, nil)
}

// CancelOrderItem cancels one line of an order with an optional reason.
func (c *Client) CancelOrderItem(ctx context.Context, orderID, itemID, reason string) error {
	body := map[string]string{}
	if reason != "" {
		body["reason"] = reason
	}
	return c.write(ctx, "cancel order item", http.MethodPost, "/admin/orders/"+orderID+"/items/"+itemID+"/cancel", body, nil)
}

// ConfirmPendingItems confirms every guest-added pending item on an order.
func (c *Client) ConfirmPendingItems(ctx context.Context, orderID string) error {
	return c.write(ctx, "confirm pending items", http.MethodPost, "/admin/orders/"+orderID+"/items/confirm", nil, nil)
}

// ListTableSessions fetches table sessions, optionally filtered by restaurant.
func (c *Client) ListTableSessions(ctx context.Context, restaurantID string) ([]models.TableSession, error) {
	query := url.Values{}
	if restaurantID != "" {
		query.Set("restaurantId", restaurantID)
	}
	var sessions []models.TableSession
	if err := c.get(ctx, "table sessions", "/admin/table-sessions", query, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetTableSession fetches a single table session by id.
func (c *Client) GetTableSession(ctx context.Context, id string) (models.TableSession, error) {
	var session models.TableSession
	err := c.get(ctx, "table session", "/admin/table-sessions/"+id, nil, &session)
	return session, err
}

// CloseTableSession closes a session; closing is terminal.
func (c *Client) CloseTableSession(ctx context.Context, id, reason string) error {
	body := map[string]string{}
	if reason != "" {
		body["reason"] = reason
	}
	return c.write(ctx, "close table session", http.MethodPost, "/admin/table-sessions/"+id+"/close", body, nil)
}

// MarkSessionPaid marks every unpaid order in a session as paid.
func (c *Client) MarkSessionPaid(ctx context.Context, id, note string) error {
	body := map[string]string{}
	if note != "" {
		body["note"] = note
	}
	return c.write(ctx, "mark session paid", http.MethodPost, "/admin/table-sessions/"+id+"/mark-paid", body, nil)
}

// MarkOrderPaidInSession marks one guest order within a session as paid.
func (c *Client) MarkOrderPaidInSession(ctx context.Context, sessionID, orderID string) error {
	return c.write(ctx, "mark order paid", http.MethodPost, "/admin/table-sessions/"+sessionID+"/orders/"+orderID+"/mark-paid", nil, nil)
}

// ListRestaurants fetches all restaurants visible to the operator.
func (c *Client) ListRestaurants(ctx context.Context) ([]models.Restaurant, error) {
	var restaurants []models.Restaurant
	if err := c.get(ctx, "restaurants", "/admin/restaurants", nil, &restaurants); err != nil {
		return nil, err
	}
	return restaurants, nil
}

// GetRestaurant fetches a single restaurant by id.
func (c *Client) GetRestaurant(ctx context.Context, id string) (models.Restaurant, error) {
	var restaurant models.Restaurant
	err := c.get(ctx, "restaurant", "/admin/restaurants/"+id, nil, &restaurant)
	return restaurant, err
}

// GetRestaurantStatus fetches the order-acceptance state of a restaurant.
func (c *Client) GetRestaurantStatus(ctx context.Context, id string) (models.RestaurantStatus, error) {
	var status models.RestaurantStatus
	err := c.get(ctx, "restaurant status", "/admin/restaurants/"+id+"/status", nil, &status)
	return status, err
}

// ToggleRestaurantOrders switches order intake on or off for a restaurant,
// with an optional message shown to guests while paused.
func (c *Client) ToggleRestaurantOrders(ctx context.Context, id string, accepting bool, pauseMessage string) error {
	body := map[string]interface{}{"acceptingOrders": accepting}
	if pauseMessage != "" {
		body["pauseMessage"] = pauseMessage
	}
	return c.write(ctx, "toggle restaurant orders", http.MethodPost, "/admin/restaurants/"+id+"/toggle-orders", body, nil)
}
