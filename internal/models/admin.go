package models

// Admin roles. RoleAdmin is platform-wide; RoleRestaurantAdmin is scoped to
// a single restaurant fixed at login.
const (
	RoleAdmin           = "Admin"
	RoleRestaurantAdmin = "RestaurantAdmin"
)

// Admin is the authenticated operator identity.
type Admin struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	Name           string `json:"name"`
	Role           string `json:"role"`
	RestaurantID   string `json:"restaurantId,omitempty"`
	RestaurantName string `json:"restaurantName,omitempty"`
}

// AuthResponse is the login endpoint's payload: a bearer token plus the
// identity claims duplicated alongside it.
type AuthResponse struct {
	Token          string `json:"token"`
	AdminID        string `json:"adminId"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	RestaurantID   string `json:"restaurantId,omitempty"`
	RestaurantName string `json:"restaurantName,omitempty"`
}

// Identity converts the login payload into an Admin.
func (r AuthResponse) Identity() Admin {
	return Admin{
		ID:             r.AdminID,
		Email:          r.Email,
		Name:           r.Name,
		Role:           r.Role,
		RestaurantID:   r.RestaurantID,
		RestaurantName: r.RestaurantName,
	}
}
