package auth

import (
	"context"
	"log"
	"sync"

	"github.com/dgrijalva/jwt-go"
	"github.com/jinzhu/gorm"

	"orderboard/internal/api"
	"orderboard/internal/database"
	"orderboard/internal/models"
)

// Store owns the operator session: login, token lifetime, durable
// persistence, and the forced logout triggered by a 401 anywhere. It is an
// explicitly constructed dependency, not ambient state.
type Store struct {
	client *api.Client
	db     *gorm.DB

	mu       sync.RWMutex
	admin    *models.Admin
	token    string
	scope    string
	onLogin  func(models.Admin)
	onLogout func()
}

// NewStore wires the auth store to the API client and the local state
// database. Any 401 seen by the client clears the session.
func NewStore(client *api.Client, db *gorm.DB) *Store {
	s := &Store{client: client, db: db}
	client.OnUnauthorized(func() {
		log.Println("auth: session expired, logging out")
		s.Logout()
	})
	return s
}

// OnLogin registers a hook invoked after a successful login.
func (s *Store) OnLogin(fn func(models.Admin)) {
	s.mu.Lock()
	s.onLogin = fn
	s.mu.Unlock()
}

// OnLogout registers a hook invoked after the session is cleared, both for
// explicit logout and for forced logout on 401.
func (s *Store) OnLogout(fn func()) {
	s.mu.Lock()
	s.onLogout = fn
	s.mu.Unlock()
}

// Restore loads a persisted session, if any, and re-arms the client token.
// Returns true when a session was restored.
func (s *Store) Restore() bool {
	record, found, err := database.LoadSession(s.db)
	if err != nil {
		log.Printf("auth: restore session: %v", err)
		return false
	}
	if !found || record.Token == "" {
		return false
	}

	admin := models.Admin{
		ID:             record.AdminID,
		Name:           record.Name,
		Email:          record.Email,
		Role:           record.Role,
		RestaurantID:   record.RestaurantID,
		RestaurantName: record.RestaurantName,
	}

	s.mu.Lock()
	s.admin = &admin
	s.token = record.Token
	s.scope = record.SelectedScope
	s.mu.Unlock()

	s.client.SetToken(record.Token)
	return true
}

// Login authenticates against the platform and persists the session. Bad
// credentials surface as api.AuthError without touching existing state.
func (s *Store) Login(ctx context.Context, email, password string) (models.Admin, error) {
	resp, err := s.client.Login(ctx, email, password)
	if err != nil {
		return models.Admin{}, err
	}

	admin := resp.Identity()
	enrichFromToken(&admin, resp.Token)

	s.mu.Lock()
	s.admin = &admin
	s.token = resp.Token
	s.mu.Unlock()

	s.client.SetToken(resp.Token)

	if err := database.SaveSession(s.db, database.SessionRecord{
		Token:          resp.Token,
		AdminID:        admin.ID,
		Name:           admin.Name,
		Email:          admin.Email,
		Role:           admin.Role,
		RestaurantID:   admin.RestaurantID,
		RestaurantName: admin.RestaurantName,
	}); err != nil {
		log.Printf("auth: persist session: %v", err)
	}

	s.mu.RLock()
	hook := s.onLogin
	s.mu.RUnlock()
	if hook != nil {
		hook(admin)
	}
	return admin, nil
}

// Logout clears the in-memory and persisted session.
func (s *Store) Logout() {
	s.mu.Lock()
	s.admin = nil
	s.token = ""
	s.scope = ""
	hook := s.onLogout
	s.mu.Unlock()

	s.client.ClearToken()
	if err := database.ClearSession(s.db); err != nil {
		log.Printf("auth: clear session: %v", err)
	}
	if hook != nil {
		hook()
	}
}

// Admin returns the authenticated identity, if any.
func (s *Store) Admin() (models.Admin, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.admin == nil {
		return models.Admin{}, false
	}
	return *s.admin, true
}

// RestaurantID returns the restaurant bound to the identity, empty for a
// platform admin.
func (s *Store) RestaurantID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.admin == nil {
		return ""
	}
	return s.admin.RestaurantID
}

// PersistScope records the selected restaurant scope for the next start.
func (s *Store) PersistScope(scope string) {
	s.mu.Lock()
	s.scope = scope
	s.mu.Unlock()
	if err := database.SaveScope(s.db, scope); err != nil {
		log.Printf("auth: persist scope: %v", err)
	}
}

// RestoredScope returns the restaurant scope persisted by a prior run.
func (s *Store) RestoredScope() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scope
}

// enrichFromToken fills identity fields missing from the login payload with
// the bearer token's claims. The token is signed and verified upstream; the
// console only reads it.
func enrichFromToken(admin *models.Admin, token string) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return
	}
	if admin.ID == "" {
		if v, ok := claims["sub"].(string); ok {
			admin.ID = v
		}
	}
	if admin.Email == "" {
		if v, ok := claims["email"].(string); ok {
			admin.Email = v
		}
	}
	if admin.Role == "" {
		if v, ok := claims["role"].(string); ok {
			admin.Role = v
		}
	}
	if admin.RestaurantID == "" {
		if v, ok := claims["restaurantId"].(string); ok {
			admin.RestaurantID = v
		}
	}
}
