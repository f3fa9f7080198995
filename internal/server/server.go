// Package server is the dashboard-facing API of the console: projection
// reads, mutation passthrough to the store, and a fan-out WebSocket pushing
// store changes to connected dashboard clients.
package server

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"orderboard/internal/api"
	"orderboard/internal/auth"
	"orderboard/internal/models"
	"orderboard/internal/notify"
	"orderboard/internal/scope"
	"orderboard/internal/store"
	"orderboard/internal/views"
)

// Server wires the console's components behind a gin router.
type Server struct {
	router  *gin.Engine
	store   *store.Store
	auth    *auth.Store
	scope   *scope.Selector
	client  *api.Client
	emitter *notify.Emitter

	clientsMu sync.Mutex
	clients   map[*wsClient]struct{}
}

// New creates the dashboard server and registers it for store fan-out.
func New(st *store.Store, authStore *auth.Store, selector *scope.Selector, client *api.Client, emitter *notify.Emitter) *Server {
	s := &Server{
		router:  gin.Default(),
		store:   st,
		auth:    authStore,
		scope:   selector,
		client:  client,
		emitter: emitter,
		clients: make(map[*wsClient]struct{}),
	}

	st.OnChange(s.Broadcast)
	st.OnAlert(func(op, message string) {
		s.Broadcast("Alert", gin.H{"op": op, "message": message})
	})

	s.setupRoutes()
	return s
}

// Router returns the gin router.
func (s *Server) Router() *gin.Engine { return s.router }

func (s *Server) setupRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	s.router.POST("/api/login", s.handleLogin)
	s.router.GET("/ws", s.handleWS)

	authed := s.router.Group("/api", s.requireSession)
	{
		authed.POST("/logout", s.handleLogout)
		authed.GET("/me", s.handleMe)

		authed.GET("/scope", s.handleGetScope)
		authed.PUT("/scope", s.handleSelectScope)

		authed.GET("/orders", s.handleOrders)
		authed.PUT("/orders/filter", s.handleSetFilter)
		authed.POST("/orders/refresh", s.handleRefresh)
		authed.PUT("/orders/selected", s.handleSelectOrder)
		authed.GET("/orders/selected", s.handleSelectedOrder)
		authed.GET("/orders/:id", s.handleGetOrder)
		authed.POST("/orders/:id/status", s.handleChangeStatus)
		authed.POST("/orders/:id/items/:itemId/cancel", s.handleCancelItem)
		authed.POST("/orders/:id/items/confirm", s.handleConfirmItems)

		authed.GET("/sessions", s.handleSessions)
		authed.PUT("/sessions/selected", s.handleSelectSession)
		authed.GET("/sessions/selected", s.handleSelectedSession)
		authed.GET("/sessions/:id", s.handleGetSession)
		authed.POST("/sessions/:id/close", s.handleCloseSession)
		authed.POST("/sessions/:id/mark-paid", s.handleMarkSessionPaid)
		authed.POST("/sessions/:id/orders/:orderId/mark-paid", s.handleMarkOrderPaid)

		authed.GET("/acceptance", s.handleAcceptance)
		authed.POST("/acceptance", s.handleToggleAcceptance)

		authed.POST("/sound/prime", s.handlePrimeSound)

		s.setupCatalogRoutes(authed)
	}
}

// requireSession rejects requests without an authenticated operator session.
func (s *Server) requireSession(c *gin.Context) {
	if _, ok := s.auth.Admin(); !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not logged in"})
	}
}

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	admin, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		var authErr *api.AuthError
		if errors.As(err, &authErr) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid email or password"})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "login failed"})
		return
	}
	c.JSON(http.StatusOK, admin)
}

func (s *Server) handleLogout(c *gin.Context) {
	s.auth.Logout()
	c.JSON(http.StatusOK, gin.H{"status": "logged out"})
}

func (s *Server) handleMe(c *gin.Context) {
	admin, _ := s.auth.Admin()
	c.JSON(http.StatusOK, admin)
}

func (s *Server) handleGetScope(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"restaurantId": s.scope.Current(),
		"fixed":        s.scope.Fixed(),
	})
}

func (s *Server) handleSelectScope(c *gin.Context) {
	var req struct {
		RestaurantID string `json:"restaurantId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.scope.Select(req.RestaurantID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	}
	s.auth.PersistScope(req.RestaurantID)
	c.JSON(http.StatusOK, gin.H{"restaurantId": req.RestaurantID})
}

func (s *Server) handleOrders(c *gin.Context) {
	orders := s.store.Orders()
	filter := s.store.Filter()
	c.JSON(http.StatusOK, gin.H{
		"orders":         views.FilterByStatus(orders, filter),
		"filter":         int(filter),
		"newOrdersCount": s.store.NewOrdersCount(),
		"countsByStatus": views.CountByStatus(orders),
	})
}

func (s *Server) handleSetFilter(c *gin.Context) {
	var req struct {
		Filter *int `json:"filter" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.SetFilter(c.Request.Context(), views.StatusFilter(*req.Filter)); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	s.handleOrders(c)
}

func (s *Server) handleRefresh(c *gin.Context) {
	s.store.ReloadAll(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"status": "reloaded"})
}

func (s *Server) handleSelectOrder(c *gin.Context) {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.store.SelectOrder(req.ID)
	s.handleSelectedOrder(c)
}

func (s *Server) handleSelectedOrder(c *gin.Context) {
	order, ok := s.store.SelectedOrder()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"selected": nil})
		return
	}
	next, hasNext := views.NextStatus(order.Status)
	resp := gin.H{"selected": order}
	if hasNext {
		resp["nextStatus"] = int(next)
		resp["nextStatusName"] = next.String()
	}
	c.JSON(http.StatusOK, resp)
}

// handleGetOrder fetches one order fresh from the platform, bypassing the
// store snapshot; used by the detail pane.
func (s *Server) handleGetOrder(c *gin.Context) {
	order, err := s.client.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *Server) handleChangeStatus(c *gin.Context) {
	var req struct {
		Status *int `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.ChangeStatus(c.Request.Context(), c.Param("id"), models.OrderStatus(*req.Status)); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}

func (s *Server) handleCancelItem(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.CancelItem(c.Request.Context(), c.Param("id"), c.Param("itemId"), req.Reason); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

func (s *Server) handleConfirmItems(c *gin.Context) {
	if err := s.store.ConfirmPendingItems(c.Request.Context(), c.Param("id")); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "confirmed"})
}

func (s *Server) handleSessions(c *gin.Context) {
	sessions := s.store.Sessions()
	groups := views.GroupSessionsByTable(sessions)
	aggregates := make(map[string]views.PaymentAggregate, len(sessions))
	for _, session := range sessions {
		aggregates[session.ID] = views.AggregatePaidUnpaid(session)
	}
	c.JSON(http.StatusOK, gin.H{
		"sessions":   sessions,
		"byTable":    groups,
		"aggregates": aggregates,
	})
}

func (s *Server) handleSelectSession(c *gin.Context) {
	var req struct {
		ID string `json:"id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.store.SelectSession(req.ID)
	s.handleSelectedSession(c)
}

func (s *Server) handleSelectedSession(c *gin.Context) {
	session, ok := s.store.SelectedSession()
	if !ok {
		c.JSON(http.StatusOK, gin.H{"selected": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"selected":  session,
		"aggregate": views.AggregatePaidUnpaid(session),
	})
}

func (s *Server) handleGetSession(c *gin.Context) {
	session, err := s.client.GetTableSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"session":   session,
		"aggregate": views.AggregatePaidUnpaid(session),
	})
}

func (s *Server) handleCloseSession(c *gin.Context) {
	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.CloseSession(c.Request.Context(), c.Param("id"), req.Reason); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}

func (s *Server) handleMarkSessionPaid(c *gin.Context) {
	var req struct {
		Note string `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.store.MarkSessionPaid(c.Request.Context(), c.Param("id"), req.Note); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "paid"})
}

func (s *Server) handleMarkOrderPaid(c *gin.Context) {
	if err := s.store.MarkOrderPaidInSession(c.Request.Context(), c.Param("id"), c.Param("orderId")); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "paid"})
}

func (s *Server) handleAcceptance(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.Acceptance())
}

func (s *Server) handleToggleAcceptance(c *gin.Context) {
	var req struct {
		AcceptingOrders *bool  `json:"acceptingOrders" binding:"required"`
		PauseMessage    string `json:"pauseMessage"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	restaurantID := s.scope.Current()
	if restaurantID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "select a restaurant first"})
		return
	}
	if err := s.store.ToggleAcceptingOrders(c.Request.Context(), restaurantID, *req.AcceptingOrders, req.PauseMessage); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, s.store.Acceptance())
}

// handlePrimeSound is the explicit operator action that unlocks audio
// playback, mirroring the user-gesture requirement of browser audio.
func (s *Server) handlePrimeSound(c *gin.Context) {
	s.emitter.Prime()
	s.emitter.Notify("Sound check", "Notifications are enabled")
	c.JSON(http.StatusOK, gin.H{"primed": true})
}
