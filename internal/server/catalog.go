package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"orderboard/internal/api"
)

// Catalog routes are thin passthroughs to the platform API: the CRUD screens
// carry no reconciliation state, so the console forwards them verbatim.

func (s *Server) setupCatalogRoutes(group *gin.RouterGroup) {
	group.GET("/restaurants", s.handleListRestaurants)
	group.GET("/restaurants/:id", s.handleGetRestaurant)

	group.GET("/menus", s.handleListMenus)
	group.POST("/menus", passthroughBody(s, func(c *gin.Context, req api.MenuRequest) error {
		return s.client.CreateMenu(c.Request.Context(), req)
	}))
	group.PUT("/menus/:id", passthroughBody(s, func(c *gin.Context, req api.MenuRequest) error {
		return s.client.UpdateMenu(c.Request.Context(), c.Param("id"), req)
	}))
	group.DELETE("/menus/:id", passthrough(func(c *gin.Context) error {
		return s.client.DeleteMenu(c.Request.Context(), c.Param("id"))
	}))
	group.POST("/menus/:id/categories", s.handleAddCategoryToMenu)
	group.DELETE("/menus/:id/categories/:categoryId", passthrough(func(c *gin.Context) error {
		return s.client.RemoveCategoryFromMenu(c.Request.Context(), c.Param("id"), c.Param("categoryId"))
	}))

	group.GET("/categories", s.handleListCategories)
	group.POST("/categories", passthroughBody(s, func(c *gin.Context, req api.CategoryRequest) error {
		return s.client.CreateCategory(c.Request.Context(), req)
	}))
	group.PUT("/categories/:id", passthroughBody(s, func(c *gin.Context, req api.CategoryRequest) error {
		return s.client.UpdateCategory(c.Request.Context(), c.Param("id"), req)
	}))
	group.DELETE("/categories/:id", passthrough(func(c *gin.Context) error {
		return s.client.DeleteCategory(c.Request.Context(), c.Param("id"))
	}))
	group.POST("/categories/:id/toggle-availability", s.handleToggleCategoryAvailability)
	group.PUT("/categories/:id/schedule", s.handleSetCategorySchedule)

	group.GET("/products", s.handleListProducts)
	group.POST("/products", passthroughBody(s, func(c *gin.Context, req api.ProductRequest) error {
		return s.client.CreateProduct(c.Request.Context(), req)
	}))
	group.PUT("/products/:id", passthroughBody(s, func(c *gin.Context, req api.ProductRequest) error {
		return s.client.UpdateProduct(c.Request.Context(), c.Param("id"), req)
	}))
	group.DELETE("/products/:id", passthrough(func(c *gin.Context) error {
		return s.client.DeleteProduct(c.Request.Context(), c.Param("id"))
	}))
	group.PUT("/products/:id/toggle", passthrough(func(c *gin.Context) error {
		return s.client.ToggleProduct(c.Request.Context(), c.Param("id"))
	}))
	group.POST("/products/:id/image", s.handleUploadProductImage)

	group.GET("/tables", s.handleListTables)
	group.POST("/tables", passthroughBody(s, func(c *gin.Context, req api.TableRequest) error {
		return s.client.CreateTable(c.Request.Context(), req)
	}))
	group.PUT("/tables/:id", passthroughBody(s, func(c *gin.Context, req api.TableRequest) error {
		return s.client.UpdateTable(c.Request.Context(), c.Param("id"), req)
	}))
	group.DELETE("/tables/:id", passthrough(func(c *gin.Context) error {
		return s.client.DeleteTable(c.Request.Context(), c.Param("id"))
	}))
	group.PUT("/tables/:id/toggle", passthrough(func(c *gin.Context) error {
		return s.client.ToggleTable(c.Request.Context(), c.Param("id"))
	}))
	group.GET("/tables/:id/qr", s.handleGetTableQR)
	group.POST("/tables/:id/generate-qr", s.handleGenerateQR)
	group.POST("/tables/bulk-generate-qr", s.handleBulkGenerateQR)
}

func passthrough(fn func(c *gin.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := fn(c); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func passthroughBody[T any](s *Server, fn func(c *gin.Context, req T) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req T
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if err := fn(c, req); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func (s *Server) handleAddCategoryToMenu(c *gin.Context) {
	var req struct {
		CategoryID string `json:"categoryId" binding:"required"`
		SortOrder  int    `json:"sortOrder"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.client.AddCategoryToMenu(c.Request.Context(), c.Param("id"), req.CategoryID, req.SortOrder); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleToggleCategoryAvailability(c *gin.Context) {
	var req struct {
		Disabled *bool `json:"isTemporarilyDisabled" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.client.ToggleCategoryAvailability(c.Request.Context(), c.Param("id"), *req.Disabled); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleSetCategorySchedule(c *gin.Context) {
	var req struct {
		AvailableFrom string `json:"availableFrom"`
		AvailableTo   string `json:"availableTo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.client.SetCategorySchedule(c.Request.Context(), c.Param("id"), req.AvailableFrom, req.AvailableTo); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleUploadProductImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	defer file.Close()

	imageURL, err := s.client.UploadProductImage(c.Request.Context(), c.Param("id"), header.Filename, file)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imageUrl": imageURL})
}

func (s *Server) handleListRestaurants(c *gin.Context) {
	restaurants, err := s.client.ListRestaurants(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, restaurants)
}

func (s *Server) handleGetRestaurant(c *gin.Context) {
	restaurant, err := s.client.GetRestaurant(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, restaurant)
}

func (s *Server) handleListMenus(c *gin.Context) {
	menus, err := s.client.ListMenus(c.Request.Context(), c.Query("restaurantId"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, menus)
}

func (s *Server) handleListCategories(c *gin.Context) {
	categories, err := s.client.ListCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (s *Server) handleListProducts(c *gin.Context) {
	products, err := s.client.ListProducts(c.Request.Context(), c.Query("categoryId"), c.Query("menuId"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (s *Server) handleListTables(c *gin.Context) {
	tables, err := s.client.ListTables(c.Request.Context(), c.Query("restaurantId"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, tables)
}

func (s *Server) handleGetTableQR(c *gin.Context) {
	qr, err := s.client.GetTableQR(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, qr)
}

func (s *Server) handleGenerateQR(c *gin.Context) {
	var req struct {
		MenuID  string `json:"menuId" binding:"required"`
		BaseURL string `json:"baseUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	qr, err := s.client.GenerateTableQR(c.Request.Context(), c.Param("id"), req.MenuID, req.BaseURL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, qr)
}

func (s *Server) handleBulkGenerateQR(c *gin.Context) {
	var req struct {
		TableIDs []string `json:"tableIds" binding:"required"`
		MenuID   string   `json:"menuId" binding:"required"`
		BaseURL  string   `json:"baseUrl"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	qrs, err := s.client.BulkGenerateQR(c.Request.Context(), req.TableIDs, req.MenuID, req.BaseURL)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, qrs)
}
