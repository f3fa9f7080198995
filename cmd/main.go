package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"orderboard/internal/api"
	"orderboard/internal/auth"
	"orderboard/internal/config"
	"orderboard/internal/database"
	"orderboard/internal/models"
	"orderboard/internal/monitoring"
	"orderboard/internal/notify"
	"orderboard/internal/realtime"
	"orderboard/internal/scope"
	"orderboard/internal/server"
	"orderboard/internal/store"
)

var (
	port        = flag.Int("port", 0, "Dashboard API port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *metricsPort != 0 {
		cfg.MetricsPort = *metricsPort
	}

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open state database: %v", err)
	}
	defer db.Close()

	client := api.NewClient(cfg.APIBaseURL)
	authStore := auth.NewStore(client, db)
	restored := authStore.Restore()

	admin, _ := authStore.Admin()
	selector := scope.NewSelector(admin)
	selector.Restore(authStore.RestoredScope())

	emitter := notify.NewEmitter(&notify.BellSink{W: os.Stdout}, nil)
	st := store.New(client, emitter, selector.Current)
	defer st.Close()

	metrics := monitoring.NewMetrics(prometheus.DefaultRegisterer)
	st.OnChange(func(kind string, payload interface{}) {
		metrics.ObserveChange(kind, payload)
		metrics.UnseenOrdersBadge.Set(float64(st.NewOrdersCount()))
	})
	st.OnAlert(func(op, message string) {
		metrics.MutationFailures.WithLabelValues(op).Inc()
	})

	selector.OnChange(func(restaurantID string) {
		log.Printf("scope switched to restaurant %s", restaurantID)
		st.ReloadAll(context.Background())
	})
	authStore.OnLogin(func(admin models.Admin) {
		selector.Bind(admin)
		seedDefaultScope(client, selector)
		st.ReloadAll(context.Background())
	})

	hubURL := cfg.HubURL
	if hubURL == "" {
		hubURL = client.HubURL()
	}
	hub := realtime.NewHub(hubURL)
	st.Attach(hub)
	hub.OnConnect(metrics.Reconnects.Inc)
	hub.Start()
	defer hub.Close()

	if restored {
		seedDefaultScope(client, selector)
		st.ReloadAll(context.Background())
	}

	srv := server.New(st, authStore, selector, client, emitter)

	go startMetricsServer(cfg.MetricsPort)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: srv.Router(),
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	log.Printf("Starting dashboard API on port %d", cfg.Port)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}

// seedDefaultScope gives a platform admin a starting scope: the first
// restaurant, matching the dashboard's auto-selection.
func seedDefaultScope(client *api.Client, selector *scope.Selector) {
	if selector.Fixed() || selector.Current() != "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	restaurants, err := client.ListRestaurants(ctx)
	if err != nil {
		log.Printf("Failed to list restaurants for default scope: %v", err)
		return
	}
	selector.Default(restaurants)
}

func startMetricsServer(port int) {
	metricsRouter := gin.Default()
	metricsRouter.GET("/metrics", gin.WrapH(promhttp.Handler()))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	log.Printf("Starting metrics server on port %d", port)
	if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Printf("Metrics server error: %v", err)
	}
}
