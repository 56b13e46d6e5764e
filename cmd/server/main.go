package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"parking-client/internal/api"
	"parking-client/internal/config"
	"parking-client/internal/feed"
	"parking-client/internal/handlers"
	"parking-client/internal/health"
	h "parking-client/internal/http"
	"parking-client/internal/middleware"
	"parking-client/internal/printer"
	"parking-client/internal/report"
	"parking-client/internal/storage"
	"parking-client/internal/store"
)

// watchExpiry runs the session expiry guard until ctx is done
func watchExpiry(ctx context.Context, s *store.Store, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.CheckExpiry(ctx)
		}
	}
}

func main() {
	// Parse command-line flags
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Session storage (degrades to file, then memory)
	sessionStore := storage.Open(ctx, cfg)
	defer sessionStore.Close()

	// Backend client and application state
	client := api.NewClient(cfg.API.BaseURL, cfg.APITimeout(), nil)
	appStore := store.New(client, sessionStore)
	log.Printf("[API] Backend: %s", cfg.API.BaseURL)

	// Restore the persisted session before serving screens
	appStore.RestoreSession(ctx)
	go watchExpiry(ctx, appStore, cfg.ExpiryCheckInterval())

	// Printer bridge (optional)
	var printerWriter printer.Writer
	if cfg.Printer.BridgeURL != "" {
		printerWriter = printer.NewBridge(cfg.Printer.BridgeURL)
		log.Printf("[Printer] Using print bridge at %s", cfg.Printer.BridgeURL)
	} else {
		log.Println("[Printer] No print bridge configured, printing disabled")
	}
	printers := printer.NewRegistry(printerWriter, cfg.Printer.ChunkSize)

	// Report archive (optional)
	archiver, err := report.NewArchiver(ctx, cfg)
	if err != nil {
		log.Printf("[Report] Archive disabled: %v", err)
		archiver = nil
	}

	// State feed
	hub := feed.NewHub(appStore, cfg.OriginAllowed)
	defer hub.Close()

	healthChecker := health.NewHealthChecker(sessionStore).WithBackend(client)

	router := h.NewRouter(appStore, h.Handlers{
		Session:   handlers.NewSessionHandler(appStore),
		Staff:     handlers.NewStaffHandler(appStore),
		Vehicle:   handlers.NewVehicleHandler(appStore),
		Price:     handlers.NewPriceHandler(appStore),
		Dashboard: handlers.NewDashboardHandler(appStore, archiver),
		Pass:      handlers.NewPassHandler(appStore),
		Printer:   handlers.NewPrinterHandler(printers),
		Health:    handlers.NewHealthHandler(healthChecker),
		Feed:      hub,
	})

	// Wrap with panic recovery, request logging and CORS
	corsMiddleware := middleware.NewCORS(cfg)
	handler := middleware.PanicRecovery(middleware.RequestLogging(corsMiddleware(router)))

	addr := cfg.ListenAddr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("Shutdown error: %v", err)
		}
	}()

	log.Printf("Server running on %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Server failed to start: %v", err)
	}
}
