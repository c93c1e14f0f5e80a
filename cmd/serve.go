package main

import (
	"context"
	"errors"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"contacts-manager/internal/handlers"
	"contacts-manager/internal/utils"
	"contacts-manager/internal/watcher"
	"contacts-manager/internal/wsnotify"

	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var serveAddr string

// serveCmd runs the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Import the VCF file if needed and serve the HTTP API",
	Long: `Serve the contacts API under /api/v1.

On first run, when the contacts file does not exist yet, contacts are
imported from the configured VCF file. A missing VCF file leaves the
list empty; a VCF file that cannot be decoded aborts startup.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "Listen address (default: CONTACTS_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.bootstrap(); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		utils.LogWarning("No VCF file to import, starting with an empty contact list: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.WatchFiles {
		fw, err := watcher.New([]string{cfg.ContactsPath(), cfg.CategoriesPath()}, watcher.DefaultDebounce, func(path string) {
			utils.LogDebug("Data file changed: %s", path)
			wsnotify.SendContactEvent(wsnotify.EventStoreChanged, map[string]string{"path": path})
		})
		if err != nil {
			utils.LogWarning("File watcher disabled: %v", err)
		} else {
			fw.Start(ctx)
			defer fw.Stop()
		}
	}

	router := handlers.NewRouter(handlers.NewHTTPHandler(a.service), a.collector)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", handlers.RequestIDHeader},
		ExposedHeaders:   []string{"Link", handlers.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: c.Handler(router),
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		utils.LogInfo("Server is running on %s", cfg.Addr)
		utils.LogInfo("Swagger UI available at: /api/v1/swagger/index.html")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	select {
	case <-stop:
	case err := <-serveErr:
		return err
	}
	utils.LogInfo("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		utils.LogError("Error shutting down server: %v", err)
	}

	utils.LogInfo("Server stopped successfully")
	return nil
}
