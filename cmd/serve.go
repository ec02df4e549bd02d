package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-restaurant/cart"
	"go-restaurant/config"
	"go-restaurant/controllers"
	"go-restaurant/middleware"
	"go-restaurant/models"
	"go-restaurant/routes"
	"go-restaurant/storage"
	"go-restaurant/utils"
)

// Loaded carts idle longer than cartIdleTTL are dropped from memory; their
// persisted state is untouched.
const (
	cartSweepInterval = time.Minute
	cartIdleTTL       = 30 * time.Minute
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the cart, checkout and theme HTTP API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.ValidateServe(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	kv, closeKV, err := openKV(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeKV()

	mailer := utils.NewMailer(utils.MailConfig{
		Sender:         cfg.EmailSender,
		PostmarkToken:  cfg.PostmarkToken,
		SendGridAPIKey: cfg.SendGridAPIKey,
	}, logger)

	app := newApp(cfg, kv, mailer, logger)
	go app.carts.Run(ctx, cartSweepInterval, cartIdleTTL)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("addr", srv.Addr), zap.String("storage", cfg.StorageBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err = srv.Shutdown(shutdownCtx)
	if werr := app.checkout.Wait(shutdownCtx); werr != nil {
		logger.Warn("confirmation emails still pending at exit", zap.Error(werr))
	}
	return err
}

// app is the HTTP handler plus the parts runServe manages around it.
type app struct {
	handler  http.Handler
	carts    *cart.Registry
	checkout *controllers.CheckoutController
}

// newApp builds the full HTTP handler over kv.
func newApp(cfg *config.Config, kv storage.KV, mailer utils.Mailer, log *zap.Logger) *app {
	tokens := utils.NewSessionTokens(cfg.JWTSecret, cfg.SessionTTL)
	menu := models.DefaultMenu()
	carts := cart.NewRegistry(func(session string) cart.Repository {
		return storage.NewCartRepository(kv, session, log)
	}, cart.WithLogger(log))

	checkout := controllers.NewCheckoutController(carts, kv, mailer, log)

	router := mux.NewRouter()
	router.Use(middleware.RequestLogger(log))
	routes.RegisterRoutes(router, routes.Controllers{
		Session:  controllers.NewSessionController(tokens, log),
		Menu:     controllers.NewMenuController(menu),
		Cart:     controllers.NewCartController(carts, menu, log),
		Checkout: checkout,
		Theme:    controllers.NewThemeController(kv, log),
	}, middleware.NewAuthMiddleware(tokens))
	return &app{handler: router, carts: carts, checkout: checkout}
}

// openKV returns the configured backend and a function releasing it.
func openKV(ctx context.Context, cfg *config.Config, log *zap.Logger) (storage.KV, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendFile:
		kv, err := storage.NewFileKV(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return kv, func() {}, nil
	case config.BackendMongo:
		client, err := utils.ConnectDB(ctx, cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := client.Disconnect(context.Background()); err != nil {
				log.Warn("mongodb disconnect", zap.Error(err))
			}
		}
		return storage.NewMongoKV(client, cfg.MongoDatabase), closeFn, nil
	default:
		return storage.NewMemoryKV(), func() {}, nil
	}
}
