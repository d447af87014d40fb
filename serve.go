package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"flixcrd-backend/billing"
	"flixcrd-backend/db"
	"flixcrd-backend/routes"
	"flixcrd-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var skipMigrate bool

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the webhook and back-office HTTP API",
		RunE:  runServe,
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not AutoMigrate the ledger tables on start")
	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, conn, err := bootstrap()
	if err != nil {
		return err
	}
	if !skipMigrate {
		if err := db.Migrate(conn); err != nil {
			return err
		}
	}
	c, err := wire(cfg, conn)
	if err != nil {
		return err
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		if cfg.InterWebhookToken == "" {
			utils.LogWarn("INTER_WEBHOOK_TOKEN not set in production, Inter webhooks will be refused")
		}
		if cfg.AsaasWebhookToken == "" {
			utils.LogWarn("ASAAS_WEBHOOK_TOKEN not set in production, Asaas webhooks will be refused")
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.SweepInterval > 0 {
		go runSweeper(ctx, c.engine, cfg.SweepInterval)
	}

	r := routes.SetupRouter(routes.Dependencies{
		Config: cfg,
		DB:     conn,
		Store:  c.store,
		Engine: c.engine,
		Asaas:  c.asaas,
	})
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.LogInfo("Server listening on :" + cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	utils.LogInfo("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// runSweeper flips lapsed ACTIVE subscriptions to EXPIRED on every tick.
func runSweeper(ctx context.Context, engine *billing.Engine, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := engine.ExpireLapsed(ctx); err != nil {
				utils.LogError(err, "Expiry sweep failed")
			}
		}
	}
}
