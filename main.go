package main

import (
	"fmt"
	"os"

	"flixcrd-backend/billing"
	"flixcrd-backend/config"
	"flixcrd-backend/db"
	_ "flixcrd-backend/docs"
	"flixcrd-backend/gateway"
	"flixcrd-backend/ledger"
	"flixcrd-backend/notifier"
	"flixcrd-backend/utils"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var Version = "dev"

// @title FlixCRD Billing API
// @version 1.0
// @description Réconciliation des webhooks de paiement Asaas et Banco Inter
// @BasePath /
// @SecurityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Entrez le JWT avec le préfixe Bearer: Bearer <JWT>

var logFile string

func main() {
	rootCmd := &cobra.Command{
		Use:     "flixcrd-backend",
		Short:   "Payment webhook reconciliation for FlixCRD subscriptions",
		Version: Version,
	}
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "also append JSON logs to this file")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(sweepCmd())
	rootCmd.AddCommand(migrateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, configures logging and opens the database.
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, loaded := config.Load()
	utils.ConfigureLogger(cfg.LogLevel, logFile)
	if !loaded {
		utils.LogWarn("No .env file found, using process environment")
	}

	if err := db.InitDB(cfg.DBURL); err != nil {
		return nil, nil, err
	}
	return cfg, db.DB, nil
}

type components struct {
	store  *ledger.Store
	asaas  *gateway.Asaas
	engine *billing.Engine
}

func wire(cfg *config.Config, conn *gorm.DB) (*components, error) {
	asaas, err := gateway.NewAsaas(gateway.AsaasConfig{
		BaseURL: cfg.AsaasAPIURL,
		APIKey:  cfg.AsaasAPIKey,
		Timeout: cfg.GatewayTimeout,
	})
	if err != nil {
		return nil, err
	}
	inter, err := gateway.NewInter(gateway.InterConfig{
		BaseURL:      cfg.InterAPIURL,
		ClientID:     cfg.InterClientID,
		ClientSecret: cfg.InterClientSecret,
		CertFile:     cfg.InterCertFile,
		KeyFile:      cfg.InterKeyFile,
		Timeout:      cfg.GatewayTimeout,
	})
	if err != nil {
		return nil, err
	}

	var mailer notifier.Mailer = notifier.LogMailer{}
	if cfg.SMTPHost != "" {
		mailer = notifier.NewAsync(notifier.NewSMTP(notifier.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			User:     cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		}), 0)
	} else {
		utils.LogWarn("SMTP_HOST not set, notifications are only logged")
	}

	store := ledger.New(conn)
	engine := billing.NewEngine(store, asaas, inter, mailer, billing.Options{
		Timeout:   cfg.GatewayTimeout,
		Tolerance: decimal.NewNullDecimal(cfg.ValueTolerance),
	})
	return &components{store: store, asaas: asaas, engine: engine}, nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the ledger tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conn, err := bootstrap()
			if err != nil {
				return err
			}
			if err := db.Migrate(conn); err != nil {
				return err
			}
			utils.LogSuccess("Migration completed")
			return nil
		},
	}
}

func sweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Expire ACTIVE subscriptions whose period has ended",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := bootstrap()
			if err != nil {
				return err
			}
			c, err := wire(cfg, conn)
			if err != nil {
				return err
			}
			n, err := c.engine.ExpireLapsed(cmd.Context())
			if err != nil {
				return fmt.Errorf("expiry sweep: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "expired %d subscription(s)\n", n)
			return nil
		},
	}
}
