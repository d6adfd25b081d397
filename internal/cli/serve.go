package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dreamkkun/retention/internal/access"
	"github.com/dreamkkun/retention/internal/api"
	"github.com/dreamkkun/retention/internal/config"
	"github.com/dreamkkun/retention/internal/policy"
	"github.com/dreamkkun/retention/internal/store"
	"github.com/dreamkkun/retention/internal/users"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the policy board HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("port", "", "listen port")
	serveCmd.Flags().String("data-dir", "", "data directory for flat-file state")
	_ = viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("data_dir", serveCmd.Flags().Lookup("data-dir"))

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	log := newLogger()

	cfg := config.Load(viper.GetViper())
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	st, err := store.Open(cfg.DataDir)
	if err != nil {
		return err
	}

	userSvc, err := users.NewService(st, log)
	if err != nil {
		return err
	}
	if err := userSvc.EnsureAdmin(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		return err
	}

	allow, err := access.NewAllowlist(cfg.AllowedIPs)
	if err != nil {
		return err
	}
	if allow.Empty() {
		log.Warn("no IP allow-list configured, accepting all addresses")
	}

	srv := api.NewServer(api.Deps{
		Assembler: policy.NewAssembler(log, cfg.ScanRowLimit),
		Store:     st,
		Users:     userSvc,
		Sessions:  access.NewSessions(cfg.SessionTTL),
		Allowlist: allow,
		Limiter:   access.NewLimiter(cfg.UploadRatePerIP, cfg.UploadBurst),
		AccessLog: access.NewLog(st, log),
	}, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting retention api", "port", cfg.Port, "data_dir", cfg.DataDir)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}
