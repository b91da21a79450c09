// Command bankd runs the banking server: the binary TCP protocol on one
// port and the operational HTTP surface (health, metrics) on another.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/minibank/banking-system/internal/api"
	"github.com/minibank/banking-system/internal/api/handler"
	"github.com/minibank/banking-system/internal/core/service"
	opshttp "github.com/minibank/banking-system/internal/infrastructure/http"
	"github.com/minibank/banking-system/internal/infrastructure/session"
	"github.com/minibank/banking-system/internal/infrastructure/store"
	"github.com/minibank/banking-system/internal/pkg/config"
	"github.com/minibank/banking-system/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("cannot create data directory")
	}

	// Users and accounts share one id space, so they share one mutex table.
	// Loans have their own, private to the repository.
	idLocks := store.NewIDLocks()

	users, err := store.NewUserRepository(cfg.DataDir, idLocks)
	if err != nil {
		log.Fatal().Err(err).Msg("open user store")
	}
	accounts, err := store.NewAccountRepository(cfg.DataDir, idLocks)
	if err != nil {
		log.Fatal().Err(err).Msg("open account store")
	}
	txlog, err := store.NewTransactionLog(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("open transaction log")
	}
	loans, err := store.NewLoanRepository(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("open loan store")
	}
	feedback, err := store.NewFeedbackLog(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("open feedback log")
	}

	sessions := session.NewRegistry()

	auth := service.NewAuthService(users, sessions)
	customerSvc := service.NewCustomerService(accounts, users, loans, txlog, feedback, log)
	employeeSvc := service.NewEmployeeService(users, accounts, loans, txlog, log)
	managerSvc := service.NewManagerService(users, loans, feedback)
	adminSvc := service.NewAdminService(users, accounts)

	srv := api.NewServer(
		":"+cfg.Port,
		auth,
		handler.NewCustomerHandler(customerSvc, log),
		handler.NewEmployeeHandler(employeeSvc, log),
		handler.NewManagerHandler(managerSvc, log),
		handler.NewAdminHandler(adminSvc, log),
		log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ops := opshttp.NewRouter(cfg.DataDir)
	go func() {
		if err := ops.Start(":" + cfg.OpsPort); err != nil {
			log.Error().Err(err).Msg("ops server stopped")
		}
	}()
	go func() {
		<-ctx.Done()
		_ = ops.Shutdown(context.Background())
	}()

	if err := srv.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
	log.Info().Msg("shutdown complete")
}
