// Command bankinit resets the database files and seeds the demo data set:
// two customers with funded accounts, an employee, a manager and an admin.
// Every seeded user's password is "pass". Run it once before first start;
// running it again wipes all records.
package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"github.com/minibank/banking-system/internal/core/domain"
	"github.com/minibank/banking-system/internal/infrastructure/store"
	"github.com/minibank/banking-system/internal/pkg/config"
	"github.com/minibank/banking-system/pkg/logger"
)

type seedUser struct {
	id      int
	role    domain.Role
	name    string
	balance float64
}

var seeds = []seedUser{
	{1001, domain.RoleCustomer, "Alice Smith (Cust)", 10000.00},
	{1002, domain.RoleCustomer, "Bob Johnson (Cust)", 5000.00},
	{2001, domain.RoleEmployee, "Charles Brown (Emp)", 0},
	{3001, domain.RoleManager, "David Lee (Mgr)", 0},
	{4001, domain.RoleAdmin, "Eve White (Admin)", 0},
}

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

	for _, truncate := range []func() error{
		users.Truncate, accounts.Truncate, txlog.Truncate, loans.Truncate, feedback.Truncate,
	} {
		if err := truncate(); err != nil {
			log.Fatal().Err(err).Msg("truncate store")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("pass"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal().Err(err).Msg("hash seed password")
	}

	for _, s := range seeds {
		u := &domain.User{
			ID:           s.id,
			Role:         s.role,
			Username:     strconv.Itoa(s.id),
			PasswordHash: string(hash),
			Name:         s.name,
			Active:       true,
		}
		if err := users.Put(u); err != nil {
			log.Fatal().Err(err).Int("id", s.id).Msg("seed user")
		}
		if s.role == domain.RoleCustomer {
			acc := &domain.Account{AccountID: s.id, CustomerID: s.id, Balance: s.balance}
			if err := accounts.Create(acc); err != nil {
				log.Fatal().Err(err).Int("id", s.id).Msg("seed account")
			}
		}
		log.Info().Int("id", s.id).Str("role", s.role.String()).Str("name", s.name).Msg("seeded")
	}

	log.Info().Str("dir", cfg.DataDir).Msg("database initialised")
}
