// Command seed bootstraps a merchant and its owner account. Merchants are
// created out of band rather than through the API, so a fresh deployment
// runs this once per tenant before staff can log in.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ParvPasricha/loyalty-system/internal/config"
	"github.com/ParvPasricha/loyalty-system/internal/domain/entities"
	domainerrors "github.com/ParvPasricha/loyalty-system/internal/domain/errors"
	domainrepo "github.com/ParvPasricha/loyalty-system/internal/domain/repositories"
	"github.com/ParvPasricha/loyalty-system/internal/infrastructure/repositories"
	"github.com/ParvPasricha/loyalty-system/pkg/crypto"
)

var openSeedDB = func(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
}

type seedRuntime struct {
	merchantRepo domainrepo.MerchantRepository
	userRepo     domainrepo.UserRepository
	uow          domainrepo.UnitOfWork
}

type seedDeps struct {
	loadEnv func() error
	loadCfg func() *config.Config
	prepare func(cfg *config.Config) (*seedRuntime, io.Closer, error)
	out     io.Writer
}

func defaultSeedDeps() seedDeps {
	return seedDeps{
		loadEnv: func() error { return godotenv.Load() },
		loadCfg: config.Load,
		prepare: func(cfg *config.Config) (*seedRuntime, io.Closer, error) {
			db, err := openSeedDB(cfg.Database.URL())
			if err != nil {
				return nil, nil, fmt.Errorf("failed to connect db: %w", err)
			}
			sqlDB, err := db.DB()
			if err != nil {
				return nil, nil, fmt.Errorf("failed to init sql db: %w", err)
			}
			return &seedRuntime{
				merchantRepo: repositories.NewMerchantRepository(db),
				userRepo:     repositories.NewUserRepository(db),
				uow:          repositories.NewUnitOfWork(db),
			}, sqlDB, nil
		},
		out: os.Stdout,
	}
}

type seedInput struct {
	slug        string
	displayName string
	ownerEmail  string
	ownerName   string
	password    string
}

func parseSeedInput(fs *flag.FlagSet, args []string) (*seedInput, error) {
	slug := fs.String("slug", "", "merchant slug (required)")
	name := fs.String("name", "", "merchant display name (required)")
	email := fs.String("owner-email", "", "owner login email (required)")
	ownerName := fs.String("owner-name", "Owner", "owner display name")
	password := fs.String("password", "", "owner password, min 8 chars (required)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	in := &seedInput{
		slug:        *slug,
		displayName: *name,
		ownerEmail:  *email,
		ownerName:   *ownerName,
		password:    *password,
	}
	switch {
	case in.slug == "":
		return nil, fmt.Errorf("--slug is required")
	case in.displayName == "":
		return nil, fmt.Errorf("--name is required")
	case in.ownerEmail == "":
		return nil, fmt.Errorf("--owner-email is required")
	case len(in.password) < 8:
		return nil, fmt.Errorf("--password must be at least 8 characters")
	}
	return in, nil
}

func seedMerchant(ctx context.Context, rt *seedRuntime, in *seedInput) (*entities.Merchant, *entities.User, error) {
	if _, err := rt.merchantRepo.GetBySlug(ctx, in.slug); err == nil {
		return nil, nil, fmt.Errorf("merchant with slug %q already exists", in.slug)
	} else if !errors.Is(err, domainerrors.ErrNotFound) {
		return nil, nil, err
	}

	hash, err := crypto.HashPassword(in.password)
	if err != nil {
		return nil, nil, err
	}

	merchant := &entities.Merchant{
		Slug:        in.slug,
		DisplayName: in.displayName,
	}
	owner := &entities.User{
		Email:        in.ownerEmail,
		Name:         in.ownerName,
		Role:         entities.UserRoleOwner,
		PasswordHash: hash,
		IsActive:     true,
	}

	err = rt.uow.Do(ctx, func(ctx context.Context) error {
		if err := rt.merchantRepo.Create(ctx, merchant); err != nil {
			return fmt.Errorf("failed to create merchant: %w", err)
		}
		owner.MerchantID = merchant.ID
		if err := rt.userRepo.Create(ctx, owner); err != nil {
			return fmt.Errorf("failed to create owner account: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return merchant, owner, nil
}

func runSeed(args []string, deps seedDeps) error {
	if deps.loadEnv == nil {
		deps.loadEnv = func() error { return godotenv.Load() }
	}
	if deps.loadCfg == nil {
		deps.loadCfg = config.Load
	}
	if deps.prepare == nil {
		deps.prepare = defaultSeedDeps().prepare
	}
	if deps.out == nil {
		deps.out = os.Stdout
	}

	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	in, err := parseSeedInput(fs, args)
	if err != nil {
		return err
	}

	if err := deps.loadEnv(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	rt, closer, err := deps.prepare(deps.loadCfg())
	if err != nil {
		return err
	}
	defer closer.Close()

	merchant, owner, err := seedMerchant(context.Background(), rt, in)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(deps.out, "Merchant seeded")
	_, _ = fmt.Fprintf(deps.out, "merchant_id=%s\n", merchant.ID)
	_, _ = fmt.Fprintf(deps.out, "slug=%s\n", merchant.Slug)
	_, _ = fmt.Fprintf(deps.out, "owner_id=%s\n", owner.ID)
	_, _ = fmt.Fprintf(deps.out, "owner_email=%s\n", owner.Email)
	return nil
}

func main() {
	if err := runSeed(os.Args[1:], defaultSeedDeps()); err != nil {
		log.Fatal(err)
	}
}
