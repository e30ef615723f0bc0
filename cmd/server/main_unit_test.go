package main

import (
	"errors"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ParvPasricha/loyalty-system/internal/config"
	plog "github.com/ParvPasricha/loyalty-system/pkg/logger"
	"github.com/ParvPasricha/loyalty-system/pkg/redis"
)

func withMainHooks(t *testing.T) {
	t.Helper()
	origLoadDotenv := loadDotenv
	origLoadCfg := loadCfg
	origInitLog := initLog
	origInitRedis := initRedis
	origOpenDB := openDB
	origNewClaimStore := newClaimStore
	origNewServer := newServer
	origNotifySignals := notifySignals
	origRunServer := runServer

	t.Cleanup(func() {
		loadDotenv = origLoadDotenv
		loadCfg = origLoadCfg
		initLog = origInitLog
		initRedis = origInitRedis
		openDB = origOpenDB
		newClaimStore = origNewClaimStore
		newServer = origNewServer
		notifySignals = origNotifySignals
		runServer = origRunServer
	})
}

func baseTestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port: "18080",
			Env:  "development",
		},
		Database: config.DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "postgres",
			Password: "postgres",
			DBName:   "loyalty",
			SSLMode:  "disable",
		},
		Redis: config.RedisConfig{
			URL: "redis://localhost:6379",
		},
		JWT: config.JWTConfig{
			Secret:        "secret",
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 24 * time.Hour,
		},
		Loyalty: config.LoyaltyConfig{
			WalletClaimTTL: 15 * time.Minute,
			LedgerPageSize: 50,
		},
		Security: config.SecurityConfig{
			ClaimEncryptionKey: "0000000000000000000000000000000000000000000000000000000000000000",
		},
	}
}

func TestRunMainProcess_RedisInitError(t *testing.T) {
	withMainHooks(t)

	loadDotenv = func(...string) error { return nil }
	loadCfg = baseTestConfig
	initLog = plog.Init
	initRedis = func(string, string) error { return errors.New("redis down") }

	if err := runMainProcess(); err == nil {
		t.Fatal("expected redis init error")
	}
}

func TestRunMainProcess_DBOpenError(t *testing.T) {
	withMainHooks(t)

	loadDotenv = func(...string) error { return nil }
	loadCfg = baseTestConfig
	initLog = plog.Init
	initRedis = func(string, string) error { return nil }
	openDB = func(string) (*gorm.DB, error) { return nil, errors.New("db open failed") }

	if err := runMainProcess(); err == nil {
		t.Fatal("expected db open error")
	}
}

func TestRunMainProcess_ClaimStoreError(t *testing.T) {
	withMainHooks(t)

	loadDotenv = func(...string) error { return nil }
	loadCfg = baseTestConfig
	initLog = plog.Init
	initRedis = func(string, string) error { return nil }
	openDB = func(string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open("file:main_claim_err?mode=memory&cache=shared"), &gorm.Config{})
	}
	newClaimStore = func(string) (*redis.ClaimStore, error) { return nil, errors.New("bad claim key") }

	if err := runMainProcess(); err == nil {
		t.Fatal("expected claim store error")
	}
}

func TestRunMainProcess_ServerRunError(t *testing.T) {
	withMainHooks(t)

	loadDotenv = func(...string) error { return nil }
	loadCfg = baseTestConfig
	initLog = plog.Init
	initRedis = func(string, string) error { return nil }
	openDB = func(string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open("file:main_server_err?mode=memory&cache=shared"), &gorm.Config{})
	}
	newClaimStore = redis.NewClaimStore
	runServer = func(*http.Server) error { return errors.New("listen failed") }

	if err := runMainProcess(); err == nil {
		t.Fatal("expected server run error")
	}
}

func TestRunMainProcess_SuccessPath(t *testing.T) {
	withMainHooks(t)

	loadDotenv = func(...string) error { return nil }
	loadCfg = baseTestConfig
	initLog = plog.Init
	initRedis = func(string, string) error { return nil }
	openDB = func(string) (*gorm.DB, error) {
		return gorm.Open(sqlite.Open("file:main_success?mode=memory&cache=shared"), &gorm.Config{})
	}
	newClaimStore = redis.NewClaimStore
	runServer = func(*http.Server) error { return nil }

	if err := runMainProcess(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestServeUntilSignal_ReturnsListenError(t *testing.T) {
	withMainHooks(t)
	plog.Init("development")

	notifySignals = func(chan<- os.Signal) {}

	srv := newServer(http.NewServeMux(), "not-a-port")
	if err := serveUntilSignal(srv); err == nil {
		t.Fatal("expected listen error for invalid port")
	}
}

func TestServeUntilSignal_DrainsOnSignal(t *testing.T) {
	withMainHooks(t)
	plog.Init("development")

	sigCh := make(chan chan<- os.Signal, 1)
	notifySignals = func(ch chan<- os.Signal) { sigCh <- ch }

	srv := newServer(http.NewServeMux(), "0")
	done := make(chan error, 1)
	go func() { done <- serveUntilSignal(srv) }()

	quit := <-sigCh
	quit <- syscall.SIGTERM

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("expected clean shutdown, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down after signal")
	}
}
