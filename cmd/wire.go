package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/casthost/azuracast-provisioner/internal/adapters/azuracast"
	statusadapter "github.com/casthost/azuracast-provisioner/internal/adapters/render/status"
	tomlrepo "github.com/casthost/azuracast-provisioner/internal/adapters/repo/toml"
	filestore "github.com/casthost/azuracast-provisioner/internal/adapters/secrets/file"
	boltcache "github.com/casthost/azuracast-provisioner/internal/adapters/state/bolt"
	"github.com/casthost/azuracast-provisioner/internal/application"
	"github.com/casthost/azuracast-provisioner/internal/ports"
)

const (
	configDirName  = ".azprov"
	secretsDirName = "secrets"
	cacheFileName  = "bindings.db"

	accessHashSecretKey = "azuracast/accesshash"
)

type app struct {
	cfg            *viper.Viper
	repo           ports.AccountRepository
	secretStore    ports.SecretStore
	statusRenderer func([]application.Status, statusadapter.RenderOptions) (string, error)
	log            *slog.Logger
	clock          ports.Clock

	// Built on first use; not every command needs a server connection.
	api         ports.AdminAPI
	cache       ports.BindingCache
	cacheOpened bool
	cacheCloser func() error
}

func wireApp() (*app, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}

	cfg := viper.New()
	cfg.SetConfigName("config")
	cfg.SetConfigType("toml")
	cfg.AddConfigPath(filepath.Join(homeDir, configDirName))
	cfg.SetEnvPrefix("AZPROV")
	cfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	cfg.AutomaticEnv()
	cfg.SetDefault("cache.path", filepath.Join(homeDir, configDirName, cacheFileName))
	cfg.SetDefault("log.level", "info")

	if err := cfg.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	repo, err := tomlrepo.NewRepository(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire account repository: %w", err)
	}

	return &app{
		cfg:            cfg,
		repo:           repo,
		secretStore:    filestore.NewStore(filepath.Join(homeDir, configDirName, secretsDirName)),
		statusRenderer: statusadapter.Render,
		log:            newLogger(cfg.GetString("log.level")),
		clock:          ports.SystemClock{},
	}, nil
}

func (a *app) close() {
	if a.cacheCloser != nil {
		_ = a.cacheCloser()
	}
}

// adminAPI builds the gateway on first use. The access hash comes from the
// config, falling back to the secret store when the config leaves it out.
func (a *app) adminAPI(ctx context.Context) (ports.AdminAPI, error) {
	if a.api != nil {
		return a.api, nil
	}

	accessHash := a.cfg.GetString("server.accesshash")
	if accessHash == "" {
		stored, err := a.secretStore.Get(ctx, accessHashSecretKey)
		if err == nil {
			accessHash = stored
		}
	}

	client, err := azuracast.NewClient(azuracast.Config{
		Host:       a.cfg.GetString("server.host"),
		Port:       a.cfg.GetString("server.port"),
		AccessHash: accessHash,
		VerifyTLS:  a.cfg.GetBool("server.verify_tls"),
		BaseURL:    a.cfg.GetString("server.base_url"),
	})
	if err != nil {
		return nil, fmt.Errorf("wire azuracast client: %w", err)
	}

	a.api = client
	return a.api, nil
}

func (a *app) bindingCache() ports.BindingCache {
	if a.cacheOpened {
		return a.cache
	}
	a.cacheOpened = true

	path := a.cfg.GetString("cache.path")
	if path == "" {
		return nil
	}

	cache, err := boltcache.Open(path)
	if err != nil {
		a.log.Warn("binding cache unavailable", "path", path, "error", err)
		return nil
	}

	a.cache = cache
	a.cacheCloser = cache.Close
	return a.cache
}

func (a *app) newResolver(ctx context.Context) (*application.Resolver, error) {
	api, err := a.adminAPI(ctx)
	if err != nil {
		return nil, err
	}
	return application.NewResolver(api), nil
}

func (a *app) newProvisioner(ctx context.Context) (*application.Provisioner, error) {
	api, err := a.adminAPI(ctx)
	if err != nil {
		return nil, err
	}

	opts := []application.ProvisionerOption{
		application.WithRollback(a.cfg.GetBool("provision.rollback")),
	}
	if cache := a.bindingCache(); cache != nil {
		opts = append(opts, application.WithBindingCache(cache))
	}

	return application.NewProvisioner(api, application.NewResolver(api), a.log, opts...), nil
}

func (a *app) newStatusService(ctx context.Context) (*application.StatusService, error) {
	resolver, err := a.newResolver(ctx)
	if err != nil {
		return nil, err
	}
	return application.NewStatusService(a.repo, resolver), nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
