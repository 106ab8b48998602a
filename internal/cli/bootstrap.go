package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/diecastgarage/storefront/internal/core/ports"
	"github.com/diecastgarage/storefront/internal/core/service"
	"github.com/diecastgarage/storefront/internal/infrastructure/db/docstore"
	fsdb "github.com/diecastgarage/storefront/internal/infrastructure/db/firestore"
	"github.com/diecastgarage/storefront/internal/infrastructure/db/memory"
	mongodb "github.com/diecastgarage/storefront/internal/infrastructure/db/mongo"
	redisdb "github.com/diecastgarage/storefront/internal/infrastructure/db/redis"
	"github.com/diecastgarage/storefront/internal/infrastructure/db/sqlite"
	"github.com/diecastgarage/storefront/internal/infrastructure/storage/gcs"
	"github.com/diecastgarage/storefront/internal/infrastructure/storage/s3"
	"github.com/diecastgarage/storefront/internal/pkg/config"
	"github.com/diecastgarage/storefront/pkg/logger"
)

// backends are the adapters selected by configuration.
type backends struct {
	store       ports.DocumentStore
	cache       ports.LocalCache
	blobs       ports.BlobStorage
	credentials ports.CredentialRepository
	users       ports.UserRepository
	promotions  ports.PromotionRepository
	probes      map[string]ports.Pinger

	// sqliteCache is set when the local cache is SQLite, for pruning.
	sqliteCache *sqlite.LocalCache

	closers []func() error
}

// Close releases every backend in reverse order of creation.
func (b *backends) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil {
			log := logger.Get()
			log.Warn().Err(err).Msg("backend close failed")
		}
	}
}

func openBackends(ctx context.Context, cfg *config.Config) (*backends, error) {
	b := &backends{probes: map[string]ports.Pinger{}}

	if err := b.openDocumentStore(ctx, cfg); err != nil {
		b.Close()
		return nil, err
	}
	if err := b.openLocalCache(ctx, cfg); err != nil {
		b.Close()
		return nil, err
	}
	if err := b.openBlobStorage(ctx, cfg); err != nil {
		b.Close()
		return nil, err
	}

	b.users = docstore.NewUserRepository(b.store)
	b.promotions = docstore.NewPromotionRepository(b.store)
	if b.credentials == nil {
		b.credentials = docstore.NewCredentialRepository(b.store)
	}
	return b, nil
}

func (b *backends) openDocumentStore(ctx context.Context, cfg *config.Config) error {
	switch cfg.DocStore.Driver {
	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:         cfg.Mongo.URI,
			Database:    cfg.Mongo.Database,
			MaxPoolSize: cfg.Mongo.MaxPoolSize,
		})
		if err != nil {
			return err
		}
		b.closers = append(b.closers, func() error { return mongodb.Disconnect(client) })

		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			return err
		}
		creds := mongodb.NewCredentialRepository(db)
		if err := creds.EnsureIndexes(ctx); err != nil {
			return err
		}
		store := mongodb.NewDocumentStore(db, logger.Component("mongo"))
		b.store, b.credentials = store, creds
		b.probes["mongo"] = store

	case config.DriverFirestore:
		client, err := fsdb.Connect(ctx, fsdb.Config{
			ProjectID:       cfg.Firestore.ProjectID,
			CredentialsFile: cfg.Firestore.CredentialsFile,
		})
		if err != nil {
			return err
		}
		b.closers = append(b.closers, client.Close)

		store := fsdb.NewDocumentStore(client, logger.Component("firestore"))
		b.store = store
		b.probes["firestore"] = store

	case config.DriverMemory:
		store := memory.NewDocumentStore()
		b.store = store
		b.probes["memory"] = store

	default:
		return fmt.Errorf("unknown DOCSTORE_DRIVER %q", cfg.DocStore.Driver)
	}
	return nil
}

func (b *backends) openLocalCache(ctx context.Context, cfg *config.Config) error {
	switch cfg.LocalCache.Driver {
	case config.DriverRedis:
		client, err := redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		if err != nil {
			return err
		}
		b.closers = append(b.closers, client.Close)

		cache := redisdb.NewLocalCache(client, cfg.LocalCache.TTL)
		b.cache = cache
		b.probes["redis"] = cache

	case config.DriverSQLite:
		cache, err := sqlite.Open(cfg.SQLite.Path)
		if err != nil {
			return err
		}
		b.closers = append(b.closers, cache.Close)
		b.cache, b.sqliteCache = cache, cache
		b.probes["sqlite"] = cache

	case config.DriverMemory:
		b.cache = memory.NewLocalCache()

	default:
		return fmt.Errorf("unknown LOCAL_CACHE_DRIVER %q", cfg.LocalCache.Driver)
	}
	return nil
}

func (b *backends) openBlobStorage(ctx context.Context, cfg *config.Config) error {
	switch cfg.Blob.Driver {
	case config.DriverS3:
		st, err := s3.New(ctx, s3.Config{
			Bucket:        cfg.Blob.Bucket,
			Region:        cfg.Blob.AWSRegion,
			Endpoint:      cfg.Blob.AWSEndpoint,
			PublicBaseURL: cfg.Blob.PublicBaseURL,
		})
		if err != nil {
			return err
		}
		b.blobs = st
		b.probes["s3"] = st

	case config.DriverGCS:
		st, err := gcs.New(ctx, gcs.Config{
			Bucket:          cfg.Blob.Bucket,
			CredentialsFile: cfg.Blob.GCSCredentialsFile,
			PublicBaseURL:   cfg.Blob.PublicBaseURL,
		})
		if err != nil {
			return err
		}
		b.closers = append(b.closers, st.Close)
		b.blobs = st
		b.probes["gcs"] = st

	case config.DriverNone, "":
		// uploads answer 503

	default:
		return fmt.Errorf("unknown BLOB_DRIVER %q", cfg.Blob.Driver)
	}
	return nil
}

// newAuthService builds the auth provider shared by serve and admin commands.
func newAuthService(cfg *config.Config, b *backends) (*service.AuthService, error) {
	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	limiter := service.NewLoginLimiter(cfg.Login.RatePerMinute, cfg.Login.Burst)
	return service.NewAuthService(b.credentials, b.users, limiter, cfg.JWTSecret, cfg.TokenTTL, logger.Component("auth")), nil
}

// pruneLoop drops SQLite cache rows untouched for longer than ttl.
func pruneLoop(ctx context.Context, cache *sqlite.LocalCache, ttl time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := cache.Prune(ctx, time.Now().Add(-ttl))
			if err != nil {
				log.Warn().Err(err).Msg("local cache prune failed")
				continue
			}
			if n > 0 {
				log.Debug().Int64("rows", n).Msg("local cache pruned")
			}
		}
	}
}
