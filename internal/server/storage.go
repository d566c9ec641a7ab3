package server

import (
	"context"
	"fmt"
	"time"

	"gestionale/internal/config"
	"gestionale/internal/database"
	"gestionale/internal/repositories"
	"gestionale/internal/repositories/memstore"
	"gestionale/internal/seed"
	"gestionale/internal/services"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Storage holds the backends selected by STORAGE_DRIVER and REDIS_ADDR.
type Storage struct {
	Shop       services.ShopStore
	Categories services.CategoryStore
	Products   services.ProductStore
	Customers  services.CustomerStore
	Sites      services.SiteStore
	Purchases  services.PurchaseStore
	Quotes     services.QuoteStore
	Documents  services.DocumentStore
	Users      services.UserStore
	Revoker    services.TokenRevoker

	closers []func()
}

// MemoryStorage wires every store to one in-process memstore.
func MemoryStorage(st *memstore.Store) *Storage {
	return &Storage{
		Shop:       st.Shop(),
		Categories: st.Categories(),
		Products:   st.Products(),
		Customers:  st.Customers(),
		Sites:      st.Sites(),
		Purchases:  st.Purchases(),
		Quotes:     st.Quotes(),
		Documents:  st.Documents(),
		Users:      st.Users(),
		Revoker:    st.Revocations(),
	}
}

// OpenStorage connects the configured backends. Postgres is migrated on
// open. Without REDIS_ADDR revoked tokens are kept in memory.
func OpenStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Storage, error) {
	var st *Storage
	mem := memstore.New(memstore.WithLatency(cfg.MemstoreLatency))

	switch cfg.StorageDriver {
	case config.StorageMemory:
		log.Warn("using in-memory storage, data is lost on restart")
		st = MemoryStorage(mem)
	default:
		if cfg.Database.RequireAdmin() == nil {
			if err := database.EnsureDatabaseExists(ctx, cfg.Database, log); err != nil {
				return nil, err
			}
		}
		pool, err := database.Connect(ctx, cfg.Database, log)
		if err != nil {
			return nil, err
		}
		if err := database.RunMigrations(ctx, pool, log); err != nil {
			pool.Close()
			return nil, err
		}
		st = &Storage{
			Shop:       repositories.NewShopRepository(pool),
			Categories: repositories.NewCategoryRepository(pool),
			Products:   repositories.NewProductRepository(pool),
			Customers:  repositories.NewCustomerRepository(pool),
			Sites:      repositories.NewSiteRepository(pool),
			Purchases:  repositories.NewPurchaseRepository(pool),
			Quotes:     repositories.NewQuoteRepository(pool),
			Documents:  repositories.NewDocumentRepository(pool),
			Users:      repositories.NewUserRepository(pool),
			Revoker:    mem.Revocations(),
			closers:    []func(){pool.Close},
		}
	}

	if cfg.RedisAddr == "" {
		log.Info("REDIS_ADDR not set, token revocations kept in memory")
		return st, nil
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	redisRepo := repositories.NewRedisRepository(rdb)

	// Fail fast with a clear message
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := redisRepo.Ping(pingCtx); err != nil {
		_ = rdb.Close()
		st.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
	}
	log.Info("connected to Redis", zap.String("addr", cfg.RedisAddr))

	st.Revoker = redisRepo
	st.closers = append(st.closers, func() { _ = rdb.Close() })
	return st, nil
}

// SeedStores exposes the stores the fixtures are written to.
func (s *Storage) SeedStores() seed.Stores {
	return seed.Stores{
		Shop:       s.Shop,
		Categories: s.Categories,
		Products:   s.Products,
		Customers:  s.Customers,
		Sites:      s.Sites,
		Purchases:  s.Purchases,
		Quotes:     s.Quotes,
	}
}

func (s *Storage) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}
