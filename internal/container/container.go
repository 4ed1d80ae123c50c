package container

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/accounts-api/config"
	"github.com/oksasatya/accounts-api/db/migrations"
	"github.com/oksasatya/accounts-api/internal/application"
	"github.com/oksasatya/accounts-api/internal/domain/repository"
	"github.com/oksasatya/accounts-api/internal/infrastructure/cache"
	"github.com/oksasatya/accounts-api/internal/infrastructure/notify"
	pginfra "github.com/oksasatya/accounts-api/internal/infrastructure/postgres"
	"github.com/oksasatya/accounts-api/internal/infrastructure/search"
	"github.com/oksasatya/accounts-api/internal/infrastructure/sqlite"
	"github.com/oksasatya/accounts-api/pkg/helpers"
)

// Container holds the components built once at startup and shared by the
// router and commands.
type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Store   repository.UserRepository
	JWT     *helpers.JWTManager
	Hasher  *helpers.PasswordHasher
	Service *application.Service

	PGPool    *pgxpool.Pool
	SQLite    *sql.DB
	Redis     *redis.Client
	ES        *elasticsearch.Client
	RabbitPub *helpers.RabbitPublisher
}

// New opens the store selected by cfg.DBDriver, applies migrations and wires
// the account service. Optional integrations that fail to connect are
// logged and left disabled.
func New(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	c := &Container{Config: cfg, Logger: logger}
	if err := c.openStore(ctx); err != nil {
		c.Close()
		return nil, err
	}

	c.JWT = helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	c.Hasher = helpers.NewPasswordHasher(cfg.BcryptCost)
	c.Service = application.NewService(c.Store, c.Hasher, c.JWT, logger)

	c.connectRedis(ctx)
	c.connectSearch(ctx)
	c.connectRabbit()
	return c, nil
}

func (c *Container) openStore(ctx context.Context) error {
	cfg := c.Config
	switch cfg.DBDriver {
	case "postgres":
		// golang-migrate needs a database/sql handle; keep it apart from the pool.
		mdb, err := sql.Open("pgx", cfg.PostgresDSN())
		if err != nil {
			return fmt.Errorf("open postgres for migrations: %w", err)
		}
		err = migrations.Up(mdb, "postgres", c.Logger)
		_ = mdb.Close()
		if err != nil {
			return err
		}

		pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{
			DSN:         cfg.PostgresDSN(),
			MaxConns:    cfg.DBMaxConns,
			MinConns:    cfg.DBMinConns,
			MaxConnLife: cfg.DBMaxConnLife,
		})
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		c.PGPool = pool
		c.Store = pginfra.NewUserRepository(pool)
	case "sqlite":
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return err
		}
		c.SQLite = db
		if err := migrations.Up(db, "sqlite", c.Logger); err != nil {
			return err
		}
		c.Store = sqlite.NewUserRepository(db)
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	helpers.LogInfo(c.Logger, "database ready", logrus.Fields{"driver": cfg.DBDriver})
	return nil
}

func (c *Container) connectRedis(ctx context.Context) {
	if c.Config.RedisAddr == "" {
		return
	}
	rdb, err := helpers.NewRedisClient(ctx, c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err != nil {
		helpers.LogWarn(c.Logger, "redis unavailable, profile cache disabled", err, logrus.Fields{"addr": c.Config.RedisAddr})
		return
	}
	c.Redis = rdb
	c.Service.Cache = cache.NewProfileCache(rdb, c.Config.ProfileCacheTTL)
}

func (c *Container) connectSearch(ctx context.Context) {
	addrs := c.Config.ESAddrs()
	if len(addrs) == 0 {
		return
	}
	es, err := helpers.NewESClient(helpers.ESOptions{
		Addresses: addrs,
		Username:  c.Config.ElasticsearchUser,
		Password:  c.Config.ElasticsearchPass,
	})
	if err != nil {
		helpers.LogWarn(c.Logger, "elasticsearch client init failed, search disabled", err, nil)
		return
	}
	idx := search.NewUserIndex(es, c.Config.ESUsersIndex)
	if err := idx.EnsureIndex(ctx); err != nil {
		helpers.LogWarn(c.Logger, "elasticsearch index not ready", err, logrus.Fields{"index": c.Config.ESUsersIndex})
	}
	c.ES = es
	c.Service.Search = idx
}

func (c *Container) connectRabbit() {
	if c.Config.RabbitMQURL == "" {
		return
	}
	pub, err := helpers.NewRabbitPublisher(c.Config.RabbitMQURL, c.Config.RabbitMQEmailQueue)
	if err != nil {
		helpers.LogWarn(c.Logger, "rabbitmq unavailable, account emails disabled", err, nil)
		return
	}
	c.RabbitPub = pub
	c.Service.Notify = notify.NewEmailNotifier(pub, c.Config.AppName)
}

// ResetUsers deletes every user row.
func (c *Container) ResetUsers(ctx context.Context) error {
	switch {
	case c.PGPool != nil:
		_, err := c.PGPool.Exec(ctx, "DELETE FROM users")
		return err
	case c.SQLite != nil:
		_, err := c.SQLite.ExecContext(ctx, "DELETE FROM users")
		return err
	default:
		return fmt.Errorf("no database open")
	}
}

// Close releases every open connection. Safe to call on a partially built container.
func (c *Container) Close() {
	if c.RabbitPub != nil {
		c.RabbitPub.Close()
	}
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.PGPool != nil {
		c.PGPool.Close()
	}
	if c.SQLite != nil {
		_ = c.SQLite.Close()
	}
}
