package container

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"cms-backend/internal/config"
	infracache "cms-backend/internal/infrastructure/cache"
	"cms-backend/internal/infrastructure/database"
	"cms-backend/internal/infrastructure/storage"
	"cms-backend/pkg/cache"
	"cms-backend/pkg/jwt"
	"cms-backend/pkg/logger"

	mediaHandler "cms-backend/internal/domains/media/handler"
	mediaService "cms-backend/internal/domains/media/service"
	"cms-backend/internal/domains/post"
	postCache "cms-backend/internal/domains/post/cache"
	postHandler "cms-backend/internal/domains/post/handler"
	postRepo "cms-backend/internal/domains/post/repository"
	postService "cms-backend/internal/domains/post/service"
	searchHandler "cms-backend/internal/domains/search/handler"
	searchRepo "cms-backend/internal/domains/search/repository"
	"cms-backend/internal/domains/user"
	userHandler "cms-backend/internal/domains/user/handler"
	userRepo "cms-backend/internal/domains/user/repository"
	userService "cms-backend/internal/domains/user/service"
)

// Container is the root of the dependency graph. Everything in it is a
// singleton shared for the process lifetime.
type Container struct {
	Config      *config.Config
	DB          *database.PostgresDB
	RedisClient *redis.Client
	Cache       cache.Cache
	JWTManager  *jwt.Manager

	PostRepo    post.Repository
	PostCache   *postCache.PostCache
	PostService post.Service
	UserRepo    user.Repository
	AuthService user.Service

	PostHandler   *postHandler.PostHandler
	PublicHandler *postHandler.PublicHandler
	AuthHandler   *userHandler.AuthHandler
	SearchHandler *searchHandler.SearchHandler
	MediaHandler  *mediaHandler.MediaHandler
}

// Options toggles optional infrastructure per process.
type Options struct {
	// WithStorage enables MinIO media storage (API process only).
	WithStorage bool
}

// NewContainer builds the full dependency graph, failing fast when any
// required backing service is unreachable.
func NewContainer(ctx context.Context, opts Options) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger.Init(cfg.App.Environment)

	db := database.NewPostgresDB(&cfg.Database)
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}

	redisClient, err := infracache.NewRedisClient(ctx, &cfg.Redis)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}

	c := &Container{
		Config:      cfg,
		DB:          db,
		RedisClient: redisClient,
		Cache:       cache.NewRedisCache(redisClient),
		JWTManager:  jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expiry),
	}

	c.PostRepo = postRepo.NewPostgresRepository(db.Pool)
	c.PostCache = postCache.NewPostCache(c.Cache)
	c.PostService = postService.NewPostService(c.PostRepo, c.PostCache, cfg.Pagination)
	c.UserRepo = userRepo.NewPostgresRepository(db.Pool)
	c.AuthService = userService.NewAuthService(c.UserRepo, c.JWTManager)

	c.PostHandler = postHandler.NewPostHandler(c.PostService)
	c.PublicHandler = postHandler.NewPublicHandler(c.PostService)
	c.AuthHandler = userHandler.NewAuthHandler(c.AuthService)
	c.SearchHandler = searchHandler.NewSearchHandler(searchRepo.NewSearchRepository(db.Pool), cfg.Pagination)

	if opts.WithStorage {
		minioStorage, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			c.Cleanup()
			return nil, fmt.Errorf("connect minio: %w", err)
		}
		c.MediaHandler = mediaHandler.NewMediaHandler(mediaService.NewMediaService(minioStorage))
	}

	return c, nil
}

// Cleanup closes infrastructure connections.
func (c *Container) Cleanup() {
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Error("close redis", err)
		}
	}
	if c.DB != nil {
		c.DB.Close()
	}
}
