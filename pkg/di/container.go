package di

import (
	"context"
	"time"

	"gorm.io/gorm"

	"task-tracker/application/serviceimpl"
	"task-tracker/domain/ports"
	"task-tracker/domain/repositories"
	"task-tracker/domain/services"
	"task-tracker/infrastructure/messaging"
	natspkg "task-tracker/infrastructure/nats"
	"task-tracker/infrastructure/postgres"
	redispkg "task-tracker/infrastructure/redis"
	"task-tracker/interfaces/api/handlers"
	"task-tracker/pkg/config"
	"task-tracker/pkg/logger"
)

type Container struct {
	// Configuration
	Config *config.Config

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redispkg.Client // Redis client สำหรับ cache (optional)
	NATSClient  *natspkg.Client  // NATS connection + JetStream (optional)

	// Messaging Ports
	TaskEvents ports.TaskEventPublisher

	// Repositories
	TaskRepository repositories.TaskRepository

	// Services
	TaskService services.TaskService
}

func NewContainer() *Container {
	return &Container{}
}

func (c *Container) Initialize() error {
	if err := c.initConfig(); err != nil {
		return err
	}

	if err := c.initLogger(); err != nil {
		return err
	}

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	return c.initServices()
}

// InitializeWithConfig ใช้ config ที่โหลดไว้แล้ว (tests, tools)
func (c *Container) InitializeWithConfig(cfg *config.Config) error {
	c.Config = cfg

	if err := c.initInfrastructure(); err != nil {
		return err
	}

	if err := c.initRepositories(); err != nil {
		return err
	}

	return c.initServices()
}

func (c *Container) initConfig() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	c.Config = cfg
	logger.Info("Configuration loaded")
	return nil
}

func (c *Container) initLogger() error {
	logConfig := logger.Config{
		Level:      c.Config.Log.Level,
		Format:     c.Config.Log.Format,
		Output:     c.Config.Log.Output,
		FilePath:   c.Config.Log.FilePath,
		MaxSize:    c.Config.Log.MaxSize,
		MaxBackups: c.Config.Log.MaxBackups,
		MaxAge:     c.Config.Log.MaxAge,
		Compress:   c.Config.Log.Compress,
	}

	if err := logger.Init(logConfig); err != nil {
		return err
	}

	logger.Info("Logger initialized",
		"level", c.Config.Log.Level,
		"format", c.Config.Log.Format,
		"output", c.Config.Log.Output,
		"file", c.Config.Log.FilePath,
	)
	return nil
}

func (c *Container) initInfrastructure() error {
	// Initialize Database
	dbConfig := postgres.DatabaseConfig{
		Driver:     c.Config.Database.Driver,
		Host:       c.Config.Database.Host,
		Port:       c.Config.Database.Port,
		User:       c.Config.Database.User,
		Password:   c.Config.Database.Password,
		DBName:     c.Config.Database.DBName,
		SSLMode:    c.Config.Database.SSLMode,
		SQLitePath: c.Config.Database.SQLitePath,
	}

	db, err := postgres.NewDatabase(dbConfig)
	if err != nil {
		return err
	}
	c.DB = db
	logger.Info("Database connected", "driver", c.Config.Database.Driver, "db", c.Config.Database.DBName)

	// Run migrations
	if err := postgres.Migrate(db); err != nil {
		return err
	}
	logger.Info("Database migrated")

	// Initialize Redis Client (optional - graceful degradation)
	if c.Config.Redis.URL != "" {
		redisClient, err := redispkg.NewClient(&c.Config.Redis)
		if err != nil {
			logger.Warn("Redis client initialization failed (cache disabled)", "error", err)
		} else {
			c.RedisClient = redisClient
		}
	} else {
		logger.Info("Redis not configured (cache disabled)")
	}

	// Initialize NATS Client + JetStream (optional - graceful degradation)
	c.TaskEvents = messaging.NewNoopTaskEventPublisher()
	if c.Config.NATS.URL != "" {
		natsClient, err := natspkg.NewClient(natspkg.ClientConfig{
			URL:  c.Config.NATS.URL,
			Name: c.Config.App.Name,
		})
		if err != nil {
			logger.Warn("NATS client initialization failed (task events disabled)", "error", err)
		} else {
			c.NATSClient = natsClient
			c.TaskEvents = messaging.NewNATSTaskEventPublisher(natsClient.JetStream())
			c.logStreamInfo()
		}
	} else {
		logger.Info("NATS not configured (task events disabled)")
	}

	return nil
}

func (c *Container) logStreamInfo() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	info, err := c.NATSClient.GetStreamInfo(ctx)
	if err != nil {
		logger.Warn("Failed to read task events stream info", "error", err)
		return
	}
	logger.Info("Task events stream", "name", info.Name, "messages", info.Messages, "last_seq", info.LastSeq)
}

func (c *Container) initRepositories() error {
	c.TaskRepository = postgres.NewTaskRepository(c.DB)
	logger.Info("Repositories initialized")
	return nil
}

func (c *Container) initServices() error {
	if c.RedisClient != nil {
		c.TaskService = serviceimpl.NewTaskServiceWithCache(c.TaskRepository, c.TaskEvents, c.RedisClient, c.Config.Redis.TaskTTL)
		logger.Info("Task service initialized", "cache", "redis", "ttl", c.Config.Redis.TaskTTL.String())
	} else {
		c.TaskService = serviceimpl.NewTaskService(c.TaskRepository, c.TaskEvents)
		logger.Info("Task service initialized", "cache", "none")
	}
	return nil
}

func (c *Container) Cleanup() error {
	logger.Info("Starting cleanup...")

	// Close NATS connection
	if c.NATSClient != nil {
		if err := c.NATSClient.Close(); err != nil {
			logger.Warn("Failed to close NATS connection", "error", err)
		}
	}

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			logger.Warn("Failed to close Redis connection", "error", err)
		} else {
			logger.Info("Redis connection closed")
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := postgres.Close(c.DB); err != nil {
			logger.Warn("Failed to close database connection", "error", err)
		} else {
			logger.Info("Database connection closed")
		}
	}

	logger.Info("Cleanup completed")
	return nil
}

func (c *Container) GetConfig() *config.Config {
	return c.Config
}

func (c *Container) GetHandlerServices() *handlers.Services {
	return &handlers.Services{
		TaskService: c.TaskService,
	}
}
