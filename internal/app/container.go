package app

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/you/clinicgate/domain"
	"github.com/you/clinicgate/internal/config"
	"github.com/you/clinicgate/internal/gate"
	"github.com/you/clinicgate/internal/infrastructure/auth"
	"github.com/you/clinicgate/internal/infrastructure/database"
	"github.com/you/clinicgate/internal/infrastructure/notifications"
	"github.com/you/clinicgate/internal/infrastructure/repositories"
	"github.com/you/clinicgate/internal/logging"
	"github.com/you/clinicgate/internal/routes"
	"github.com/you/clinicgate/internal/services"
)

// Container holds all dependencies
type Container struct {
	Config *config.Config
	Log    *zap.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client

	// Repositories
	UserRepo domain.UserRepository
	Tokens   domain.TokenRegistry

	// Services
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	AuthSvc         domain.AuthService
	PolicySvc       domain.PolicyService
	Audit           domain.AuditLogger

	// Gate core
	Routes *routes.Table
	Gate   *gate.Gate
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config, log *zap.Logger) (*Container, error) {
	if log == nil {
		log = zap.NewNop()
	}
	container := &Container{Config: cfg, Log: log}

	if err := container.initDatabase(); err != nil {
		return nil, err
	}
	if err := container.initRedis(); err != nil {
		return nil, err
	}

	container.initRepositories()

	if err := container.initServices(); err != nil {
		return nil, err
	}

	container.initGate()

	return container, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	c.DB = db
	return nil
}

func (c *Container) initRedis() error {
	rdb := database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err := rdb.Ping(context.Background()); err != nil {
		return err
	}
	c.RedisClient = rdb.Client
	return nil
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
	c.Tokens = repositories.NewTokenRegistry(c.RedisClient, c.Config.TokenTTL)
}

func (c *Container) initServices() error {
	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewJWTService(c.Config.JWTSecret, c.Config.JWTIssuer, c.Config.TokenTTL)
	c.NotificationSvc = notifications.NewTwilioService(
		c.Config.TwilioSID,
		c.Config.TwilioToken,
		c.Config.TwilioFrom,
		c.Log,
	)
	c.Audit = logging.NewAuditLogger(c.Log)

	cas, err := auth.NewCasbinService(c.DB, c.Config.CasbinModelPath)
	if err != nil {
		return err
	}
	c.PolicySvc = services.NewPolicyService(cas.E)

	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.Tokens,
		c.PasswordSvc,
		c.TokenSvc,
		c.NotificationSvc,
		c.Audit,
		c.Log,
	)
	return nil
}

func (c *Container) initGate() {
	var opts []routes.Option
	if c.Config.LoginPath != "" {
		opts = append(opts, routes.WithLoginPath(c.Config.LoginPath))
	}
	if c.Config.PatientLanding != "" {
		opts = append(opts, routes.WithLanding(domain.RolePatient, c.Config.PatientLanding))
	}
	if c.Config.DoctorLanding != "" {
		opts = append(opts, routes.WithLanding(domain.RoleDoctor, c.Config.DoctorLanding))
	}
	if c.Config.HospitalLanding != "" {
		opts = append(opts, routes.WithLanding(domain.RoleHospital, c.Config.HospitalLanding))
	}
	c.Routes = routes.New(opts...)
	c.Gate = gate.New(c.Routes)
}
