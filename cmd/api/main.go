package main

import (
	"net/http"
	"os"
	"time"

	"github.com/dotdotgod/boilerplate/api/handler"
	apiMiddleware "github.com/dotdotgod/boilerplate/api/middleware"
	"github.com/dotdotgod/boilerplate/api/routes"
	"github.com/dotdotgod/boilerplate/config"
	"github.com/dotdotgod/boilerplate/internal/repository"
	"github.com/dotdotgod/boilerplate/internal/service"
	"github.com/dotdotgod/boilerplate/internal/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	db, err := config.ConnectDB(cfg)
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to database")
	}

	jwtManager := utils.JWTManager{
		AccessSecret:  []byte(cfg.JWTAccessSecret),
		RefreshSecret: []byte(cfg.JWTRefreshSecret),
		Issuer:        cfg.JWTIssuer,
		AccessTTL:     cfg.AccessTokenTTL,
		RefreshTTL:    cfg.RefreshTokenTTL,
	}

	userRepo := repository.NewUserRepository(db)
	oauthRepo := repository.NewOAuthAccountRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)
	verificationRepo := repository.NewEmailVerificationRepository(db)

	mailer := service.NewResendMailer(cfg.ResendAPIKey, cfg.MailFrom, cfg.BaseURL)
	googleClient := service.NewGoogleOAuthClient()

	authService := service.NewAuthService(
		userRepo,
		oauthRepo,
		refreshRepo,
		verificationRepo,
		mailer,
		googleClient,
		service.Argon2idHasher{},
		jwtManager,
		service.RealClock{},
		service.AuthConfig{
			AccessTokenTTL:       cfg.AccessTokenTTL,
			RefreshTokenTTL:      cfg.RefreshTokenTTL,
			RegistrationTokenTTL: cfg.RegistrationTokenTTL,
			VerificationTokenTTL: cfg.VerificationTokenTTL,
			ResetTokenTTL:        cfg.ResetTokenTTL,
		},
		logger,
	)

	agentProxy := service.NewAgentProxy(cfg.AgentAPIKey, cfg.AgentBaseURL, cfg.AgentModel)

	validate := validator.New()
	userHandler := handler.NewUserHandler(authService, validate)
	userHandler.CookieDomain = cfg.CookieDomain
	userHandler.SecureCookies = cfg.IsProduction()
	userHandler.RefreshMaxAge = cfg.RefreshTokenTTL
	agentHandler := handler.NewAgentHandler(agentProxy, logger)

	app := echo.New()
	app.HideBanner = true
	app.HidePort = true
	app.Use(echoMiddleware.Recover())
	app.Use(echoMiddleware.RequestLoggerWithConfig(echoMiddleware.RequestLoggerConfig{
		LogStatus:   true,
		LogMethod:   true,
		LogURI:      true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v echoMiddleware.RequestLoggerValues) error {
			entry := logger.WithFields(logrus.Fields{
				"status": v.Status,
				"method": v.Method,
				"uri":    v.URI,
				"ip":     v.RemoteIP,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Error("request")
				return nil
			}
			entry.Info("request")
			return nil
		},
	}))

	authMiddleware := apiMiddleware.AuthMiddleware{JWT: jwtManager, Users: userRepo}
	csrf := apiMiddleware.NewCSRFGuard(cfg.IsProduction(), cfg.CookieDomain)

	router := routes.NewRouter(app, userHandler, agentHandler, authMiddleware, csrf)
	router.RegisterRoutes()

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.WithField("addr", cfg.HTTPAddr).Info("server started")
	if err := app.StartServer(server); err != nil {
		logger.WithError(err).Fatal("server stopped")
	}
}
