package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/bytedance/sonic"
	"github.com/caarlos0/env/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"github.com/mindforge/forge_api/docs"
	"github.com/mindforge/forge_api/services/handlers"
	"github.com/mindforge/forge_api/services/repositories"
	"github.com/mindforge/forge_api/shared"
	log "github.com/sirupsen/logrus"
)

// AUTH_SVC is the id the auth middleware registers under.
const AUTH_SVC = "auth"

type HttpConfig struct {
	Port         int           `env:"HTTP_PORT" envDefault:"8000"`
	AllowOrigins string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
	// Arena submissions wait on the oracle, so writes get more room.
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"120s"`
	BodyLimit    int           `env:"HTTP_BODY_LIMIT" envDefault:"1048576"`
}

type HttpService struct {
	context.DefaultService

	cfg HttpConfig

	app *fiber.App
}

const HTTP_SVC = "http_svc"

func (svc HttpService) Id() string {
	return HTTP_SVC
}

func (svc *HttpService) Configure(ctx *context.Context) error {
	if err := env.Parse(&svc.cfg); err != nil {
		return fmt.Errorf("failed to parse http config: %w", err)
	}
	return svc.DefaultService.Configure(ctx)
}

func (svc *HttpService) Start() error {
	svc.app = svc.NewApp(
		svc.Service(AUTH_SVC).(handlers.AuthProvider),
		svc.Service(RATE_LIMIT_SVC).(*RateLimitService),
		svc.Service(MONITORING_SVC).(*MonitoringService),
		svc.Service(GAME_SVC).(*GameService),
	)

	log.WithField("port", svc.cfg.Port).Info("HTTP server starting")
	return svc.app.Listen(fmt.Sprintf(":%v", svc.cfg.Port))
}

func (svc *HttpService) Shutdown() {
	if svc.app != nil {
		_ = svc.app.ShutdownWithTimeout(10 * time.Second)
	}
}

// NewApp builds the fiber application with every route mounted.
func (svc *HttpService) NewApp(auth handlers.AuthProvider, limiter *RateLimitService, monitoring *MonitoringService, game *GameService) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      SERVICE_NAME,
		ErrorHandler: shared.ErrorHandler,
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ReadTimeout:  svc.cfg.ReadTimeout,
		WriteTimeout: svc.cfg.WriteTimeout,
		BodyLimit:    svc.cfg.BodyLimit,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: svc.cfg.AllowOrigins,
		AllowHeaders: strings.Join([]string{fiber.HeaderOrigin, fiber.HeaderContentType, fiber.HeaderAccept, fiber.HeaderAuthorization}, ","),
	}))
	if monitoring != nil {
		app.Use(MonitoringMiddleware(monitoring))
	}

	docs.SwaggerInfo.BasePath = "/"
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/ping", svc.ping)
	app.Get("/health", svc.health)

	profile := handlers.NewProfileHandler(game)
	play := handlers.NewGameHandler(game)
	leaderboard := handlers.NewLeaderboardHandler(game)
	arena := handlers.NewArenaHandler(game)

	v1 := app.Group("/api/v1", limiter.IPRateLimit())
	v1.Get("/ping", svc.ping)
	v1.Get("/leaderboard", auth.OptionalAuth(), leaderboard.GetLeaderboard)

	user := v1.Group("/user", auth.RequiredAuth())
	user.Post("/initialize", profile.InitializeUser)
	user.Get("/profile", profile.GetProfile)
	user.Put("/profile", limiter.UserBasedRateLimit(repositories.EndpointProfileUpdate), profile.UpdateProfile)

	g := v1.Group("/game", auth.RequiredAuth())
	g.Post("/streak/check", play.CheckStreak)
	g.Get("/energy", play.GetEnergy)
	g.Post("/energy/consume", play.ConsumeEnergy)
	g.Post("/results", play.SaveResult)
	g.Get("/history", play.GetHistory)
	g.Post("/history/export", limiter.UserBasedRateLimit(repositories.EndpointHistoryExport), play.ExportHistory)
	g.Get("/activity/weekly", play.GetWeeklyActivity)

	onboarding := v1.Group("/onboarding", auth.RequiredAuth(), limiter.UserBasedRateLimit(repositories.EndpointOnboarding))
	onboarding.Get("", arena.GetOnboarding)
	onboarding.Post("/answer", arena.AnswerOnboarding)

	a := v1.Group("/arena", auth.RequiredAuth())
	a.Post("/start", limiter.UserBasedRateLimit(repositories.EndpointArenaStart), arena.StartArena)
	a.Post("/submit", limiter.UserBasedRateLimit(repositories.EndpointArenaSubmit), arena.SubmitArena)

	app.Use(func(c *fiber.Ctx) error {
		return shared.NewNotFoundError(nil, "Not Found")
	})

	return app
}

// @Summary Ping
// @Description This endpoint checks the health of the service
// @Tags health
// @Accept  json
// @Produce json
// @Success 200 {object} shared.Response{data=string}
// @Router /ping [get]
func (svc *HttpService) ping(c *fiber.Ctx) error {
	c.Set(fiber.HeaderCacheControl, "max-age=10")
	return shared.ResponseJSON(c, fiber.StatusOK, "Success", "pong")
}

// @Summary Health
// @Description Reports whether the database and Redis answer
// @Tags health
// @Produce json
// @Success 200 {object} shared.Response{data=map[string]string}
// @Failure 503 {object} shared.Response{data=map[string]string}
// @Router /health [get]
func (svc *HttpService) health(c *fiber.Ctx) error {
	status := map[string]string{"database": "ok", "redis": "ok"}
	code := fiber.StatusOK

	if db, ok := svc.Service(POSTGRES_SVC).(*PostgresService); !ok || db.Ping() != nil {
		status["database"] = "unavailable"
		code = fiber.StatusServiceUnavailable
	}
	if rds, ok := svc.Service(REDIS_SVC).(*RedisService); !ok || rds.Ping(c.UserContext()) != nil {
		status["redis"] = "unavailable"
		code = fiber.StatusServiceUnavailable
	}

	message := "Success"
	if code != fiber.StatusOK {
		message = "Service Unavailable"
	}
	return shared.ResponseJSON(c, code, message, status)
}
