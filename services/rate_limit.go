package services

import (
	"context"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	"github.com/mindforge/forge_api/dto"
	"github.com/mindforge/forge_api/model"
	"github.com/mindforge/forge_api/services/repositories"
	"github.com/mindforge/forge_api/shared"
	log "github.com/sirupsen/logrus"
)

// RateCounter is the fixed-window counter store. RedisService implements it.
type RateCounter interface {
	HitWindow(ctx context.Context, endpoint, identifier string, window time.Duration) (int64, time.Time, error)
	Block(ctx context.Context, endpoint, identifier string, d time.Duration) (time.Time, error)
	BlockedUntil(ctx context.Context, endpoint, identifier string) (*time.Time, error)
}

type RateLimitService struct {
	appContext.DefaultService

	configs map[string]model.RateLimitConfig
	mutex   sync.RWMutex

	counter RateCounter
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func NewRateLimitService(counter RateCounter, configs []model.RateLimitConfig) *RateLimitService {
	svc := &RateLimitService{counter: counter}
	svc.setConfigs(configs)
	return svc
}

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *appContext.Context) error {
	svc.configs = make(map[string]model.RateLimitConfig)
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.counter = svc.Service(REDIS_SVC).(*RedisService)

	configs, err := svc.Service(POSTGRES_SVC).(*PostgresService).RateLimits.GetActiveConfigs()
	if err != nil {
		return err
	}
	svc.setConfigs(configs)

	log.WithField("endpoints", len(configs)).Info("Rate limit configs loaded")
	return nil
}

func (svc *RateLimitService) setConfigs(configs []model.RateLimitConfig) {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	svc.configs = make(map[string]model.RateLimitConfig, len(configs))
	for _, cfg := range configs {
		svc.configs[cfg.EndpointType] = cfg
	}
}

func (svc *RateLimitService) IsAllowed(ctx context.Context, identifier, endpointType string) (bool, *dto.RateLimitInfo, error) {
	svc.mutex.RLock()
	config, exists := svc.configs[endpointType]
	svc.mutex.RUnlock()

	if !exists || !config.IsActive {
		return true, &dto.RateLimitInfo{Allowed: true, Remaining: -1}, nil
	}

	blockedUntil, err := svc.counter.BlockedUntil(ctx, endpointType, identifier)
	if err != nil {
		return false, nil, err
	}
	if blockedUntil != nil {
		return false, &dto.RateLimitInfo{
			Allowed:      false,
			Remaining:    0,
			ResetTime:    blockedUntil,
			BlockedUntil: blockedUntil,
		}, nil
	}

	window := time.Duration(config.WindowSize) * time.Second
	count, resetAt, err := svc.counter.HitWindow(ctx, endpointType, identifier, window)
	if err != nil {
		return false, nil, err
	}

	if int(count) > config.Limit {
		if config.BlockTime <= 0 {
			return false, &dto.RateLimitInfo{Allowed: false, Remaining: 0, ResetTime: &resetAt}, nil
		}
		until, err := svc.counter.Block(ctx, endpointType, identifier, time.Duration(config.BlockTime)*time.Second)
		if err != nil {
			return false, nil, err
		}
		return false, &dto.RateLimitInfo{
			Allowed:      false,
			Remaining:    0,
			ResetTime:    &until,
			BlockedUntil: &until,
		}, nil
	}

	return true, &dto.RateLimitInfo{
		Allowed:   true,
		Remaining: config.Limit - int(count),
		ResetTime: &resetAt,
	}, nil
}

// UserBasedRateLimit limits by authenticated user, falling back to the
// client IP when no user is attached.
func (svc *RateLimitService) UserBasedRateLimit(endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identifier, _ := c.Locals(shared.UserID).(string)
		if identifier == "" {
			identifier = getClientIP(c)
		}
		return svc.check(c, identifier, endpointType)
	}
}

func (svc *RateLimitService) IPRateLimit() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return svc.check(c, getClientIP(c), repositories.EndpointAPIGeneral)
	}
}

func (svc *RateLimitService) check(c *fiber.Ctx, identifier, endpointType string) error {
	allowed, info, err := svc.IsAllowed(c.UserContext(), identifier, endpointType)
	if err != nil {
		log.WithFields(log.Fields{"endpoint": endpointType, "identifier": identifier}).WithError(err).Warn("Rate limit check failed")
		return c.Next()
	}

	svc.addRateLimitHeaders(c, info)

	if !allowed {
		return svc.handleRateLimitExceeded(c, endpointType, info)
	}
	return c.Next()
}

func (svc *RateLimitService) addRateLimitHeaders(c *fiber.Ctx, info *dto.RateLimitInfo) {
	if info == nil {
		return
	}

	if info.Remaining >= 0 {
		c.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
	}
	if info.ResetTime != nil {
		c.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
	if info.BlockedUntil != nil {
		if retryAfter := int(time.Until(*info.BlockedUntil).Seconds()); retryAfter > 0 {
			c.Set("Retry-After", strconv.Itoa(retryAfter))
		}
	}
}

func (svc *RateLimitService) handleRateLimitExceeded(c *fiber.Ctx, endpointType string, info *dto.RateLimitInfo) error {
	message := rateLimitMessage(endpointType)

	response := map[string]interface{}{
		"error":   "Rate limit exceeded",
		"message": message,
	}
	if info.BlockedUntil != nil {
		response["blocked_until"] = info.BlockedUntil.Unix()
		response["retry_after"] = int(time.Until(*info.BlockedUntil).Seconds())
	}

	return shared.ResponseJSON(c, fiber.StatusTooManyRequests, message, response)
}

func rateLimitMessage(endpointType string) string {
	switch endpointType {
	case repositories.EndpointOnboarding:
		return "Too many onboarding requests. Please try again later."
	case repositories.EndpointArenaStart, repositories.EndpointArenaSubmit:
		return "The Oracle needs a rest. Please try again later."
	case repositories.EndpointProfileUpdate:
		return "Too many profile updates. Please try again later."
	case repositories.EndpointHistoryExport:
		return "Too many export requests. Please try again later."
	case repositories.EndpointAPIGeneral:
		return "Too many requests. Please slow down."
	default:
		return "Too many requests. Please try again later."
	}
}

func getClientIP(c *fiber.Ctx) string {
	if forwarded := c.Get("X-Forwarded-For"); forwarded != "" {
		if ip := strings.TrimSpace(strings.Split(forwarded, ",")[0]); ip != "" {
			return ip
		}
	}

	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	remote := c.Context().RemoteAddr().String()
	ip, _, err := net.SplitHostPort(remote)
	if err != nil {
		return remote
	}
	return ip
}
