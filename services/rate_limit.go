package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	appContext "github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/lexiquest-app/lexi_api/shared"
)

// RateLimitService enforces fixed-window limits backed by Redis, so
// limits hold across replicas. Auth endpoints are limited per client
// IP; generation endpoints per authenticated user, since those fan out
// to the remote content generator.
type RateLimitService struct {
	appContext.DefaultService

	configs map[string]*RateLimitConfig
	mutex   sync.RWMutex

	redisSvc *RedisService
}

type RateLimitConfig struct {
	EndpointType string
	MaxRequests  int
	WindowSize   time.Duration
	Description  string
	IsActive     bool
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc *RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *appContext.Context) error {
	svc.configs = make(map[string]*RateLimitConfig)
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.initDefaultConfigs()
	return nil
}

func (svc *RateLimitService) initDefaultConfigs() {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	svc.configs = map[string]*RateLimitConfig{
		"login": {
			EndpointType: "login",
			MaxRequests:  10,
			WindowSize:   15 * time.Minute,
			Description:  "Login attempts rate limit",
			IsActive:     true,
		},
		"register": {
			EndpointType: "register",
			MaxRequests:  5,
			WindowSize:   15 * time.Minute,
			Description:  "Registration rate limit",
			IsActive:     true,
		},
		"generation": {
			EndpointType: "generation",
			MaxRequests:  30,
			WindowSize:   time.Minute,
			Description:  "Content generation rate limit",
			IsActive:     true,
		},
	}
}

func (svc *RateLimitService) getConfig(endpointType string) *RateLimitConfig {
	svc.mutex.RLock()
	defer svc.mutex.RUnlock()
	return svc.configs[endpointType]
}

// Allow consumes one request from the window; false means over limit.
func (svc *RateLimitService) Allow(endpointType, key string) (bool, error) {
	config := svc.getConfig(endpointType)
	if config == nil || !config.IsActive {
		return true, nil
	}

	ctx := context.Background()
	window := time.Now().Unix() / int64(config.WindowSize.Seconds())
	redisKey := fmt.Sprintf("ratelimit:%s:%s:%d", endpointType, key, window)

	count, err := svc.redisSvc.Increment(ctx, redisKey)
	if err != nil {
		// Never let a Redis outage lock everyone out.
		log.WithError(err).Warn("rate limit check failed, allowing request")
		return true, nil
	}
	if count == 1 {
		if err := svc.redisSvc.Expire(ctx, redisKey, config.WindowSize); err != nil {
			log.WithError(err).Warn("failed to set rate limit expiry")
		}
	}

	return count <= int64(config.MaxRequests), nil
}

// Middleware limits by user when authenticated, by IP otherwise.
func (svc *RateLimitService) Middleware(endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.IP()
		if userID, ok := c.Locals(shared.UserID).(string); ok && userID != "" {
			key = userID
		}

		allowed, err := svc.Allow(endpointType, key)
		if err != nil {
			return err
		}
		if !allowed {
			return shared.ResponseJSON(c, fiber.StatusTooManyRequests, "Too many requests", nil)
		}

		return c.Next()
	}
}
