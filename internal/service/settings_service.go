package service

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

const monetizationKey = "settings:monetization"

// SettingsService exposes the runtime monetization toggle. The value lives in
// redis so admins can flip it without a restart; the config default applies
// when redis is unavailable or holds no value.
type SettingsService interface {
	MonetizationEnabled(ctx context.Context) bool
	SetMonetization(ctx context.Context, enabled bool) error
	UnlockCost() int
}

type settingsService struct {
	rdb             *redis.Client
	defaultMonetize bool
	unlockCost      int
}

func NewSettingsService(rdb *redis.Client, defaultMonetize bool, unlockCost int) SettingsService {
	return &settingsService{
		rdb:             rdb,
		defaultMonetize: defaultMonetize,
		unlockCost:      unlockCost,
	}
}

func (s *settingsService) MonetizationEnabled(ctx context.Context) bool {
	if s.rdb == nil {
		return s.defaultMonetize
	}

	val, err := s.rdb.Get(ctx, monetizationKey).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("failed to read monetization toggle from redis: %v", err)
		}
		return s.defaultMonetize
	}

	return val == "on"
}

func (s *settingsService) SetMonetization(ctx context.Context, enabled bool) error {
	if s.rdb == nil {
		return nil
	}

	val := "off"
	if enabled {
		val = "on"
	}
	return s.rdb.Set(ctx, monetizationKey, val, 0).Err()
}

func (s *settingsService) UnlockCost() int {
	return s.unlockCost
}
