package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"strconv"

	"github.com/google/uuid"

	"github.com/stephen4599/Civic-resolve/internal/cache"
	"github.com/stephen4599/Civic-resolve/internal/models"
)

// captchaService hands out arithmetic challenges backed by a TTL'd redis
// store. Each entry expires after the configured captcha TTL and is consumed
// atomically on first validation, so an answer cannot be replayed.
type captchaService struct {
	store  *cache.CacheHelper
	logger *slog.Logger
}

func NewCaptchaService(cm *cache.CacheManager, logger *slog.Logger) CaptchaService {
	return &captchaService{
		store:  cm.Captcha,
		logger: logger,
	}
}

func (s *captchaService) Generate(ctx context.Context) (*models.CaptchaResponse, error) {
	a := rand.Intn(10) + 1
	b := rand.Intn(10) + 1

	id := uuid.New().String()
	answer := strconv.Itoa(a + b)

	if err := s.store.SetString(ctx, id, answer, cache.CaptchaCacheConfig.TTL); err != nil {
		return nil, fmt.Errorf("failed to store captcha: %w", err)
	}

	s.logger.Debug("Captcha generated", "captcha_id", id)

	return &models.CaptchaResponse{
		ID:       id,
		Question: fmt.Sprintf("What is %d + %d?", a, b),
	}, nil
}

func (s *captchaService) Validate(ctx context.Context, id, answer string) (bool, error) {
	expected, err := s.store.GetDelString(ctx, id)
	if err != nil {
		if err == cache.ErrCacheNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to load captcha: %w", err)
	}

	return expected == answer, nil
}
