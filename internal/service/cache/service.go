package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "github.com/haeun/fitcoach-go/pkg/errors"

	"github.com/haeun/fitcoach-go/internal/config"
	"github.com/haeun/fitcoach-go/internal/domain"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	citationKeyPrefix = "fitcoach:citations:"
	commentsKeyPrefix = "fitcoach:comments:"

	citationTTL = 6 * time.Hour
	commentsTTL = 24 * time.Hour
)

// Service wraps redis with JSON marshaling. Every method degrades
// gracefully; callers treat the cache as best-effort.
type Service struct {
	client *redis.Client
	logger *zap.Logger
}

func NewService(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*Service, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, apperrors.NewCacheError("redis ping failed", "ping", "", err)
	}

	logger.Info("Redis connected", zap.String("addr", addr))
	return &Service{client: client, logger: logger}, nil
}

func (s *Service) Close() error {
	return s.client.Close()
}

func (s *Service) get(ctx context.Context, key string, dest any) bool {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		s.logger.Warn("Cache entry corrupt, ignoring", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (s *Service) set(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Warn("Cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		s.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// GetCitations returns the cached citation set for a profile digest.
func (s *Service) GetCitations(ctx context.Context, key string) ([]domain.Citation, bool) {
	var cites []domain.Citation
	if !s.get(ctx, citationKeyPrefix+key, &cites) {
		return nil, false
	}
	return cites, true
}

func (s *Service) SetCitations(ctx context.Context, key string, citations []domain.Citation) {
	s.set(ctx, citationKeyPrefix+key, citations, citationTTL)
}

// GetCoachComments returns the prebuilt comment track for a session.
func (s *Service) GetCoachComments(ctx context.Context, sessionID string) ([]domain.CoachComment, bool) {
	var comments []domain.CoachComment
	if !s.get(ctx, commentsKeyPrefix+sessionID, &comments) {
		return nil, false
	}
	return comments, true
}

func (s *Service) SetCoachComments(ctx context.Context, sessionID string, comments []domain.CoachComment) {
	s.set(ctx, commentsKeyPrefix+sessionID, comments, commentsTTL)
}

// FlushSession drops the cached comment track when a session completes.
func (s *Service) FlushSession(ctx context.Context, sessionID string) {
	if err := s.client.Del(ctx, commentsKeyPrefix+sessionID).Err(); err != nil {
		s.logger.Warn("Cache delete failed",
			zap.String("key", fmt.Sprintf("%s%s", commentsKeyPrefix, sessionID)),
			zap.Error(err),
		)
	}
}
