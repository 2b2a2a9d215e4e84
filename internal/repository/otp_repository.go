package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"konsul-pajak-go/internal/model"

	"github.com/go-redis/redis/v8"
)

// OTPRepository stores pending email login challenges in Redis.
type OTPRepository interface {
	StoreChallenge(ctx context.Context, challenge *model.OTPChallenge, ttl time.Duration) error
	GetChallenge(ctx context.Context, email string) (*model.OTPChallenge, error)
	UpdateChallenge(ctx context.Context, challenge *model.OTPChallenge) error
	DeleteChallenge(ctx context.Context, email string) error
	MarkSent(ctx context.Context, email string, cooldown time.Duration) (bool, error)
}

type redisOTPRepository struct {
	redisClient *redis.Client
}

// NewOTPRepository creates an OTPRepository backed by Redis.
func NewOTPRepository(redisClient *redis.Client) OTPRepository {
	return &redisOTPRepository{redisClient: redisClient}
}

func challengeKey(email string) string {
	return fmt.Sprintf("auth:otp:%s", email)
}

func resendKey(email string) string {
	return fmt.Sprintf("auth:otp:%s:resend", email)
}

// StoreChallenge writes the challenge with the given TTL, replacing any
// previous one for the same address.
func (r *redisOTPRepository) StoreChallenge(ctx context.Context, challenge *model.OTPChallenge, ttl time.Duration) error {
	jsonData, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("failed to marshal otp challenge: %w", err)
	}
	if err := r.redisClient.Set(ctx, challengeKey(challenge.Email), jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store otp challenge: %w", err)
	}
	return nil
}

// GetChallenge loads the pending challenge for an address. A missing
// challenge returns (nil, nil).
func (r *redisOTPRepository) GetChallenge(ctx context.Context, email string) (*model.OTPChallenge, error) {
	jsonData, err := r.redisClient.Get(ctx, challengeKey(email)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get otp challenge: %w", err)
	}
	var challenge model.OTPChallenge
	if err := json.Unmarshal([]byte(jsonData), &challenge); err != nil {
		return nil, fmt.Errorf("failed to unmarshal otp challenge: %w", err)
	}
	return &challenge, nil
}

// UpdateChallenge rewrites the challenge without touching its remaining TTL.
// Used to record failed verification attempts.
func (r *redisOTPRepository) UpdateChallenge(ctx context.Context, challenge *model.OTPChallenge) error {
	jsonData, err := json.Marshal(challenge)
	if err != nil {
		return fmt.Errorf("failed to marshal otp challenge: %w", err)
	}
	if err := r.redisClient.Set(ctx, challengeKey(challenge.Email), jsonData, redis.KeepTTL).Err(); err != nil {
		return fmt.Errorf("failed to update otp challenge: %w", err)
	}
	return nil
}

// DeleteChallenge removes the challenge once it is consumed.
func (r *redisOTPRepository) DeleteChallenge(ctx context.Context, email string) error {
	return r.redisClient.Del(ctx, challengeKey(email), resendKey(email)).Err()
}

// MarkSent records that a code was just sent. It returns false when the
// previous send is still inside the cooldown window.
func (r *redisOTPRepository) MarkSent(ctx context.Context, email string, cooldown time.Duration) (bool, error) {
	ok, err := r.redisClient.SetNX(ctx, resendKey(email), "1", cooldown).Result()
	if err != nil {
		return false, fmt.Errorf("failed to set otp resend marker: %w", err)
	}
	return ok, nil
}
