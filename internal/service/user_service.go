package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/mail"
	"strings"
	"time"

	"konsul-pajak-go/internal/config"
	"konsul-pajak-go/internal/model"
	"konsul-pajak-go/internal/repository"
	"konsul-pajak-go/pkg/log"
	"konsul-pajak-go/pkg/mailer"
	"konsul-pajak-go/pkg/token"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// otpCodeLength is the number of digits in a login code.
const otpCodeLength = 6

// TokenPair is the access/refresh token pair issued on login.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// UserService handles passwordless email login and token refresh.
type UserService interface {
	// RequestOTP generates a login code for the address and mails it.
	// Repeated requests inside the cooldown window are rejected.
	RequestOTP(ctx context.Context, email string) error
	// VerifyOTP checks the code, creates the user on first login, and
	// issues a token pair.
	VerifyOTP(ctx context.Context, email, code string) (*model.User, *TokenPair, error)
	// RefreshToken exchanges a valid refresh token for a new pair.
	RefreshToken(refreshToken string) (*TokenPair, error)
	// GetByID loads a user by primary key.
	GetByID(userID uint) (*model.User, error)
}

type userService struct {
	userRepo   repository.UserRepository
	otpRepo    repository.OTPRepository
	jwtManager *token.JWTManager
	mailer     mailer.Mailer
	authCfg    config.AuthConfig
}

// NewUserService creates a UserService.
func NewUserService(
	userRepo repository.UserRepository,
	otpRepo repository.OTPRepository,
	jwtManager *token.JWTManager,
	m mailer.Mailer,
	authCfg config.AuthConfig,
) UserService {
	return &userService{
		userRepo:   userRepo,
		otpRepo:    otpRepo,
		jwtManager: jwtManager,
		mailer:     m,
		authCfg:    authCfg,
	}
}

// RequestOTP issues a fresh challenge for the address. Any previous pending
// challenge is replaced, so only the latest code is ever valid.
func (s *userService) RequestOTP(ctx context.Context, email string) error {
	email, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	cooldown := time.Duration(s.authCfg.OTPResendSeconds) * time.Second
	ok, err := s.otpRepo.MarkSent(ctx, email, cooldown)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOTPCooldown
	}

	code, err := generateOTPCode()
	if err != nil {
		return fmt.Errorf("failed to generate otp code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash otp code: %w", err)
	}

	ttl := time.Duration(s.authCfg.OTPExpireMinutes) * time.Minute
	challenge := &model.OTPChallenge{
		Email:     email,
		CodeHash:  string(hash),
		ExpiresAt: time.Now().Add(ttl),
	}
	if err := s.otpRepo.StoreChallenge(ctx, challenge, ttl); err != nil {
		return err
	}

	if err := s.mailer.SendOTP(email, code); err != nil {
		log.Errorf("[UserService] failed to send otp mail, email: %s, error: %v", email, err)
		return err
	}
	return nil
}

// VerifyOTP consumes the pending challenge. The challenge is deleted on
// success and after too many failed attempts.
func (s *userService) VerifyOTP(ctx context.Context, email, code string) (*model.User, *TokenPair, error) {
	email, err := normalizeEmail(email)
	if err != nil {
		return nil, nil, err
	}

	challenge, err := s.otpRepo.GetChallenge(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if challenge == nil {
		return nil, nil, ErrOTPInvalid
	}
	if time.Now().After(challenge.ExpiresAt) {
		_ = s.otpRepo.DeleteChallenge(ctx, email)
		return nil, nil, ErrOTPExpired
	}
	if challenge.Attempts >= s.authCfg.OTPMaxVerifyAttempts {
		_ = s.otpRepo.DeleteChallenge(ctx, email)
		return nil, nil, ErrOTPTooManyAttempts
	}

	if bcrypt.CompareHashAndPassword([]byte(challenge.CodeHash), []byte(code)) != nil {
		challenge.Attempts++
		if err := s.otpRepo.UpdateChallenge(ctx, challenge); err != nil {
			log.Errorf("[UserService] failed to record otp attempt, email: %s, error: %v", email, err)
		}
		return nil, nil, ErrOTPInvalid
	}

	if err := s.otpRepo.DeleteChallenge(ctx, email); err != nil {
		log.Errorf("[UserService] failed to delete consumed otp, email: %s, error: %v", email, err)
	}

	user, err := s.getOrCreateUser(email)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokenPair(user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// RefreshToken verifies the refresh token and issues a new pair for the
// same user. The user must still exist.
func (s *userService) RefreshToken(refreshToken string) (*TokenPair, error) {
	claims, err := s.jwtManager.VerifyToken(refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	return s.issueTokenPair(user)
}

// GetByID loads a user by primary key.
func (s *userService) GetByID(userID uint) (*model.User, error) {
	return s.userRepo.FindByID(userID)
}

func (s *userService) getOrCreateUser(email string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	user = &model.User{
		Email: email,
		Name:  strings.SplitN(email, "@", 2)[0],
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	log.Infof("[UserService] created user on first login, email: %s", email)
	return user, nil
}

func (s *userService) issueTokenPair(user *model.User) (*TokenPair, error) {
	accessToken, err := s.jwtManager.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwtManager.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

// normalizeEmail lower-cases and validates the address.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// generateOTPCode produces a random numeric code with leading zeros kept.
func generateOTPCode() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < otpCodeLength; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpCodeLength, n), nil
}
