package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	pkgauth "github.com/teravoo/teravoo-backend/pkg/auth"
	"github.com/teravoo/teravoo-backend/pkg/config"
	"github.com/teravoo/teravoo-backend/pkg/db/models"
	"github.com/teravoo/teravoo-backend/pkg/enums"
	pkgerrors "github.com/teravoo/teravoo-backend/pkg/errors"
	pkgredis "github.com/teravoo/teravoo-backend/pkg/redis"
	"github.com/teravoo/teravoo-backend/pkg/security"
)

var phonePattern = regexp.MustCompile(`^\+[1-9][0-9]{7,14}$`)

// Service exposes the mock OTP login flow. Codes are generated server side,
// hashed into Redis with a TTL, and never delivered anywhere real yet.
type Service interface {
	RequestCode(ctx context.Context, phone string) (*CodeRequestDTO, error)
	VerifyCode(ctx context.Context, phone, code string) (*SessionDTO, error)
}

type service struct {
	repo     *Repository
	otpStore pkgredis.OTPStore
	cfg      *config.Config
	now      func() time.Time
}

// NewService constructs an auth service instance.
func NewService(repo *Repository, otpStore pkgredis.OTPStore, cfg *config.Config) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("auth repository required")
	}
	if otpStore == nil {
		return nil, fmt.Errorf("otp store required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	return &service{
		repo:     repo,
		otpStore: otpStore,
		cfg:      cfg,
		now:      time.Now,
	}, nil
}

// RequestCode issues a fresh login code for the phone number, replacing any
// outstanding one and resetting the attempt counter.
func (s *service) RequestCode(ctx context.Context, phone string) (*CodeRequestDTO, error) {
	normalized, err := normalizePhone(phone)
	if err != nil {
		return nil, err
	}

	code, err := security.GenerateOTPCode(s.cfg.OTP.Digits)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate login code")
	}
	hashed, err := security.HashOTPCode(code)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash login code")
	}

	if err := s.otpStore.Set(ctx, s.otpStore.OTPCodeKey(normalized), hashed, s.cfg.OTP.TTL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store login code")
	}
	if err := s.otpStore.Del(ctx, s.otpStore.OTPAttemptsKey(normalized)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reset attempt counter")
	}

	dto := &CodeRequestDTO{
		Phone:     normalized,
		ExpiresAt: s.now().Add(s.cfg.OTP.TTL),
	}
	if s.cfg.OTP.DevEcho && !s.cfg.App.IsProd() {
		dto.DevCode = &code
	}
	return dto, nil
}

// VerifyCode checks the submitted code, creates the account on first login,
// and mints an access token.
func (s *service) VerifyCode(ctx context.Context, phone, code string) (*SessionDTO, error) {
	normalized, err := normalizePhone(phone)
	if err != nil {
		return nil, err
	}
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "code is required")
	}

	hashed, err := s.otpStore.Get(ctx, s.otpStore.OTPCodeKey(normalized))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "code expired or not requested")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load login code")
	}

	attempts, err := s.otpStore.Incr(ctx, s.otpStore.OTPAttemptsKey(normalized))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count attempt")
	}
	if attempts > int64(s.cfg.OTP.MaxAttempts) {
		return nil, pkgerrors.New(pkgerrors.CodeRateLimit, "too many failed attempts; request a new code")
	}

	match, err := security.VerifyOTPCode(code, hashed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify login code")
	}
	if !match {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "incorrect code")
	}

	if err := s.otpStore.Del(ctx, s.otpStore.OTPCodeKey(normalized), s.otpStore.OTPAttemptsKey(normalized)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear login code")
	}

	user, err := s.findOrCreateUser(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "account is disabled")
	}

	token, err := pkgauth.MintAccessToken(s.cfg.JWT, s.now(), pkgauth.AccessTokenPayload{
		UserID:     user.ID,
		Role:       user.Role,
		ProducerID: user.ProducerID,
		Phone:      user.Phone,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint access token")
	}

	return &SessionDTO{
		AccessToken: token,
		UserID:      user.ID,
		Phone:       user.Phone,
		Role:        user.Role.String(),
		ProducerID:  user.ProducerID,
	}, nil
}

func (s *service) findOrCreateUser(ctx context.Context, phone string) (*models.User, error) {
	user, err := s.repo.FindUserByPhone(ctx, phone)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	created := &models.User{
		Phone:    phone,
		Role:     enums.UserRoleBuyer,
		IsActive: true,
	}
	if err := s.repo.CreateUser(ctx, created); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return created, nil
}

func normalizePhone(phone string) (string, error) {
	normalized := strings.TrimSpace(phone)
	if !phonePattern.MatchString(normalized) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "phone must be in E.164 format")
	}
	return normalized, nil
}
