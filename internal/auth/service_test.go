package auth

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/teravoo/teravoo-backend/pkg/config"
	pkgerrors "github.com/teravoo/teravoo-backend/pkg/errors"
)

type fakeOTPStore struct {
	data     map[string]string
	counters map[string]int64
}

func newFakeOTPStore() *fakeOTPStore {
	return &fakeOTPStore{data: map[string]string{}, counters: map[string]int64{}}
}

func (f *fakeOTPStore) Get(_ context.Context, key string) (string, error) {
	if v, ok := f.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (f *fakeOTPStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	str, _ := value.(string)
	f.data[key] = str
	return nil
}

func (f *fakeOTPStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.data, key)
		delete(f.counters, key)
	}
	return nil
}

func (f *fakeOTPStore) Incr(_ context.Context, key string) (int64, error) {
	f.counters[key]++
	return f.counters[key], nil
}

func (f *fakeOTPStore) OTPCodeKey(phone string) string {
	return "otp:code:" + phone
}

func (f *fakeOTPStore) OTPAttemptsKey(phone string) string {
	return "otp:attempts:" + phone
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "dev"},
		JWT: config.JWTConfig{
			Secret:            "test-secret",
			Issuer:            "teravoo-test",
			ExpirationMinutes: 30,
		},
		OTP: config.OTPConfig{
			TTL:         5 * time.Minute,
			Digits:      6,
			MaxAttempts: 3,
			DevEcho:     true,
		},
	}
}

func newTestService(store *fakeOTPStore) *service {
	return &service{
		repo:     &Repository{},
		otpStore: store,
		cfg:      testConfig(),
		now:      time.Now,
	}
}

func TestRequestCodeRejectsBadPhone(t *testing.T) {
	svc := newTestService(newFakeOTPStore())

	for _, phone := range []string{"", "0341234567", "+0341234567", "+1", "not-a-phone"} {
		_, err := svc.RequestCode(context.Background(), phone)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeValidation {
			t.Fatalf("phone %q: expected validation error, got %v", phone, err)
		}
	}
}

func TestRequestCodeStoresHashAndEchoesInDev(t *testing.T) {
	store := newFakeOTPStore()
	svc := newTestService(store)

	dto, err := svc.RequestCode(context.Background(), " +261340000001 ")
	if err != nil {
		t.Fatalf("request code: %v", err)
	}
	if dto.Phone != "+261340000001" {
		t.Fatalf("expected normalized phone, got %q", dto.Phone)
	}
	if dto.DevCode == nil || len(*dto.DevCode) != 6 {
		t.Fatalf("expected 6-digit dev code echo, got %v", dto.DevCode)
	}
	stored := store.data[store.OTPCodeKey("+261340000001")]
	if stored == "" {
		t.Fatal("expected code stored in otp store")
	}
	if stored == *dto.DevCode {
		t.Fatal("stored code must be hashed, not plaintext")
	}
}

func TestRequestCodeOmitsEchoInProd(t *testing.T) {
	store := newFakeOTPStore()
	svc := newTestService(store)
	svc.cfg.App.Env = "prod"

	dto, err := svc.RequestCode(context.Background(), "+261340000001")
	if err != nil {
		t.Fatalf("request code: %v", err)
	}
	if dto.DevCode != nil {
		t.Fatal("dev code must not be echoed in prod")
	}
}

func TestVerifyCodeWithoutRequestFails(t *testing.T) {
	svc := newTestService(newFakeOTPStore())

	_, err := svc.VerifyCode(context.Background(), "+261340000001", "123456")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestVerifyCodeRejectsWrongCode(t *testing.T) {
	store := newFakeOTPStore()
	svc := newTestService(store)

	dto, err := svc.RequestCode(context.Background(), "+261340000001")
	if err != nil {
		t.Fatalf("request code: %v", err)
	}

	wrong := "000000"
	if *dto.DevCode == wrong {
		wrong = "000001"
	}
	_, err = svc.VerifyCode(context.Background(), "+261340000001", wrong)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestVerifyCodeLocksAfterMaxAttempts(t *testing.T) {
	store := newFakeOTPStore()
	svc := newTestService(store)

	dto, err := svc.RequestCode(context.Background(), "+261340000001")
	if err != nil {
		t.Fatalf("request code: %v", err)
	}
	wrong := "000000"
	if *dto.DevCode == wrong {
		wrong = "000001"
	}

	for i := 0; i < svc.cfg.OTP.MaxAttempts; i++ {
		_, err = svc.VerifyCode(context.Background(), "+261340000001", wrong)
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
			t.Fatalf("attempt %d: expected unauthorized, got %v", i, err)
		}
	}

	_, err = svc.VerifyCode(context.Background(), "+261340000001", wrong)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeRateLimit {
		t.Fatalf("expected rate limit after %d attempts, got %v", svc.cfg.OTP.MaxAttempts, err)
	}
}

func TestRequestCodeResetsAttemptCounter(t *testing.T) {
	store := newFakeOTPStore()
	svc := newTestService(store)

	if _, err := svc.RequestCode(context.Background(), "+261340000001"); err != nil {
		t.Fatalf("request code: %v", err)
	}
	store.counters[store.OTPAttemptsKey("+261340000001")] = 10

	if _, err := svc.RequestCode(context.Background(), "+261340000001"); err != nil {
		t.Fatalf("request code: %v", err)
	}
	if store.counters[store.OTPAttemptsKey("+261340000001")] != 0 {
		t.Fatal("expected attempt counter reset on fresh code")
	}
}
