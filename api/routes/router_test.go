package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	authsvc "github.com/teravoo/teravoo-backend/internal/auth"
	ordersvc "github.com/teravoo/teravoo-backend/internal/orders"
	pricingsvc "github.com/teravoo/teravoo-backend/internal/pricing"
	producersvc "github.com/teravoo/teravoo-backend/internal/producers"
	productsvc "github.com/teravoo/teravoo-backend/internal/products"
	sourcingsvc "github.com/teravoo/teravoo-backend/internal/sourcing"
	tracesvc "github.com/teravoo/teravoo-backend/internal/traceability"
	pkgAuth "github.com/teravoo/teravoo-backend/pkg/auth"
	"github.com/teravoo/teravoo-backend/pkg/config"
	"github.com/teravoo/teravoo-backend/pkg/enums"
	"github.com/teravoo/teravoo-backend/pkg/logger"
	pkgredis "github.com/teravoo/teravoo-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) RequestCode(context.Context, string) (*authsvc.CodeRequestDTO, error) {
	return &authsvc.CodeRequestDTO{}, nil
}

func (stubAuthService) VerifyCode(context.Context, string, string) (*authsvc.SessionDTO, error) {
	return &authsvc.SessionDTO{}, nil
}

type stubProducerService struct{}

func (stubProducerService) GetProfile(context.Context, uuid.UUID) (*producersvc.ProfileDTO, error) {
	return &producersvc.ProfileDTO{}, nil
}

func (stubProducerService) ListProfiles(context.Context, int, int) ([]producersvc.ProfileDTO, error) {
	return nil, nil
}

func (stubProducerService) CreateProfile(context.Context, producersvc.CreateProfileInput) (*producersvc.ProfileDTO, error) {
	return &producersvc.ProfileDTO{}, nil
}

func (stubProducerService) UpdateProfile(context.Context, uuid.UUID, producersvc.UpdateProfileInput) (*producersvc.ProfileDTO, error) {
	return &producersvc.ProfileDTO{}, nil
}

type stubProductService struct{}

func (stubProductService) GetProduct(context.Context, uuid.UUID) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{}, nil
}

func (stubProductService) ListProducts(context.Context, productsvc.ListFilter) ([]productsvc.ProductDTO, error) {
	return nil, nil
}

func (stubProductService) CreateProduct(context.Context, uuid.UUID, productsvc.CreateProductInput) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) UpdateProduct(context.Context, uuid.UUID, uuid.UUID, productsvc.UpdateProductInput) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) PublishProduct(context.Context, uuid.UUID, uuid.UUID) (*productsvc.ProductDTO, error) {
	panic("unimplemented")
}

func (stubProductService) DeleteProduct(context.Context, uuid.UUID, uuid.UUID) error {
	panic("unimplemented")
}

type stubPricingService struct{}

func (stubPricingService) GetEffectiveTiers(context.Context, uuid.UUID) (*pricingsvc.EffectiveTiersDTO, error) {
	return &pricingsvc.EffectiveTiersDTO{}, nil
}

func (stubPricingService) CalculatePrice(context.Context, uuid.UUID, decimal.Decimal) (*pricingsvc.CalculatedPriceDTO, error) {
	return &pricingsvc.CalculatedPriceDTO{}, nil
}

func (stubPricingService) SetCustomTiers(context.Context, uuid.UUID, string, pricingsvc.SetCustomTiersInput) ([]pricingsvc.EffectiveTierDTO, error) {
	panic("unimplemented")
}

func (stubPricingService) DeleteCustomTiers(context.Context, uuid.UUID, string) (*pricingsvc.EffectiveTiersDTO, error) {
	panic("unimplemented")
}

func (stubPricingService) SetPricingMode(context.Context, uuid.UUID, string, pricingsvc.SetPricingModeInput) (*pricingsvc.PricingModeDTO, error) {
	panic("unimplemented")
}

func (stubPricingService) CreateTemplate(context.Context, uuid.UUID, pricingsvc.CreateTemplateInput) (*pricingsvc.TemplateDTO, error) {
	panic("unimplemented")
}

func (stubPricingService) ListTemplates(context.Context, uuid.UUID) ([]pricingsvc.TemplateDTO, error) {
	return nil, nil
}

func (stubPricingService) UpdateTemplate(context.Context, uuid.UUID, uuid.UUID, string, pricingsvc.UpdateTemplateInput) (*pricingsvc.TemplateDTO, error) {
	panic("unimplemented")
}

func (stubPricingService) DeleteTemplate(context.Context, uuid.UUID, uuid.UUID) error {
	panic("unimplemented")
}

func (stubPricingService) GetPriceHistory(context.Context, uuid.UUID, int) ([]pricingsvc.SnapshotDTO, error) {
	return nil, nil
}

func (stubPricingService) ComparePrice(context.Context, uuid.UUID, time.Time) (*pricingsvc.ComparisonDTO, error) {
	panic("unimplemented")
}

func (stubPricingService) SuggestPriceForSourcingRequest(context.Context, uuid.UUID, uuid.UUID, *decimal.Decimal) (*pricingsvc.SuggestionDTO, error) {
	panic("unimplemented")
}

type stubSourcingService struct{}

func (stubSourcingService) CreateRequest(context.Context, uuid.UUID, sourcingsvc.CreateRequestInput) (*sourcingsvc.RequestDTO, error) {
	panic("unimplemented")
}

func (stubSourcingService) GetRequest(context.Context, uuid.UUID) (*sourcingsvc.RequestDTO, error) {
	return &sourcingsvc.RequestDTO{}, nil
}

func (stubSourcingService) ListOpenRequests(context.Context, int, int) ([]sourcingsvc.RequestDTO, error) {
	return nil, nil
}

func (stubSourcingService) ListBuyerRequests(context.Context, uuid.UUID, int, int) ([]sourcingsvc.RequestDTO, error) {
	return nil, nil
}

func (stubSourcingService) CloseRequest(context.Context, uuid.UUID, uuid.UUID) (*sourcingsvc.RequestDTO, error) {
	panic("unimplemented")
}

func (stubSourcingService) UpdateLogisticsStatus(context.Context, uuid.UUID, uuid.UUID, enums.LogisticsStatus) (*sourcingsvc.RequestDTO, error) {
	panic("unimplemented")
}

func (stubSourcingService) SubmitOffer(context.Context, uuid.UUID, uuid.UUID, sourcingsvc.SubmitOfferInput) (*sourcingsvc.OfferDTO, error) {
	panic("unimplemented")
}

func (stubSourcingService) ListOffers(context.Context, uuid.UUID, uuid.UUID) ([]sourcingsvc.OfferDTO, error) {
	return nil, nil
}

func (stubSourcingService) DecideOffer(context.Context, uuid.UUID, uuid.UUID, uuid.UUID, bool) (*sourcingsvc.OfferDTO, error) {
	panic("unimplemented")
}

type stubOrderService struct{}

func (stubOrderService) CreateOrder(context.Context, uuid.UUID, ordersvc.CreateOrderInput) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}

func (stubOrderService) GetOrder(context.Context, uuid.UUID, uuid.UUID) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{}, nil
}

func (stubOrderService) ListOrders(context.Context, uuid.UUID, int, int) ([]ordersvc.OrderDTO, error) {
	return nil, nil
}

type stubTraceService struct{}

func (stubTraceService) AppendEvent(context.Context, uuid.UUID, uuid.UUID, tracesvc.AppendEventInput) (*tracesvc.EventDTO, error) {
	panic("unimplemented")
}

func (stubTraceService) ListEvents(context.Context, uuid.UUID) ([]tracesvc.EventDTO, error) {
	return nil, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(
		cfg,
		logg,
		stubPinger{},
		(*pkgredis.Client)(nil),
		nil,
		nil,
		stubAuthService{},
		stubProducerService{},
		stubProductService{},
		stubPricingService{},
		stubSourcingService{},
		stubOrderService{},
		stubTraceService{},
	)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole, producerID *uuid.UUID) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:     uuid.New(),
		Role:       role,
		ProducerID: producerID,
		Phone:      "+261340000020",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestCatalogRequiresJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestCatalogSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/products", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleBuyer, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestProducerGroupRejectsBuyerToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/producer/me", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleBuyer, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for buyer on producer route got %d", resp.Code)
	}
}

func TestProducerGroupAcceptsProducerToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	producerID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/producer/me", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleProducer, &producerID))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for producer got %d", resp.Code)
	}
}

func TestAdminGroupRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	buyer := httptest.NewRequest(http.MethodPost, "/api/admin/v1/producers", nil)
	buyer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleBuyer, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, buyer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for buyer on admin route got %d", resp.Code)
	}
}

func TestOrderPlacementRequiresIdempotencyKey(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleBuyer, nil))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Idempotency-Key got %d", resp.Code)
	}
}

func TestPricingReadEndpointsRouted(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := buildToken(t, cfg, enums.UserRoleBuyer, nil)

	paths := []string{
		"/api/v1/products/" + uuid.NewString() + "/pricing/effective-tiers",
		"/api/v1/products/" + uuid.NewString() + "/pricing/calculate?quantity_kg=25",
		"/api/v1/products/" + uuid.NewString() + "/pricing/history",
		"/api/v1/products/" + uuid.NewString() + "/traceability",
	}
	for _, path := range paths {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}
