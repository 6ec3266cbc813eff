package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/culturatoken/ctk-platform/internal/api/middleware"
	"github.com/culturatoken/ctk-platform/internal/domain"
	"github.com/culturatoken/ctk-platform/internal/ledger"
	"github.com/culturatoken/ctk-platform/internal/logger"
	"github.com/culturatoken/ctk-platform/internal/recommender"
	"github.com/culturatoken/ctk-platform/internal/store"
	"github.com/culturatoken/ctk-platform/internal/store/schema"
	"github.com/culturatoken/ctk-platform/internal/wallet"
)

const testAPIKey = "test-api-key"

func TestMain(m *testing.M) {
	if err := logger.Initialize(logger.Config{Debug: true}); err != nil {
		panic(err)
	}
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// fakeExecutor implements executor.Executor with canned responses
type fakeExecutor struct {
	users         map[string]*schema.User
	shows         map[string]*schema.Show
	investErr     error
	claimErr      error
	distributeErr error
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{
		users: map[string]*schema.User{},
		shows: map[string]*schema.Show{},
	}
}

func (f *fakeExecutor) RegisterUser(_ context.Context, email, walletAddress string, _ domain.Preferences) (*schema.User, error) {
	if walletAddress == "" {
		walletAddress = wallet.DeriveCustodialAddress(email)
	}
	user := &schema.User{Email: email, WalletAddress: walletAddress, BalanceUSDC: 1000, BalanceCTK: 50}
	f.users[email] = user
	return user, nil
}

func (f *fakeExecutor) GetUser(_ context.Context, email string) (*schema.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeExecutor) UpdatePreferences(_ context.Context, email string, _ domain.Preferences) error {
	if _, ok := f.users[email]; !ok {
		return domain.ErrUserNotFound
	}
	return nil
}

func (f *fakeExecutor) ConnectWallet(_ context.Context, email, walletAddress string) (*schema.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.WalletAddress = walletAddress
	return user, nil
}

func (f *fakeExecutor) CreateShow(_ context.Context, show *schema.Show) (*schema.Show, error) {
	if show.ShowID == "" {
		show.ShowID = "generated-id"
	}
	if show.Status == "" {
		show.Status = string(domain.ShowFunding)
	}
	f.shows[show.ShowID] = show
	return show, nil
}

func (f *fakeExecutor) GetShow(_ context.Context, showID string) (*schema.Show, error) {
	show, ok := f.shows[showID]
	if !ok {
		return nil, domain.ErrShowNotFound
	}
	return show, nil
}

func (f *fakeExecutor) ListShows(_ context.Context) ([]schema.Show, error) {
	out := make([]schema.Show, 0, len(f.shows))
	for _, show := range f.shows {
		out = append(out, *show)
	}
	return out, nil
}

func (f *fakeExecutor) CreateInvestment(_ context.Context, _, showID string, amount float64, _ domain.PaymentMethod) (*store.InvestmentOutcome, error) {
	if f.investErr != nil {
		return nil, f.investErr
	}
	return &store.InvestmentOutcome{
		Investment: schema.Investment{
			InvestmentID: "01JC0000000000000000000000",
			Tokens:       amount / 50,
			TotalValue:   amount,
			Status:       string(domain.InvestmentActive),
			Date:         time.Now(),
		},
		CTKReward: amount / 5,
	}, nil
}

func (f *fakeExecutor) ListInvestments(_ context.Context, email string) ([]schema.Investment, error) {
	if _, ok := f.users[email]; !ok {
		return nil, domain.ErrUserNotFound
	}
	return []schema.Investment{}, nil
}

func (f *fakeExecutor) DistributeRoyalties(_ context.Context, showID string, gross float64) (*store.DistributionOutcome, error) {
	if f.distributeErr != nil {
		return nil, f.distributeErr
	}
	fee := gross * 0.02
	return &store.DistributionOutcome{
		DistributionID: 1,
		GrossAmount:    gross,
		PlatformFee:    fee,
		NetAmount:      gross - fee,
		InvestorCount:  2,
	}, nil
}

func (f *fakeExecutor) ClaimRoyalties(_ context.Context, _ string, payout domain.PayoutCurrency) (*ledger.ClaimResult, error) {
	if f.claimErr != nil {
		return nil, f.claimErr
	}
	return &ledger.ClaimResult{Claimed: 100, Credited: 100, Currency: payout}, nil
}

func (f *fakeExecutor) Recommendations(_ context.Context, email string) ([]recommender.Recommendation, error) {
	if _, ok := f.users[email]; !ok {
		return nil, domain.ErrUserNotFound
	}
	return []recommender.Recommendation{}, nil
}

func (f *fakeExecutor) Leaderboard(_ context.Context, _ int) ([]store.LeaderboardEntry, error) {
	return []store.LeaderboardEntry{
		{Position: 1, Email: "alice@example.com", TotalInvested: 3500},
	}, nil
}

func (f *fakeExecutor) EnqueueRevenue(_ context.Context, showID string, _ float64) error {
	if _, ok := f.shows[showID]; !ok {
		return domain.ErrShowNotFound
	}
	return nil
}

func setupRouter(exec *fakeExecutor) *gin.Engine {
	router := gin.New()
	SetupRoutes(router, NewHandler(exec), middleware.AuthConfig{APIKeys: []string{testAPIKey}})
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	router := setupRouter(newFakeExecutor())

	w := doJSON(t, router, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestRegisterUser(t *testing.T) {
	router := setupRouter(newFakeExecutor())

	w := doJSON(t, router, http.MethodPost, "/api/v1/users", map[string]any{
		"email": "maria@example.com",
		"preferences": map[string]any{
			"favorite_genres": []string{"teatro"},
			"risk_tolerance":  "medium",
			"investment_goal": "growth",
		},
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "maria@example.com", resp["email"])
	assert.Equal(t, "custodial", resp["wallet_kind"])
	assert.Equal(t, wallet.DeriveCustodialAddress("maria@example.com"), resp["wallet_address"])
}

func TestRegisterUserInvalidEmail(t *testing.T) {
	router := setupRouter(newFakeExecutor())

	w := doJSON(t, router, http.MethodPost, "/api/v1/users", map[string]any{
		"email": "not-an-email",
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetUserNotFound(t *testing.T) {
	router := setupRouter(newFakeExecutor())

	w := doJSON(t, router, http.MethodGet, "/api/v1/users/nobody@example.com", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestConnectWallet(t *testing.T) {
	exec := newFakeExecutor()
	exec.users["maria@example.com"] = &schema.User{Email: "maria@example.com"}
	router := setupRouter(exec)

	w := doJSON(t, router, http.MethodPut, "/api/v1/users/maria@example.com/wallet", map[string]any{
		"wallet_address": "0x1111111111111111111111111111111111111111",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "0x1111111111111111111111111111111111111111", resp["wallet_address"])
	assert.Equal(t, "metamask", resp["wallet_kind"])
}

func TestConnectWalletRejectsUnknownAddress(t *testing.T) {
	exec := newFakeExecutor()
	exec.users["maria@example.com"] = &schema.User{Email: "maria@example.com"}
	router := setupRouter(exec)

	w := doJSON(t, router, http.MethodPut, "/api/v1/users/maria@example.com/wallet", map[string]any{
		"wallet_address": "not-a-wallet",
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestGetShow(t *testing.T) {
	exec := newFakeExecutor()
	exec.shows["show-1"] = &schema.Show{
		ShowID:        "show-1",
		Name:          "La Noche Boca Arriba",
		Genre:         "teatro",
		TargetAmount:  50000,
		FundedPercent: 78,
		RiskLevel:     "medium",
		TotalTokens:   1000,
		PricePerToken: 50,
		Status:        "funding",
	}
	router := setupRouter(exec)

	w := doJSON(t, router, http.MethodGet, "/api/v1/shows/show-1", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "La Noche Boca Arriba", resp["name"])
	assert.EqualValues(t, 78, resp["funded_percent"])

	w = doJSON(t, router, http.MethodGet, "/api/v1/shows/missing", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateShowRequiresAuth(t *testing.T) {
	router := setupRouter(newFakeExecutor())

	body := map[string]any{
		"name":            "Circo Lunar",
		"genre":           "circo",
		"target_amount":   30000,
		"risk_level":      "high",
		"total_tokens":    600,
		"price_per_token": 50,
	}

	w := doJSON(t, router, http.MethodPost, "/api/v1/shows", body, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/shows", body, map[string]string{
		"Authorization": "APIKEY " + testAPIKey,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "funding", resp["status"])
	assert.NotEmpty(t, resp["show_id"])
}

func TestCreateInvestment(t *testing.T) {
	router := setupRouter(newFakeExecutor())

	w := doJSON(t, router, http.MethodPost, "/api/v1/investments", map[string]any{
		"email":          "maria@example.com",
		"show_id":        "show-1",
		"amount":         500,
		"payment_method": "usdc",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 100, resp["ctk_reward"])
}

func TestCreateInvestmentErrors(t *testing.T) {
	tests := []struct {
		name       string
		investErr  error
		wantStatus int
		wantCode   string
	}{
		{"below minimum", domain.ErrBelowMinimumInvestment, http.StatusUnprocessableEntity, "validation_failed"},
		{"insufficient balance", domain.ErrInsufficientBalance, http.StatusUnprocessableEntity, "validation_failed"},
		{"fully funded", domain.ErrShowFullyFunded, http.StatusConflict, "conflict"},
		{"show missing", domain.ErrShowNotFound, http.StatusNotFound, "not_found"},
		{"user missing", domain.ErrUserNotFound, http.StatusNotFound, "not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := newFakeExecutor()
			exec.investErr = tt.investErr
			router := setupRouter(exec)

			w := doJSON(t, router, http.MethodPost, "/api/v1/investments", map[string]any{
				"email":          "maria@example.com",
				"show_id":        "show-1",
				"amount":         500,
				"payment_method": "usdc",
			}, nil)
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), tt.wantCode)
		})
	}
}

func TestCreateInvestmentInvalidPaymentMethod(t *testing.T) {
	router := setupRouter(newFakeExecutor())

	w := doJSON(t, router, http.MethodPost, "/api/v1/investments", map[string]any{
		"email":          "maria@example.com",
		"show_id":        "show-1",
		"amount":         500,
		"payment_method": "cash",
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDistributeRoyalties(t *testing.T) {
	router := setupRouter(newFakeExecutor())
	headers := map[string]string{"Authorization": "APIKEY " + testAPIKey}

	w := doJSON(t, router, http.MethodPost, "/api/v1/shows/show-1/distributions", map[string]any{
		"gross_amount": 1000,
	}, headers)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 20, resp["platform_fee"])
	assert.EqualValues(t, 980, resp["net_amount"])
}

func TestDistributeRoyaltiesNoInvestors(t *testing.T) {
	exec := newFakeExecutor()
	exec.distributeErr = domain.ErrNoActiveInvestors
	router := setupRouter(exec)

	w := doJSON(t, router, http.MethodPost, "/api/v1/shows/show-1/distributions", map[string]any{
		"gross_amount": 1000,
	}, map[string]string{"Authorization": "APIKEY " + testAPIKey})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestClaimRoyalties(t *testing.T) {
	router := setupRouter(newFakeExecutor())

	w := doJSON(t, router, http.MethodPost, "/api/v1/royalties/claim", map[string]any{
		"email":  "maria@example.com",
		"payout": "usdc",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 100, resp["claimed"])
}

func TestClaimRoyaltiesNothingToClaim(t *testing.T) {
	exec := newFakeExecutor()
	exec.claimErr = domain.ErrNoClaimableRoyalties
	router := setupRouter(exec)

	w := doJSON(t, router, http.MethodPost, "/api/v1/royalties/claim", map[string]any{
		"email":  "maria@example.com",
		"payout": "ctk",
	}, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestLeaderboard(t *testing.T) {
	router := setupRouter(newFakeExecutor())

	w := doJSON(t, router, http.MethodGet, "/api/v1/leaderboard", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.EqualValues(t, 1, resp["total"])

	w = doJSON(t, router, http.MethodGet, "/api/v1/leaderboard?limit=abc", nil, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestEnqueueRevenueRequiresAPIKey(t *testing.T) {
	exec := newFakeExecutor()
	exec.shows["show-1"] = &schema.Show{ShowID: "show-1"}
	router := setupRouter(exec)

	w := doJSON(t, router, http.MethodPost, "/api/v1/shows/show-1/revenue", map[string]any{
		"amount": 1500,
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/shows/show-1/revenue", map[string]any{
		"amount": 1500,
	}, map[string]string{"Authorization": "APIKEY " + testAPIKey})
	assert.Equal(t, http.StatusAccepted, w.Code)
}
