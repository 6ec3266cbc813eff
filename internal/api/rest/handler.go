package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/culturatoken/ctk-platform/internal/api/executor"
	"github.com/culturatoken/ctk-platform/internal/api/rest/dto"
	"github.com/culturatoken/ctk-platform/internal/domain"
	"github.com/culturatoken/ctk-platform/internal/wallet"
)

const defaultLeaderboardLimit = 10

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
type Handler interface {
	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)

	// RegisterUser creates a platform account
	// POST /api/v1/users
	RegisterUser(c *gin.Context)

	// GetUser retrieves an account by email
	// GET /api/v1/users/:email
	GetUser(c *gin.Context)

	// UpdatePreferences replaces an account's recommendation preferences
	// PUT /api/v1/users/:email/preferences
	UpdatePreferences(c *gin.Context)

	// ConnectWallet replaces an account's wallet address
	// PUT /api/v1/users/:email/wallet
	ConnectWallet(c *gin.Context)

	// ListShows lists all campaigns
	// GET /api/v1/shows
	ListShows(c *gin.Context)

	// GetShow retrieves a campaign by its public identifier
	// GET /api/v1/shows/:show_id
	GetShow(c *gin.Context)

	// CreateShow creates a campaign (requires authentication)
	// POST /api/v1/shows
	CreateShow(c *gin.Context)

	// CreateInvestment commits a token purchase
	// POST /api/v1/investments
	CreateInvestment(c *gin.Context)

	// ListInvestments lists an account's investments, newest first
	// GET /api/v1/users/:email/investments
	ListInvestments(c *gin.Context)

	// DistributeRoyalties splits gross revenue among a campaign's investors
	// (requires authentication)
	// POST /api/v1/shows/:show_id/distributions
	DistributeRoyalties(c *gin.Context)

	// ClaimRoyalties converts an account's claimable royalties
	// POST /api/v1/royalties/claim
	ClaimRoyalties(c *gin.Context)

	// Recommendations ranks open campaigns for an account
	// GET /api/v1/users/:email/recommendations
	Recommendations(c *gin.Context)

	// Leaderboard ranks accounts by total invested value
	// GET /api/v1/leaderboard?limit=<limit>
	Leaderboard(c *gin.Context)

	// EnqueueRevenue queues gross show revenue for the distributor sweep
	// (requires API key authentication)
	// POST /api/v1/shows/:show_id/revenue
	EnqueueRevenue(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the executor
func NewHandler(exec executor.Executor) Handler {
	return &handler{executor: exec}
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RegisterUser creates a platform account
func (h *handler) RegisterUser(c *gin.Context) {
	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	user, err := h.executor.RegisterUser(c.Request.Context(), req.Email, req.WalletAddress, req.Preferences.ToDomain())
	if err != nil {
		respondInternalError(c, err, "Failed to register user")
		return
	}

	kind := wallet.KindFromAddress(user.WalletAddress, user.Email)
	c.JSON(http.StatusCreated, dto.MapUserToDTO(user, kind))
}

// GetUser retrieves an account by email
func (h *handler) GetUser(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		respondBadRequest(c, "Email is required")
		return
	}

	user, err := h.executor.GetUser(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			respondNotFound(c, "User not found")
			return
		}
		respondInternalError(c, err, "Failed to get user")
		return
	}

	kind := wallet.KindFromAddress(user.WalletAddress, user.Email)
	c.JSON(http.StatusOK, dto.MapUserToDTO(user, kind))
}

// UpdatePreferences replaces an account's recommendation preferences
func (h *handler) UpdatePreferences(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		respondBadRequest(c, "Email is required")
		return
	}

	var req dto.PreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	prefs := req.ToDomain()
	if !domain.IsValidRiskLevel(prefs.RiskTolerance) {
		respondValidationError(c, "invalid risk tolerance")
		return
	}
	if !domain.IsValidInvestmentGoal(prefs.InvestmentGoal) {
		respondValidationError(c, "invalid investment goal")
		return
	}

	if err := h.executor.UpdatePreferences(c.Request.Context(), email, prefs); err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			respondNotFound(c, "User not found")
			return
		}
		respondInternalError(c, err, "Failed to update preferences")
		return
	}

	c.Status(http.StatusNoContent)
}

// ConnectWallet replaces an account's wallet address
func (h *handler) ConnectWallet(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		respondBadRequest(c, "Email is required")
		return
	}

	var req dto.ConnectWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if wallet.KindFromAddress(req.WalletAddress, email) == domain.WalletOther {
		respondValidationError(c, "unrecognized wallet address")
		return
	}

	user, err := h.executor.ConnectWallet(c.Request.Context(), email, req.WalletAddress)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			respondNotFound(c, "User not found")
			return
		}
		respondInternalError(c, err, "Failed to connect wallet")
		return
	}

	kind := wallet.KindFromAddress(user.WalletAddress, user.Email)
	c.JSON(http.StatusOK, dto.MapUserToDTO(user, kind))
}

// ListShows lists all campaigns
func (h *handler) ListShows(c *gin.Context) {
	shows, err := h.executor.ListShows(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to list shows")
		return
	}

	response := dto.ShowListResponse{
		Shows: make([]dto.ShowResponse, 0, len(shows)),
		Total: len(shows),
	}
	for i := range shows {
		response.Shows = append(response.Shows, *dto.MapShowToDTO(&shows[i]))
	}
	c.JSON(http.StatusOK, response)
}

// GetShow retrieves a campaign by its public identifier
func (h *handler) GetShow(c *gin.Context) {
	showID := c.Param("show_id")
	if showID == "" {
		respondBadRequest(c, "Show ID is required")
		return
	}

	show, err := h.executor.GetShow(c.Request.Context(), showID)
	if err != nil {
		if errors.Is(err, domain.ErrShowNotFound) {
			respondNotFound(c, "Show not found")
			return
		}
		respondInternalError(c, err, "Failed to get show")
		return
	}

	c.JSON(http.StatusOK, dto.MapShowToDTO(show))
}

// CreateShow creates a campaign
func (h *handler) CreateShow(c *gin.Context) {
	var req dto.CreateShowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if !domain.IsValidRiskLevel(domain.RiskLevel(req.RiskLevel)) {
		respondValidationError(c, "invalid risk level")
		return
	}

	show, err := h.executor.CreateShow(c.Request.Context(), req.ToSchema())
	if err != nil {
		respondInternalError(c, err, "Failed to create show")
		return
	}

	c.JSON(http.StatusCreated, dto.MapShowToDTO(show))
}

// CreateInvestment commits a token purchase
func (h *handler) CreateInvestment(c *gin.Context) {
	var req dto.CreateInvestmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	method := domain.PaymentMethod(req.PaymentMethod)
	if !domain.IsValidPaymentMethod(method) {
		respondValidationError(c, "invalid payment method")
		return
	}

	outcome, err := h.executor.CreateInvestment(c.Request.Context(), req.Email, req.ShowID, req.Amount, method)
	if err != nil {
		h.respondLedgerError(c, err, "Failed to create investment")
		return
	}

	c.JSON(http.StatusCreated, dto.InvestmentOutcomeResponse{
		Investment:  *dto.MapInvestmentToDTO(&outcome.Investment, req.ShowID),
		CTKReward:   outcome.CTKReward,
		ReachedGoal: outcome.ReachedGoal,
	})
}

// ListInvestments lists an account's investments, newest first
func (h *handler) ListInvestments(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		respondBadRequest(c, "Email is required")
		return
	}

	investments, err := h.executor.ListInvestments(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			respondNotFound(c, "User not found")
			return
		}
		respondInternalError(c, err, "Failed to list investments")
		return
	}

	response := dto.InvestmentListResponse{
		Investments: make([]dto.InvestmentResponse, 0, len(investments)),
		Total:       len(investments),
	}
	for i := range investments {
		response.Investments = append(response.Investments, *dto.MapInvestmentToDTO(&investments[i], ""))
	}
	c.JSON(http.StatusOK, response)
}

// DistributeRoyalties splits gross revenue among a campaign's investors
func (h *handler) DistributeRoyalties(c *gin.Context) {
	showID := c.Param("show_id")
	if showID == "" {
		respondBadRequest(c, "Show ID is required")
		return
	}

	var req dto.DistributeRoyaltiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	outcome, err := h.executor.DistributeRoyalties(c.Request.Context(), showID, req.GrossAmount)
	if err != nil {
		h.respondLedgerError(c, err, "Failed to distribute royalties")
		return
	}

	c.JSON(http.StatusOK, dto.DistributionResponse{
		DistributionID: outcome.DistributionID,
		ShowID:         showID,
		GrossAmount:    outcome.GrossAmount,
		PlatformFee:    outcome.PlatformFee,
		NetAmount:      outcome.NetAmount,
		InvestorCount:  outcome.InvestorCount,
	})
}

// ClaimRoyalties converts an account's claimable royalties
func (h *handler) ClaimRoyalties(c *gin.Context) {
	var req dto.ClaimRoyaltiesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	payout := domain.PayoutCurrency(req.Payout)
	if !domain.IsValidPayoutCurrency(payout) {
		respondValidationError(c, "invalid payout currency")
		return
	}

	result, err := h.executor.ClaimRoyalties(c.Request.Context(), req.Email, payout)
	if err != nil {
		h.respondLedgerError(c, err, "Failed to claim royalties")
		return
	}

	c.JSON(http.StatusOK, dto.ClaimResponse{
		Claimed:  result.Claimed,
		Credited: result.Credited,
		Currency: string(result.Currency),
	})
}

// Recommendations ranks open campaigns for an account
func (h *handler) Recommendations(c *gin.Context) {
	email := c.Param("email")
	if email == "" {
		respondBadRequest(c, "Email is required")
		return
	}

	recs, err := h.executor.Recommendations(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			respondNotFound(c, "User not found")
			return
		}
		respondInternalError(c, err, "Failed to build recommendations")
		return
	}

	response := dto.RecommendationListResponse{
		Recommendations: make([]dto.RecommendationResponse, 0, len(recs)),
		Total:           len(recs),
	}
	for _, rec := range recs {
		response.Recommendations = append(response.Recommendations, dto.MapRecommendationToDTO(rec))
	}
	c.JSON(http.StatusOK, response)
}

// Leaderboard ranks accounts by total invested value
func (h *handler) Leaderboard(c *gin.Context) {
	limit := defaultLeaderboardLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondValidationError(c, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	entries, err := h.executor.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		respondInternalError(c, err, "Failed to build leaderboard")
		return
	}

	c.JSON(http.StatusOK, dto.LeaderboardResponse{Entries: entries, Total: len(entries)})
}

// EnqueueRevenue queues gross show revenue for the distributor sweep
func (h *handler) EnqueueRevenue(c *gin.Context) {
	showID := c.Param("show_id")
	if showID == "" {
		respondBadRequest(c, "Show ID is required")
		return
	}

	var req dto.EnqueueRevenueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err.Error())
		return
	}

	if err := h.executor.EnqueueRevenue(c.Request.Context(), showID, req.Amount); err != nil {
		h.respondLedgerError(c, err, "Failed to enqueue revenue")
		return
	}

	c.Status(http.StatusAccepted)
}

// respondLedgerError maps domain errors from financial operations to
// HTTP responses
func (h *handler) respondLedgerError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		respondNotFound(c, "User not found")
	case errors.Is(err, domain.ErrShowNotFound):
		respondNotFound(c, "Show not found")
	case errors.Is(err, domain.ErrShowFullyFunded):
		respondConflict(c, "Show already fully funded")
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrBelowMinimumInvestment),
		errors.Is(err, domain.ErrInsufficientBalance),
		errors.Is(err, domain.ErrExceedsRemainingCapacity),
		errors.Is(err, domain.ErrNoActiveInvestors),
		errors.Is(err, domain.ErrNoClaimableRoyalties):
		respondValidationError(c, err.Error())
	default:
		respondInternalError(c, err, message)
	}
}
