package ledger

import (
	"math"
	"time"

	"github.com/culturatoken/ctk-platform/internal/domain"
)

// InvestmentRequest describes a token purchase in a show
type InvestmentRequest struct {
	ShowID        string
	Amount        float64
	PaymentMethod domain.PaymentMethod
}

// ROIEstimate projects the return of an investment over the show's duration
type ROIEstimate struct {
	// Monthly is the monthly ROI percentage
	Monthly float64 `json:"monthly"`
	// Total is the projected return over the full duration, in value
	Total float64 `json:"total"`
	// TotalReturn is the invested amount plus the projected return
	TotalReturn float64 `json:"total_return"`
}

// InvestmentResult reports the effects of a processed investment
type InvestmentResult struct {
	Investment  domain.Investment `json:"investment"`
	CTKReward   float64           `json:"ctk_reward"`
	ROIEstimate ROIEstimate       `json:"roi_estimate"`
	// ReachedGoal is true when this investment pushed the show to 100% funded
	ReachedGoal bool `json:"reached_goal"`
}

// ValidateInvestment checks every precondition of an investment without
// mutating anything. Each violated precondition maps to its own sentinel.
func (r Rates) ValidateInvestment(profile *domain.UserProfile, show *domain.Show, req InvestmentRequest) error {
	if req.Amount <= 0 {
		return domain.ErrInvalidAmount
	}
	if req.Amount < r.MinInvestment {
		return domain.ErrBelowMinimumInvestment
	}
	if show.FullyFunded() {
		return domain.ErrShowFullyFunded
	}
	if req.Amount > show.RemainingCapacity() {
		return domain.ErrExceedsRemainingCapacity
	}

	switch req.PaymentMethod {
	case domain.PayUSDC:
		if profile.BalanceUSDC < req.Amount {
			return domain.ErrInsufficientBalance
		}
	case domain.PayCTK:
		if profile.BalanceCTK < r.CTKCost(req.Amount) {
			return domain.ErrInsufficientBalance
		}
	default:
		return domain.ErrInvalidAmount
	}

	return nil
}

// ProcessInvestment validates a purchase request and, if every precondition
// holds, applies it to the profile and the show: debits the chosen balance,
// credits the CTK reward, appends the investment record and raises the
// show's funded percentage (clamped at 100). Validation happens entirely
// before the first write, so a failed request leaves both arguments
// untouched.
func (r Rates) ProcessInvestment(profile *domain.UserProfile, show *domain.Show, req InvestmentRequest, id string, now time.Time) (*InvestmentResult, error) {
	if err := r.ValidateInvestment(profile, show, req); err != nil {
		return nil, err
	}

	tokens := r.TokenAmount(req.Amount, show.PricePerToken)
	reward := r.CTKReward(req.Amount)
	previousFunded := show.FundedPercent

	investment := domain.Investment{
		ID:         id,
		ShowID:     show.ID,
		ShowName:   show.Name,
		Tokens:     tokens,
		TotalValue: req.Amount,
		ROI:        show.ROI,
		Date:       now,
		Status:     domain.InvestmentActive,
	}

	switch req.PaymentMethod {
	case domain.PayUSDC:
		profile.BalanceUSDC -= req.Amount
	case domain.PayCTK:
		profile.BalanceCTK -= r.CTKCost(req.Amount)
	}
	profile.BalanceCTK += reward
	profile.TotalInvested += req.Amount
	profile.Investments = append(profile.Investments, investment)

	show.FundedPercent = math.Min(100, show.FundedPercent+(req.Amount/show.TotalValue())*100)

	return &InvestmentResult{
		Investment:  investment,
		CTKReward:   reward,
		ROIEstimate: r.EstimateROI(req.Amount, show.ROI, show.DurationMonths),
		ReachedGoal: previousFunded < 100 && show.FundedPercent >= 100,
	}, nil
}

// EstimateROI projects the return of investing an amount at an annual ROI
// percentage over a number of months
func (r Rates) EstimateROI(amount, annualROI float64, months int) ROIEstimate {
	total := (amount * annualROI * float64(months)) / 1200
	return ROIEstimate{
		Monthly:     annualROI / 12,
		Total:       total,
		TotalReturn: amount + total,
	}
}
