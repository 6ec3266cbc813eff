package ledger

import (
	"github.com/culturatoken/ctk-platform/internal/domain"
)

// PerformanceStatus classifies how an investment tracks its projected ROI
type PerformanceStatus string

const (
	PerformanceExceeded        PerformanceStatus = "exceeded"
	PerformanceOnTrack         PerformanceStatus = "on_track"
	PerformanceUnderperforming PerformanceStatus = "underperforming"
)

// PerformanceRecord summarizes how one investment has performed against the
// show's royalty distribution history
type PerformanceRecord struct {
	ShowID    string            `json:"show_id"`
	ShowName  string            `json:"show_name"`
	Invested  float64           `json:"invested"`
	Received  float64           `json:"received"`
	Projected float64           `json:"projected"`
	ROI       float64           `json:"roi"`
	Status    PerformanceStatus `json:"status"`
}

// AccruedRoyalty summarizes the royalties accumulated per show
type AccruedRoyalty struct {
	ShowID           string  `json:"show_id"`
	ShowName         string  `json:"show_name"`
	TotalRoyalties   float64 `json:"total_royalties"`
	LastDistribution string  `json:"last_distribution,omitempty"`
}

// riskAdjustment scales projections by risk: high risk discounts the
// projection, low risk assumes possible bonuses
var riskAdjustment = map[domain.RiskLevel]float64{
	domain.RiskHigh:   0.7,
	domain.RiskMedium: 0.9,
	domain.RiskLow:    1.1,
}

// RoyaltyProjection estimates the royalties an investment will yield over a
// number of months, adjusted by the show's risk level
func (r Rates) RoyaltyProjection(inv domain.Investment, show *domain.Show, months int) float64 {
	if show == nil {
		return 0
	}
	monthlyROI := show.ROI / 12
	estimated := (inv.TotalValue * monthlyROI * float64(months)) / 100
	return estimated * riskAdjustment[show.RiskLevel]
}

// receivedFromHistory reconstructs the royalties an investment received from
// a show's distribution records using the recorded per-investor basis
func (r Rates) receivedFromHistory(inv domain.Investment, show *domain.Show) float64 {
	var total float64
	for _, dist := range show.RoyaltyDistributions {
		net := dist.GrossAmount * (1 - r.PlatformFeeRate)
		if net <= 0 {
			continue
		}
		total += (inv.TotalValue / net) * dist.PerInvestor
	}
	return total
}

// PerformanceHistory computes a performance record for every active
// investment with a known show, over a 12 month projection window
func (r Rates) PerformanceHistory(investments []domain.Investment, shows map[string]*domain.Show) []PerformanceRecord {
	var records []PerformanceRecord
	for _, inv := range investments {
		if !inv.Active() {
			continue
		}
		show, ok := shows[inv.ShowID]
		if !ok {
			continue
		}

		received := r.receivedFromHistory(inv, show)
		roi := 0.0
		if inv.TotalValue > 0 {
			roi = (received / inv.TotalValue) * 100
		}

		status := PerformanceUnderperforming
		switch {
		case roi >= show.ROI:
			status = PerformanceExceeded
		case roi >= show.ROI*0.7:
			status = PerformanceOnTrack
		}

		records = append(records, PerformanceRecord{
			ShowID:    inv.ShowID,
			ShowName:  show.Name,
			Invested:  inv.TotalValue,
			Received:  received,
			Projected: r.RoyaltyProjection(inv, show, 12),
			ROI:       roi,
			Status:    status,
		})
	}
	return records
}

// AccumulatedRoyalties summarizes the royalties accumulated per show for the
// given active investments
func (r Rates) AccumulatedRoyalties(investments []domain.Investment, shows map[string]*domain.Show) []AccruedRoyalty {
	var accrued []AccruedRoyalty
	for _, inv := range investments {
		if !inv.Active() {
			continue
		}
		show, ok := shows[inv.ShowID]
		if !ok {
			continue
		}

		entry := AccruedRoyalty{
			ShowID:         inv.ShowID,
			ShowName:       inv.ShowName,
			TotalRoyalties: r.receivedFromHistory(inv, show),
		}
		if n := len(show.RoyaltyDistributions); n > 0 {
			entry.LastDistribution = show.RoyaltyDistributions[n-1].Date.Format("2006-01-02")
		}
		accrued = append(accrued, entry)
	}
	return accrued
}
