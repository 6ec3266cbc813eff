package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/culturatoken/ctk-platform/internal/adapter"
	"github.com/culturatoken/ctk-platform/internal/domain"
	"github.com/culturatoken/ctk-platform/internal/store"
	"github.com/culturatoken/ctk-platform/internal/store/schema"
)

// Loader reads a show catalog from a JSON document
type Loader struct {
	fs   adapter.FileSystem
	json adapter.JSON
}

// NewLoader creates a catalog loader
func NewLoader(fs adapter.FileSystem, jsonAdapter adapter.JSON) *Loader {
	return &Loader{fs: fs, json: jsonAdapter}
}

// Load reads and validates the catalog at path
func (l *Loader) Load(path string) ([]domain.Show, error) {
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var shows []domain.Show
	if err := l.json.Unmarshal(data, &shows); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	for i := range shows {
		if err := validate(&shows[i]); err != nil {
			return nil, fmt.Errorf("catalog entry %d: %w", i, err)
		}
	}
	return shows, nil
}

func validate(show *domain.Show) error {
	switch {
	case show.ID == "":
		return errors.New("id is required")
	case show.Name == "":
		return errors.New("name is required")
	case show.TotalTokens <= 0 || show.PricePerToken <= 0:
		return errors.New("token supply and price must be positive")
	case !domain.IsValidRiskLevel(show.RiskLevel):
		return fmt.Errorf("invalid risk level %q", show.RiskLevel)
	}
	return nil
}

// Seed inserts catalog shows that are not yet in the store. Existing shows
// are left untouched so funding progress survives restarts. Returns the
// number of shows created.
func Seed(ctx context.Context, st store.Store, shows []domain.Show) (int, error) {
	created := 0
	for i := range shows {
		show := &shows[i]

		_, err := st.GetShowByShowID(ctx, show.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrShowNotFound) {
			return created, fmt.Errorf("failed to look up show %s: %w", show.ID, err)
		}

		status := show.Status
		if status == "" {
			status = domain.ShowFunding
		}
		record := &schema.Show{
			ShowID:         show.ID,
			Name:           show.Name,
			Description:    show.Description,
			Genre:          string(show.Genre),
			TargetAmount:   show.TargetAmount,
			FundedPercent:  show.FundedPercent,
			ROI:            show.ROI,
			RiskLevel:      string(show.RiskLevel),
			TotalTokens:    show.TotalTokens,
			PricePerToken:  show.PricePerToken,
			DurationMonths: show.DurationMonths,
			Status:         string(status),
		}
		if err := st.CreateShow(ctx, record); err != nil {
			return created, fmt.Errorf("failed to create show %s: %w", show.ID, err)
		}
		created++
	}
	return created, nil
}
