package dashboard

import (
	"log/slog"
	"sort"
	"strconv"
	"time"
)

// topCategoryCount is how many categories the home screen shows.
const topCategoryCount = 4

// Repository returns raw amounts as they come from the backend. Sums happen
// in the service so malformed values can be coerced instead of failing the
// whole read.
type Repository interface {
	MonthAmounts(userID int64, year int, month time.Month) ([]interface{}, error)
	AllTimeAmounts(userID int64) ([]interface{}, error)
	ActiveProjectCount(userID int64) (int64, error)
	RecentExpenses(userID int64, limit int) ([]RecentExpense, error)
	CategoryTotals(userID int64, year int, month time.Month) ([]CategoryTotal, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetDashboard assembles the home screen from five independent reads. Each
// failed read logs a warning and falls back to its zero value.
func (s *Service) GetDashboard(userID int64, now time.Time) *Dashboard {
	d := &Dashboard{
		RecentExpenses: []RecentExpense{},
		TopCategories:  []CategorySummary{},
	}

	if amounts, err := s.repo.MonthAmounts(userID, now.Year(), now.Month()); err != nil {
		s.logger.Warn("month total unavailable, rendering zero", "user_id", userID, "error", err)
	} else {
		d.MonthTotal = sumAmounts(amounts)
	}

	if amounts, err := s.repo.AllTimeAmounts(userID); err != nil {
		s.logger.Warn("all-time total unavailable, rendering zero", "user_id", userID, "error", err)
	} else {
		d.AllTimeTotal = sumAmounts(amounts)
	}

	if count, err := s.repo.ActiveProjectCount(userID); err != nil {
		s.logger.Warn("active project count unavailable, rendering zero", "user_id", userID, "error", err)
	} else {
		d.ActiveProjects = count
	}

	if recent, err := s.repo.RecentExpenses(userID, 5); err != nil {
		s.logger.Warn("recent expenses unavailable, rendering empty", "user_id", userID, "error", err)
	} else if recent != nil {
		d.RecentExpenses = recent
	}

	if totals, err := s.repo.CategoryTotals(userID, now.Year(), now.Month()); err != nil {
		s.logger.Warn("category totals unavailable, rendering empty", "user_id", userID, "error", err)
	} else {
		d.TopCategories = topCategories(totals)
	}

	return d
}

func sumAmounts(amounts []interface{}) float64 {
	var total float64
	for _, a := range amounts {
		total += coerceAmount(a)
	}
	return total
}

// coerceAmount turns whatever the row gave us into a number. Anything
// unparseable counts as zero so one bad row cannot sink a total.
func coerceAmount(v interface{}) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case float32:
		return float64(value)
	case int:
		return float64(value)
	case int32:
		return float64(value)
	case int64:
		return float64(value)
	case string:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		return 0
	case []byte:
		if f, err := strconv.ParseFloat(string(value), 64); err == nil {
			return f
		}
		return 0
	default:
		return 0
	}
}

func topCategories(totals []CategoryTotal) []CategorySummary {
	summaries := make([]CategorySummary, 0, len(totals))
	for _, t := range totals {
		summaries = append(summaries, CategorySummary{
			Name:  t.Name,
			Color: t.Color,
			Total: coerceAmount(t.Amount),
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Total > summaries[j].Total
	})

	if len(summaries) > topCategoryCount {
		summaries = summaries[:topCategoryCount]
	}
	return summaries
}
