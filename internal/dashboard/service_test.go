package dashboard_test

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/recibox/internal/dashboard"
)

func TestDashboard(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Dashboard Service Suite")
}

type mockDashboardRepository struct {
	monthAmounts   []interface{}
	allTimeAmounts []interface{}
	activeCount    int64
	recent         []dashboard.RecentExpense
	categoryTotals []dashboard.CategoryTotal

	monthError    error
	allTimeError  error
	countError    error
	recentError   error
	categoryError error
}

func (m *mockDashboardRepository) MonthAmounts(userID int64, year int, month time.Month) ([]interface{}, error) {
	return m.monthAmounts, m.monthError
}

func (m *mockDashboardRepository) AllTimeAmounts(userID int64) ([]interface{}, error) {
	return m.allTimeAmounts, m.allTimeError
}

func (m *mockDashboardRepository) ActiveProjectCount(userID int64) (int64, error) {
	return m.activeCount, m.countError
}

func (m *mockDashboardRepository) RecentExpenses(userID int64, limit int) ([]dashboard.RecentExpense, error) {
	return m.recent, m.recentError
}

func (m *mockDashboardRepository) CategoryTotals(userID int64, year int, month time.Month) ([]dashboard.CategoryTotal, error) {
	return m.categoryTotals, m.categoryError
}

var _ = Describe("Dashboard Service", func() {
	var (
		repo    *mockDashboardRepository
		service *dashboard.Service
		now     time.Time
	)

	BeforeEach(func() {
		repo = &mockDashboardRepository{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = dashboard.NewService(repo, logger)
		now = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)
	})

	Describe("amount coercion", func() {
		It("should treat malformed amounts as zero", func() {
			repo.monthAmounts = []interface{}{10.50, 0, "invalid"}

			d := service.GetDashboard(1, now)
			Expect(d.MonthTotal).To(Equal(10.50))
		})

		It("should parse numeric strings and byte slices", func() {
			repo.monthAmounts = []interface{}{"25.25", []byte("4.75"), int64(10)}

			d := service.GetDashboard(1, now)
			Expect(d.MonthTotal).To(Equal(40.0))
		})
	})

	Describe("degradation", func() {
		BeforeEach(func() {
			repo.monthAmounts = []interface{}{100.0}
			repo.allTimeAmounts = []interface{}{500.0}
			repo.activeCount = 3
			repo.recent = []dashboard.RecentExpense{{ID: 1, Description: "tinta", Amount: 80}}
			repo.categoryTotals = []dashboard.CategoryTotal{{Name: "material", Amount: 100.0}}
		})

		It("should assemble all five sections when every read succeeds", func() {
			d := service.GetDashboard(1, now)
			Expect(d.MonthTotal).To(Equal(100.0))
			Expect(d.AllTimeTotal).To(Equal(500.0))
			Expect(d.ActiveProjects).To(Equal(int64(3)))
			Expect(d.RecentExpenses).To(HaveLen(1))
			Expect(d.TopCategories).To(HaveLen(1))
		})

		It("should zero only the failed section", func() {
			repo.monthError = errors.New("backend down")

			d := service.GetDashboard(1, now)
			Expect(d.MonthTotal).To(BeZero())
			Expect(d.AllTimeTotal).To(Equal(500.0))
			Expect(d.ActiveProjects).To(Equal(int64(3)))
			Expect(d.RecentExpenses).To(HaveLen(1))
		})

		It("should survive every read failing", func() {
			repo.monthError = errors.New("down")
			repo.allTimeError = errors.New("down")
			repo.countError = errors.New("down")
			repo.recentError = errors.New("down")
			repo.categoryError = errors.New("down")

			d := service.GetDashboard(1, now)
			Expect(d.MonthTotal).To(BeZero())
			Expect(d.AllTimeTotal).To(BeZero())
			Expect(d.ActiveProjects).To(BeZero())
			Expect(d.RecentExpenses).To(BeEmpty())
			Expect(d.TopCategories).To(BeEmpty())
		})
	})

	Describe("top categories", func() {
		It("should return at most four, sorted by total", func() {
			repo.categoryTotals = []dashboard.CategoryTotal{
				{Name: "material", Color: "#2196F3", Amount: 100.0},
				{Name: "transporte", Color: "#FF9800", Amount: 300.0},
				{Name: "alimentacao", Color: "#4CAF50", Amount: "50.5"},
				{Name: "ferramentas", Color: "#9C27B0", Amount: 200.0},
				{Name: "outros", Color: "#607D8B", Amount: 10.0},
			}

			d := service.GetDashboard(1, now)
			Expect(d.TopCategories).To(HaveLen(4))
			Expect(d.TopCategories[0].Name).To(Equal("transporte"))
			Expect(d.TopCategories[0].Color).To(Equal("#FF9800"))
			Expect(d.TopCategories[1].Name).To(Equal("ferramentas"))
			Expect(d.TopCategories[2].Name).To(Equal("material"))
			Expect(d.TopCategories[3].Name).To(Equal("alimentacao"))
			Expect(d.TopCategories[3].Total).To(Equal(50.5))
			Expect(d.TopCategories[3].Color).To(Equal("#4CAF50"))
		})
	})
})
