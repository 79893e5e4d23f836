package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/frahmantamala/recibox/internal/expense"
)

func TestExpenseRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ExpenseRepository Suite")
}

var _ = Describe("ExpenseRepository", func() {
	var (
		db   *gorm.DB
		repo *ExpenseRepository
	)

	newExpense := func(userID, projectID int64, amount float64, images expense.Images) *expense.Expense {
		return &expense.Expense{
			UserID:      userID,
			ProjectID:   projectID,
			Description: "cimento e areia",
			Amount:      amount,
			Category:    "material",
			ExpenseDate: time.Now().AddDate(0, 0, -1),
			Images:      images,
			CreatedAt:   time.Now(),
			UpdatedAt:   time.Now(),
		}
	}

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&expense.Expense{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewExpenseRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Create and GetByID", func() {
		It("should round-trip the receipt list", func() {
			size := int64(2048)
			images := expense.Images{
				{Path: "1/a.jpg", URL: "http://localhost/arquivos/1/a.jpg", Name: "a.jpg", Size: &size},
				{Path: "1/b.jpg", URL: "http://localhost/arquivos/1/b.jpg", Name: "b.jpg"},
			}

			created := newExpense(1, 10, 150.75, images)
			Expect(repo.Create(created)).To(Succeed())
			Expect(created.ID).To(BeNumerically(">", 0))

			got, err := repo.GetByID(1, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).NotTo(BeNil())
			Expect(got.Amount).To(Equal(150.75))
			Expect(got.Images).To(HaveLen(2))
			Expect(got.Images[0].Path).To(Equal("1/a.jpg"))
			Expect(*got.Images[0].Size).To(Equal(int64(2048)))
		})

		It("should not return another user's expense", func() {
			created := newExpense(1, 10, 50, nil)
			Expect(repo.Create(created)).To(Succeed())

			got, err := repo.GetByID(2, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(BeNil())
		})
	})

	Describe("Update", func() {
		It("should replace the stored fields", func() {
			created := newExpense(1, 10, 50, nil)
			Expect(repo.Create(created)).To(Succeed())

			created.Amount = 75.5
			created.Description = "tinta"
			created.Images = expense.Images{{Path: "1/c.jpg", URL: "u", Name: "c.jpg"}}
			Expect(repo.Update(created)).To(Succeed())

			got, err := repo.GetByID(1, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Amount).To(Equal(75.5))
			Expect(got.Description).To(Equal("tinta"))
			Expect(got.Images).To(HaveLen(1))
		})

		It("should refuse to update across owners", func() {
			created := newExpense(1, 10, 50, nil)
			Expect(repo.Create(created)).To(Succeed())

			created.UserID = 2
			err := repo.Update(created)
			Expect(err).To(Equal(gorm.ErrRecordNotFound))
		})
	})

	Describe("project scoped reads", func() {
		BeforeEach(func() {
			Expect(repo.Create(newExpense(1, 10, 100, expense.Images{{Path: "1/a.jpg"}}))).To(Succeed())
			Expect(repo.Create(newExpense(1, 10, 200, expense.Images{{Path: "1/b.jpg"}, {Path: "1/c.jpg"}}))).To(Succeed())
			Expect(repo.Create(newExpense(1, 20, 400, nil))).To(Succeed())
			Expect(repo.Create(newExpense(2, 10, 800, expense.Images{{Path: "2/z.jpg"}}))).To(Succeed())
		})

		It("should collect image paths for one project only", func() {
			paths, err := repo.ImagePathsByProject(1, 10)
			Expect(err).NotTo(HaveOccurred())
			Expect(paths).To(ConsistOf("1/a.jpg", "1/b.jpg", "1/c.jpg"))
		})

		It("should sum totals per project for one user", func() {
			totals, err := repo.TotalsByProject(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(totals).To(HaveKeyWithValue(int64(10), 300.0))
			Expect(totals).To(HaveKeyWithValue(int64(20), 400.0))
			Expect(totals).NotTo(HaveKey(int64(800)))
		})

		It("should delete only the project's expenses for that user", func() {
			Expect(repo.DeleteByProject(1, 10)).To(Succeed())

			remaining, err := repo.GetByUserID(1, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(remaining).To(HaveLen(1))
			Expect(remaining[0].ProjectID).To(Equal(int64(20)))

			other, err := repo.GetByUserID(2, 10, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(other).To(HaveLen(1))
		})
	})
})
