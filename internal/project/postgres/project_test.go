package postgres

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/frahmantamala/recibox/internal/project"
)

func TestProjectRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ProjectRepository Suite")
}

var _ = Describe("ProjectRepository", func() {
	var (
		db   *gorm.DB
		repo *ProjectRepository
	)

	newProject := func(userID int64, name, status string) *project.Project {
		return &project.Project{
			UserID:    userID,
			Name:      name,
			Status:    status,
			Budget:    1000,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
	}

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&project.Project{})
		Expect(err).NotTo(HaveOccurred())

		repo = NewProjectRepository(db)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		err = sqlDB.Close()
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Create and GetByID", func() {
		It("should persist and scope by owner", func() {
			created := newProject(1, "reforma", project.StatusActive)
			Expect(repo.Create(created)).To(Succeed())
			Expect(created.ID).To(BeNumerically(">", 0))

			got, err := repo.GetByID(1, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.Name).To(Equal("reforma"))

			other, err := repo.GetByID(2, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(other).To(BeNil())
		})
	})

	Describe("Update", func() {
		It("should persist zero values like a cleared end date", func() {
			end := time.Now().AddDate(0, 1, 0)
			created := newProject(1, "reforma", project.StatusActive)
			created.EndDate = &end
			Expect(repo.Create(created)).To(Succeed())

			created.EndDate = nil
			created.Budget = 0
			created.UpdatedAt = time.Now()
			Expect(repo.Update(created)).To(Succeed())

			got, err := repo.GetByID(1, created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.EndDate).To(BeNil())
			Expect(got.Budget).To(BeZero())
		})

		It("should report not found for a foreign project", func() {
			created := newProject(1, "reforma", project.StatusActive)
			Expect(repo.Create(created)).To(Succeed())

			created.UserID = 2
			Expect(repo.Update(created)).To(Equal(gorm.ErrRecordNotFound))
		})
	})

	Describe("GetAllForUser", func() {
		It("should return only the owner's projects", func() {
			Expect(repo.Create(newProject(1, "a", project.StatusActive))).To(Succeed())
			Expect(repo.Create(newProject(1, "b", project.StatusPaused))).To(Succeed())
			Expect(repo.Create(newProject(2, "c", project.StatusActive))).To(Succeed())

			projects, err := repo.GetAllForUser(1)
			Expect(err).NotTo(HaveOccurred())
			Expect(projects).To(HaveLen(2))
		})
	})

	Describe("Delete", func() {
		It("should delete and report not found afterwards", func() {
			created := newProject(1, "reforma", project.StatusActive)
			Expect(repo.Create(created)).To(Succeed())

			Expect(repo.Delete(1, created.ID)).To(Succeed())
			Expect(repo.Delete(1, created.ID)).To(Equal(gorm.ErrRecordNotFound))
		})
	})
})
