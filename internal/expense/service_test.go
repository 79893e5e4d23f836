package expense_test

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	internal "github.com/frahmantamala/recibox/internal"
	"github.com/frahmantamala/recibox/internal/core/events"
	"github.com/frahmantamala/recibox/internal/expense"
	"github.com/frahmantamala/recibox/internal/storage"
)

func TestExpense(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Expense Service Suite")
}

// Mock repository for testing
type mockExpenseRepository struct {
	expenses    map[int64]*expense.Expense
	nextID      int64
	createError error
	updateError error
	deleteError error
	createCalls int
}

func newMockExpenseRepository() *mockExpenseRepository {
	return &mockExpenseRepository{
		expenses: make(map[int64]*expense.Expense),
		nextID:   1,
	}
}

func (m *mockExpenseRepository) Create(e *expense.Expense) error {
	m.createCalls++
	if m.createError != nil {
		return m.createError
	}
	e.ID = m.nextID
	m.nextID++
	m.expenses[e.ID] = e
	return nil
}

func (m *mockExpenseRepository) GetByID(userID, id int64) (*expense.Expense, error) {
	e, ok := m.expenses[id]
	if !ok || e.UserID != userID {
		return nil, nil
	}
	return e, nil
}

func (m *mockExpenseRepository) GetByUserID(userID int64, limit, offset int) ([]*expense.Expense, error) {
	var out []*expense.Expense
	for _, e := range m.expenses {
		if e.UserID == userID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockExpenseRepository) GetByProject(userID, projectID int64) ([]*expense.Expense, error) {
	var out []*expense.Expense
	for _, e := range m.expenses {
		if e.UserID == userID && e.ProjectID == projectID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockExpenseRepository) Update(e *expense.Expense) error {
	if m.updateError != nil {
		return m.updateError
	}
	m.expenses[e.ID] = e
	return nil
}

func (m *mockExpenseRepository) Delete(userID, id int64) error {
	if m.deleteError != nil {
		return m.deleteError
	}
	delete(m.expenses, id)
	return nil
}

func (m *mockExpenseRepository) ImagePathsByProject(userID, projectID int64) ([]string, error) {
	expenses, _ := m.GetByProject(userID, projectID)
	var paths []string
	for _, e := range expenses {
		paths = append(paths, e.Images.Paths()...)
	}
	return paths, nil
}

func (m *mockExpenseRepository) DeleteByProject(userID, projectID int64) error {
	for id, e := range m.expenses {
		if e.UserID == userID && e.ProjectID == projectID {
			delete(m.expenses, id)
		}
	}
	return nil
}

func (m *mockExpenseRepository) TotalsByProject(userID int64) (map[int64]float64, error) {
	totals := make(map[int64]float64)
	for _, e := range m.expenses {
		if e.UserID == userID {
			totals[e.ProjectID] += e.Amount
		}
	}
	return totals, nil
}

// Mock object store counting uploads and removes
type mockObjectStore struct {
	uploadCalls   int
	uploadedPaths []string
	removedPaths  []string
	uploadError   error
	removeError   error
}

func (m *mockObjectStore) Upload(ctx context.Context, objectPath string, data []byte, contentType string) (*storage.ObjectInfo, error) {
	m.uploadCalls++
	if m.uploadError != nil {
		return nil, m.uploadError
	}
	m.uploadedPaths = append(m.uploadedPaths, objectPath)
	size := int64(len(data))
	return &storage.ObjectInfo{
		Path: objectPath,
		URL:  "http://localhost/arquivos/" + objectPath,
		Name: "receipt.jpg",
		Size: &size,
	}, nil
}

func (m *mockObjectStore) Remove(ctx context.Context, paths []string) error {
	m.removedPaths = append(m.removedPaths, paths...)
	return m.removeError
}

type mockProjectChecker struct {
	exists   bool
	err      error
	askCount int
}

func (m *mockProjectChecker) ProjectExists(userID, projectID int64) (bool, error) {
	m.askCount++
	return m.exists, m.err
}

type mockCategoryChecker struct {
	valid bool
}

func (m *mockCategoryChecker) IsValidCategory(userID int64, name string) bool {
	return m.valid
}

type mockEventBus struct {
	published []events.Event
}

func (m *mockEventBus) Publish(ctx context.Context, event events.Event) error {
	m.published = append(m.published, event)
	return nil
}

var _ = Describe("Expense Service", func() {
	var (
		repo       *mockExpenseRepository
		store      *mockObjectStore
		projects   *mockProjectChecker
		categories *mockCategoryChecker
		bus        *mockEventBus
		service    *expense.Service
		ctx        context.Context
		userID     int64
	)

	pendingImage := func() expense.ImageInput {
		return expense.ImageInput{
			Data:        base64.StdEncoding.EncodeToString([]byte("jpeg-bytes")),
			ContentType: "image/jpeg",
		}
	}

	persistedImage := func(path string) expense.ImageInput {
		size := int64(123)
		return expense.ImageInput{
			Path: path,
			URL:  "http://localhost/arquivos/" + path,
			Name: "receipt.jpg",
			Size: &size,
		}
	}

	validDTO := func() expense.ExpenseDTO {
		return expense.ExpenseDTO{
			ProjectID:   1,
			Description: "cimento",
			Amount:      150.75,
			Category:    "material",
			ExpenseDate: time.Now().Add(-time.Hour),
		}
	}

	BeforeEach(func() {
		repo = newMockExpenseRepository()
		store = &mockObjectStore{}
		projects = &mockProjectChecker{exists: true}
		categories = &mockCategoryChecker{valid: true}
		bus = &mockEventBus{}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = expense.NewService(repo, store, projects, categories, bus, logger)
		ctx = context.Background()
		userID = 42
	})

	Describe("CreateExpense", func() {
		It("should create an expense and publish an event", func() {
			created, err := service.CreateExpense(ctx, userID, validDTO())
			Expect(err).NotTo(HaveOccurred())
			Expect(created.ID).To(Equal(int64(1)))
			Expect(created.UserID).To(Equal(userID))
			Expect(bus.published).To(HaveLen(1))
			Expect(bus.published[0].EventType()).To(Equal(events.ExpenseCreated))
		})

		It("should accept a zero amount", func() {
			dto := validDTO()
			dto.Amount = 0

			created, err := service.CreateExpense(ctx, userID, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(created.Amount).To(BeZero())
			Expect(repo.createCalls).To(Equal(1))
		})

		Context("when validation fails", func() {
			It("should reject a negative amount before any remote call", func() {
				dto := validDTO()
				dto.Amount = -10

				_, err := service.CreateExpense(ctx, userID, dto)
				Expect(err).To(HaveOccurred())
				Expect(store.uploadCalls).To(BeZero())
				Expect(repo.createCalls).To(BeZero())
				Expect(projects.askCount).To(BeZero())
			})

			It("should reject more than three receipts", func() {
				dto := validDTO()
				dto.Images = []expense.ImageInput{pendingImage(), pendingImage(), pendingImage(), pendingImage()}

				_, err := service.CreateExpense(ctx, userID, dto)
				Expect(err).To(HaveOccurred())
				Expect(store.uploadCalls).To(BeZero())
				Expect(repo.createCalls).To(BeZero())
			})

			It("should reject a missing project", func() {
				projects.exists = false

				_, err := service.CreateExpense(ctx, userID, validDTO())
				Expect(err).To(Equal(internal.ErrProjectNotFound))
				Expect(store.uploadCalls).To(BeZero())
			})

			It("should reject an unknown category", func() {
				categories.valid = false

				_, err := service.CreateExpense(ctx, userID, validDTO())
				Expect(err).To(HaveOccurred())
				Expect(store.uploadCalls).To(BeZero())
			})
		})

		Context("with receipts", func() {
			It("should upload pending receipts before saving the record", func() {
				dto := validDTO()
				dto.Images = []expense.ImageInput{pendingImage(), pendingImage()}

				created, err := service.CreateExpense(ctx, userID, dto)
				Expect(err).NotTo(HaveOccurred())
				Expect(store.uploadCalls).To(Equal(2))
				Expect(created.Images).To(HaveLen(2))
				for _, img := range created.Images {
					Expect(img.Path).To(HavePrefix("42/"))
				}
			})

			It("should abort the save when an upload fails", func() {
				store.uploadError = errors.New("disk full")
				dto := validDTO()
				dto.Images = []expense.ImageInput{pendingImage()}

				_, err := service.CreateExpense(ctx, userID, dto)
				Expect(err).To(HaveOccurred())
				Expect(repo.createCalls).To(BeZero())
			})

			It("should not clean up uploaded receipts when the record write fails", func() {
				repo.createError = errors.New("db down")
				dto := validDTO()
				dto.Images = []expense.ImageInput{pendingImage()}

				_, err := service.CreateExpense(ctx, userID, dto)
				Expect(err).To(HaveOccurred())
				Expect(store.uploadCalls).To(Equal(1))
				Expect(store.removedPaths).To(BeEmpty())
			})
		})
	})

	Describe("UpdateExpense", func() {
		var existing *expense.Expense

		BeforeEach(func() {
			var err error
			dto := validDTO()
			dto.Images = []expense.ImageInput{pendingImage()}
			existing, err = service.CreateExpense(ctx, userID, dto)
			Expect(err).NotTo(HaveOccurred())
			store.uploadCalls = 0
		})

		It("should carry persisted receipts forward without re-uploading", func() {
			dto := validDTO()
			dto.Amount = 200
			dto.Images = []expense.ImageInput{persistedImage(existing.Images[0].Path)}

			updated, err := service.UpdateExpense(ctx, userID, existing.ID, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(store.uploadCalls).To(BeZero())
			Expect(updated.Images).To(HaveLen(1))
			Expect(updated.Images[0].Path).To(Equal(existing.Images[0].Path))
			Expect(updated.Amount).To(Equal(200.0))
		})

		It("should preserve receipt order when mixing kept and fresh entries", func() {
			dto := validDTO()
			dto.Images = []expense.ImageInput{
				persistedImage(existing.Images[0].Path),
				pendingImage(),
			}

			updated, err := service.UpdateExpense(ctx, userID, existing.ID, dto)
			Expect(err).NotTo(HaveOccurred())
			Expect(store.uploadCalls).To(Equal(1))
			Expect(updated.Images).To(HaveLen(2))
			Expect(updated.Images[0].Path).To(Equal(existing.Images[0].Path))
			Expect(updated.Images[1].Path).NotTo(Equal(existing.Images[0].Path))
		})

		It("should return not found for another user's expense", func() {
			_, err := service.UpdateExpense(ctx, userID+1, existing.ID, validDTO())
			Expect(err).To(Equal(internal.ErrExpenseNotFound))
		})
	})

	Describe("DeleteExpense", func() {
		var existing *expense.Expense

		BeforeEach(func() {
			var err error
			dto := validDTO()
			dto.Images = []expense.ImageInput{pendingImage(), pendingImage()}
			existing, err = service.CreateExpense(ctx, userID, dto)
			Expect(err).NotTo(HaveOccurred())
		})

		It("should remove receipt files and then the record", func() {
			err := service.DeleteExpense(ctx, userID, existing.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(store.removedPaths).To(ConsistOf(existing.Images.Paths()))

			got, _ := repo.GetByID(userID, existing.ID)
			Expect(got).To(BeNil())
		})

		It("should still delete the record when file removal fails", func() {
			store.removeError = errors.New("object store unavailable")

			err := service.DeleteExpense(ctx, userID, existing.ID)
			Expect(err).NotTo(HaveOccurred())

			got, _ := repo.GetByID(userID, existing.ID)
			Expect(got).To(BeNil())
		})

		It("should return not found for a missing expense", func() {
			err := service.DeleteExpense(ctx, userID, 999)
			Expect(err).To(Equal(internal.ErrExpenseNotFound))
		})
	})
})
