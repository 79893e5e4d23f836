package storage_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/recibox/internal/storage"
)

func TestStorage(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Storage Suite")
}

var _ = Describe("DiskStore", func() {
	var (
		store  *storage.DiskStore
		signer *storage.URLSigner
		root   string
		ctx    context.Context
	)

	BeforeEach(func() {
		var err error
		root, err = os.MkdirTemp("", "recibox-storage-*")
		Expect(err).NotTo(HaveOccurred())

		signer = storage.NewURLSigner("0123456789abcdef0123456789abcdef")
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		store, err = storage.NewDiskStore(root, "http://localhost:8080", signer, 64, logger)
		Expect(err).NotTo(HaveOccurred())

		ctx = context.Background()
	})

	AfterEach(func() {
		os.RemoveAll(root)
	})

	Describe("Upload", func() {
		It("should store the object and report its info", func() {
			info, err := store.Upload(ctx, "1/receipt.txt", []byte("hello"), "text/plain")
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Path).To(Equal("1/receipt.txt"))
			Expect(info.URL).To(Equal("http://localhost:8080/arquivos/1/receipt.txt"))
			Expect(*info.Size).To(Equal(int64(5)))

			data, err := os.ReadFile(filepath.Join(root, "1", "receipt.txt"))
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(Equal("hello"))
		})

		It("should refuse to overwrite an existing object", func() {
			_, err := store.Upload(ctx, "1/receipt.txt", []byte("first"), "text/plain")
			Expect(err).NotTo(HaveOccurred())

			_, err = store.Upload(ctx, "1/receipt.txt", []byte("second"), "text/plain")
			Expect(err).To(Equal(storage.ErrObjectExists))
		})

		It("should reject traversal paths", func() {
			_, err := store.Upload(ctx, "../escape.txt", []byte("x"), "text/plain")
			Expect(err).To(Equal(storage.ErrInvalidPath))

			_, err = store.Upload(ctx, "/absolute.txt", []byte("x"), "text/plain")
			Expect(err).To(Equal(storage.ErrInvalidPath))
		})
	})

	Describe("Remove", func() {
		It("should delete objects and tolerate missing ones", func() {
			_, err := store.Upload(ctx, "1/a.txt", []byte("a"), "text/plain")
			Expect(err).NotTo(HaveOccurred())

			err = store.Remove(ctx, []string{"1/a.txt", "1/never-existed.txt"})
			Expect(err).NotTo(HaveOccurred())

			_, err = os.Stat(filepath.Join(root, "1", "a.txt"))
			Expect(os.IsNotExist(err)).To(BeTrue())
		})
	})

	Describe("Serve", func() {
		var router *chi.Mux

		BeforeEach(func() {
			handler := storage.NewHandler(store, time.Minute)
			router = chi.NewRouter()
			router.Get("/arquivos/*", handler.Serve)
		})

		It("should serve the stored public URL without a token", func() {
			info, err := store.Upload(ctx, "1/receipt.txt", []byte("hello"), "text/plain")
			Expect(err).NotTo(HaveOccurred())

			target, err := url.Parse(info.URL)
			Expect(err).NotTo(HaveOccurred())

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target.Path, nil))

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Body.String()).To(Equal("hello"))
		})

		It("should reject an invalid token even for an existing object", func() {
			_, err := store.Upload(ctx, "1/receipt.txt", []byte("hello"), "text/plain")
			Expect(err).NotTo(HaveOccurred())

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/arquivos/1/receipt.txt?token=garbage", nil))

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should return 404 for a missing object", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/arquivos/1/nope.txt", nil))

			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("SignedURL", func() {
		It("should issue a token the signer accepts for that path only", func() {
			signed, err := store.SignedURL("1/a.jpg", time.Minute)
			Expect(err).NotTo(HaveOccurred())
			Expect(signed).To(HavePrefix("http://localhost:8080/arquivos/1/a.jpg?token="))

			token := signed[len("http://localhost:8080/arquivos/1/a.jpg?token="):]
			Expect(signer.Verify(token, "1/a.jpg")).To(Succeed())
			Expect(signer.Verify(token, "1/b.jpg")).NotTo(Succeed())
		})

		It("should reject an expired token", func() {
			token, err := signer.Sign("1/a.jpg", -time.Minute)
			Expect(err).NotTo(HaveOccurred())
			Expect(signer.Verify(token, "1/a.jpg")).NotTo(Succeed())
		})
	})
})

var _ = Describe("ObjectPath", func() {
	It("should namespace objects under the owner", func() {
		path := storage.ObjectPath(42, ".jpg")
		Expect(path).To(HavePrefix("42/"))
		Expect(path).To(HaveSuffix(".jpg"))
		Expect(storage.OwnsPath(42, path)).To(BeTrue())
		Expect(storage.OwnsPath(7, path)).To(BeFalse())
	})

	It("should default the extension", func() {
		Expect(storage.ObjectPath(1, "")).To(HaveSuffix(".jpg"))
		Expect(storage.ObjectPath(1, "png")).To(HaveSuffix(".png"))
	})
})
