package auth_test

import (
	"errors"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/frahmantamala/recibox/internal/auth"
)

func TestAuth(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Auth Module Suite")
}

type mockUserRepository struct {
	passwordHash string
	userID       int64
	user         *auth.User
	lookupError  error
}

func (m *mockUserRepository) GetPasswordForEmail(email string) (string, int64, error) {
	if m.lookupError != nil {
		return "", 0, m.lookupError
	}
	return m.passwordHash, m.userID, nil
}

func (m *mockUserRepository) GetUserByID(userID int64) (*auth.User, error) {
	if m.lookupError != nil {
		return nil, m.lookupError
	}
	return m.user, nil
}

var _ = Describe("Auth Service", func() {
	var (
		repo     *mockUserRepository
		tokenGen *auth.JWTTokenGenerator
		service  *auth.Service
	)

	BeforeEach(func() {
		hash, err := bcrypt.GenerateFromPassword([]byte("correct-password"), bcrypt.MinCost)
		Expect(err).NotTo(HaveOccurred())

		repo = &mockUserRepository{
			passwordHash: string(hash),
			userID:       42,
			user:         &auth.User{ID: 42, Email: "demo@recibox.app", Name: "Demo"},
		}
		tokenGen = auth.NewJWTTokenGenerator(
			"access-secret-0123456789abcdef0123456789",
			"refresh-secret-0123456789abcdef012345678",
			15*time.Minute,
			7*24*time.Hour,
		)
		service = auth.NewService(repo, tokenGen)
	})

	Describe("Authenticate", func() {
		It("should issue tokens for valid credentials", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "demo@recibox.app", Password: "correct-password"})
			Expect(err).NotTo(HaveOccurred())
			Expect(tokens.AccessToken).NotTo(BeEmpty())
			Expect(tokens.RefreshToken).NotTo(BeEmpty())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal("42"))
			Expect(claims.Email).To(Equal("demo@recibox.app"))
		})

		It("should reject a wrong password", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "demo@recibox.app", Password: "wrong"})
			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("should reject an unknown user without leaking the reason", func() {
			repo.lookupError = errors.New("user not found")

			_, err := service.Authenticate(auth.LoginDTO{Email: "nobody@recibox.app", Password: "whatever"})
			Expect(err).To(Equal(auth.ErrInvalidCredentials))
		})

		It("should reject missing fields before touching the repository", func() {
			_, err := service.Authenticate(auth.LoginDTO{Email: "", Password: "x"})
			Expect(err).To(BeAssignableToTypeOf(auth.ValidationError{}))
		})
	})

	Describe("RefreshTokens", func() {
		It("should rotate both tokens from a valid refresh token", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "demo@recibox.app", Password: "correct-password"})
			Expect(err).NotTo(HaveOccurred())

			rotated, err := service.RefreshTokens(tokens.RefreshToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(rotated.AccessToken).NotTo(BeEmpty())

			claims, err := service.ValidateAccessToken(rotated.AccessToken)
			Expect(err).NotTo(HaveOccurred())
			Expect(claims.UserID).To(Equal("42"))
		})

		It("should reject an access token used as a refresh token", func() {
			tokens, err := service.Authenticate(auth.LoginDTO{Email: "demo@recibox.app", Password: "correct-password"})
			Expect(err).NotTo(HaveOccurred())

			_, err = service.RefreshTokens(tokens.AccessToken)
			Expect(err).To(HaveOccurred())
		})

		It("should reject garbage tokens", func() {
			_, err := service.RefreshTokens("not-a-token")
			Expect(err).To(Equal(auth.ErrInvalidToken))
		})
	})

	Describe("expired tokens", func() {
		It("should report expiry distinctly", func() {
			shortGen := auth.NewJWTTokenGenerator(
				"access-secret-0123456789abcdef0123456789",
				"refresh-secret-0123456789abcdef012345678",
				-time.Minute,
				-time.Minute,
			)
			token, err := shortGen.GenerateAccessToken("42", "demo@recibox.app")
			Expect(err).NotTo(HaveOccurred())

			_, err = shortGen.ValidateToken(token)
			Expect(err).To(Equal(auth.ErrTokenExpired))
		})
	})
})
