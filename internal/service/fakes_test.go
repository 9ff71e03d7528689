package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Neeraj-1996/mlmbackend/internal/config"
	"github.com/Neeraj-1996/mlmbackend/internal/domain"
	"github.com/Neeraj-1996/mlmbackend/internal/store"
	"github.com/Neeraj-1996/mlmbackend/internal/store/storetest"
)

type fakeUploader struct {
	URL   string
	Err   error
	Calls int
}

func (f *fakeUploader) Upload(_ context.Context, filename string, file io.Reader) (string, error) {
	f.Calls++
	if _, err := io.ReadAll(file); err != nil {
		return "", err
	}
	if f.Err != nil {
		return "", f.Err
	}
	if f.URL == "" {
		return "", nil
	}
	return f.URL + "/" + filename, nil
}

type sentOTP struct {
	UserID  uint
	Code    string
	Expires time.Time
}

type fakeSender struct {
	mu   sync.Mutex
	Sent []sentOTP
	Err  error
}

func (f *fakeSender) SendOTP(_ context.Context, user *domain.User, code string, expires time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return f.Err
	}
	f.Sent = append(f.Sent, sentOTP{UserID: user.ID, Code: code, Expires: expires})
	return nil
}

func (f *fakeSender) last() sentOTP {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Sent[len(f.Sent)-1]
}

var errUploadDown = errors.New("image host down")

func image(name string) *ImageFile {
	return &ImageFile{Filename: name, Content: strings.NewReader("bytes")}
}

type fixture struct {
	users       *store.UserStore
	withdrawals *store.WithdrawalStore
	catalog     *store.CatalogStore
	uploader    *fakeUploader
	sender      *fakeSender
	auth        *AuthService
	ledger      *WithdrawalService
	admin       *CatalogService
}

func testTokens() config.TokenConfig {
	return config.TokenConfig{
		AccessSecret:  "access-secret",
		AccessTTL:     15 * time.Minute,
		RefreshSecret: "refresh-secret",
		RefreshTTL:    24 * time.Hour,
	}
}

func newFixture(t *testing.T, otpRequired bool) *fixture {
	gdb := storetest.Open(t)
	f := &fixture{
		users:       store.NewUserStore(gdb),
		withdrawals: store.NewWithdrawalStore(gdb),
		catalog:     store.NewCatalogStore(gdb),
		uploader:    &fakeUploader{URL: "https://cdn.example"},
		sender:      &fakeSender{},
	}
	f.auth = NewAuthService(f.users, f.uploader, f.sender, testTokens(), config.OTPConfig{
		TTL:         5 * time.Minute,
		Digits:      6,
		Required:    otpRequired,
		MaxAttempts: 3,
	})
	f.ledger = NewWithdrawalService(f.withdrawals, f.users)
	f.admin = NewCatalogService(f.catalog, f.users, f.withdrawals, f.uploader)
	return f
}

func validRegistration(username string) RegisterInput {
	return RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		FullName: "Test User",
		MobileNo: "5550100",
		Password: "password123",
	}
}

func (f *fixture) register(t *testing.T, username string) *domain.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), validRegistration(username), image("avatar.png"))
	if err != nil {
		t.Fatalf("register %s: %v", username, err)
	}
	return u
}

// fund gives the user a balance directly through the database
func (f *fixture) fund(t *testing.T, userID uint, amount float64) {
	t.Helper()
	var u domain.User
	u.ID = userID
	if err := f.catalog.Find(context.Background(), &u, userID); err != nil {
		t.Fatalf("find user: %v", err)
	}
	u.Currency = amount
	if err := f.catalog.Save(context.Background(), &u); err != nil {
		t.Fatalf("fund user: %v", err)
	}
}
