// AngelaMos | 2026
// service_test.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Kukusha-yon/carecorner-sub000/internal/config"
	"github.com/Kukusha-yon/carecorner-sub000/internal/core"
)

type memoryTokenRepo struct {
	mu     sync.Mutex
	byID   map[string]*RefreshToken
	byHash map[string]*RefreshToken
}

func newMemoryTokenRepo() *memoryTokenRepo {
	return &memoryTokenRepo{
		byID:   make(map[string]*RefreshToken),
		byHash: make(map[string]*RefreshToken),
	}
}

func (m *memoryTokenRepo) Create(
	_ context.Context,
	token *RefreshToken,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *token
	stored.CreatedAt = time.Now()
	m.byID[stored.ID] = &stored
	m.byHash[stored.TokenHash] = &stored
	return nil
}

func (m *memoryTokenRepo) GetByHash(
	_ context.Context,
	tokenHash string,
) (*RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.byHash[tokenHash]
	if !ok {
		return nil, fmt.Errorf("find token: %w", core.ErrNotFound)
	}
	copied := *t
	return &copied, nil
}

func (m *memoryTokenRepo) GetByID(
	_ context.Context,
	id string,
) (*RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("find token: %w", core.ErrNotFound)
	}
	copied := *t
	return &copied, nil
}

func (m *memoryTokenRepo) MarkRotated(
	_ context.Context,
	id, replacedByID string,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("mark token used: %w", core.ErrNotFound)
	}
	now := time.Now()
	t.IsUsed = true
	t.UsedAt = &now
	t.ReplacedByID = &replacedByID
	return nil
}

func (m *memoryTokenRepo) Revoke(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.byID[id]
	if !ok {
		return fmt.Errorf("revoke token: %w", core.ErrNotFound)
	}
	now := time.Now()
	t.RevokedAt = &now
	return nil
}

func (m *memoryTokenRepo) RevokeFamily(
	_ context.Context,
	familyID string,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for _, t := range m.byID {
		if t.FamilyID == familyID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (m *memoryTokenRepo) RevokeUserSessions(
	_ context.Context,
	userID string,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for _, t := range m.byID {
		if t.UserID == userID && t.RevokedAt == nil {
			t.RevokedAt = &now
		}
	}
	return nil
}

func (m *memoryTokenRepo) ListActiveSessions(
	_ context.Context,
	userID string,
) ([]RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var sessions []RefreshToken
	for _, t := range m.byID {
		if t.UserID == userID && t.IsValid() {
			sessions = append(sessions, *t)
		}
	}
	return sessions, nil
}

func (m *memoryTokenRepo) PurgeExpired(_ context.Context) (int64, error) {
	return 0, nil
}

func (m *memoryTokenRepo) get(id string) *RefreshToken {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id]
}

func (m *memoryTokenRepo) familyRows(familyID string) []*RefreshToken {
	m.mu.Lock()
	defer m.mu.Unlock()

	var rows []*RefreshToken
	for _, t := range m.byID {
		if t.FamilyID == familyID {
			rows = append(rows, t)
		}
	}
	return rows
}

type memoryUserProvider struct {
	mu      sync.Mutex
	byID    map[string]*UserInfo
	byEmail map[string]*UserInfo
	nextID  int
}

func newMemoryUserProvider() *memoryUserProvider {
	return &memoryUserProvider{
		byID:    make(map[string]*UserInfo),
		byEmail: make(map[string]*UserInfo),
	}
}

func (m *memoryUserProvider) GetByEmail(
	_ context.Context,
	email string,
) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byEmail[email]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	copied := *u
	return &copied, nil
}

func (m *memoryUserProvider) GetByID(
	_ context.Context,
	id string,
) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[id]
	if !ok {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	copied := *u
	return &copied, nil
}

func (m *memoryUserProvider) Create(
	_ context.Context,
	email, passwordHash, name string,
) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.byEmail[email]; exists {
		return nil, fmt.Errorf("create user: %w", core.ErrDuplicateKey)
	}

	m.nextID++
	u := &UserInfo{
		ID:           fmt.Sprintf("user-%d", m.nextID),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         "user",
		CreatedAt:    time.Now(),
	}
	m.byID[u.ID] = u
	m.byEmail[u.Email] = u

	copied := *u
	return &copied, nil
}

func (m *memoryUserProvider) UpdateProfile(
	_ context.Context,
	userID, name string,
) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[userID]
	if !ok {
		return nil, fmt.Errorf("update profile: %w", core.ErrNotFound)
	}
	u.Name = name
	copied := *u
	return &copied, nil
}

func (m *memoryUserProvider) IncrementTokenVersion(
	_ context.Context,
	userID string,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[userID]
	if !ok {
		return fmt.Errorf("increment token version: %w", core.ErrNotFound)
	}
	u.TokenVersion++
	return nil
}

func (m *memoryUserProvider) UpdatePassword(
	_ context.Context,
	userID, passwordHash string,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.byID[userID]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	u.PasswordHash = passwordHash
	return nil
}

func testJWTManager(t *testing.T) *JWTManager {
	t.Helper()

	dir := t.TempDir()
	privatePath := filepath.Join(dir, "private.pem")
	publicPath := filepath.Join(dir, "public.pem")

	if err := GenerateKeyPair(privatePath, publicPath); err != nil {
		t.Fatalf("GenerateKeyPair: %v", err)
	}

	manager, err := NewJWTManager(config.JWTConfig{
		AccessTokenExpire:  15 * time.Minute,
		RefreshTokenExpire: 168 * time.Hour,
		Issuer:             "carecorner",
		Audience:           "carecorner-api",
		PrivateKeyPath:     privatePath,
		PublicKeyPath:      publicPath,
	})
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	return manager
}

type authFixture struct {
	svc   *Service
	repo  *memoryTokenRepo
	users *memoryUserProvider
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()

	repo := newMemoryTokenRepo()
	users := newMemoryUserProvider()

	// An unreachable address: the blacklist check swallows redis errors,
	// so verification still exercises the token version path.
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	t.Cleanup(func() { rdb.Close() })

	svc := NewService(repo, testJWTManager(t), users, rdb)
	return &authFixture{svc: svc, repo: repo, users: users}
}

func register(t *testing.T, fx *authFixture) *AuthResponse {
	t.Helper()

	resp, err := fx.svc.Register(context.Background(), RegisterRequest{
		Email:    "sara@example.com",
		Password: "correct horse battery",
		Name:     "Sara Tesfaye",
	}, "go-test", "127.0.0.1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	return resp
}

func TestRegisterAndLogin(t *testing.T) {
	fx := newAuthFixture(t)
	resp := register(t, fx)

	if resp.Tokens.AccessToken == "" || resp.Tokens.RefreshToken == "" {
		t.Fatal("registration returned empty tokens")
	}
	if resp.User.Role != "user" {
		t.Errorf("role = %q, want user", resp.User.Role)
	}

	login, err := fx.svc.Login(context.Background(), LoginRequest{
		Email:    "sara@example.com",
		Password: "correct horse battery",
	}, "go-test", "127.0.0.1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.Tokens.RefreshToken == resp.Tokens.RefreshToken {
		t.Error("login reissued the registration refresh token")
	}
}

func TestLoginWrongPassword(t *testing.T) {
	fx := newAuthFixture(t)
	register(t, fx)

	_, err := fx.svc.Login(context.Background(), LoginRequest{
		Email:    "sara@example.com",
		Password: "wrong password!",
	}, "go-test", "127.0.0.1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	fx := newAuthFixture(t)

	_, err := fx.svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "does not matter",
	}, "go-test", "127.0.0.1")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	fx := newAuthFixture(t)
	register(t, fx)

	_, err := fx.svc.Register(context.Background(), RegisterRequest{
		Email:    "sara@example.com",
		Password: "another password",
		Name:     "Impostor",
	}, "go-test", "127.0.0.1")
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("err = %v, want ErrEmailExists", err)
	}
}

func TestRefreshRotatesToken(t *testing.T) {
	fx := newAuthFixture(t)
	first := register(t, fx)

	second, err := fx.svc.Refresh(
		context.Background(),
		first.Tokens.RefreshToken,
		"go-test", "127.0.0.1",
	)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if second.Tokens.RefreshToken == first.Tokens.RefreshToken {
		t.Fatal("refresh returned the same token")
	}

	oldRow, err := fx.repo.GetByHash(
		context.Background(),
		core.HashToken(first.Tokens.RefreshToken),
	)
	if err != nil {
		t.Fatalf("GetByHash: %v", err)
	}
	if !oldRow.IsUsed {
		t.Error("rotated token not marked used")
	}
	if oldRow.ReplacedByID == nil {
		t.Error("rotated token missing replacement link")
	}

	newRow, err := fx.repo.GetByHash(
		context.Background(),
		core.HashToken(second.Tokens.RefreshToken),
	)
	if err != nil {
		t.Fatalf("GetByHash new token: %v", err)
	}
	if newRow.FamilyID != oldRow.FamilyID {
		t.Errorf("family changed across rotation: %q != %q",
			newRow.FamilyID, oldRow.FamilyID)
	}
}

func TestRefreshReuseRevokesFamily(t *testing.T) {
	fx := newAuthFixture(t)
	first := register(t, fx)

	second, err := fx.svc.Refresh(
		context.Background(),
		first.Tokens.RefreshToken,
		"go-test", "127.0.0.1",
	)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	// Replaying the consumed token is a theft signal.
	_, err = fx.svc.Refresh(
		context.Background(),
		first.Tokens.RefreshToken,
		"go-test", "127.0.0.1",
	)
	if !errors.Is(err, ErrTokenReuse) {
		t.Fatalf("err = %v, want ErrTokenReuse", err)
	}

	oldRow, _ := fx.repo.GetByHash(
		context.Background(),
		core.HashToken(first.Tokens.RefreshToken),
	)
	for _, row := range fx.repo.familyRows(oldRow.FamilyID) {
		if row.RevokedAt == nil {
			t.Errorf("family row %s survived reuse detection", row.ID)
		}
	}

	// The legitimate successor is dead too.
	_, err = fx.svc.Refresh(
		context.Background(),
		second.Tokens.RefreshToken,
		"go-test", "127.0.0.1",
	)
	if !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("successor err = %v, want ErrTokenRevoked", err)
	}
}

func TestRefreshUnknownToken(t *testing.T) {
	fx := newAuthFixture(t)

	_, err := fx.svc.Refresh(
		context.Background(),
		"never-issued", "go-test", "127.0.0.1",
	)
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestVerifyAccessToken(t *testing.T) {
	fx := newAuthFixture(t)
	resp := register(t, fx)

	claims, err := fx.svc.VerifyAccessToken(
		context.Background(),
		resp.Tokens.AccessToken,
	)
	if err != nil {
		t.Fatalf("VerifyAccessToken: %v", err)
	}
	if claims.UserID != resp.User.ID {
		t.Errorf("user id = %q, want %q", claims.UserID, resp.User.ID)
	}
	if claims.JTI == "" {
		t.Error("claims missing JTI")
	}
}

func TestVerifyAccessTokenAfterLogoutAll(t *testing.T) {
	fx := newAuthFixture(t)
	resp := register(t, fx)

	if err := fx.svc.LogoutAll(context.Background(), resp.User.ID); err != nil {
		t.Fatalf("LogoutAll: %v", err)
	}

	// The version bump outlives any redis state.
	_, err := fx.svc.VerifyAccessToken(
		context.Background(),
		resp.Tokens.AccessToken,
	)
	if !errors.Is(err, core.ErrTokenRevoked) {
		t.Fatalf("err = %v, want ErrTokenRevoked", err)
	}
}

func TestVerifyGarbageToken(t *testing.T) {
	fx := newAuthFixture(t)

	_, err := fx.svc.VerifyAccessToken(
		context.Background(),
		"not.a.token",
	)
	if !errors.Is(err, core.ErrTokenInvalid) {
		t.Fatalf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestLogoutUnknownTokenIsNoop(t *testing.T) {
	fx := newAuthFixture(t)
	resp := register(t, fx)

	err := fx.svc.Logout(
		context.Background(),
		"never-issued", resp.User.ID, "",
	)
	if err != nil {
		t.Fatalf("Logout: %v", err)
	}
}

func TestLogoutRejectsForeignToken(t *testing.T) {
	fx := newAuthFixture(t)
	resp := register(t, fx)

	err := fx.svc.Logout(
		context.Background(),
		resp.Tokens.RefreshToken, "someone-else", "",
	)
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
}

func TestRevokeSessionForbiddenForOtherUser(t *testing.T) {
	fx := newAuthFixture(t)
	resp := register(t, fx)

	sessions, err := fx.svc.GetActiveSessions(
		context.Background(),
		resp.User.ID,
	)
	if err != nil {
		t.Fatalf("GetActiveSessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("sessions = %d, want 1", len(sessions))
	}

	err = fx.svc.RevokeSession(
		context.Background(),
		"someone-else", sessions[0].ID,
	)
	if !errors.Is(err, core.ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}

	if row := fx.repo.get(sessions[0].ID); row.RevokedAt != nil {
		t.Error("session revoked despite forbidden requester")
	}
}

func TestChangePasswordWrongCurrent(t *testing.T) {
	fx := newAuthFixture(t)
	resp := register(t, fx)

	err := fx.svc.ChangePassword(
		context.Background(),
		resp.User.ID, "not the password", "a brand new password",
	)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestChangePasswordRevokesSessions(t *testing.T) {
	fx := newAuthFixture(t)
	resp := register(t, fx)

	err := fx.svc.ChangePassword(
		context.Background(),
		resp.User.ID, "correct horse battery", "a brand new password",
	)
	if err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	sessions, err := fx.svc.GetActiveSessions(
		context.Background(),
		resp.User.ID,
	)
	if err != nil {
		t.Fatalf("GetActiveSessions: %v", err)
	}
	if len(sessions) != 0 {
		t.Errorf("active sessions = %d, want 0", len(sessions))
	}

	// Old password no longer logs in, the new one does.
	if _, err := fx.svc.Login(context.Background(), LoginRequest{
		Email:    "sara@example.com",
		Password: "correct horse battery",
	}, "go-test", "127.0.0.1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password err = %v, want ErrInvalidCredentials", err)
	}

	if _, err := fx.svc.Login(context.Background(), LoginRequest{
		Email:    "sara@example.com",
		Password: "a brand new password",
	}, "go-test", "127.0.0.1"); err != nil {
		t.Fatalf("new password login: %v", err)
	}
}
