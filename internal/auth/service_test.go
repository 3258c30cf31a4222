package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/maritani/marketplace/internal/models"
	"github.com/maritani/marketplace/internal/testdb"
	"github.com/maritani/marketplace/pkg/hash"
	"github.com/maritani/marketplace/pkg/tokens"
)

func newTestAuthService(t *testing.T) *Service {
	t.Helper()
	return NewService(testdb.New(t), []byte("test-jwt-secret"), time.Hour)
}

func validInput() RegisterInput {
	return RegisterInput{Name: "Budi", Email: "Budi@Example.com ", Password: "secret1", Role: models.RoleSeller, AccountType: models.AccountBusiness}
}

func TestRegister(t *testing.T) {
	svc := newTestAuthService(t)

	u, err := svc.Register(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "budi@example.com", u.Email)
	assert.Equal(t, models.RoleSeller, u.Role)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	_, err = svc.Register(context.Background(), validInput())
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegister_Defaults(t *testing.T) {
	svc := newTestAuthService(t)

	u, err := svc.Register(context.Background(), RegisterInput{Name: "Ani", Email: "ani@example.com", Password: "123456"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, u.Role)
	assert.Equal(t, models.AccountPersonal, u.AccountType)
}

func TestRegister_Validation(t *testing.T) {
	svc := newTestAuthService(t)

	tests := []struct {
		name string
		mod  func(*RegisterInput)
	}{
		{name: "empty name", mod: func(in *RegisterInput) { in.Name = "" }},
		{name: "empty password", mod: func(in *RegisterInput) { in.Password = "" }},
		{name: "short password", mod: func(in *RegisterInput) { in.Password = "12345" }},
		{name: "long password", mod: func(in *RegisterInput) { in.Password = strings.Repeat("x", hash.MaxPasswordBytes+1) }},
		{name: "bad email", mod: func(in *RegisterInput) { in.Email = "not-an-email" }},
		{name: "display name email", mod: func(in *RegisterInput) { in.Email = "Budi <budi@example.com>" }},
		{name: "admin role", mod: func(in *RegisterInput) { in.Role = models.RoleAdmin }},
		{name: "unknown account type", mod: func(in *RegisterInput) { in.AccountType = "COOP" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mod(&in)
			_, err := svc.Register(context.Background(), in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestLogin(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, validInput())
	require.NoError(t, err)

	res, err := svc.Login(ctx, "BUDI@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, u.ID, res.User.ID)

	claims, err := tokens.AccessClaimsFromToken(res.AccessToken, svc.JWTSecret)
	require.NoError(t, err)
	assert.Equal(t, u.ID.String(), claims.Subject)
	assert.Equal(t, models.RoleSeller, claims.Role)
	assert.WithinDuration(t, res.AccessExp, claims.ExpiresAt.Time, time.Second)

	_, err = svc.Login(ctx, "budi@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "", "")
	assert.ErrorIs(t, err, ErrValidation)

	me, err := svc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Budi", me.Name)
}

func TestLogin_RehashesOutdatedCost(t *testing.T) {
	svc := newTestAuthService(t)
	ctx := context.Background()

	old := hash.Cost
	t.Cleanup(func() { hash.Cost = old })

	hash.Cost = bcrypt.MinCost
	u, err := svc.Register(ctx, validInput())
	require.NoError(t, err)

	hash.Cost = bcrypt.MinCost + 1
	_, err = svc.Login(ctx, "budi@example.com", "secret1")
	require.NoError(t, err)

	stored, err := svc.Repo.UserByID(ctx, u.ID)
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(stored.PasswordHash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)
	assert.True(t, hash.CheckPassword(stored.PasswordHash, "secret1"))
}
