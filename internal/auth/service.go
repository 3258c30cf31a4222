package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/maritani/marketplace/internal/models"
	"github.com/maritani/marketplace/pkg/hash"
	"github.com/maritani/marketplace/pkg/logging"
	"github.com/maritani/marketplace/pkg/tokens"
)

var (
	ErrValidation         = errors.New("validation")
	ErrConflict           = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotFound           = errors.New("not found")
)

const minPasswordLen = 6

type RegisterInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Phone       string `json:"phone"`
	Role        string `json:"role"`
	AccountType string `json:"account_type"`
}

type LoginResult struct {
	AccessToken string
	AccessExp   time.Time
	User        *models.User
}

type Service struct {
	Repo      *GormRepo
	JWTSecret []byte
	AccessTTL time.Duration
}

func NewService(db *gorm.DB, secret []byte, ttl time.Duration) *Service {
	return &Service{Repo: &GormRepo{DB: db}, JWTSecret: secret, AccessTTL: ttl}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func (in *RegisterInput) validate() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Role == "" {
		in.Role = models.RoleUser
	}
	if in.AccountType == "" {
		in.AccountType = models.AccountPersonal
	}

	switch {
	case in.Name == "" || in.Email == "" || in.Password == "":
		return fmt.Errorf("%w: name, email and password are required", ErrValidation)
	case len(in.Password) < minPasswordLen:
		return fmt.Errorf("%w: password must be at least %d characters", ErrValidation, minPasswordLen)
	case len(in.Password) > hash.MaxPasswordBytes:
		return fmt.Errorf("%w: password must be at most %d bytes", ErrValidation, hash.MaxPasswordBytes)
	case in.Role != models.RoleUser && in.Role != models.RoleSeller:
		return fmt.Errorf("%w: role must be USER or SELLER", ErrValidation)
	case in.AccountType != models.AccountPersonal && in.AccountType != models.AccountBusiness:
		return fmt.Errorf("%w: account_type must be PERSONAL or BUSINESS", ErrValidation)
	}

	addr, err := mail.ParseAddress(in.Email)
	if err != nil || addr.Address != in.Email {
		return fmt.Errorf("%w: invalid email", ErrValidation)
	}
	return nil
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	if err := in.validate(); err != nil {
		return nil, err
	}

	pwHash, err := hash.HashPassword(in.Password)
	if err != nil {
		l.Error("register_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Email:        in.Email,
		Name:         in.Name,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: pwHash,
		Role:         in.Role,
		AccountType:  in.AccountType,
	}
	if err := s.Repo.CreateUserIfNotExists(ctx, user); err != nil {
		if errors.Is(err, ErrConflict) {
			l.Warn("register_error", "status", 409, "reason", "email already registered")
			return nil, err
		}
		l.Error("register_error", "status", 500, "reason", "cannot create user", "error", err)
		return nil, err
	}

	l.Info("register_success", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			l.Error("login_error", "status", 500, "error", err)
		}
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_error", "status", 401, "reason", "wrong password", "user_id", user.ID)
		return nil, ErrInvalidCredentials
	}
	if hash.NeedsRehash(user.PasswordHash) {
		if h, err := hash.HashPassword(password); err == nil {
			if err := s.Repo.UpdatePasswordHash(ctx, user.ID, h); err != nil {
				l.Warn("password_rehash_failed", "user_id", user.ID, "error", err)
			}
		}
	}

	exp := time.Now().Add(s.AccessTTL)
	token, err := tokens.SignAccessToken(user.ID.String(), user.Role, exp, s.JWTSecret)
	if err != nil {
		l.Error("login_error", "status", 500, "reason", "cannot sign token", "error", err)
		return nil, err
	}

	return &LoginResult{AccessToken: token, AccessExp: exp, User: user}, nil
}

func (s *Service) Me(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.Repo.UserByID(ctx, id)
}
