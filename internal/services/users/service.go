// Package users is the account directory: signup, login, suspension and
// profile preferences.
package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/models"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/policy"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/repository"
	"github.com/kigalicoding64/rw-streaming-youtube-vs-netflix/internal/services"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrSuspended          = errors.New("account is suspended")
	ErrEmailTaken         = repository.ErrDuplicateEmail
	ErrNameRequired       = fmt.Errorf("%w: name is required", services.ErrInvalidInput)
	ErrInvalidEmail       = fmt.Errorf("%w: email is invalid", services.ErrInvalidInput)
	ErrWeakPassword       = fmt.Errorf("%w: password must be at least %d characters", services.ErrInvalidInput, MinPasswordLength)
)

const (
	MinPasswordLength = 6
	StartingCredits   = 1000
)

type Store interface {
	Create(ctx context.Context, user models.User) (models.User, error)
	Get(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	List(ctx context.Context, page repository.Page) ([]models.User, error)
	SetSuspended(ctx context.Context, id string, suspended bool) (models.User, error)
	UpdateLanguage(ctx context.Context, id string, lang models.LanguageCode) (models.User, error)
}

type Service struct {
	store Store
	log   *zap.Logger
	cost  int
}

func NewService(store Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{store: store, log: log, cost: bcrypt.DefaultCost}
}

type SignupRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
	Language string      `json:"language"`
}

// selfServiceRole maps a requested role to one a user may pick for
// themselves. Admin accounts are only ever seeded.
func selfServiceRole(r models.Role) models.Role {
	switch r {
	case models.RoleCreator, models.RoleViewer:
		return r
	}
	return models.RoleUser
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (models.User, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return models.User{}, ErrNameRequired
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return models.User{}, ErrInvalidEmail
	}
	if len(req.Password) < MinPasswordLength {
		return models.User{}, ErrWeakPassword
	}
	lang := models.LanguageEnglish
	if req.Language != "" {
		if lang, err = models.ParseLanguage(req.Language); err != nil {
			return models.User{}, fmt.Errorf("%w: %v", services.ErrInvalidInput, err)
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.store.Create(ctx, models.User{
		Name:         name,
		Email:        addr.Address,
		PasswordHash: string(hash),
		Role:         selfServiceRole(req.Role),
		Credits:      StartingCredits,
		Subscription: models.SubscriptionNone,
		Language:     lang,
	})
	if err != nil {
		return models.User{}, err
	}
	s.log.Info("user signed up", zap.String("user_id", user.ID), zap.String("role", string(user.Role)))
	return user, nil
}

// Login checks credentials. A suspended account is refused even with the
// right password.
func (s *Service) Login(ctx context.Context, email, password string) (models.User, error) {
	user, err := s.store.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return models.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return models.User{}, err
	}
	if user.IsSuspended {
		return models.User{}, ErrSuspended
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// Authenticate resolves the subject of a token to an active user.
func (s *Service) Authenticate(ctx context.Context, id string) (models.User, error) {
	user, err := s.store.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return models.User{}, services.ErrUnauthorized
	}
	if err != nil {
		return models.User{}, err
	}
	if user.IsSuspended {
		return models.User{}, ErrSuspended
	}
	return user, nil
}

func (s *Service) Get(ctx context.Context, id string) (models.User, error) {
	return s.store.Get(ctx, id)
}

func authorizeAdmin(actor *models.User) error {
	if actor == nil {
		return services.ErrUnauthorized
	}
	if !policy.CanManageUsers(actor) {
		return services.ErrForbidden
	}
	return nil
}

func (s *Service) List(ctx context.Context, actor *models.User, page repository.Page) ([]models.User, error) {
	if err := authorizeAdmin(actor); err != nil {
		return nil, err
	}
	return s.store.List(ctx, page)
}

// ToggleSuspension flips the target's suspended flag.
func (s *Service) ToggleSuspension(ctx context.Context, actor *models.User, id string) (models.User, error) {
	if err := authorizeAdmin(actor); err != nil {
		return models.User{}, err
	}
	target, err := s.store.Get(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	return s.setSuspended(ctx, actor, target.ID, !target.IsSuspended)
}

func (s *Service) SetSuspended(ctx context.Context, actor *models.User, id string, suspended bool) (models.User, error) {
	if err := authorizeAdmin(actor); err != nil {
		return models.User{}, err
	}
	return s.setSuspended(ctx, actor, id, suspended)
}

func (s *Service) setSuspended(ctx context.Context, actor *models.User, id string, suspended bool) (models.User, error) {
	if id == actor.ID && suspended {
		return models.User{}, fmt.Errorf("%w: admins cannot suspend themselves", services.ErrInvalidInput)
	}
	user, err := s.store.SetSuspended(ctx, id, suspended)
	if err != nil {
		return models.User{}, err
	}
	s.log.Info("user suspension changed",
		zap.String("user_id", id), zap.Bool("suspended", suspended), zap.String("admin_id", actor.ID))
	return user, nil
}

func (s *Service) UpdateLanguage(ctx context.Context, id, raw string) (models.User, error) {
	lang, err := models.ParseLanguage(raw)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", services.ErrInvalidInput, err)
	}
	return s.store.UpdateLanguage(ctx, id, lang)
}

// SeedAccount describes an account that must exist at startup. Zero Credits
// and Subscription fall back to the signup defaults.
type SeedAccount struct {
	Name         string
	Email        string
	Password     string
	Role         models.Role
	Language     models.LanguageCode
	Credits      int64
	Subscription models.SubscriptionTier
}

// Seed creates any missing accounts. Existing ones are left untouched.
func (s *Service) Seed(ctx context.Context, accounts ...SeedAccount) error {
	for _, acct := range accounts {
		if acct.Email == "" || acct.Password == "" {
			continue
		}
		if _, err := s.store.GetByEmail(ctx, acct.Email); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(acct.Password), s.cost)
		if err != nil {
			return fmt.Errorf("hash seed password: %w", err)
		}
		lang := acct.Language
		if lang == "" {
			lang = models.LanguageEnglish
		}
		credits := acct.Credits
		if credits == 0 {
			credits = StartingCredits
		}
		tier := acct.Subscription
		if tier == "" {
			tier = models.SubscriptionNone
		}
		user, err := s.store.Create(ctx, models.User{
			Name:         acct.Name,
			Email:        acct.Email,
			PasswordHash: string(hash),
			Role:         acct.Role,
			Credits:      credits,
			Subscription: tier,
			Language:     lang,
		})
		if err != nil && !errors.Is(err, repository.ErrDuplicateEmail) {
			return fmt.Errorf("seed %s: %w", acct.Email, err)
		}
		if err == nil {
			s.log.Info("seeded account", zap.String("email", user.Email), zap.String("role", string(user.Role)))
		}
	}
	return nil
}
