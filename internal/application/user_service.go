package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/accounts-api/internal/domain/entity"
	repo "github.com/oksasatya/accounts-api/internal/domain/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
)

const (
	defaultSearchSize = 10
	maxSearchSize     = 50
)

// PasswordHasher produces and checks salted password digests.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// TokenIssuer signs bearer tokens carrying the user id and email.
type TokenIssuer interface {
	Issue(userID, email string) (string, time.Time, error)
}

// ProfileCache stores lookup-by-id projections. Delete bumps a per-user
// version and Set only writes while the stored version still equals the one
// passed in, so a fill read before an invalidation is dropped.
type ProfileCache interface {
	Get(ctx context.Context, userID string) (*entity.Profile, bool, error)
	Version(ctx context.Context, userID string) (int64, error)
	Set(ctx context.Context, userID string, p entity.Profile, version int64) error
	Delete(ctx context.Context, userID string) error
}

// SearchIndex mirrors public user records for full text search.
type SearchIndex interface {
	Index(ctx context.Context, u entity.PublicUser) error
	Remove(ctx context.Context, userID string) error
	Search(ctx context.Context, q string, size int) ([]entity.PublicUser, error)
}

// Notifier enqueues account emails.
type Notifier interface {
	Welcome(ctx context.Context, u entity.PublicUser) error
	PasswordChanged(ctx context.Context, u entity.PublicUser) error
}

// Service runs the account use cases. Cache, Search and Notify are optional;
// their failures are logged and never fail the use case.
type Service struct {
	Repo   repo.UserRepository
	Hasher PasswordHasher
	Tokens TokenIssuer
	Logger *logrus.Logger

	Cache  ProfileCache
	Search SearchIndex
	Notify Notifier
}

func NewService(r repo.UserRepository, hasher PasswordHasher, tokens TokenIssuer, logger *logrus.Logger) *Service {
	return &Service{
		Repo:   r,
		Hasher: hasher,
		Tokens: tokens,
		Logger: logger,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// UpdateProfileInput holds optional changes; nil keeps the stored value.
type UpdateProfileInput struct {
	Name  *string
	Email *string
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

// Register creates an account unless the email is already in use.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.PublicUser, error) {
	_, err := s.Repo.GetByEmail(ctx, in.Email)
	switch {
	case err == nil:
		return nil, ErrEmailTaken
	case !errors.Is(err, repo.ErrNotFound):
		return nil, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{Name: in.Name, Email: in.Email, PasswordHash: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		// The pre-check can lose a race; the unique constraint is authoritative.
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	pub := u.Public()
	s.index(ctx, pub)
	if s.Notify != nil {
		if err := s.Notify.Welcome(ctx, pub); err != nil {
			s.warn("enqueue welcome email failed", err, pub.ID)
		}
	}
	return &pub, nil
}

// Login checks credentials and issues a token. Unknown email and wrong
// password both yield ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup email: %w", err)
	}
	if !s.Hasher.Compare(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	token, exp, err := s.Tokens.Issue(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp}, nil
}

// List returns one page of users; page and limit below 1 are treated as 1.
// A page whose offset does not fit in an int is past the end and empty.
func (s *Service) List(ctx context.Context, page, limit int) ([]entity.PublicUser, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}
	if page-1 > math.MaxInt/limit {
		return []entity.PublicUser{}, nil
	}
	users, err := s.Repo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// GetProfile returns the name and email of one user, reading through the cache.
func (s *Service) GetProfile(ctx context.Context, id string) (*entity.Profile, error) {
	var (
		version int64
		fill    bool
	)
	if s.Cache != nil {
		p, ok, err := s.Cache.Get(ctx, id)
		switch {
		case err != nil:
			s.warn("profile cache read failed", err, id)
		case ok:
			return p, nil
		default:
			// Taken before the store read; a concurrent invalidate moves it on.
			if version, err = s.Cache.Version(ctx, id); err != nil {
				s.warn("profile cache version read failed", err, id)
			} else {
				fill = true
			}
		}
	}

	u, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	p := u.Profile()
	if fill {
		if err := s.Cache.Set(ctx, id, p, version); err != nil {
			s.warn("profile cache write failed", err, id)
		}
	}
	return &p, nil
}

// UpdateProfile merges the provided fields into the stored user. An input
// with no fields set returns the stored record without writing.
func (s *Service) UpdateProfile(ctx context.Context, id string, in UpdateProfileInput) (*entity.PublicUser, error) {
	u, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	patch := entity.ProfilePatch{Name: in.Name, Email: in.Email}
	if patch.Empty() {
		pub := u.Public()
		return &pub, nil
	}
	pub, err := s.Repo.Update(ctx, id, patch)
	if err != nil {
		return nil, mapWriteError("update user", err)
	}
	s.invalidate(ctx, id)
	s.index(ctx, *pub)
	return pub, nil
}

// UpdatePassword replaces the password digest. An empty password leaves the
// record untouched and returns it as is.
func (s *Service) UpdatePassword(ctx context.Context, id, password string) (*entity.PublicUser, error) {
	u, err := s.getUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if password == "" {
		pub := u.Public()
		return &pub, nil
	}

	hash, err := s.Hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	pub, err := s.Repo.UpdatePassword(ctx, id, hash)
	if err != nil {
		return nil, mapWriteError("update password", err)
	}
	s.invalidate(ctx, id)
	if s.Notify != nil {
		if err := s.Notify.PasswordChanged(ctx, *pub); err != nil {
			s.warn("enqueue password changed email failed", err, id)
		}
	}
	return pub, nil
}

// Delete removes the user and returns its last public state.
func (s *Service) Delete(ctx context.Context, id string) (*entity.PublicUser, error) {
	if _, err := s.getUser(ctx, id); err != nil {
		return nil, err
	}
	pub, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return nil, mapWriteError("delete user", err)
	}
	s.invalidate(ctx, id)
	if s.Search != nil {
		if err := s.Search.Remove(ctx, id); err != nil {
			s.warn("search index remove failed", err, id)
		}
	}
	return pub, nil
}

// SearchUsers matches q against name and email. Without a search index it
// returns an empty result.
func (s *Service) SearchUsers(ctx context.Context, q string, size int) ([]entity.PublicUser, error) {
	if s.Search == nil || q == "" {
		return []entity.PublicUser{}, nil
	}
	if size <= 0 || size > maxSearchSize {
		size = defaultSearchSize
	}
	users, err := s.Search.Search(ctx, q, size)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	if users == nil {
		users = []entity.PublicUser{}
	}
	return users, nil
}

func (s *Service) getUser(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *Service) invalidate(ctx context.Context, id string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(ctx, id); err != nil {
		s.warn("profile cache invalidate failed", err, id)
	}
}

func (s *Service) index(ctx context.Context, u entity.PublicUser) {
	if s.Search == nil {
		return
	}
	if err := s.Search.Index(ctx, u); err != nil {
		s.warn("search index failed", err, u.ID)
	}
}

func (s *Service) warn(msg string, err error, userID string) {
	if s.Logger == nil {
		return
	}
	s.Logger.WithError(err).WithField("user_id", userID).Warn(msg)
}

func mapWriteError(op string, err error) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return ErrUserNotFound
	case errors.Is(err, repo.ErrDuplicateEmail):
		return ErrEmailTaken
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
