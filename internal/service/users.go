package service

import (
	"context"
	"errors"

	"github.com/gfranca/userhub/internal/apperr"
	"github.com/gfranca/userhub/internal/domain/user"
	"github.com/gfranca/userhub/internal/security"
)

// Store is the slice of the repository the service needs. Both the postgres
// and the in-memory repos satisfy it.
type Store interface {
	Create(ctx context.Context, name, email, passwordHash, role string) (user.User, error)
	GetByID(ctx context.Context, id string) (user.User, error)
	GetByEmail(ctx context.Context, email string) (user.User, error)
	Update(ctx context.Context, id string, patch user.Patch) (user.User, error)
	Delete(ctx context.Context, id string) (user.User, error)
	List(ctx context.Context) ([]user.User, error)
}

type TokenIssuer interface {
	Generate(userID, email, role string) (string, error)
}

type UserService struct {
	store  Store
	tokens TokenIssuer
}

func NewUserService(store Store, tokens TokenIssuer) *UserService {
	return &UserService{
		store:  store,
		tokens: tokens,
	}
}

func (s *UserService) Create(ctx context.Context, req user.CreateUserRequest) (user.User, error) {
	hash, err := security.HashPassword(req.Password)
	if err != nil {
		return user.User{}, apperr.Internal("Internal server error", err)
	}

	u, err := s.store.Create(ctx, req.Name, req.Email, hash, user.RoleUser)
	if err != nil {
		if errors.Is(err, user.ErrEmailTaken) {
			return user.User{}, apperr.Conflict("Email already registered")
		}

		return user.User{}, apperr.Internal("Internal server error", err)
	}

	return u, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (user.User, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, apperr.NotFound("User not found")
		}

		return user.User{}, apperr.Internal("Internal server error", err)
	}

	return u, nil
}

func (s *UserService) Update(ctx context.Context, id string, req user.UpdateUserRequest) (user.User, error) {
	patch := user.Patch{
		Name:  req.Name,
		Email: req.Email,
	}

	if req.Password != nil {
		hash, err := security.HashPassword(*req.Password)
		if err != nil {
			return user.User{}, apperr.Internal("Internal server error", err)
		}

		patch.PasswordHash = &hash
	}

	// nothing to change: report the current record without a write
	if patch.Empty() {
		return s.GetByID(ctx, id)
	}

	u, err := s.store.Update(ctx, id, patch)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotFound):
			return user.User{}, apperr.NotFound("User not found")
		case errors.Is(err, user.ErrEmailTaken):
			return user.User{}, apperr.Conflict("Email already registered")
		default:
			return user.User{}, apperr.Internal("Internal server error", err)
		}
	}

	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id string) (user.User, error) {
	u, err := s.store.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, apperr.NotFound("User not found")
		}

		return user.User{}, apperr.Internal("Internal server error", err)
	}

	return u, nil
}

func (s *UserService) List(ctx context.Context) ([]user.User, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, apperr.Internal("Internal server error", err)
	}

	// zero users is a valid answer, never an error
	return users, nil
}

// Login checks credentials and issues a token. Unknown email and wrong
// password produce the same error, and both paths pay one bcrypt comparison
// so response timing gives nothing away.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			security.BurnPasswordCheck(password)
			return "", apperr.Unauthorized("Invalid credentials")
		}

		return "", apperr.Internal("Internal server error", err)
	}

	if err := security.CheckPassword(u.PasswordHash, password); err != nil {
		return "", apperr.Unauthorized("Invalid credentials")
	}

	token, err := s.tokens.Generate(u.ID, u.Email, u.Role)
	if err != nil {
		return "", apperr.Internal("Internal server error", err)
	}

	return token, nil
}
