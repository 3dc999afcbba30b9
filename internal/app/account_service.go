package app

import (
	"context"
	"errors"
	"strings"

	"quizhub-service/internal/auth"
	"quizhub-service/internal/domain"
)

// SignupInput is the payload of a signup request.
type SignupInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Role      domain.Role
}

// LoginResult is returned on successful login.
type LoginResult struct {
	Token string
	Role  domain.Role
}

// TokenStatus is the outcome of validating a bearer header.
type TokenStatus struct {
	Valid bool
	Role  domain.Role
}

// AccountService handles signup, login and bearer token resolution.
type AccountService struct {
	users      UserRepository
	sessions   SessionRepository
	issuer     *auth.Issuer
	bcryptCost int
}

func NewAccountService(users UserRepository, sessions SessionRepository, issuer *auth.Issuer, bcryptCost int) *AccountService {
	return &AccountService{users: users, sessions: sessions, issuer: issuer, bcryptCost: bcryptCost}
}

// Signup validates and creates a user with a zero score and a fresh session token.
func (s *AccountService) Signup(ctx context.Context, in SignupInput) (string, error) {
	in.Email = strings.TrimSpace(in.Email)

	err := firstError(
		func() error { return NotEmpty(in.FirstName, domain.LabelFirstName) },
		func() error { return NotEmpty(in.LastName, domain.LabelLastName) },
		func() error { return NotEmpty(in.Password, domain.LabelPassword) },
		func() error { return MaxLength(in.Password, auth.MaxPasswordBytes, domain.LabelPassword) },
		func() error { return NotEmpty(int(in.Role), domain.LabelRole) },
		func() error { return InRange(int(in.Role), int(domain.RolePlayer), int(domain.RoleDesigner), domain.LabelRole) },
		func() error { return NotEmpty(in.Email, domain.LabelEmail) },
		func() error { return Unique(ctx, s.users, domain.FieldUserEmail, in.Email, domain.LabelEmail) },
	)
	if err != nil {
		return "", err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return "", domain.Internal(err)
	}

	id, err := s.users.CreateUser(ctx, domain.User{
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Email:        in.Email,
		PasswordHash: hash,
		Role:         in.Role,
	})
	if errors.Is(err, domain.ErrDuplicate) {
		// lost a race with a concurrent signup for the same email
		return "", domain.Conflict(domain.DuplicateMessage(domain.LabelEmail))
	}
	if err != nil {
		return "", domain.Internal(err)
	}

	return s.startSession(ctx, id, in.Role)
}

// Login checks credentials and rotates the user's session token.
func (s *AccountService) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if len(password) > auth.MaxPasswordBytes {
		// no stored hash can match an input bcrypt refuses to hash
		return LoginResult{}, domain.Unauthorized(domain.MsgBadCredentials)
	}
	user, err := s.users.UserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, domain.ErrNotFound) {
		return LoginResult{}, domain.Unauthorized(domain.MsgBadCredentials)
	}
	if err != nil {
		return LoginResult{}, domain.Internal(err)
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return LoginResult{}, domain.Unauthorized(domain.MsgBadCredentials)
	}

	token, err := s.startSession(ctx, user.ID, user.Role)
	if err != nil {
		return LoginResult{}, err
	}
	return LoginResult{Token: token, Role: user.Role}, nil
}

func (s *AccountService) startSession(ctx context.Context, userID int64, role domain.Role) (string, error) {
	token, claims, err := s.issuer.Issue(userID, role)
	if err != nil {
		return "", domain.Internal(err)
	}
	if err := s.sessions.Put(ctx, userID, claims.ID, s.issuer.TTL()); err != nil {
		return "", domain.Internal(err)
	}
	return token, nil
}

// Authenticate resolves an Authorization header to the calling user. Every
// failure is reported as the same invalid token error.
func (s *AccountService) Authenticate(ctx context.Context, header string) (domain.User, error) {
	invalid := domain.Unauthorized(domain.MsgInvalidToken)

	raw, err := auth.BearerToken(header)
	if err != nil {
		return domain.User{}, invalid
	}
	claims, err := s.issuer.Parse(raw)
	if err != nil {
		return domain.User{}, invalid
	}
	userID, err := claims.UserID()
	if err != nil {
		return domain.User{}, invalid
	}

	current, ok, err := s.sessions.Current(ctx, userID)
	if err != nil {
		return domain.User{}, domain.Internal(err)
	}
	if !ok || current != claims.ID {
		return domain.User{}, invalid
	}

	user, err := s.users.UserByID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, invalid
	}
	if err != nil {
		return domain.User{}, domain.Internal(err)
	}
	return user, nil
}

// ValidateToken reports whether the header resolves to a user and that user's role.
func (s *AccountService) ValidateToken(ctx context.Context, header string) (TokenStatus, error) {
	user, err := s.Authenticate(ctx, header)
	if domain.IsKind(err, domain.KindUnauthorized) {
		return TokenStatus{Valid: false, Role: domain.RoleUnknown}, nil
	}
	if err != nil {
		return TokenStatus{}, err
	}
	return TokenStatus{Valid: true, Role: user.Role}, nil
}

// RequireRole fails with access denied when the user does not have role.
func RequireRole(user domain.User, role domain.Role) error {
	if user.Role != role {
		return domain.Forbidden(domain.MsgAccessDenied)
	}
	return nil
}
