package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"tourbooking/internal/domain"
	"tourbooking/internal/pkg/validator"
	"tourbooking/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Service contains all business logic for authentication
type Service struct {
	users      UserRepositoryInterface
	sessions   SessionRepositoryInterface
	jwt        jwtService
	sessionTTL time.Duration
	codeTTL    time.Duration
	now        func() time.Time
}

func NewService(
	users UserRepositoryInterface,
	sessions SessionRepositoryInterface,
	jwt jwtService,
	sessionTTL time.Duration,
	codeTTL time.Duration,
) *Service {
	return &Service{
		users:      users,
		sessions:   sessions,
		jwt:        jwt,
		sessionTTL: sessionTTL,
		codeTTL:    codeTTL,
		now:        time.Now,
	}
}

func (s *Service) Signup(ctx context.Context, req SignupRequest) (*SessionResult, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, errs)
	}

	hashedPassword, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hashedPassword,
		Name:         strings.TrimSpace(req.Name),
		Role:         domain.RoleCustomer,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailAlreadyExists
		}
		return nil, err
	}

	return s.openSession(ctx, user)
}

func (s *Service) Signin(ctx context.Context, req SigninRequest) (*SessionResult, error) {
	if errs := validator.Validate(req); errs != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, errs)
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.openSession(ctx, user)
}

// Session describes the caller's current session.
func (s *Service) Session(ctx context.Context, sessionID, userID string) (*SessionInfo, error) {
	sess, err := s.activeSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.UserID != userID {
		return nil, ErrUnauthorized
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	return &SessionInfo{User: toPublic(user), SessionID: sess.ID, ExpiresAt: sess.ExpiresAt}, nil
}

// Signout revokes the session; tokens bound to it stop authenticating.
func (s *Service) Signout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return ErrUnauthorized
	}
	return s.sessions.Revoke(ctx, sessionID)
}

// SessionActive is used by the auth middleware on every authenticated request.
func (s *Service) SessionActive(ctx context.Context, sessionID string) (bool, error) {
	_, err := s.activeSession(ctx, sessionID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrUnauthorized):
		return false, nil
	default:
		return false, err
	}
}

// IssueCode creates a one-time code that another client can exchange for
// its own session of the same user. Only the code's hash is stored.
func (s *Service) IssueCode(ctx context.Context, userID string) (*CodeResult, error) {
	if userID == "" {
		return nil, ErrUnauthorized
	}

	raw, hash, err := generateCode()
	if err != nil {
		return nil, err
	}
	expiresAt := s.now().Add(s.codeTTL).UTC()

	if err := s.sessions.CreateCode(ctx, &domain.AuthCode{
		Code:      hash,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}); err != nil {
		return nil, err
	}
	return &CodeResult{Code: raw, ExpiresAt: expiresAt}, nil
}

// Exchange redeems a code exactly once.
func (s *Service) Exchange(ctx context.Context, req ExchangeRequest) (*SessionResult, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: code is required", ErrValidation)
	}

	userID, err := s.sessions.ConsumeCode(ctx, hashCode(code), s.now())
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCode
		}
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCode
		}
		return nil, err
	}
	return s.openSession(ctx, user)
}

func (s *Service) openSession(ctx context.Context, user *domain.User) (*SessionResult, error) {
	sess := &domain.Session{
		UserID:    user.ID,
		ExpiresAt: s.now().Add(s.sessionTTL).UTC(),
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}

	token, err := s.jwt.GenerateToken(sess.ID, user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}
	return &SessionResult{User: toPublic(user), AccessToken: token, ExpiresAt: sess.ExpiresAt}, nil
}

func (s *Service) activeSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	if sessionID == "" {
		return nil, ErrUnauthorized
	}
	sess, err := s.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if !sess.Active(s.now()) {
		return nil, ErrUnauthorized
	}
	return sess, nil
}

func (s *Service) hashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func generateCode() (raw string, hash string, err error) {
	buf := make([]byte, 24)
	if _, err = rand.Read(buf); err != nil {
		return "", "", err
	}
	raw = hex.EncodeToString(buf)
	return raw, hashCode(raw), nil
}

func hashCode(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
