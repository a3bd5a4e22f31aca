package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/deskflow/helpdesk/internal/auth"
	"github.com/deskflow/helpdesk/internal/domain"
)

// AuthService logs callers into the desk and issues session tokens for transports.
type AuthService struct {
	desk     *Desk
	tokenMgr *auth.TokenManager
	logger   *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(desk *Desk, tokens *auth.TokenManager, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{desk: desk, tokenMgr: tokens, logger: logger}
}

// Login resolves the user through the directory and signs a token for the resulting session.
func (s *AuthService) Login(ctx context.Context, username string, roleHint domain.Role) (domain.Session, domain.AccessToken, error) {
	sess, err := s.desk.Login(ctx, username, roleHint)
	if err != nil {
		return domain.Session{}, domain.AccessToken{}, err
	}
	token, err := s.tokenMgr.GenerateToken(sess)
	if err != nil {
		return domain.Session{}, domain.AccessToken{}, err
	}
	s.logger.Debug("session token issued", zap.String("username", sess.Username), zap.String("role", string(sess.Role)))
	return sess, token, nil
}

// Logout currently no-ops for stateless JWT approach.
func (s *AuthService) Logout(_ context.Context, _ domain.Session) error {
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
