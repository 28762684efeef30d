package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/billing-console/internal/auth"
	"github.com/spec-kit/billing-console/internal/config"
	"github.com/spec-kit/billing-console/internal/domain"
	"github.com/spec-kit/billing-console/internal/events"
	"github.com/spec-kit/billing-console/internal/repository"
	apperrors "github.com/spec-kit/billing-console/pkg/util"
)

// AuthService coordinates interactive login and logout for both principal
// kinds. A successful login yields both credential transports: a bearer
// token and a server-side session.
type AuthService struct {
	operators   repository.OperatorRepository
	subscribers repository.SubscriberRepository
	sessions    auth.SessionStore
	codec       *auth.TokenCodec
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// AuthDependencies bundles collaborator requirements for the auth service.
type AuthDependencies struct {
	Operators   repository.OperatorRepository
	Subscribers repository.SubscriberRepository
	Sessions    auth.SessionStore
	Dispatcher  events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies, logger *zap.Logger) *AuthService {
	return &AuthService{
		operators:   deps.Operators,
		subscribers: deps.Subscribers,
		sessions:    deps.Sessions,
		codec:       auth.NewTokenCodec(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		dispatcher:  deps.Dispatcher,
		logger:      logger,
	}
}

// LoginResult carries everything a login handler needs to answer.
type LoginResult struct {
	Principal *domain.Principal
	Token     string
	ExpiresAt time.Time
	SessionID string
}

// LoginOperator authenticates an operator by username and password.
func (s *AuthService) LoginOperator(ctx context.Context, username, password string) (*LoginResult, error) {
	operator, err := s.operators.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if operator.Status != domain.StatusActive {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(operator.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	principal := &domain.Principal{Kind: domain.PrincipalKindOperator, Operator: operator}
	result, err := s.establish(ctx, principal)
	if err != nil {
		return nil, err
	}

	if err := s.operators.UpdateLastLogin(ctx, operator.ID); err != nil {
		s.logger.Warn("failed to update last login", zap.Int64("operator_id", operator.ID), zap.Error(err))
	}

	s.publishLogin(ctx, events.EventOperatorLogin, principal, username)
	return result, nil
}

// LoginSubscriber authenticates a subscriber by username and password.
func (s *AuthService) LoginSubscriber(ctx context.Context, username, password string) (*LoginResult, error) {
	subscriber, err := s.subscribers.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, err
	}
	if subscriber.Status != domain.StatusActive {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(subscriber.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}

	principal := &domain.Principal{Kind: domain.PrincipalKindSubscriber, Subscriber: subscriber}
	result, err := s.establish(ctx, principal)
	if err != nil {
		return nil, err
	}

	s.publishLogin(ctx, events.EventSubscriberLogin, principal, username)
	return result, nil
}

// establish issues the bearer token and creates the session. A session
// store outage does not fail the login; the bearer transport still works.
func (s *AuthService) establish(ctx context.Context, principal *domain.Principal) (*LoginResult, error) {
	token, expiresAt, err := s.codec.Issue(principal.ID(), principal.Kind)
	if err != nil {
		return nil, err
	}

	sessionID, err := s.sessions.Create(ctx, auth.SessionSummary{
		PrincipalID: principal.ID(),
		Kind:        principal.Kind,
		Role:        principal.Role(),
	})
	if err != nil {
		s.logger.Warn("session create failed; continuing with bearer only", zap.Error(err))
		sessionID = ""
	}

	return &LoginResult{
		Principal: principal,
		Token:     token,
		ExpiresAt: expiresAt,
		SessionID: sessionID,
	}, nil
}

// Logout destroys the session; an absent or already-destroyed session is
// not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string, actor *domain.Principal) error {
	if sessionID != "" {
		if err := s.sessions.Destroy(ctx, sessionID); err != nil {
			return err
		}
	}
	if s.dispatcher != nil && actor != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:        uuid.NewString(),
			Type:      events.EventLogout,
			Actor:     events.Actor{Kind: actor.Kind, ID: actor.ID()},
			Timestamp: time.Now(),
		})
	}
	return nil
}

// Codec exposes the token codec for middleware wiring.
func (s *AuthService) Codec() *auth.TokenCodec {
	return s.codec
}

func (s *AuthService) publishLogin(ctx context.Context, eventType events.EventType, principal *domain.Principal, username string) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     events.Actor{Kind: principal.Kind, ID: principal.ID()},
		Timestamp: time.Now(),
		Payload:   events.LoginPayload{Username: username},
	})
}
