package service

import (
	"context"
	"errors"
	"time"

	"expoflow/internal/model"
	"expoflow/internal/repository"
	"expoflow/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// --- DTOs ---

type IssueTokenRequest struct {
	ActorID string `json:"actor_id" binding:"required"`
}

type TokenResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	Actor     model.Actor `json:"actor"`
}

// --- Interface ---

// ActorService resolves request identities against the preloaded actors.
// Tokens are demo bearer tokens: HS256, sub = actor id.
type ActorService interface {
	ListActors(ctx context.Context) []model.Actor
	Resolve(ctx context.Context, actorID string) (model.Actor, error)
	IssueToken(ctx context.Context, req IssueTokenRequest) (*TokenResponse, error)
	ParseToken(ctx context.Context, token string) (model.Actor, error)
}

type actorService struct {
	base
	store  *repository.Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewActorService(store *repository.Store, secret []byte, ttl time.Duration, logger *zap.Logger) ActorService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &actorService{
		base:   newBase(logger, nil),
		store:  store,
		secret: secret,
		ttl:    ttl,
		now:    time.Now,
	}
}

func (s *actorService) ListActors(ctx context.Context) []model.Actor {
	return s.store.ListActors()
}

// Resolve maps an actor id to its actor. Unknown ids are Unauthenticated,
// never NotFound, so callers cannot probe the actor table.
func (s *actorService) Resolve(ctx context.Context, actorID string) (model.Actor, error) {
	if actorID == "" {
		return model.Actor{}, apperror.Unauthenticated("no actor supplied")
	}
	actor, err := s.store.GetActor(actorID)
	if err != nil {
		return model.Actor{}, apperror.Unauthenticated("unknown actor %q", actorID)
	}
	return actor, nil
}

func (s *actorService) IssueToken(ctx context.Context, req IssueTokenRequest) (*TokenResponse, error) {
	actor, err := s.Resolve(ctx, req.ActorID)
	if err != nil {
		return nil, err
	}

	issued := s.now()
	expires := issued.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   actor.ID,
		IssuedAt:  jwt.NewNumericDate(issued),
		ExpiresAt: jwt.NewNumericDate(expires),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Token issued", actorFields(&actor)...)
	return &TokenResponse{Token: signed, ExpiresAt: expires.UTC(), Actor: actor}, nil
}

// ParseToken verifies a bearer token and resolves its subject. The role is
// always read from the actor table, not from the token.
func (s *actorService) ParseToken(ctx context.Context, tokenString string) (model.Actor, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.Actor{}, apperror.Unauthenticated("token expired")
		}
		return model.Actor{}, apperror.Unauthenticated("invalid token")
	}
	return s.Resolve(ctx, claims.Subject)
}
