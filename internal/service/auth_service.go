package service

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"transit_ops/internal/apperrors"
	"transit_ops/internal/dto"
	"transit_ops/internal/models"
	"transit_ops/internal/policy"
	"transit_ops/internal/repository"
)

const invalidCredentials = "invalid email or password"

type AuthService struct {
	store  *repository.Store
	tokens *TokenService
}

func NewAuthService(store *repository.Store, tokens *TokenService) *AuthService {
	return &AuthService{store: store, tokens: tokens}
}

// Session checks the credentials and issues an access token.
func (s *AuthService) Session(ctx context.Context, req dto.SessionRequest) (*dto.SessionResponse, error) {
	user, err := s.store.UserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.Validation(invalidCredentials)
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperrors.Validation(invalidCredentials)
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": user.Role}).Info("session opened")
	return &dto.SessionResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     user.Role,
		Email:    user.Email,
		MyAdmin:  user.MyAdmin,
		Agencies: user.AgencyIDs(),
		Token:    dto.TokenInfo{Data: token, ExpiresIn: expiresAt.Unix()},
	}, nil
}

// Authenticate verifies a bearer token and resolves the live user behind it.
func (s *AuthService) Authenticate(ctx context.Context, raw string) (*policy.Caller, error) {
	if raw == "" {
		return nil, apperrors.Authentication("not authorized, no token")
	}
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, err
	}
	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperrors.Authentication("user no longer exists")
		}
		return nil, err
	}
	caller := CallerFromUser(user)
	return &caller, nil
}

func CallerFromUser(u *models.User) policy.Caller {
	return policy.Caller{
		ID:        u.ID,
		Role:      policy.Role(u.Role),
		Email:     u.Email,
		MyAdmin:   u.MyAdmin,
		AgencyIDs: u.AgencyIDs(),
	}
}
