package users

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/echoverse/internal/auth"
	"github.com/dmitrijs2005/echoverse/internal/common"
	"github.com/dmitrijs2005/echoverse/internal/config"
	"github.com/dmitrijs2005/echoverse/internal/cryptox"
	"github.com/dmitrijs2005/echoverse/internal/logging"
	"github.com/dmitrijs2005/echoverse/internal/models"
	"github.com/dmitrijs2005/echoverse/internal/timex"
)

const saltSize = 16

// Service registers accounts and turns credentials into an Identity.
// Passwords are never stored: the repository keeps an argon2 salt and a
// verifier of the derived master key.
type Service struct {
	repo             Repository
	clock            timex.Clock
	logger           logging.Logger
	jwtSecret        []byte
	validityDuration time.Duration
}

func NewService(repo Repository, cfg *config.Config, clock timex.Clock, logger logging.Logger) *Service {
	return &Service{
		repo:             repo,
		clock:            clock,
		logger:           logger,
		jwtSecret:        []byte(cfg.SecretKey),
		validityDuration: cfg.TokenValidityDuration,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates an account. It fails with common.ErrorValidation for an
// empty email or password and common.ErrorDuplicateEmail for a taken email.
func (s *Service) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}

	salt := common.GenerateRandByteArray(saltSize)
	key := cryptox.DeriveMasterKey([]byte(password), salt)
	defer common.WipeByteArray(key)

	u, err := s.repo.Create(ctx, &models.User{
		Email:     email,
		Salt:      salt,
		Verifier:  cryptox.MakeVerifier(key),
		CreatedAt: s.clock.Now(),
	})
	if err != nil {
		if errors.Is(err, common.ErrorDuplicateEmail) {
			return nil, fmt.Errorf("%w: %s", common.ErrorDuplicateEmail, email)
		}
		s.logger.Error(ctx, "create user failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Authenticate checks the credentials and returns an Identity carrying a
// fresh token and the master key. Unknown emails and wrong passwords both
// yield common.ErrorUnauthorized.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.Identity, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, common.ErrorUnauthorized
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		s.logger.Error(ctx, "lookup user failed", "error", err)
		return nil, common.ErrorInternal
	}

	key := cryptox.DeriveMasterKey([]byte(password), u.Salt)
	if !s.checkVerifier(u.Verifier, cryptox.MakeVerifier(key)) {
		common.WipeByteArray(key)
		return nil, common.ErrorUnauthorized
	}

	token, err := auth.GenerateToken(u.ID, u.Email, s.jwtSecret, s.validityDuration)
	if err != nil {
		common.WipeByteArray(key)
		return nil, common.ErrorInternal
	}

	return &models.Identity{
		UserID:    u.ID,
		Email:     u.Email,
		Token:     token,
		MasterKey: key,
	}, nil
}

// VerifyToken returns the user id a token was issued for.
func (s *Service) VerifyToken(token string) (string, error) {
	return auth.GetUserIDFromToken(token, s.jwtSecret)
}

// SeedDemo registers the demo account unless it already exists.
func (s *Service) SeedDemo(ctx context.Context) error {
	_, err := s.Register(ctx, common.DemoEmail, common.DemoPassword)
	if err != nil && !errors.Is(err, common.ErrorDuplicateEmail) {
		return err
	}
	return nil
}

func (s *Service) checkVerifier(verifier, candidate []byte) bool {
	return subtle.ConstantTimeCompare(verifier, candidate) == 1
}
