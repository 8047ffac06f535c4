// Package services contains server-side business logic. This file implements
// AccountService, which orchestrates the user store, the session store, and
// the crypto/token helpers to provide the account lifecycle: signup, login,
// logout, token refresh, password change, profile changes, deletion, and
// social signup.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/accountd/internal/common"
	"github.com/dmitrijs2005/accountd/internal/server/auth"
	"github.com/dmitrijs2005/accountd/internal/server/config"
	"github.com/dmitrijs2005/accountd/internal/server/models"
	"github.com/dmitrijs2005/accountd/internal/server/password"
	"github.com/dmitrijs2005/accountd/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
// The access token is never persisted; the refresh token is stored as the
// user's single session.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Candidate is the validated input for Signup and SocialLogin.
type Candidate struct {
	Email    string
	Password string
	Name     string
}

// validate checks required fields before the candidate reaches the core.
// Local signups must carry a password; social signups must not, since the
// identity provider supplies no credential.
func (c *Candidate) validate(requirePassword bool) error {
	if c.Email == "" {
		return fmt.Errorf("%w: email is required", common.ErrorValidation)
	}
	if requirePassword && c.Password == "" {
		return fmt.Errorf("%w: password is required", common.ErrorValidation)
	}
	if !requirePassword && c.Password != "" {
		return fmt.Errorf("%w: social candidate must not carry a password", common.ErrorValidation)
	}
	return nil
}

// AccountService provides account lifecycle operations.
//
// Expected negative outcomes (duplicate email, wrong password, nothing to
// change) are returned as false/nil results, never as errors. Store or
// crypto failures propagate as a single wrapped error naming the operation.
// Two concurrent logins for the same user race on the session
// delete-then-create pair; the last writer wins and the earlier refresh
// token is silently invalidated.
type AccountService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
}

// NewAccountService constructs an AccountService using repositories and
// server config.
func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *AccountService {
	return &AccountService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
	}
}

// wrap is the single error-wrapping adapter applied to every public
// operation: any underlying failure surfaces as one service-level error
// identifying the operation and the original cause.
func (s *AccountService) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("accountservice %s: %w", op, err)
}

// Signup registers a new local account. It returns false when the email is
// already registered, true after the user has been persisted with a freshly
// salted credential.
func (s *AccountService) Signup(ctx context.Context, candidate *Candidate) (bool, error) {
	ok, err := s.signup(ctx, candidate)
	return ok, s.wrap("signup", err)
}

func (s *AccountService) signup(ctx context.Context, candidate *Candidate) (bool, error) {
	if err := candidate.validate(true); err != nil {
		return false, err
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, candidate.Email)
	if err == nil {
		// already registered
		return false, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return false, err
	}

	hash, salt := password.Hash([]byte(candidate.Password))

	user := &models.User{
		Email:    candidate.Email,
		Name:     candidate.Name,
		Hash:     hash,
		Salt:     salt,
		Provider: models.ProviderLocal,
	}

	if _, err := repo.Create(ctx, user); err != nil {
		return false, err
	}

	return true, nil
}

// Login verifies credentials and, on success, mints a fresh token pair and
// replaces any existing session. It returns (nil, nil) on unknown email or
// wrong password; callers cannot tell the two apart.
func (s *AccountService) Login(ctx context.Context, email string, pwd string) (*TokenPair, error) {
	pair, err := s.login(ctx, email, pwd)
	return pair, s.wrap("login", err)
}

func (s *AccountService) login(ctx context.Context, email string, pwd string) (*TokenPair, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if !password.Verify(user.Hash, user.Salt, []byte(pwd)) {
		return nil, nil
	}

	return s.issueTokenPair(ctx, user.ID)
}

// Logout deletes the user's session. It is idempotent: logging out a user
// with no session succeeds.
func (s *AccountService) Logout(ctx context.Context, userID string) (bool, error) {
	err := s.repomanager.Sessions(s.db).Delete(ctx, userID)
	if err != nil {
		return false, s.wrap("logout", err)
	}
	return true, nil
}

// RefreshAccessToken re-mints an access token for an already-authenticated
// user. The session row is untouched; verifying the presented refresh token
// is the transport layer's responsibility.
func (s *AccountService) RefreshAccessToken(ctx context.Context, userID string) (string, error) {
	token, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", s.wrap("refresh access token", err)
	}
	return token, nil
}

// ChangePassword replaces the user's credential after verifying the old
// password. The new password must differ from the old one; otherwise, or on
// verification failure, it returns false and leaves the credential intact.
func (s *AccountService) ChangePassword(ctx context.Context, email string, oldPwd string, newPwd string) (bool, error) {
	ok, err := s.changePassword(ctx, email, oldPwd, newPwd)
	return ok, s.wrap("change password", err)
}

func (s *AccountService) changePassword(ctx context.Context, email string, oldPwd string, newPwd string) (bool, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}

	if !password.Verify(user.Hash, user.Salt, []byte(oldPwd)) || oldPwd == newPwd {
		return false, nil
	}

	salt := password.NewSalt()
	hash := password.HashWithSalt([]byte(newPwd), salt)

	// hash and salt are replaced in a single statement so they can never
	// go out of sync.
	if err := repo.UpdatePassword(ctx, user.ID, hash, salt); err != nil {
		return false, err
	}

	return true, nil
}

// ChangeUserInfo updates the display name, the email, or both, depending on
// which arguments are non-empty. With neither supplied it returns false and
// performs no store call.
func (s *AccountService) ChangeUserInfo(ctx context.Context, email string, newName string, newEmail string) (bool, error) {
	ok, err := s.changeUserInfo(ctx, email, newName, newEmail)
	return ok, s.wrap("change user info", err)
}

func (s *AccountService) changeUserInfo(ctx context.Context, email string, newName string, newEmail string) (bool, error) {
	if newName == "" && newEmail == "" {
		// nothing to change
		return false, nil
	}

	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}

	switch {
	case newName != "" && newEmail != "":
		err = repo.UpdateAll(ctx, user.ID, newName, newEmail)
	case newName != "":
		err = repo.UpdateName(ctx, user.ID, newName)
	default:
		err = repo.UpdateEmail(ctx, user.ID, newEmail)
	}
	if err != nil {
		return false, err
	}

	return true, nil
}

// DeleteUser removes the account after verifying the password. The session
// is removed first; with the Postgres session store the schema's cascade
// would cover it, but the session may live in Redis.
func (s *AccountService) DeleteUser(ctx context.Context, email string, pwd string) (bool, error) {
	ok, err := s.deleteUser(ctx, email, pwd)
	return ok, s.wrap("delete user", err)
}

func (s *AccountService) deleteUser(ctx context.Context, email string, pwd string) (bool, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}

	if !password.Verify(user.Hash, user.Salt, []byte(pwd)) {
		return false, nil
	}

	if err := s.repomanager.Sessions(s.db).Delete(ctx, user.ID); err != nil {
		return false, err
	}

	if err := repo.Delete(ctx, user); err != nil {
		return false, err
	}

	return true, nil
}

// MyPage returns the read-only profile projection for the user at email.
// Hash and salt never leave the service.
func (s *AccountService) MyPage(ctx context.Context, email string) (*models.Profile, error) {
	user, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	if err != nil {
		return nil, s.wrap("my page", err)
	}
	return models.ProfileOf(user), nil
}

// SocialLogin registers an account for a social identity and logs it in.
// It returns (nil, nil) when the email is already registered: social signup
// is one-shot, not an upsert-login. The stored credential is a random
// unusable secret, so the account cannot be entered with a password.
func (s *AccountService) SocialLogin(ctx context.Context, candidate *Candidate) (*TokenPair, error) {
	pair, err := s.socialLogin(ctx, candidate)
	return pair, s.wrap("social login", err)
}

func (s *AccountService) socialLogin(ctx context.Context, candidate *Candidate) (*TokenPair, error) {
	if err := candidate.validate(false); err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.db)

	_, err := repo.GetByEmail(ctx, candidate.Email)
	if err == nil {
		// already linked/registered
		return nil, nil
	}
	if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	placeholder, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, err
	}
	hash, salt := password.Hash([]byte(placeholder))

	user := &models.User{
		Email:    candidate.Email,
		Name:     candidate.Name,
		Hash:     hash,
		Salt:     salt,
		Provider: models.ProviderSocial,
	}

	if _, err := repo.Create(ctx, user); err != nil {
		return nil, err
	}

	// re-fetch to obtain the generated id
	user, err = repo.GetByEmail(ctx, candidate.Email)
	if err != nil {
		return nil, err
	}

	return s.issueTokenPair(ctx, user.ID)
}

// issueTokenPair mints access and refresh tokens for userID and replaces
// the user's session: any existing row is deleted before the new one is
// inserted, keeping at most one live session per user.
func (s *AccountService) issueTokenPair(ctx context.Context, userID string) (*TokenPair, error) {
	accessToken, err := auth.GenerateToken(userID, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, err
	}

	refreshToken, err := auth.GenerateToken(userID, s.jwtSecret, s.refreshTokenValidityDuration)
	if err != nil {
		return nil, err
	}

	sessionRepo := s.repomanager.Sessions(s.db)

	if _, err := sessionRepo.Get(ctx, userID); err == nil {
		if err := sessionRepo.Delete(ctx, userID); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, common.ErrorNotFound) {
		return nil, err
	}

	if err := sessionRepo.Create(ctx, userID, refreshToken, s.refreshTokenValidityDuration); err != nil {
		return nil, err
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
