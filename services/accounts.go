package services

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/staffcircle/backend/errs"
	"github.com/staffcircle/backend/models"
	"golang.org/x/crypto/bcrypt"
)

// defaultPIN is the placeholder credential stored for accounts provisioned
// from the identity API; those accounts always re-authenticate externally.
const defaultPIN = "000000"

// AccountStore is the slice of the user repository the login flows need.
type AccountStore interface {
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Add(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
}

// IdentityVerifier abstracts the corporate identity API for tests.
type IdentityVerifier interface {
	Authenticate(ctx context.Context, account, passwordMD5 string) (*IdentityUser, error)
}

// LoginResult is the successful-login payload.
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

type AccountService struct {
	users    AccountStore
	identity IdentityVerifier
	tokens   *TokenIssuer
	logger   zerolog.Logger
}

func NewAccountService(users AccountStore, identity IdentityVerifier, tokens *TokenIssuer) *AccountService {
	return &AccountService{
		users:    users,
		identity: identity,
		tokens:   tokens,
		logger:   log.With().Str("serviceName", "accountService").Logger(),
	}
}

// Login authenticates a username/password pair. Locally provisioned accounts
// are checked against their bcrypt hash; everyone else goes through the
// corporate identity API, which receives an md5 digest of the password. A
// first successful external login provisions the local account; later logins
// refresh the display name and store code from the identity record.
func (s *AccountService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	if username == "" {
		return nil, errs.NewMissingRequiredFieldError("username")
	}
	if password == "" {
		return nil, errs.NewMissingRequiredFieldError("password")
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}

	// Local credential check first; external accounts carry the default PIN
	// hash, so a real local password match never collides with them.
	if user != nil && password != defaultPIN {
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil {
			return s.issue(user)
		}
	}

	identityUser, err := s.identity.Authenticate(ctx, username, MD5Hex(password))
	if err != nil {
		return nil, err
	}

	storeCode := identityUser.OrgCode()
	if user != nil {
		user.DisplayName = identityUser.Name
		user.StoreCode = &storeCode
		if err := s.users.Update(ctx, user); err != nil {
			return nil, errs.NewDatabaseError("update", "user", err)
		}
		return s.issue(user)
	}

	user, err = s.provision(ctx, identityUser.Account, identityUser.Name, storeCode)
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

// BarcodeLogin signs in an employee from a scanned badge barcode. A known
// barcode logs straight in; an unknown one is resolved against the identity
// API and provisioned on the spot.
func (s *AccountService) BarcodeLogin(ctx context.Context, barcode string) (*LoginResult, error) {
	if barcode == "" {
		return nil, errs.NewMissingRequiredFieldError("barcode")
	}

	user, err := s.users.FindByUsername(ctx, barcode)
	if err != nil {
		return nil, errs.NewDatabaseError("find", "user", err)
	}
	if user != nil {
		return s.issue(user)
	}

	identityUser, err := s.identity.Authenticate(ctx, barcode, MD5Hex(defaultPIN))
	if err != nil {
		return nil, err
	}

	user, err = s.provision(ctx, identityUser.Account, identityUser.Name, identityUser.OrgCode())
	if err != nil {
		return nil, err
	}
	return s.issue(user)
}

func (s *AccountService) provision(ctx context.Context, username, displayName, storeCode string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(defaultPIN), bcrypt.DefaultCost)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("hashing default credential", err)
	}

	user := &models.User{
		Username:    username,
		Password:    string(hash),
		DisplayName: displayName,
		StoreCode:   &storeCode,
	}
	if err := s.users.Add(ctx, user); err != nil {
		if errs.IsDuplicateKey(err) {
			// Concurrent first login for the same employee; reuse the row the
			// other request created.
			existing, findErr := s.users.FindByUsername(ctx, username)
			if findErr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, errs.NewDatabaseError("create", "user", err)
	}

	s.logger.Info().Str("username", username).Str("storeCode", storeCode).Msg("provisioned account from identity API")
	return user, nil
}

func (s *AccountService) issue(user *models.User) (*LoginResult, error) {
	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, errs.NewInternalErrorWithCause("signing session token", err)
	}
	return &LoginResult{Token: token, User: user}, nil
}
