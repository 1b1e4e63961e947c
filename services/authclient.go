package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/staffcircle/backend/errs"
)

// IdentityJob is one job assignment on a corporate identity record. The
// organization code doubles as the store code in this system.
type IdentityJob struct {
	OrgCode string `json:"orgcode"`
}

// IdentityUser is the employee record returned by the corporate identity API.
type IdentityUser struct {
	Account string        `json:"account"`
	Name    string        `json:"name"`
	Jobs    []IdentityJob `json:"jobs"`
}

// OrgCode returns the employee's primary organization code, or "000" when the
// record carries no job assignment.
func (u IdentityUser) OrgCode() string {
	if len(u.Jobs) > 0 && u.Jobs[0].OrgCode != "" {
		return u.Jobs[0].OrgCode
	}
	return "000"
}

type identityRequest struct {
	Account  string `json:"account"`
	Password string `json:"password"`
	SystemID string `json:"systemid"`
	ClientID string `json:"clientid"`
}

type identityResponse struct {
	Successed string        `json:"successed"`
	User      *IdentityUser `json:"user"`
}

// IdentityClient authenticates employees against the corporate identity API.
// The API expects an md5 hex digest of the password, never the plaintext.
type IdentityClient struct {
	http     *resty.Client
	systemID string
	clientID string
	logger   zerolog.Logger
}

func NewIdentityClient(baseURL, systemID, clientID string) *IdentityClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetHeader("Content-Type", "application/json")

	return &IdentityClient{
		http:     client,
		systemID: systemID,
		clientID: clientID,
		logger:   log.With().Str("serviceName", "identityClient").Logger(),
	}
}

// MD5Hex returns the lowercase md5 hex digest the identity API expects.
func MD5Hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Authenticate verifies an account/password-digest pair against the identity
// API. A rejected credential yields an unauthorized error; transport failures
// surface as internal errors so the caller can tell them apart.
func (c *IdentityClient) Authenticate(ctx context.Context, account, passwordMD5 string) (*IdentityUser, error) {
	var body identityResponse

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(identityRequest{
			Account:  account,
			Password: passwordMD5,
			SystemID: c.systemID,
			ClientID: c.clientID,
		}).
		SetResult(&body).
		Post("/Apps/authentication/authenticate")
	if err != nil {
		c.logger.Error().Err(err).Str("account", account).Msg("identity API request failed")
		return nil, errs.NewInternalErrorWithCause("identity API unavailable", err)
	}
	if resp.IsError() {
		c.logger.Error().Int("status", resp.StatusCode()).Str("account", account).Msg("identity API returned an error status")
		return nil, errs.NewInternalError("identity API returned an error status")
	}

	// The API reports success as the string "0".
	if body.Successed != "0" || body.User == nil {
		return nil, errs.NewUnauthorizedError("authentication rejected by identity API")
	}
	return body.User, nil
}
