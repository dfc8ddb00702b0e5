package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"

	"github.com/devfolio/projects-api/config"
	"github.com/devfolio/projects-api/errs"
)

const (
	defaultVerifyTimeout = 5 * time.Second
	// expiryLeeway absorbs clock skew between this service and the token issuer.
	expiryLeeway = time.Minute
)

// AdminVerifier decides whether a bearer token belongs to an administrator. Identity comes from
// an external verification endpoint; admin rights come from a static allow-list.
type AdminVerifier struct {
	verifyURL string
	admins    map[string]struct{}
	timeout   time.Duration
	client    *http.Client
	breaker   *gobreaker.CircuitBreaker
	logger    zerolog.Logger
}

type VerifierOption func(*AdminVerifier)

// WithHTTPClient replaces the client used to reach the verification endpoint.
func WithHTTPClient(client *http.Client) VerifierOption {
	return func(v *AdminVerifier) {
		v.client = client
	}
}

func NewAdminVerifier(settings config.AuthSettings, opts ...VerifierOption) *AdminVerifier {
	logger := log.With().Str("handlerName", "adminVerifier").Logger()

	timeout := settings.VerifyTimeout
	if timeout <= 0 {
		timeout = defaultVerifyTimeout
	}

	admins := make(map[string]struct{}, len(settings.Admins))
	for _, a := range settings.Admins {
		admins[a] = struct{}{}
	}

	v := &AdminVerifier{
		verifyURL: settings.VerifyURL,
		admins:    admins,
		timeout:   timeout,
		client:    &http.Client{},
		logger:    logger,
	}
	v.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "verify-service-cb",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})

	for _, opt := range opts {
		opt(v)
	}
	return v
}

type verifyResponse struct {
	status   int
	username string
}

// Authorize returns the admin's username when the Authorization header is accepted, and an
// unauthorized ApiErr otherwise.
func (v *AdminVerifier) Authorize(ctx context.Context, authHeader string) (string, error) {
	if authHeader == "" {
		return "", errs.NewMissingTokenError()
	}
	if isLongExpired(authHeader, time.Now()) {
		return "", errs.NewExpiredTokenError()
	}

	result, err := v.breaker.Execute(func() (interface{}, error) {
		return v.verify(ctx, authHeader)
	})
	if err != nil {
		v.logger.Warn().Err(err).Msg("Token verification unavailable")
		return "", errs.NewVerificationUnavailableError(err)
	}

	res := result.(verifyResponse)
	if res.status != http.StatusOK {
		return "", errs.NewVerificationRejectedError(res.status)
	}
	if _, ok := v.admins[res.username]; !ok || res.username == "" {
		v.logger.Info().Str("username", res.username).Msg("Denied non-admin user")
		return "", errs.NewNotAdminError(res.username)
	}
	return res.username, nil
}

// isLongExpired reports whether the header carries a bearer JWT whose exp lies further in the
// past than expiryLeeway. Anything else, opaque tokens included, is left to the verification service.
func isLongExpired(authHeader string, now time.Time) bool {
	token, ok := strings.CutPrefix(authHeader, "Bearer ")
	if !ok {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(token), claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now.Add(-expiryLeeway))
}

// verify calls the verification endpoint. Only transport failures and 5xx answers are returned
// as errors so that the breaker counts them.
func (v *AdminVerifier) verify(ctx context.Context, authHeader string) (verifyResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.verifyURL, nil)
	if err != nil {
		return verifyResponse{}, err
	}
	req.Header.Set("Authorization", authHeader)

	resp, err := v.client.Do(req)
	if err != nil {
		return verifyResponse{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return verifyResponse{}, fmt.Errorf("verification service returned %d", resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return verifyResponse{status: resp.StatusCode}, nil
	}

	var body struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		v.logger.Warn().Err(err).Msg("Unreadable verification response")
		return verifyResponse{status: http.StatusUnprocessableEntity}, nil
	}
	return verifyResponse{status: http.StatusOK, username: body.Username}, nil
}
