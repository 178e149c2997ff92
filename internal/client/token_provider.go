package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"asset_dashboard/internal/app/port"
	"asset_dashboard/internal/config"
	"asset_dashboard/pkg/metrics"
)

// tokenResponse is the token endpoint's JSON body.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

// oauthTokenProvider implements port.TokenProvider with a client-credentials
// grant and a process-local cache. The clock is injectable so expiry logic is
// testable; reads are lock-protected and refreshes are collapsed through
// singleflight, so at most one refresh is in flight at a time.
type oauthTokenProvider struct {
	client *fasthttp.Client
	cfg    config.AuthConfig
	logger *zap.Logger
	now    func() time.Time

	mu        sync.RWMutex
	token     string
	expiresAt time.Time

	group singleflight.Group
}

// NewOAuthTokenProvider creates a token provider for the configured token
// endpoint. now may be nil, defaulting to time.Now.
func NewOAuthTokenProvider(cfg config.AuthConfig, logger *zap.Logger, now func() time.Time) port.TokenProvider {
	if now == nil {
		now = time.Now
	}
	return &oauthTokenProvider{
		client: &fasthttp.Client{},
		cfg:    cfg,
		logger: logger.Named("OAuthTokenProvider"),
		now:    now,
	}
}

// AccessToken returns the cached bearer token, refreshing it when it is
// within the configured leeway of expiry.
func (p *oauthTokenProvider) AccessToken(ctx context.Context) (string, error) {
	if token, ok := p.cachedToken(); ok {
		return token, nil
	}

	result, err, _ := p.group.Do("token", func() (interface{}, error) {
		// Re-check under singleflight; a concurrent caller may have
		// refreshed while this one queued.
		if token, ok := p.cachedToken(); ok {
			return token, nil
		}
		return p.fetchToken(ctx)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

func (p *oauthTokenProvider) cachedToken() (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	leeway := time.Duration(p.cfg.RefreshLeewaySeconds) * time.Second
	if p.token != "" && p.now().Add(leeway).Before(p.expiresAt) {
		return p.token, true
	}
	return "", false
}

func (p *oauthTokenProvider) fetchToken(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", p.cfg.ClientID)
	form.Set("client_secret", p.cfg.ClientSecret)
	if p.cfg.Scope != "" {
		form.Set("scope", p.cfg.Scope)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(p.cfg.TokenURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/x-www-form-urlencoded")
	req.SetBodyString(form.Encode())

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	timeout := time.Duration(p.cfg.RequestTimeoutMillis) * time.Millisecond
	if deadline, ok := ctx.Deadline(); ok {
		if err := p.client.DoDeadline(req, resp, deadline); err != nil {
			metrics.UpstreamRequestsTotal.WithLabelValues(metrics.SourceAuth, "error").Inc()
			return "", fmt.Errorf("token request to %s: %w", p.cfg.TokenURL, err)
		}
	} else {
		if err := p.client.DoTimeout(req, resp, timeout); err != nil {
			metrics.UpstreamRequestsTotal.WithLabelValues(metrics.SourceAuth, "error").Inc()
			return "", fmt.Errorf("token request to %s: %w", p.cfg.TokenURL, err)
		}
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(metrics.SourceAuth, strconv.Itoa(resp.StatusCode())).Inc()
	if resp.StatusCode() != fasthttp.StatusOK {
		return "", fmt.Errorf("token request to %s failed with status %d", p.cfg.TokenURL, resp.StatusCode())
	}

	var body tokenResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return "", fmt.Errorf("unmarshal token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", fmt.Errorf("token response from %s contains no access_token", p.cfg.TokenURL)
	}

	expiresIn := body.ExpiresIn
	if expiresIn <= 0 {
		expiresIn = 3600
	}

	p.mu.Lock()
	p.token = body.AccessToken
	p.expiresAt = p.now().Add(time.Duration(expiresIn) * time.Second)
	p.mu.Unlock()

	p.logger.Debug("Access token refreshed", zap.Int64("expiresInSeconds", expiresIn))
	return body.AccessToken, nil
}
