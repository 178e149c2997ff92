package client

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"asset_dashboard/internal/app/port"
	"asset_dashboard/internal/domain/entity"
	"asset_dashboard/pkg/metrics"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// assetListWrapper covers deployments that envelope the record array.
type assetListWrapper struct {
	Assets []entity.AssetRecord `json:"assets"`
}

// cirrusClientImpl implements port.AssetSource against the cirrus indexing
// endpoint.
type cirrusClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	limiter *rate.Limiter
	tokens  port.TokenProvider
	logger  *zap.Logger
}

// NewCirrusClient creates a new asset source backed by the cirrus indexer.
// tokens may be nil, in which case requests go out unauthenticated.
func NewCirrusClient(baseURL string, timeout time.Duration, limiter *rate.Limiter, tokens port.TokenProvider, logger *zap.Logger) port.AssetSource {
	return &cirrusClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		limiter: limiter,
		tokens:  tokens,
		logger:  logger.Named("CirrusClient"),
	}
}

// FetchAssetsByOwner implements port.AssetSource. The indexer filters
// server-side by exact match on the owner's common name.
func (c *cirrusClientImpl) FetchAssetsByOwner(ctx context.Context, owner string) ([]entity.AssetRecord, error) {
	if owner == "" {
		return nil, fmt.Errorf("owner cannot be empty")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	requestURL := fmt.Sprintf("%s/api/assets?owner=%s", c.baseURL, url.QueryEscape(owner))
	c.logger.Debug("Requesting asset records from cirrus", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetContentTypeBytes([]byte("application/json"))

	if c.tokens != nil {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("acquire access token: %w", err)
		}
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+token)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			metrics.UpstreamRequestsTotal.WithLabelValues(metrics.SourceCirrus, "error").Inc()
			c.logger.Error("Failed to execute request to cirrus", zap.String("url", requestURL), zap.Error(err))
			return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			metrics.UpstreamRequestsTotal.WithLabelValues(metrics.SourceCirrus, "error").Inc()
			c.logger.Error("Failed to execute request to cirrus (with default timeout)", zap.String("url", requestURL), zap.Error(err))
			return nil, fmt.Errorf("failed to execute request to %s with default timeout: %w", requestURL, err)
		}
	}

	rawBody := resp.Body()
	metrics.UpstreamRequestsTotal.WithLabelValues(metrics.SourceCirrus, strconv.Itoa(resp.StatusCode())).Inc()

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Cirrus API request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody),
		)
		return nil, fmt.Errorf("cirrus API request to %s failed with status %d: %s", requestURL, resp.StatusCode(), string(rawBody))
	}

	// The endpoint serves either a bare array or an {"assets": [...]} object;
	// dispatch on the first byte. A wrapper with a null list is an empty set,
	// not a decode failure.
	body := bytes.TrimSpace(rawBody)
	if len(body) > 0 && body[0] == '[' {
		var records []entity.AssetRecord
		if err := json.Unmarshal(body, &records); err != nil {
			c.logger.Error("Failed to unmarshal cirrus response into []AssetRecord",
				zap.String("url", requestURL),
				zap.ByteString("responseBody", rawBody),
				zap.Error(err),
			)
			return nil, fmt.Errorf("failed to unmarshal cirrus response from %s: %w", requestURL, err)
		}
		c.logger.Debug("Unmarshalled cirrus response (direct array)",
			zap.String("owner", owner), zap.Int("recordCount", len(records)))
		return records, nil
	}

	var wrapper assetListWrapper
	if err := json.Unmarshal(body, &wrapper); err != nil {
		c.logger.Error("Failed to unmarshal cirrus response as wrapped object",
			zap.String("url", requestURL),
			zap.ByteString("responseBody", rawBody),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to unmarshal cirrus response from %s: %w", requestURL, err)
	}
	c.logger.Debug("Unmarshalled cirrus response (wrapped object)",
		zap.String("owner", owner), zap.Int("recordCount", len(wrapper.Assets)))
	return wrapper.Assets, nil
}
