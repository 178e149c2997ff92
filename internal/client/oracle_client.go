package client

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"asset_dashboard/internal/app/port"
	"asset_dashboard/internal/domain/entity"
	"asset_dashboard/pkg/metrics"
)

// observationListWrapper covers deployments that envelope the observation
// array.
type observationListWrapper struct {
	Observations []entity.OracleObservation `json:"observations"`
}

// oracleClientImpl implements port.OracleSource against the price-reporting
// service.
type oracleClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewOracleClient creates a new oracle observation source.
func NewOracleClient(baseURL string, timeout time.Duration, limiter *rate.Limiter, logger *zap.Logger) port.OracleSource {
	return &oracleClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		limiter: limiter,
		logger:  logger.Named("OracleClient"),
	}
}

// FetchObservations implements port.OracleSource. The feed is unfiltered;
// ordering in the response is the only notion of recency it provides.
func (c *oracleClientImpl) FetchObservations(ctx context.Context) ([]entity.OracleObservation, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	requestURL := c.baseURL + "/api/oracle/prices"
	c.logger.Debug("Requesting oracle observations", zap.String("url", requestURL))

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.SetContentTypeBytes([]byte("application/json"))

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	if deadline, ok := ctx.Deadline(); ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			metrics.UpstreamRequestsTotal.WithLabelValues(metrics.SourceOracle, "error").Inc()
			c.logger.Error("Failed to execute request to oracle feed", zap.String("url", requestURL), zap.Error(err))
			return nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
		}
	} else {
		if err := c.client.DoTimeout(req, resp, c.timeout); err != nil {
			metrics.UpstreamRequestsTotal.WithLabelValues(metrics.SourceOracle, "error").Inc()
			c.logger.Error("Failed to execute request to oracle feed (with default timeout)", zap.String("url", requestURL), zap.Error(err))
			return nil, fmt.Errorf("failed to execute request to %s with default timeout: %w", requestURL, err)
		}
	}

	rawBody := resp.Body()
	metrics.UpstreamRequestsTotal.WithLabelValues(metrics.SourceOracle, strconv.Itoa(resp.StatusCode())).Inc()

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Error("Oracle feed request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", resp.StatusCode()),
			zap.ByteString("responseBody", rawBody),
		)
		return nil, fmt.Errorf("oracle feed request to %s failed with status %d: %s", requestURL, resp.StatusCode(), string(rawBody))
	}

	// Same shapes as the indexer: a bare array or a wrapped object, where a
	// null list means no observations.
	body := bytes.TrimSpace(rawBody)
	if len(body) > 0 && body[0] == '[' {
		var observations []entity.OracleObservation
		if err := json.Unmarshal(body, &observations); err != nil {
			c.logger.Error("Failed to unmarshal oracle response into []OracleObservation",
				zap.String("url", requestURL),
				zap.ByteString("responseBody", rawBody),
				zap.Error(err),
			)
			return nil, fmt.Errorf("failed to unmarshal oracle response from %s: %w", requestURL, err)
		}
		c.logger.Debug("Unmarshalled oracle response (direct array)",
			zap.Int("observationCount", len(observations)))
		return observations, nil
	}

	var wrapper observationListWrapper
	if err := json.Unmarshal(body, &wrapper); err != nil {
		c.logger.Error("Failed to unmarshal oracle response as wrapped object",
			zap.String("url", requestURL),
			zap.ByteString("responseBody", rawBody),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to unmarshal oracle response from %s: %w", requestURL, err)
	}
	c.logger.Debug("Unmarshalled oracle response (wrapped object)",
		zap.Int("observationCount", len(wrapper.Observations)))
	return wrapper.Observations, nil
}
