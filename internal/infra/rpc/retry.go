package rpc

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"
)

// RetryConfig defines retry behavior.
type RetryConfig struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	BackoffMultiple float64
}

// ReadRetryConfig is the default for read-only queries.
var ReadRetryConfig = RetryConfig{
	MaxAttempts:     4,
	InitialDelay:    500 * time.Millisecond,
	MaxDelay:        10 * time.Second,
	BackoffMultiple: 2.0,
}

// WriteRetryConfig pins side-effecting calls to a single attempt.
// A purchase or moderation that failed mid-flight may have partially
// committed on the remote side; retrying it is the user's decision.
var WriteRetryConfig = RetryConfig{
	MaxAttempts: 1,
}

// ErrorAction determines how to handle an error.
type ErrorAction int

const (
	ActionRetry ErrorAction = iota
	ActionFailover
	ActionFatal
)

// ClassifyError determines the action for a transport-level error.
// Domain rejections from the ledger (authorization, state conflicts,
// validation) are fatal: no amount of retrying changes them.
func ClassifyError(err error) ErrorAction {
	if err == nil {
		return ActionRetry // Should not happen
	}

	s := strings.ToLower(err.Error())

	// Fatal: the ledger understood the request and said no.
	if strings.Contains(s, "unauthorized") || strings.Contains(s, "admin only") ||
		strings.Contains(s, "not authenticated") || strings.Contains(s, "anonymous caller") ||
		strings.Contains(s, "not pending") || strings.Contains(s, "not approved") ||
		strings.Contains(s, "already approved") || strings.Contains(s, "already rejected") ||
		strings.Contains(s, "not found") || strings.Contains(s, "invalid") ||
		strings.Contains(s, "insufficient funds") {
		return ActionFatal
	}

	// Failover: this provider is the problem, not the request.
	if strings.Contains(s, "429") || strings.Contains(s, "too many requests") ||
		strings.Contains(s, "rate limit") || strings.Contains(s, "quota") ||
		strings.Contains(s, "403") || strings.Contains(s, "forbidden") {
		return ActionFailover
	}

	// Default to Retry (network, 5xx, timeouts).
	return ActionRetry
}

// CallWithRetry executes a ledger call with exponential backoff.
func CallWithRetry(
	ctx context.Context,
	p Provider,
	method string,
	params map[string]any,
	config RetryConfig,
) (any, error) {
	var lastErr error

	for attempt := 0; attempt < config.MaxAttempts; attempt++ {
		result, err := p.Call(ctx, method, params)
		if err == nil {
			return result, nil
		}

		lastErr = err

		action := ClassifyError(err)
		if action == ActionFatal {
			return nil, err // Stop immediately, do not retry
		}
		if action == ActionFailover {
			return nil, err // Return error immediately to try next provider
		}

		// ActionRetry: continue loop
		if attempt == config.MaxAttempts-1 {
			break
		}

		delay := calculateBackoff(attempt, config)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	if config.MaxAttempts == 1 {
		return nil, lastErr
	}
	return nil, fmt.Errorf("failed after %d attempts: %w", config.MaxAttempts, lastErr)
}

// CallWithRetryAndFailover tries all routed providers in order.
func CallWithRetryAndFailover(
	ctx context.Context,
	router *Router,
	method string,
	params map[string]any,
	config RetryConfig,
) (any, error) {
	providers := router.All()
	if len(providers) == 0 {
		return nil, fmt.Errorf("no ledger providers configured")
	}

	var lastErr error
	for _, p := range providers {
		start := time.Now()
		result, err := CallWithRetry(ctx, p, method, params, config)
		if err == nil {
			router.RecordSuccess(p.GetName(), time.Since(start))
			return result, nil
		}

		lastErr = err
		router.RecordFailure(p.GetName(), err)

		if ClassifyError(err) == ActionFatal {
			return nil, err
		}
	}

	return nil, fmt.Errorf("all providers failed: %w", lastErr)
}

func calculateBackoff(attempt int, config RetryConfig) time.Duration {
	delay := float64(config.InitialDelay) * math.Pow(config.BackoffMultiple, float64(attempt))
	if delay > float64(config.MaxDelay) {
		delay = float64(config.MaxDelay)
	}
	return time.Duration(delay)
}
