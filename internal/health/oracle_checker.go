package health

import (
	"context"
	"time"
)

// OracleClient is the slice of the model provider the checker needs.
type OracleClient interface {
	Provider() string
	Health(ctx context.Context) error
}

// OracleChecker verifies connectivity to the language model provider.
type OracleChecker struct {
	oracle OracleClient
}

// NewOracleChecker creates a checker for the given oracle.
func NewOracleChecker(oracle OracleClient) *OracleChecker {
	return &OracleChecker{oracle: oracle}
}

// Name implements Checker.
func (c *OracleChecker) Name() string {
	return "oracle-provider"
}

// Check implements Checker. A provider failure is degraded, not unhealthy:
// the server can still serve sessions and plans without the model.
func (c *OracleChecker) Check(ctx context.Context) *Result {
	start := time.Now()
	if err := c.oracle.Health(ctx); err != nil {
		return Degraded("provider unreachable").
			WithDetail("provider", c.oracle.Provider()).
			WithDetail("error", err.Error())
	}

	result := Healthy("provider reachable").
		WithDetail("provider", c.oracle.Provider())
	result.Latency = time.Since(start)
	return result
}
