package config

import (
	"fmt"

	"grant-core/pkg/bip32"
)

// Validate 检查跨字段约束
func (c *Config) Validate() error {
	if c.Grant.FeePercent < 0 || c.Grant.FeePercent >= 100 {
		return fmt.Errorf("grant.fee_percent must be in [0, 100), got %d", c.Grant.FeePercent)
	}
	if c.Grant.RecentLimit <= 0 {
		return fmt.Errorf("grant.recent_limit must be positive, got %d", c.Grant.RecentLimit)
	}
	switch c.MQ.Type {
	case "none", "redis", "kafka":
	default:
		return fmt.Errorf("mq.type must be one of none/redis/kafka, got %q", c.MQ.Type)
	}
	switch c.Lock.Type {
	case "memory", "redis":
	default:
		return fmt.Errorf("lock.type must be memory or redis, got %q", c.Lock.Type)
	}
	if _, err := bip32.ParsePath(c.Chain.DerivationPath); err != nil {
		return fmt.Errorf("chain.derivation_path: %w", err)
	}
	if c.Chain.KeystorePath != "" && c.Chain.KeystorePassword == "" {
		return fmt.Errorf("chain.keystore_password is required when chain.keystore_path is set")
	}
	if c.Lock.Type == "redis" && c.Lock.TTL <= c.Chain.Timeout {
		return fmt.Errorf("lock.ttl (%s) must be greater than chain.timeout (%s)", c.Lock.TTL, c.Chain.Timeout)
	}
	if !c.Redis.Enabled && (c.MQ.Type == "redis" || c.Lock.Type == "redis") {
		return fmt.Errorf("redis.enabled must be true when mq.type or lock.type is redis")
	}
	return nil
}
