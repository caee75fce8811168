package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	return Config{
		Chain: ChainConfig{Timeout: 30 * time.Second},
		Grant: GrantConfig{FeePercent: 5, RecentLimit: 10},
		MQ:    MQConfig{Type: "none"},
		Lock:  LockConfig{Type: "memory", TTL: 2 * time.Minute},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"fee 100", func(c *Config) { c.Grant.FeePercent = 100 }, true},
		{"negative fee", func(c *Config) { c.Grant.FeePercent = -1 }, true},
		{"zero recent limit", func(c *Config) { c.Grant.RecentLimit = 0 }, true},
		{"unknown mq", func(c *Config) { c.MQ.Type = "rabbit" }, true},
		{"redis lock without redis", func(c *Config) { c.Lock.Type = "redis" }, true},
		{"redis lock with redis", func(c *Config) { c.Lock.Type = "redis"; c.Redis.Enabled = true }, false},
		{"redis lock ttl shorter than chain timeout", func(c *Config) {
			c.Lock.Type = "redis"
			c.Redis.Enabled = true
			c.Lock.TTL = time.Second
		}, true},
		{"redis lock ttl equal to chain timeout", func(c *Config) {
			c.Lock.Type = "redis"
			c.Redis.Enabled = true
			c.Lock.TTL = c.Chain.Timeout
		}, true},
		{"bad derivation path", func(c *Config) { c.Chain.DerivationPath = "44'/60'" }, true},
		{"hardened h suffix", func(c *Config) { c.Chain.DerivationPath = "m/44h/60h/0h/0/1" }, false},
		{"keystore without password", func(c *Config) { c.Chain.KeystorePath = "treasury.json" }, true},
		{"keystore with password", func(c *Config) { c.Chain.KeystorePath = "treasury.json"; c.Chain.KeystorePassword = "pw" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
