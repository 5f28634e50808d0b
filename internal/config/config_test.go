package config

import "testing"

func TestLoadAppliesStorefrontDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Pricing.FreeShippingThreshold != 500 {
		t.Errorf("expected free shipping threshold 500, got %v", cfg.Pricing.FreeShippingThreshold)
	}
	if cfg.Pricing.FlatShippingFee != 100 {
		t.Errorf("expected flat shipping fee 100, got %v", cfg.Pricing.FlatShippingFee)
	}
	if cfg.Membership.DurationDays != 30 {
		t.Errorf("expected membership duration 30 days, got %d", cfg.Membership.DurationDays)
	}
	if cfg.RateLimit.RequestsPerMinute != 300 {
		t.Errorf("expected rate limit default 300/min, got %d", cfg.RateLimit.RequestsPerMinute)
	}
	if cfg.RateLimit.KeyPrefix == "" {
		t.Error("rate limit key prefix default missing")
	}
}

func TestLoadReadsRateLimitOverrides(t *testing.T) {
	t.Setenv("RATE_LIMIT_PER_MINUTE", "60")
	t.Setenv("RATE_LIMIT_KEY_PREFIX", "boz_staging")

	cfg := Load()

	if cfg.RateLimit.RequestsPerMinute != 60 {
		t.Errorf("expected overridden rate limit 60/min, got %d", cfg.RateLimit.RequestsPerMinute)
	}
	if cfg.RateLimit.KeyPrefix != "boz_staging" {
		t.Errorf("expected overridden key prefix, got %q", cfg.RateLimit.KeyPrefix)
	}
}
