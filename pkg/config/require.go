package config

import (
	"fmt"
	"strings"
)

// Validate reports every required variable that is missing.
func (c Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(c.JWTAccessSecret) == 0 {
		missing = append(missing, "JWT_SECRET")
	}
	if c.RedisAddr == "" {
		missing = append(missing, "REDIS_ADDR")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required env %s", strings.Join(missing, ", "))
	}
	return nil
}
