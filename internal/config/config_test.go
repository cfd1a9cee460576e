package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_123")
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("S3_BUCKET", "cases")
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)
	t.Setenv("PORT", "")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("BASE_URL", "https://cases.example.com/")
	t.Setenv("ADMIN_EMAILS", "admin@example.com, ops@example.com ,")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "https://cases.example.com", c.BaseURL)
	assert.Equal(t, "localhost:6379", c.RedisAddr())
	assert.Equal(t, []string{"admin@example.com", "ops@example.com"}, c.AdminEmails)
	assert.True(t, c.IsAdmin("Admin@Example.com"))
	assert.False(t, c.IsAdmin("someone@example.com"))
	assert.False(t, c.IsAdmin(""))
}

func TestLoad_MissingSecrets(t *testing.T) {
	t.Setenv("STRIPE_SECRET_KEY", "")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "")
	t.Setenv("AUTH_JWT_SECRET", "")
	t.Setenv("S3_BUCKET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STRIPE_WEBHOOK_SECRET")
	assert.Contains(t, err.Error(), "AUTH_JWT_SECRET")
}

func TestMySQLDSN(t *testing.T) {
	c := &Config{MySQLUser: "u", MySQLPassword: "p", MySQLHost: "db", MySQLPort: "3306", MySQLDatabase: "cases"}
	assert.Equal(t, "u:p@tcp(db:3306)/cases?charset=utf8mb4&parseTime=True&loc=Local", c.MySQLDSN())
}
