package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TOSS_SECRET_DEFAULT", "sk_default")
	t.Setenv("TOSS_SECRET_BOB", "sk_bob")
	t.Setenv("SWEEP_INTERVAL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.SweepInterval)
	assert.Equal(t, "sk_bob", cfg.TossSecrets["bob"])
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TOSS_SECRET_DEFAULT", "sk_default")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_BadSweepInterval(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("TOSS_SECRET_DEFAULT", "sk_default")
	t.Setenv("SWEEP_INTERVAL", "ten minutes")

	_, err := Load()
	assert.Error(t, err)
}

func TestResolveTossSecret(t *testing.T) {
	cfg := Config{
		TossSecrets:       map[string]string{"bob": "sk_bob"},
		TossSecretDefault: "sk_default",
	}

	assert.Equal(t, "sk_bob", cfg.ResolveTossSecret("bob"))
	//名前は大文字小文字を区別しない
	assert.Equal(t, "sk_bob", cfg.ResolveTossSecret("BOB"))
	//未登録や空はデフォルトに落ちる
	assert.Equal(t, "sk_default", cfg.ResolveTossSecret("unknown"))
	assert.Equal(t, "sk_default", cfg.ResolveTossSecret(""))
}
