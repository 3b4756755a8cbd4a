package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/brp-sheet/internal/config"
	brperr "github.com/KirkDiggler/brp-sheet/internal/errors"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, config.StorageSQLite, cfg.Storage)
	assert.Equal(t, "brp-sheet.db", cfg.SQLite.Path)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, 6, cfg.Rules.ImprovementDie)
	assert.Nil(t, cfg.Rules.DiceSeed)
	assert.Equal(t, "gm", cfg.OwnerID)
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := config.LoadFrom(map[string]string{
		"BRP_STORAGE":         "Redis",
		"REDIS_URL":           "redis://localhost:6379/0",
		"REDIS_DB":            "3",
		"LOG_FORMAT":          "json",
		"BRP_DICE_SEED":       "42",
		"BRP_IMPROVEMENT_DIE": "10",
	})
	require.NoError(t, err)

	assert.Equal(t, config.StorageRedis, cfg.Storage)
	assert.Equal(t, 3, cfg.Redis.DB)
	require.NotNil(t, cfg.Rules.DiceSeed)
	assert.Equal(t, int64(42), *cfg.Rules.DiceSeed)
	assert.Equal(t, 10, cfg.Rules.ImprovementDie)
}

func TestLoadFrom_Invalid(t *testing.T) {
	tests := []struct {
		name string
		vars map[string]string
		code brperr.Code
		want []string
	}{
		{
			name: "unparseable number",
			vars: map[string]string{"REDIS_DB": "three"},
			code: brperr.CodeParse,
		},
		{
			name: "every violation reported",
			vars: map[string]string{
				"BRP_STORAGE":         "redis",
				"LOG_FORMAT":          "xml",
				"BRP_IMPROVEMENT_DIE": "0",
			},
			code: brperr.CodeValidation,
			want: []string{"REDIS_URL", "LOG_FORMAT", "BRP_IMPROVEMENT_DIE"},
		},
		{
			name: "unknown storage",
			vars: map[string]string{"BRP_STORAGE": "postgres"},
			code: brperr.CodeValidation,
			want: []string{"BRP_STORAGE"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.LoadFrom(tt.vars)
			require.Error(t, err)
			assert.Equal(t, tt.code, brperr.GetCode(err))
			for _, w := range tt.want {
				assert.Contains(t, err.Error(), w)
			}
		})
	}
}
