package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), ".mlox.yml"))
	require.NoError(t, err)
	assert.Empty(t, cfg.DataDir)
	assert.Empty(t, cfg.UserRuleFile)
}

func TestLoad_ParsesOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, ".mlox.yml")
	content := "dataDir: /games/morrowind/Data Files\nuserRuleFile: custom_user.txt\nquiet: true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/games/morrowind/Data Files", cfg.DataDir)
	assert.Equal(t, "custom_user.txt", cfg.UserRuleFile)
	assert.True(t, cfg.Quiet)
}

func TestEffectiveRuleFiles_FallBackToDefaults(t *testing.T) {
	var cfg *Config
	assert.Equal(t, DefaultUserRuleFile, cfg.EffectiveUserRuleFile())
	assert.Equal(t, DefaultBaseRuleFile, cfg.EffectiveBaseRuleFile())

	cfg = &Config{}
	assert.Equal(t, DefaultUserRuleFile, cfg.EffectiveUserRuleFile())
}

func TestEffectiveRuleFiles_HonorOverride(t *testing.T) {
	cfg := &Config{UserRuleFile: "mine.txt", BaseRuleFile: "base2.txt"}
	assert.Equal(t, "mine.txt", cfg.EffectiveUserRuleFile())
	assert.Equal(t, "base2.txt", cfg.EffectiveBaseRuleFile())
}
