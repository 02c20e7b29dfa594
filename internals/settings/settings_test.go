package settings

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit_Defaults(t *testing.T) {
	v := viper.New()
	require.NoError(t, Init(v, filepath.Join(t.TempDir(), "missing.toml")))

	s := Load(v)
	assert.Equal(t, 6, s.Concurrency)
	assert.Equal(t, 0, s.MemoryMiB)
	assert.Equal(t, "en_us", s.Locale)
	assert.Equal(t, DefaultGlobalDir(), s.GlobalDir)
}

func TestInit_FileAndEnv(t *testing.T) {
	file := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(file, []byte("concurrency = 2\nlocale = \"de_de\"\n"), 0644))
	t.Setenv("MCINSTALL_MEMORY", "4096")

	v := viper.New()
	require.NoError(t, Init(v, file))

	s := Load(v)
	assert.Equal(t, 2, s.Concurrency)
	assert.Equal(t, "de_de", s.Locale)
	assert.Equal(t, 4096, s.MemoryMiB)
}

func TestSet(t *testing.T) {
	file := filepath.Join(t.TempDir(), "nested", "config.toml")
	v := viper.New()
	require.NoError(t, Init(v, file))

	require.NoError(t, Set(v, "throttle", "2.5"))
	assert.Equal(t, 2.5, Load(v).Throttle)

	again := viper.New()
	require.NoError(t, Init(again, file))
	assert.Equal(t, 2.5, Load(again).Throttle)

	assert.Error(t, Set(v, "concurrency", "many"))
	assert.Error(t, Set(v, "unknown", "1"))
}

func TestParse(t *testing.T) {
	value, err := Parse("memory", "2048")
	require.NoError(t, err)
	assert.Equal(t, 2048, value)

	_, err = parseBool("maybe")
	assert.Error(t, err)
	b, err := parseBool("YES")
	require.NoError(t, err)
	assert.True(t, b)
}
