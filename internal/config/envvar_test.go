package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvEntries(t *testing.T) {
	entries, err := EnvEntries(envMap(map[string]string{
		EnvConfigCount:             "2",
		EnvConfigKeyPrefix + "0":   "Core.Bare",
		EnvConfigValuePrefix + "0": "true",
		EnvConfigKeyPrefix + "1":   "remote.Origin.url",
	}))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "core.bare", entries[0].Key.String())
	assert.Equal(t, "true", entries[0].Value)
	assert.Equal(t, "remote.Origin.url", entries[1].Key.String())
	assert.Equal(t, "", entries[1].Value)
}

func TestEnvEntriesUnset(t *testing.T) {
	entries, err := EnvEntries(envMap(nil))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestEnvEntriesErrors(t *testing.T) {
	_, err := EnvEntries(envMap(map[string]string{EnvConfigCount: "many"}))
	assert.ErrorIs(t, err, ErrInvalidValue)

	_, err = EnvEntries(envMap(map[string]string{
		EnvConfigCount:           "3",
		EnvConfigKeyPrefix + "0": "core.bare",
		EnvConfigKeyPrefix + "2": "nodot",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvConfigKeyPrefix+"1")
	assert.ErrorIs(t, err, ErrInvalidKey)
}

func TestEnvOverridesAreReadOnly(t *testing.T) {
	s, err := OpenDefault(Paths{}, WithEnv(envMap(map[string]string{
		EnvConfigCount:             "1",
		EnvConfigKeyPrefix + "0":   "core.bare",
		EnvConfigValuePrefix + "0": "true",
	})))
	require.NoError(t, err)

	bare, err := s.GetBool("core.bare", false)
	require.NoError(t, err)
	assert.True(t, bare)
	assert.ErrorIs(t, s.Set("core.bare", "false"), ErrNoWritableBackend)
}
