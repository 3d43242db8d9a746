package configutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	BaseUrl string `json:"base_url"`
	Cookie  string `json:"cookie"`
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "gradescope.json5")

	err := os.WriteFile(name, []byte(`{
		// comments are fine, this is json5
		base_url: "https://www.gradescope.com",
		cookie: "default",
	}`), 0600)
	require.NoError(t, err)

	config, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "https://www.gradescope.com", config.BaseUrl)
	require.Equal(t, "default", config.Cookie)

	err = os.WriteFile(
		filepath.Join(dir, "gradescope.local.json5"),
		[]byte(`{cookie: "override"}`),
		0600,
	)
	require.NoError(t, err)

	config, err = ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, "https://www.gradescope.com", config.BaseUrl)
	require.Equal(t, "override", config.Cookie)
}

func TestReadConfigNotFound(t *testing.T) {
	_, err := ReadConfig[testConfig](filepath.Join(t.TempDir(), "nope.json5"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
