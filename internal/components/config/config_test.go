package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name    string            `json:"name"`
	Retries int               `json:"retries"`
	URLs    map[string]string `json:"urls"`
}

func write(t *testing.T, path, contents string) {
	err := os.WriteFile(path, []byte(contents), 0600)
	if err != nil {
		t.Fatal(err)
	}
}

func TestLocalName(t *testing.T) {
	require.Equal(t, "a/b/unitables.local.json5", localName("a/b/unitables.json5"))
	require.Equal(t, "noext.local", localName("noext"))
}

func TestRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unitables.json5")

	_, err := Read[testConfig](path)
	require.ErrorIs(t, err, os.ErrNotExist)

	write(t, path, `{
		// comments are allowed
		name: "default",
		retries: 2,
		urls: {costs: "https://example.com/fees"},
	}`)

	cfg, err := Read[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, "default", cfg.Name)
	require.Equal(t, 2, cfg.Retries)

	write(t, filepath.Join(dir, "unitables.local.json5"), `{retries: 5, urls: {faq: "https://example.com/faq"}}`)

	cfg, err = Read[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, "default", cfg.Name)
	require.Equal(t, 5, cfg.Retries)
	require.Equal(t, "https://example.com/fees", cfg.URLs["costs"])
	require.Equal(t, "https://example.com/faq", cfg.URLs["faq"])
}

func TestReadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json5")
	write(t, path, `{name: `)

	_, err := Read[testConfig](path)
	require.Error(t, err)
	require.NotErrorIs(t, err, os.ErrNotExist)
}

func TestReadRecursively(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0777))
	write(t, filepath.Join(root, "recursive_test.json5"), `{name: "root"}`)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	defer os.Chdir(wd)

	cfg, err := ReadRecursively[testConfig]("recursive_test.json5")
	require.NoError(t, err)
	require.Equal(t, "root", cfg.Name)

	_, err = ReadRecursively[testConfig]("does_not_exist_anywhere.json5")
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadRecursivelyAbsolute(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absolute.json5")
	write(t, path, `{name: "absolute"}`)

	cfg, err := ReadRecursively[testConfig](path)
	require.NoError(t, err)
	require.Equal(t, "absolute", cfg.Name)
}
