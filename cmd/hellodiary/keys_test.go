package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/hellodiary/internal/jwt"
)

func TestKeysGenerate(t *testing.T) {
	cmd := newKeysCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"generate", "--kid", "k-test"})
	require.NoError(t, cmd.Execute())

	var seed string
	for _, line := range strings.Split(out.String(), "\n") {
		if v, ok := strings.CutPrefix(line, "JWT_SIGNING_SEED="); ok {
			seed = v
		}
	}
	require.NotEmpty(t, seed)
	assert.Contains(t, out.String(), "JWT_KID=k-test")

	_, err := jwt.NewEd25519FromSeed("k-test", seed)
	assert.NoError(t, err)
}

func TestKeysGenerateToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.env")

	cmd := newKeysCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"generate", "--kid", "k-file", "--out", path})
	require.NoError(t, cmd.Execute())

	assert.NotContains(t, out.String(), "JWT_SIGNING_SEED=")

	env, err := godotenv.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "k-file", env["JWT_KID"])

	_, err = jwt.NewEd25519FromSeed("k-file", env["JWT_SIGNING_SEED"])
	assert.NoError(t, err)
}
