package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/bundlepitch/internal/auth"
	"github.com/MrSnakeDoc/bundlepitch/internal/domain"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := rootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const request = `{"bundle_name":"Pamper Yourself Gift Set","tone":"luxury",
	"items":[{"title":"Candle"},{"title":""},{"title":"Soap","description":"hand-milled"}]}`

func TestGenerate_Stdin(t *testing.T) {
	out, err := run(t, request, "generate")
	require.NoError(t, err)

	var got domain.GeneratedCopy
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "Premium Pamper Yourself Gift Set - 2 Piece Bundle Collection", got.Title)
	assert.Len(t, got.Bullets, 2)
	assert.Contains(t, out, "🌟", "emoji must not be escaped")
}

func TestGenerate_FileAndToneOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "req.json")
	require.NoError(t, os.WriteFile(path, []byte(request), 0o600))

	out, err := run(t, "", "generate", path, "--tone", "minimal")
	require.NoError(t, err)
	assert.Contains(t, out, "Essential Pamper Yourself Gift Set")
}

func TestGenerate_Errors(t *testing.T) {
	_, err := run(t, `{"bundle_name":"B","tone":"warm","items":[{"title":""}]}`, "generate")
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = run(t, `not json`, "generate")
	assert.ErrorContains(t, err, "decode request")

	_, err = run(t, "", "generate", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorContains(t, err, "open request")
}

func TestGenerate_ListTones(t *testing.T) {
	out, err := run(t, "", "generate", "--list-tones")
	require.NoError(t, err)

	var tones []map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &tones))
	assert.Len(t, tones, len(domain.AllTones))
	assert.Equal(t, "warm", tones[0]["value"])
}

func TestToken(t *testing.T) {
	out, err := run(t, "", "token", "--secret", "s3cret", "--user", "user-7", "--subscribed")
	require.NoError(t, err)

	sess, err := auth.NewVerifier("s3cret", "authenticated").Verify(strings.TrimSpace(out))
	require.NoError(t, err)
	assert.Equal(t, "user-7", sess.UserID)
	assert.True(t, sess.Subscribed)
}

func TestToken_Errors(t *testing.T) {
	t.Setenv("SUPABASE_JWT_SECRET", "")
	_, err := run(t, "", "token")
	assert.ErrorContains(t, err, "no signing secret")

	_, err = run(t, "", "token", "--secret", "x", "--ttl", "-1m")
	assert.ErrorContains(t, err, "--ttl must be positive")
}

func TestMigrate_RequiresDSN(t *testing.T) {
	t.Setenv("BUNDLEPITCH_DATABASE_URL", "")
	_, err := run(t, "", "migrate")
	assert.ErrorContains(t, err, "no database")
}
