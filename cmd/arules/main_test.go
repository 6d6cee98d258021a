package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wichananm65/assoc-rules/internal/dataset"
	"github.com/wichananm65/assoc-rules/internal/rule"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCommand()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

const basket = "A,B,C\n1,1,0\n1,1,1\n1,0,0\n0,1,1\n1,1,0\n"

func TestMine_JSON(t *testing.T) {
	path := writeCSV(t, "basket.csv", basket)

	stdout, stderr, err := run(t, "mine", "--file", path, "--format", "json")
	require.NoError(t, err)
	assert.Contains(t, stderr, dataset.MessageBinary)
	assert.Contains(t, stderr, "Generated 3 rules.")

	var doc struct {
		Rules []map[string]string `json:"rules"`
		Top   []map[string]string `json:"top"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	require.Len(t, doc.Rules, 3)
	assert.Equal(t, "B", doc.Rules[0]["antecedents"])
	assert.Equal(t, "C", doc.Rules[0]["consequents"])
	assert.Equal(t, "A, C", doc.Rules[2]["antecedents"])
	assert.Empty(t, doc.Top)
}

func TestMine_JSONWithTopIsOneDocument(t *testing.T) {
	path := writeCSV(t, "basket.csv", basket)

	stdout, _, err := run(t, "mine", "--file", path, "--format", "json", "--top")
	require.NoError(t, err)

	dec := json.NewDecoder(strings.NewReader(stdout))
	var doc struct {
		Rules []map[string]string `json:"rules"`
		Top   []map[string]string `json:"top"`
	}
	require.NoError(t, dec.Decode(&doc))
	assert.False(t, dec.More(), "stdout must hold a single JSON value")
	assert.Len(t, doc.Rules, 3)
	require.Len(t, doc.Top, 3)
	assert.Equal(t, "B", doc.Top[0]["antecedents"], "equal lifts keep generation order")
}

func TestMine_TopWithCSVRejected(t *testing.T) {
	path := writeCSV(t, "basket.csv", basket)

	stdout, _, err := run(t, "mine", "--file", path, "--format", "csv", "--top")
	assert.ErrorIs(t, err, errTopWithCSV)
	assert.Empty(t, stdout)
}

func TestMine_MaxLen(t *testing.T) {
	path := writeCSV(t, "basket.csv", basket)

	stdout, stderr, err := run(t, "mine", "--file", path, "--format", "json", "--max-len", "2")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Generated 2 rules.")
	assert.NotContains(t, stdout, "A, C")

	_, stderr, err = run(t, "mine", "--file", path, "--max-len", "1")
	require.NoError(t, err)
	assert.Contains(t, stderr, rule.MessageNoRules)
}

func TestMine_TableWithTop(t *testing.T) {
	path := writeCSV(t, "basket.csv", basket)

	stdout, stderr, err := run(t, "mine", "-f", path, "--top")
	require.NoError(t, err)
	assert.Contains(t, stderr, "Top Rules by Lift")
	assert.Equal(t, 2, strings.Count(stdout, "(3 rows)"))
}

func TestMine_NoRules(t *testing.T) {
	path := writeCSV(t, "basket.csv", basket)

	stdout, stderr, err := run(t, "mine", "--file", path, "--min-support", "0.3", "--min-lift", "2")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, rule.MessageNoRules)
}

func TestMine_Errors(t *testing.T) {
	_, _, err := run(t, "mine")
	assert.Error(t, err, "missing --file")

	_, _, err = run(t, "mine", "--file", writeCSV(t, "basket.txt", basket))
	assert.ErrorIs(t, err, dataset.ErrNotCSV)

	_, _, err = run(t, "mine", "--file", writeCSV(t, "basket.csv", basket), "--min-confidence", "0.95")
	assert.ErrorIs(t, err, rule.ErrInvalidParams)

	_, _, err = run(t, "mine", "--file", writeCSV(t, "basket.csv", basket), "--format", "yaml")
	assert.Error(t, err)
}

func TestToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	stdout, _, err := run(t, "token", "--subject", "analyst")
	require.NoError(t, err)

	tok, err := jwt.Parse(strings.TrimSpace(stdout), func(*jwt.Token) (interface{}, error) {
		return []byte("s3cret"), nil
	})
	require.NoError(t, err)
	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, "analyst", claims["sub"])
}

func TestToken_NoSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, _, err := run(t, "token")
	assert.Error(t, err)
}
