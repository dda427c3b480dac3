package config

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	raw := "[core]\n\trepositoryformatversion = 0\n" +
		"[sect1 \"subsect1\"]\n\topt2 = value2\n\topt2 = value2b\n"

	cfg := New()
	require.NoError(t, NewDecoder(strings.NewReader(raw)).Decode(cfg))

	assert.Equal(t, "0", cfg.Section("core").Option("repositoryformatversion"))
	assert.Equal(t, []string{"value2", "value2b"},
		cfg.Section("sect1").Subsection("subsect1").OptionAll("opt2"))

	buf := &bytes.Buffer{}
	require.NoError(t, NewEncoder(buf).Encode(cfg))
	assert.Equal(t, raw, buf.String())
}

func TestQuoting(t *testing.T) {
	cfg := New().AddOption("section", "", "option1", "has # hash")

	buf := &bytes.Buffer{}
	require.NoError(t, NewEncoder(buf).Encode(cfg))
	assert.Equal(t, "[section]\n\toption1 = \"has # hash\"\n", buf.String())
}

func TestOptionLastWins(t *testing.T) {
	s := &Section{Options: Options{
		{Key: "key1", Value: "value1"},
		{Key: "key1", Value: "value2"},
	}}
	assert.Equal(t, "value2", s.Option("key1"))
}
