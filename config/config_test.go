package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBranchValidate(t *testing.T) {
	good := &Branch{Name: "main", Remote: "origin", Merge: "refs/heads/main"}
	assert.NoError(t, good.Validate())

	noName := &Branch{Remote: "origin", Merge: "refs/heads/main"}
	assert.Error(t, noName.Validate())

	badMerge := &Branch{Name: "main", Remote: "origin", Merge: "main"}
	assert.Error(t, badMerge.Validate())
}

func TestUnmarshalMarshalRoundTrip(t *testing.T) {
	raw := "[user]\n\tname = Jane Doe\n\temail = jane@example.com\n" +
		"[branch \"main\"]\n\tremote = origin\n\tmerge = refs/heads/main\n"

	cfg := NewConfig()
	require.NoError(t, cfg.Unmarshal([]byte(raw)))

	assert.Equal(t, "Jane Doe", cfg.User.Name)
	assert.Equal(t, "jane@example.com", cfg.User.Email)
	require.Contains(t, cfg.Branches, "main")
	assert.Equal(t, "origin", cfg.Branches["main"].Remote)
	assert.Equal(t, "refs/heads/main", cfg.Branches["main"].Merge)

	out, err := cfg.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(out), "name = Jane Doe")
	assert.Contains(t, string(out), "[branch \"main\"]")
}

func TestMergeOverridesDefaults(t *testing.T) {
	defaults := NewConfig()
	defaults.User.Name = "Default User"
	defaults.Core.DefaultBranch = "master"

	override := NewConfig()
	override.User.Email = "override@example.com"

	merged, err := Merge(defaults, override)
	require.NoError(t, err)

	assert.Equal(t, "Default User", merged.User.Name)
	assert.Equal(t, "override@example.com", merged.User.Email)
	assert.Equal(t, "master", merged.Core.DefaultBranch)
}
