// Package config holds repository configuration: user/author/committer
// identity, the default branch name, and per-branch upstream tracking. It
// parses the git INI dialect via plumbing/format/config and merges a
// caller-supplied override over a set of defaults with dario.cat/mergo.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"dario.cat/mergo"

	format "github.com/statewalker/vcs-sub000/plumbing/format/config"
)

// DefaultBranchName is used when core.DefaultBranch is unset.
const DefaultBranchName = "master"

var (
	// ErrInvalid is returned when a config key is invalid.
	ErrInvalid = errors.New("config invalid key in branch")
	// ErrBranchEmptyName is returned by Validate when a Branch has no name.
	ErrBranchEmptyName = errors.New("branch config: empty name")
	// ErrBranchInvalidMerge is returned by Validate when a Branch's Merge
	// value isn't a fully-qualified ref name.
	ErrBranchInvalidMerge = errors.New("branch config: invalid merge")
)

// Ident identifies the author or committer of a commit.
type Ident struct {
	Name  string
	Email string
}

// Config is a repository's configuration.
type Config struct {
	Core struct {
		// Bare marks a repository with no associated working tree.
		Bare bool
		// DefaultBranch overrides the branch created by an empty init.
		DefaultBranch string
	}

	User      Ident
	Author    Ident
	Committer Ident

	// Branches holds per-branch upstream tracking configuration, keyed by
	// branch name (which must equal Branch.Name).
	Branches map[string]*Branch

	// Raw preserves the parsed config verbatim, so round-tripping through
	// Unmarshal/Marshal doesn't drop sections this package doesn't model.
	Raw *format.Config
}

// Branch holds the upstream tracking configuration for one local branch.
type Branch struct {
	// Name is the local branch name, e.g. "main".
	Name string
	// Remote is the name of the remote this branch tracks.
	Remote string
	// Merge is the fully-qualified ref on Remote this branch merges from,
	// e.g. "refs/heads/main".
	Merge string
}

// Validate checks that b is well formed.
func (b *Branch) Validate() error {
	if b.Name == "" {
		return ErrBranchEmptyName
	}

	if b.Merge != "" && !bytes.HasPrefix([]byte(b.Merge), []byte("refs/")) {
		return ErrBranchInvalidMerge
	}

	return nil
}

// NewConfig returns an empty Config with its defaults applied.
func NewConfig() *Config {
	c := &Config{
		Branches: make(map[string]*Branch),
		Raw:      format.New(),
	}
	c.Core.DefaultBranch = DefaultBranchName
	return c
}

// Validate checks that every Branch is well formed and correctly keyed.
func (c *Config) Validate() error {
	for name, b := range c.Branches {
		if b.Name != name {
			return ErrInvalid
		}
		if err := b.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Merge overlays override on top of a set of defaults, returning the
// combined Config. Zero-valued fields in override never clobber a set
// default field; a nil/zero override field simply inherits the default.
func Merge(defaults *Config, override *Config) (*Config, error) {
	result := *defaults
	if result.Branches == nil {
		result.Branches = make(map[string]*Branch)
	}
	if override == nil {
		return &result, nil
	}

	if err := mergo.Merge(&result, override, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("merging config: %w", err)
	}

	return &result, nil
}

const (
	coreSection      = "core"
	userSection      = "user"
	authorSection    = "author"
	committerSection = "committer"
	branchSection    = "branch"

	bareKey          = "bare"
	defaultBranchKey = "defaultBranch"
	nameKey          = "name"
	emailKey         = "email"
	remoteKey        = "remote"
	mergeKey         = "merge"
)

// Unmarshal parses a git-config document and populates c from it.
func (c *Config) Unmarshal(b []byte) error {
	r := bytes.NewBuffer(b)
	d := format.NewDecoder(r)

	c.Raw = format.New()
	if err := d.Decode(c.Raw); err != nil {
		return err
	}

	c.unmarshalCore()
	c.unmarshalIdent(userSection, &c.User)
	c.unmarshalIdent(authorSection, &c.Author)
	c.unmarshalIdent(committerSection, &c.Committer)
	c.unmarshalBranches()

	return nil
}

func (c *Config) unmarshalCore() {
	s := c.Raw.Section(coreSection)
	c.Core.Bare = s.Option(bareKey) == "true"
	if v := s.Option(defaultBranchKey); v != "" {
		c.Core.DefaultBranch = v
	}
}

func (c *Config) unmarshalIdent(section string, ident *Ident) {
	s := c.Raw.Section(section)
	ident.Name = s.Option(nameKey)
	ident.Email = s.Option(emailKey)
}

func (c *Config) unmarshalBranches() {
	s := c.Raw.Section(branchSection)
	for _, sub := range s.Subsections {
		b := &Branch{
			Name:   sub.Name,
			Remote: sub.Option(remoteKey),
			Merge:  sub.Option(mergeKey),
		}
		c.Branches[b.Name] = b
	}
}

// Marshal serializes c back into git-config text, via Raw so that unknown
// sections survive a read-modify-write round trip.
func (c *Config) Marshal() ([]byte, error) {
	c.marshalCore()
	c.marshalIdent(userSection, c.User)
	c.marshalIdent(authorSection, c.Author)
	c.marshalIdent(committerSection, c.Committer)
	c.marshalBranches()

	buf := bytes.NewBuffer(nil)
	if err := format.NewEncoder(buf).Encode(c.Raw); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func (c *Config) marshalCore() {
	s := c.Raw.Section(coreSection)
	if c.Core.Bare {
		s.SetOption(bareKey, "true")
	}
	if c.Core.DefaultBranch != "" && c.Core.DefaultBranch != DefaultBranchName {
		s.SetOption(defaultBranchKey, c.Core.DefaultBranch)
	}
}

func (c *Config) marshalIdent(section string, ident Ident) {
	if ident.Name == "" && ident.Email == "" {
		return
	}
	s := c.Raw.Section(section)
	if ident.Name != "" {
		s.SetOption(nameKey, ident.Name)
	}
	if ident.Email != "" {
		s.SetOption(emailKey, ident.Email)
	}
}

func (c *Config) marshalBranches() {
	c.Raw.RemoveSection(branchSection)
	if len(c.Branches) == 0 {
		return
	}

	s := c.Raw.Section(branchSection)
	for _, b := range c.Branches {
		sub := s.Subsection(b.Name)
		if b.Remote != "" {
			sub.SetOption(remoteKey, b.Remote)
		}
		if b.Merge != "" {
			sub.SetOption(mergeKey, b.Merge)
		}
	}
}

// ReadConfig parses a git-config document from r, applying defaults first.
func ReadConfig(r io.Reader) (*Config, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	cfg := NewConfig()
	if err := cfg.Unmarshal(b); err != nil {
		return nil, err
	}

	return cfg, nil
}
