// Package config implements encoding and decoding of git-style INI
// configuration files (the raw section/subsection/key=value model used by
// .git/config), independent of what any particular key means.
package config

// New creates a new config instance.
func New() *Config {
	return &Config{}
}

// Config contains all the sections from a config file.
type Config struct {
	Sections Sections
}

// NoSubsection is passed to Section/AddOption/etc. to mean "no subsection".
const NoSubsection = ""

// Section returns an existing section with the given name or creates one.
func (c *Config) Section(name string) *Section {
	for i := len(c.Sections) - 1; i >= 0; i-- {
		if c.Sections[i].IsName(name) {
			return c.Sections[i]
		}
	}

	s := &Section{Name: name}
	c.Sections = append(c.Sections, s)
	return s
}

// HasSection reports whether the Config has a section with the given name.
func (c *Config) HasSection(name string) bool {
	for _, s := range c.Sections {
		if s.IsName(name) {
			return true
		}
	}
	return false
}

// RemoveSection removes a section from the config.
func (c *Config) RemoveSection(name string) *Config {
	result := Sections{}
	for _, s := range c.Sections {
		if !s.IsName(name) {
			result = append(result, s)
		}
	}
	c.Sections = result
	return c
}

// RemoveSubsection removes a subsection from a section.
func (c *Config) RemoveSubsection(section, subsection string) *Config {
	for _, s := range c.Sections {
		if !s.IsName(section) {
			continue
		}
		result := Subsections{}
		for _, ss := range s.Subsections {
			if !ss.IsName(subsection) {
				result = append(result, ss)
			}
		}
		s.Subsections = result
	}
	return c
}

// AddOption appends an option to the given section/subsection. Use
// NoSubsection if no subsection is wanted.
func (c *Config) AddOption(section, subsection, key, value string) *Config {
	if subsection == NoSubsection {
		c.Section(section).AddOption(key, value)
	} else {
		c.Section(section).Subsection(subsection).AddOption(key, value)
	}
	return c
}

// SetOption replaces all values of key with value(s).
func (c *Config) SetOption(section, subsection, key string, value ...string) *Config {
	if subsection == NoSubsection {
		c.Section(section).SetOption(key, value...)
	} else {
		c.Section(section).Subsection(subsection).SetOption(key, value...)
	}
	return c
}

// Option returns the last value of key in section/subsection, or "".
func (c *Config) Option(section, subsection, key string) string {
	if subsection == NoSubsection {
		return c.Section(section).Option(key)
	}
	return c.Section(section).Subsection(subsection).Option(key)
}

// OptionAll returns every value of key in section/subsection.
func (c *Config) OptionAll(section, subsection, key string) []string {
	if subsection == NoSubsection {
		return c.Section(section).OptionAll(key)
	}
	return c.Section(section).Subsection(subsection).OptionAll(key)
}
