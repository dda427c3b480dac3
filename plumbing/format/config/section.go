package config

import "strings"

// Sections is a list of sections.
type Sections []*Section

// Section represents a config file section (e.g. "[core]" or "[remote]").
type Section struct {
	Name        string
	Options     Options
	Subsections Subsections
}

// IsName reports whether the section's name matches, case-insensitively.
func (s *Section) IsName(name string) bool {
	return strings.EqualFold(s.Name, name)
}

// Subsection returns an existing subsection with the given name, or creates
// one. Subsection names are matched case-sensitively, unlike section names.
func (s *Section) Subsection(name string) *Subsection {
	for _, ss := range s.Subsections {
		if ss.IsName(name) {
			return ss
		}
	}

	ss := &Subsection{Name: name}
	s.Subsections = append(s.Subsections, ss)
	return ss
}

// HasSubsection reports whether the section has a subsection with the name.
func (s *Section) HasSubsection(name string) bool {
	for _, ss := range s.Subsections {
		if ss.IsName(name) {
			return true
		}
	}
	return false
}

// RemoveSubsection removes a subsection by name.
func (s *Section) RemoveSubsection(name string) *Section {
	result := Subsections{}
	for _, ss := range s.Subsections {
		if !ss.IsName(name) {
			result = append(result, ss)
		}
	}
	s.Subsections = result
	return s
}

// Option returns the last value of key, or "".
func (s *Section) Option(key string) string {
	return s.Options.Get(key)
}

// OptionAll returns every value of key.
func (s *Section) OptionAll(key string) []string {
	return s.Options.GetAll(key)
}

// HasOption reports whether key is set.
func (s *Section) HasOption(key string) bool {
	return s.Options.Has(key)
}

// AddOption appends a key=value pair.
func (s *Section) AddOption(key, value string) *Section {
	s.Options = s.Options.withAdded(key, value)
	return s
}

// SetOption replaces all values of key with value(s).
func (s *Section) SetOption(key string, value ...string) *Section {
	s.Options = s.Options.withSet(key, value)
	return s
}

// RemoveOption removes every value of key.
func (s *Section) RemoveOption(key string) *Section {
	s.Options = s.Options.withRemoved(key)
	return s
}

// Subsections is a list of subsections.
type Subsections []*Subsection

// Subsection represents a named subsection (e.g. `[remote "origin"]`).
type Subsection struct {
	Name    string
	Options Options
}

// IsName reports whether the subsection's name matches, case-sensitively:
// unlike section names, git treats subsection names as literal strings.
func (s *Subsection) IsName(name string) bool {
	return s.Name == name
}

// Option returns the last value of key, or "".
func (s *Subsection) Option(key string) string {
	return s.Options.Get(key)
}

// OptionAll returns every value of key.
func (s *Subsection) OptionAll(key string) []string {
	return s.Options.GetAll(key)
}

// HasOption reports whether key is set.
func (s *Subsection) HasOption(key string) bool {
	return s.Options.Has(key)
}

// AddOption appends a key=value pair.
func (s *Subsection) AddOption(key, value string) *Subsection {
	s.Options = s.Options.withAdded(key, value)
	return s
}

// SetOption replaces all values of key with value(s).
func (s *Subsection) SetOption(key string, value ...string) *Subsection {
	s.Options = s.Options.withSet(key, value)
	return s
}

// RemoveOption removes every value of key.
func (s *Subsection) RemoveOption(key string) *Subsection {
	s.Options = s.Options.withRemoved(key)
	return s
}
