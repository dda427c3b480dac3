package object

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Signature is the author/committer/tagger identity line embedded in a
// commit or annotated tag: a name, an email, and the instant the action was
// taken, expressed as a Unix timestamp plus its original UTC offset.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// Decode parses the wire form "Name <email> unixSeconds +ZZZZ" (§6). It is
// deliberately lenient: malformed input leaves the zero Signature rather
// than returning an error, matching how commit parsing tolerates history
// written by older or buggy git clients.
func (s *Signature) Decode(b []byte) {
	open := bytes.LastIndexByte(b, '<')
	close := bytes.LastIndexByte(b, '>')
	if open == -1 || close == -1 || close < open {
		return
	}

	if open > 0 && b[open-1] == ' ' {
		s.Name = string(b[:open-1])
	} else {
		s.Name = string(b[:open])
	}
	s.Email = string(b[open+1 : close])

	hasTime := close+2 < len(b)
	if !hasTime {
		return
	}

	fields := bytes.SplitN(b[close+2:], []byte{' '}, 2)
	timestamp, err := strconv.ParseInt(string(fields[0]), 10, 64)
	if err != nil {
		return
	}

	if len(fields) == 2 {
		loc, ok := parseTimezone(string(fields[1]))
		if !ok {
			s.When = time.Unix(timestamp, 0).UTC()
			return
		}
		s.When = time.Unix(timestamp, 0).In(loc)
		return
	}

	s.When = time.Unix(timestamp, 0).UTC()
}

// parseTimezone parses a git-style "+ZZZZ"/"-ZZZZ" offset into a fixed
// location.
func parseTimezone(zone string) (*time.Location, bool) {
	zone = strings.TrimSpace(zone)
	if len(zone) != 5 || (zone[0] != '+' && zone[0] != '-') {
		return nil, false
	}
	hh, err := strconv.Atoi(zone[1:3])
	if err != nil {
		return nil, false
	}
	mm, err := strconv.Atoi(zone[3:5])
	if err != nil {
		return nil, false
	}
	offset := hh*3600 + mm*60
	if zone[0] == '-' {
		offset = -offset
	}
	return time.FixedZone("", offset), true
}

// Encode writes the wire form of s to w.
func (s *Signature) Encode(w *bytes.Buffer) {
	w.WriteString(s.Name)
	w.WriteString(" <")
	w.WriteString(s.Email)
	w.WriteString("> ")
	if !s.When.IsZero() {
		w.WriteString(strconv.FormatInt(s.When.Unix(), 10))
		w.WriteByte(' ')
		w.WriteString(s.When.Format("-0700"))
	}
}

// String renders the identity alone, as used for log/blame output.
func (s *Signature) String() string {
	return fmt.Sprintf("%s <%s>", s.Name, s.Email)
}
