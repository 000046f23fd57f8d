package strand

import (
	"github.com/pkg/errors"
)

// Strand tags a coverage track and the contigs called from it.
type Strand byte

const (
	Plus       Strand = '+'
	Minus      Strand = '-'
	Unstranded Strand = 'u'
)

func (s Strand) String() string {
	return string(s)
}

// Antisense returns the opposite strand. Unstranded tracks have no antisense
// partner and return Unstranded.
func (s Strand) Antisense() Strand {
	switch s {
	case Plus:
		return Minus
	case Minus:
		return Plus
	}
	return Unstranded
}

func (s Strand) IsStranded() bool {
	return s == Plus || s == Minus
}

// Parse converts a single character tag to a Strand.
func Parse(tag string) (Strand, error) {
	if len(tag) != 1 {
		return 0, errors.Errorf("malformed strand tag %q", tag)
	}
	s := Strand(tag[0])
	if s != Plus && s != Minus && s != Unstranded {
		return 0, errors.Errorf("malformed strand tag %q", tag)
	}
	return s, nil
}

// Order returns the fixed processing order of strand tags for a run.
func Order(stranded bool) []Strand {
	if stranded {
		return []Strand{Plus, Minus}
	}
	return []Strand{Unstranded}
}
