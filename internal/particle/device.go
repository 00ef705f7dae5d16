package particle

import "regexp"

var mobileAgent = regexp.MustCompile(`(?i)Android|webOS|iPhone|iPad|iPod|BlackBerry|IEMobile|Opera Mini`)

// Classifier reports whether the host device should get the lighter field.
type Classifier interface {
	Constrained() bool
}

// Static is a fixed classification.
type Static bool

func (s Static) Constrained() bool { return bool(s) }

// UserAgent classifies by matching common mobile browser tokens.
type UserAgent string

func (u UserAgent) Constrained() bool { return mobileAgent.MatchString(string(u)) }

// Counts are the particle budgets per device tier.
type Counts struct {
	Default     int
	Constrained int
}

// CountFor picks the budget for the classified device.
func CountFor(c Classifier, counts Counts) int {
	if c != nil && c.Constrained() {
		return counts.Constrained
	}
	return counts.Default
}
