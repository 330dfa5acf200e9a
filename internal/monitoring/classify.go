package monitoring

import (
	"math"
	"time"

	"github.com/groblegark/wtstatus/internal/status"
)

// DefaultStaleThreshold is how long a record may go without an update before
// it is classified stale.
const DefaultStaleThreshold = 2 * time.Hour

// Classifier derives a Class from a status record.
type Classifier struct {
	staleAfter time.Duration
	now        func() time.Time
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithStaleThreshold sets the stale detection threshold.
func WithStaleThreshold(d time.Duration) ClassifierOption {
	return func(c *Classifier) { c.staleAfter = d }
}

// WithStaleHours sets the stale detection threshold in (possibly fractional)
// hours. NaN and non-positive values leave the threshold unchanged; values
// beyond the range of time.Duration saturate.
func WithStaleHours(hours float64) ClassifierOption {
	return func(c *Classifier) {
		switch {
		case math.IsNaN(hours) || hours <= 0:
		case hours >= float64(math.MaxInt64)/float64(time.Hour):
			c.staleAfter = time.Duration(math.MaxInt64)
		default:
			c.staleAfter = time.Duration(hours * float64(time.Hour))
		}
	}
}

// WithClock sets the time source used as "now".
func WithClock(now func() time.Time) ClassifierOption {
	return func(c *Classifier) { c.now = now }
}

// NewClassifier creates a Classifier with the given options.
func NewClassifier(opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		staleAfter: DefaultStaleThreshold,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StaleThreshold returns the configured threshold.
func (c *Classifier) StaleThreshold() time.Duration {
	return c.staleAfter
}

// Now returns the classifier's current time.
func (c *Classifier) Now() time.Time {
	return c.now()
}

// Classify determines the class of a record at the classifier's current time.
func (c *Classifier) Classify(rec *status.AgentStatus) Class {
	return c.ClassifyAt(rec, c.now())
}

// ClassifyAt determines the class of a record as of now.
// A record exactly staleAfter old is stale.
func (c *Classifier) ClassifyAt(rec *status.AgentStatus, now time.Time) Class {
	if rec.IsBlocked {
		return ClassBlocked
	}
	elapsed := now.Sub(rec.LastUpdate)
	if elapsed < 0 {
		return ClassActive // Future timestamp (clock skew)
	}
	if elapsed >= c.staleAfter {
		return ClassStale
	}
	return ClassActive
}
