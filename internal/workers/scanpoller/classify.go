package scanpoller

import (
	"errors"
	"regexp"
)

// transientPattern is the poll-error retry contract: gateway errors, rate
// limits and transport failures are worth another attempt.
var transientPattern = regexp.MustCompile(`(?i)502|503|429|network|fetch|timeout`)

// Transient reports whether a poll error should move the job to retrying
// instead of a terminal state. Errors carrying a structured kind (the
// backend adapter's status-coded errors) are consulted first; anything else
// falls back to matching the message.
func Transient(err error) bool {
	var kinded interface{ Transient() bool }
	if errors.As(err, &kinded) {
		return kinded.Transient()
	}
	return transientPattern.MatchString(err.Error())
}
