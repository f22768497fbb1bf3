package reportlog

import (
	"github.com/sirupsen/logrus"

	"github.com/strataconf/strata"
)

type reporter struct {
	log *logrus.Logger
}

// New returns a Reporter that logs each resolution event through logger.
// Resolved and defaulted fields log at debug level, missing required fields
// at warn.
func New(logger *logrus.Logger) strata.Reporter {
	return &reporter{log: logger}
}

func (r *reporter) Report(e strata.Event) {
	entry := r.log.WithFields(logrus.Fields{
		"field":  e.Path,
		"source": e.Source,
	})

	switch e.Action {
	case strata.ActionMissing:
		entry.Warn("config field missing from every source")
	case strata.ActionDefaulted:
		entry.Debug("config field defaulted")
	case strata.ActionAppended:
		entry.Debug("config field appended")
	default:
		entry.Debug("config field resolved")
	}
}
