// Package reportlog adapts a logrus logger into a strata.Reporter so that
// resolution diagnostics (which source won each field, which fields were
// missing) show up in application logs.
//
// Example:
//
//	reporter := reportlog.New(logrus.StandardLogger())
//	cfg, err := ResolveConfig(partials, names, strata.WithReporter(reporter))
package reportlog
