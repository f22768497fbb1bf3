// Package strata merges layered partial configuration sources into one
// fully-resolved struct, field by field, according to a fixed precedence
// order.
//
// Each config struct gets a generated partial type, schema descriptor, and
// merge glue via the stratagen tool:
//
//	//go:generate stratagen --type Config,Server
//	type Server struct {
//	    Host string
//	    Port int
//	}
//	type Config struct {
//	    Server Server
//	    Tags   []string `strata:"append"`
//	    Debug  strata.Optional[bool]
//	}
//
// Generated code lands in <first type lowercased>_strata.go (here
// config_strata.go) unless --output says otherwise.
//
//	cfg, err := LoadConfig(ctx, []strata.Source{
//	    sourcefile.New("config.yaml", sourcefile.Options{}),
//	    sourceenv.New(sourceenv.Options{Prefix: "APP_"}),
//	})
//
// Sources are ordered lowest to highest precedence: for scalar fields the
// highest-precedence source that sets the field wins, collections merge by
// their declared strategy, and a required field absent from every source
// fails resolution with its dotted path.
//
// Tag directives: append, override, name:key
//
// See example_test.go and examples/basic for detailed usage.
package strata
