package strata

// Hand-maintained copies of what stratagen emits for two small config
// structs, so the engine and decode tests exercise the exact shapes the
// generator produces.

type endpoint struct {
	Host string
	Port int
	Tags []string
}

type endpointPartial struct {
	Host Optional[string]   `strata:"host"`
	Port Optional[int]      `strata:"port"`
	Tags Optional[[]string] `strata:"tags"`
}

func (p *endpointPartial) Schema() *Schema { return endpointSchema }

func (p *endpointPartial) Get(i int) (any, bool) {
	switch i {
	case 0:
		if p.Host.Set {
			return p.Host.Value, true
		}
	case 1:
		if p.Port.Set {
			return p.Port.Value, true
		}
	case 2:
		if p.Tags.Set {
			return p.Tags.Value, true
		}
	}
	return nil, false
}

var endpointSchema = &Schema{
	Name: "endpoint",
	Fields: []Field{
		{Name: "host", Kind: KindScalar, Strategy: Override, Required: true},
		{Name: "port", Kind: KindScalar, Strategy: Override, Required: true},
		{Name: "tags", Kind: KindCollection, Strategy: Append},
	},
	Build: func(values []any) any {
		return endpoint{
			Host: values[0].(string),
			Port: values[1].(int),
			Tags: AsSlice[string](values[2]),
		}
	},
}

type server struct {
	Host string
	Port int
}

type serverPartial struct {
	Host Optional[string] `strata:"host"`
	Port Optional[int]    `strata:"port"`
}

func (p *serverPartial) Schema() *Schema { return serverSchema }

func (p *serverPartial) Get(i int) (any, bool) {
	switch i {
	case 0:
		if p.Host.Set {
			return p.Host.Value, true
		}
	case 1:
		if p.Port.Set {
			return p.Port.Value, true
		}
	}
	return nil, false
}

var serverSchema = &Schema{
	Name: "server",
	Fields: []Field{
		{Name: "host", Kind: KindScalar, Strategy: Override, Required: true},
		{Name: "port", Kind: KindScalar, Strategy: Override, Required: true},
	},
	Build: func(values []any) any {
		return server{
			Host: values[0].(string),
			Port: values[1].(int),
		}
	},
}

type app struct {
	Name   string
	Server server
	Debug  Optional[bool]
	Admins []string
}

type appPartial struct {
	Name   Optional[string]   `strata:"name"`
	Server *serverPartial     `strata:"server"`
	Debug  Optional[bool]     `strata:"debug"`
	Admins Optional[[]string] `strata:"admins"`
}

func (p *appPartial) Schema() *Schema { return appSchema }

func (p *appPartial) Get(i int) (any, bool) {
	switch i {
	case 0:
		if p.Name.Set {
			return p.Name.Value, true
		}
	case 1:
		if p.Server != nil {
			return p.Server, true
		}
	case 2:
		if p.Debug.Set {
			return p.Debug.Value, true
		}
	case 3:
		if p.Admins.Set {
			return p.Admins.Value, true
		}
	}
	return nil, false
}

var appSchema = &Schema{
	Name: "app",
	Fields: []Field{
		{Name: "name", Kind: KindScalar, Strategy: Override, Required: true},
		{Name: "server", Kind: KindNested, Strategy: MergeNested, Sub: serverSchema},
		{Name: "debug", Kind: KindOptional, Strategy: Override},
		{Name: "admins", Kind: KindCollection, Strategy: Override},
	},
	Build: func(values []any) any {
		return app{
			Name:   values[0].(string),
			Server: values[1].(server),
			Debug:  AsOptional[bool](values[2]),
			Admins: AsSlice[string](values[3]),
		}
	},
}

// appOverrideSchema is appSchema with the nested server field switched to
// the Override strategy, for whole-struct override tests.
var appOverrideSchema = &Schema{
	Name: "app",
	Fields: []Field{
		{Name: "name", Kind: KindScalar, Strategy: Override, Required: true},
		{Name: "server", Kind: KindNested, Strategy: Override, Sub: serverSchema},
		{Name: "debug", Kind: KindOptional, Strategy: Override},
		{Name: "admins", Kind: KindCollection, Strategy: Override},
	},
	Build: appSchema.Build,
}

func endpointPartials(ps ...*endpointPartial) []Partial {
	out := make([]Partial, len(ps))
	for i, p := range ps {
		out[i] = p
	}
	return out
}

func appPartials(ps ...*appPartial) []Partial {
	out := make([]Partial, len(ps))
	for i, p := range ps {
		out[i] = p
	}
	return out
}
