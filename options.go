package generator

// config holds construction-time options for a Generator.
type config struct {
	exactStackAccounting bool
	logger               Logger
}

// Option configures a Generator at construction time, following the same
// functional-option shape as the teacher's eventloop.LoopOption.
type Option interface {
	apply(*config) error
}

type optionFunc func(*config) error

func (f optionFunc) apply(c *config) error { return f(c) }

// WithExactStackAccounting poisons and measures the whole stack rather than
// just the fast 8-word probe (spec §4.B), trading allocation-time cost for
// a precise StackUsage reading. Equivalent to setting the low bit of the
// stack-words argument at the API level (spec §6's "stack size convention");
// this option exists for callers who'd rather not encode it in the size.
func WithExactStackAccounting(enabled bool) Option {
	return optionFunc(func(c *config) error {
		c.exactStackAccounting = enabled
		return nil
	})
}

// WithLogger attaches a diagnostic Logger to a Generator. The logger never
// sees the resume/yield hot path; it is used only to report an error from
// Close when a Generator is finalized without an explicit Close.
func WithLogger(logger Logger) Option {
	return optionFunc(func(c *config) error {
		c.logger = logger
		return nil
	})
}

func resolveOptions(opts []Option) (*config, error) {
	cfg := &config{logger: defaultLogger()}
	for _, o := range opts {
		if o == nil {
			continue
		}
		if err := o.apply(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
