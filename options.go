package stasis

import "context"

// config holds the settings for one engine call.
type config struct {
	freeze   bool
	reporter Reporter
	ctx      context.Context
}

// Option configures Produce, Update, FreezeDeep, ProduceAsync and Decode.
type Option func(*config)

// WithFreeze controls whether the final freeze step runs. Default is true.
func WithFreeze(enabled bool) Option {
	return func(c *config) {
		c.freeze = enabled
	}
}

// WithoutFreeze returns results mutable.
func WithoutFreeze() Option {
	return WithFreeze(false)
}

// WithReporter installs r on every map and set frozen by the call.
// It receives each rejected mutation after the signal is emitted.
func WithReporter(r Reporter) Option {
	return func(c *config) {
		c.reporter = r
	}
}

// WithContext sets the context used for emitted signals and, on the async
// path, for the wait on the pending base state.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

func newConfig(opts []Option) *config {
	c := &config{
		freeze: true,
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// finish runs the freeze step if enabled and returns v.
func (c *config) finish(v any) any {
	if c.freeze {
		freezeValue(c.ctx, v, c.reporter)
	}
	return v
}

// splitOptions removes trailing Option values from args.
func splitOptions(args []any) ([]any, []Option) {
	end := len(args)
	for end > 0 {
		if _, ok := args[end-1].(Option); !ok {
			break
		}
		end--
	}
	opts := make([]Option, 0, len(args)-end)
	for _, a := range args[end:] {
		opts = append(opts, a.(Option))
	}
	return args[:end], opts
}
