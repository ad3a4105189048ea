package youngplatform

// CallOption is a per-call option for market-data methods.
type CallOption func(*callOptions)

type callOptions struct {
	depth int
}

// WithDepth sets the number of order book levels to request.
func WithDepth(depth int) CallOption {
	return func(o *callOptions) {
		o.depth = depth
	}
}

func applyCallOptions(opts ...CallOption) *callOptions {
	options := &callOptions{
		depth: defaultDepth,
	}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
