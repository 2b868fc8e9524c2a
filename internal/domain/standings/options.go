package standings

// Option applies a configuration option to a Ranker.
type Option func(*Ranker)

// WithChain sets the tiebreaker chain. An empty chain keeps the default.
func WithChain(chain Chain) Option {
	return func(r *Ranker) {
		if len(chain) > 0 {
			r.chain = append(Chain(nil), chain...)
		}
	}
}

// WithTiebreakers sets the chain by criterion name. Names are validated by
// NewRanker.
func WithTiebreakers(names ...string) Option {
	return func(r *Ranker) {
		if len(names) > 0 {
			r.names = append([]string(nil), names...)
		}
	}
}
