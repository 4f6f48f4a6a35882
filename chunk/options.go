package chunk

// DecodeOption configures a decode operation.
type DecodeOption func(*decodeConfig)

type decodeConfig struct {
	predicates map[string]struct{}
}

// WithPredicates restricts the decoded result to triples whose predicate is
// in names. The decoder still walks every row to keep per-type value cursors
// consistent; the filter only suppresses construction of output triples.
//
// Passing no names leaves the decode unfiltered.
func WithPredicates(names ...string) DecodeOption {
	return func(cfg *decodeConfig) {
		if len(names) == 0 {
			return
		}
		if cfg.predicates == nil {
			cfg.predicates = make(map[string]struct{}, len(names))
		}
		for _, name := range names {
			cfg.predicates[name] = struct{}{}
		}
	}
}

func newDecodeConfig(opts []DecodeOption) decodeConfig {
	var cfg decodeConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// wants reports whether a row with the given predicate should be emitted.
func (cfg *decodeConfig) wants(predicate string) bool {
	if cfg.predicates == nil {
		return true
	}

	_, ok := cfg.predicates[predicate]

	return ok
}
