package harness

import "github.com/domharness/domharness/internal/value"

// config holds the resolved construction options for a Harness.
type config struct {
	stepLimit        int
	logger           Logger
	fetchMock        func(url string, init value.Value) (value.Value, error)
	matchMedia       func(query string) bool
	confirmResponses []bool
	promptResponses  []string
}

// Option configures a Harness at construction time. Grounded on
// eventloop/options.go's LoopOption/loopOptionImpl/resolveLoopOptions
// pattern: an interface with one apply method, backed by a closure, plus a
// resolve function applying defaults then overrides in call order.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(cfg *config) { f(cfg) }

// WithStepLimit caps the number of timer/microtask steps a single
// advance_time or flush call may take before returning a fatal step-limit
// error (§4.6). Defaults to 10000.
func WithStepLimit(limit int) Option {
	return optionFunc(func(cfg *config) { cfg.stepLimit = limit })
}

// WithLogger overrides the default log.Default()-backed Logger.
func WithLogger(l Logger) Option {
	return optionFunc(func(cfg *config) { cfg.logger = l })
}

// WithFetchMock installs the function backing script-visible fetch(url,
// init) calls. Without one, fetch always rejects with a network-error
// reason (§6 "fetch mocking").
func WithFetchMock(fn func(url string, init value.Value) (value.Value, error)) Option {
	return optionFunc(func(cfg *config) { cfg.fetchMock = fn })
}

// WithMatchMedia installs the predicate backing matchMedia(query).
func WithMatchMedia(fn func(query string) bool) Option {
	return optionFunc(func(cfg *config) { cfg.matchMedia = fn })
}

// WithConfirmResponses queues the boolean results successive confirm(...)
// calls pop, in order; once exhausted, confirm returns false.
func WithConfirmResponses(responses ...bool) Option {
	return optionFunc(func(cfg *config) { cfg.confirmResponses = append([]bool(nil), responses...) })
}

// WithPromptResponses queues the string results successive prompt(...)
// calls pop, in order; once exhausted, prompt returns null.
func WithPromptResponses(responses ...string) Option {
	return optionFunc(func(cfg *config) { cfg.promptResponses = append([]string(nil), responses...) })
}

func resolveOptions(opts []Option) *config {
	cfg := &config{stepLimit: defaultStepLimit}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.apply(cfg)
	}
	if cfg.logger == nil {
		cfg.logger = NewDefaultLogger()
	}
	return cfg
}
