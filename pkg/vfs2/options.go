package vfs2

import (
	"fmt"
	"log/slog"
	"strings"
)

// NamePolicy selects how name fields that are not valid UTF-8 are handled.
type NamePolicy int

const (
	// NameStrict fails decoding with ErrDecode.
	NameStrict NamePolicy = iota
	// NameLenient substitutes U+FFFD for each invalid sequence.
	NameLenient
)

func (p NamePolicy) String() string {
	switch p {
	case NameStrict:
		return "strict"
	case NameLenient:
		return "lenient"
	}
	return fmt.Sprintf("NamePolicy(%d)", int(p))
}

// ParseNamePolicy parses "strict" or "lenient".
func ParseNamePolicy(s string) (NamePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "strict":
		return NameStrict, nil
	case "lenient":
		return NameLenient, nil
	}
	return NameStrict, fmt.Errorf("vfs2: unknown name policy %q (want strict or lenient)", s)
}

// Option configures decoding and path resolution.
type Option func(*options)

type options struct {
	logger        *slog.Logger
	namePolicy    NamePolicy
	strictParents bool
}

func newOptions(opts []Option) options {
	o := options{namePolicy: NameStrict}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}
	return o
}

// WithLogger sets the logger used for diagnostics. By default nothing is logged.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithNamePolicy sets the name decoding policy. The default is NameStrict.
func WithNamePolicy(p NamePolicy) Option {
	return func(o *options) {
		o.namePolicy = p
	}
}

// WithStrictParents makes path resolution fail with ErrMissingParent when a
// parent ID is not in the catalog. By default the path is truncated at that
// point and a warning is logged.
func WithStrictParents(strict bool) Option {
	return func(o *options) {
		o.strictParents = strict
	}
}
