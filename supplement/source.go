package supplement

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahoyle/classkit/class"
)

// ErrUnresolvable reports that a source reference could not be resolved to a
// concrete class. The target's in-flight counter is never incremented for a
// failed resolution, so an unresolvable source cannot block completion.
var ErrUnresolvable = errors.New("supplement: source is unresolvable")

// Resolver turns an opaque locator (typically a file path) into a concrete
// class. Implementations live outside the coordinator; see the loader
// package for the file-backed one.
type Resolver interface {
	Resolve(ctx context.Context, locator string) (*class.Class, error)
}

// Future is a deferred class resolution supplied by the caller.
type Future func(ctx context.Context) (*class.Class, error)

type refKind int

const (
	refConcrete refKind = iota
	refLocator
	refPending
)

// SourceRef is the tagged variant the coordinator accepts: an already
// concrete class, a locator handed to the resolver, or a pending resolution.
// Every ref goes through one normalization step before any copying happens.
type SourceRef struct {
	kind     refKind
	concrete *class.Class
	locator  string
	pending  Future
}

// Concrete wraps an already resolved class.
func Concrete(c *class.Class) SourceRef {
	return SourceRef{kind: refConcrete, concrete: c}
}

// Locator wraps an opaque locator resolved by the coordinator's Resolver.
func Locator(locator string) SourceRef {
	return SourceRef{kind: refLocator, locator: strings.TrimSpace(locator)}
}

// Pending wraps an in-flight resolution owned by the caller.
func Pending(future Future) SourceRef {
	return SourceRef{kind: refPending, pending: future}
}

// String names the ref for log lines.
func (r SourceRef) String() string {
	switch r.kind {
	case refLocator:
		return r.locator
	case refPending:
		return "<pending>"
	default:
		if r.concrete != nil && r.concrete.Name() != "" {
			return r.concrete.Name()
		}
		return "<class>"
	}
}

// resolve normalizes the ref to a concrete class. All failure modes collapse
// into ErrUnresolvable so callers have a single taxonomy entry to test.
func (r SourceRef) resolve(ctx context.Context, resolver Resolver) (*class.Class, error) {
	switch r.kind {
	case refConcrete:
		if r.concrete == nil {
			return nil, fmt.Errorf("supplement: nil source class: %w", ErrUnresolvable)
		}
		return r.concrete, nil
	case refLocator:
		if r.locator == "" {
			return nil, fmt.Errorf("supplement: empty locator: %w", ErrUnresolvable)
		}
		if resolver == nil {
			return nil, fmt.Errorf("supplement: no resolver configured for %s: %w", r.locator, ErrUnresolvable)
		}
		resolved, err := resolver.Resolve(ctx, r.locator)
		if err != nil {
			return nil, fmt.Errorf("supplement: resolve %s: %w: %w", r.locator, ErrUnresolvable, err)
		}
		if resolved == nil {
			return nil, fmt.Errorf("supplement: resolver returned no class for %s: %w", r.locator, ErrUnresolvable)
		}
		return resolved, nil
	case refPending:
		if r.pending == nil {
			return nil, fmt.Errorf("supplement: nil pending resolution: %w", ErrUnresolvable)
		}
		resolved, err := r.pending(ctx)
		if err != nil {
			return nil, fmt.Errorf("supplement: pending resolution: %w: %w", ErrUnresolvable, err)
		}
		if resolved == nil {
			return nil, fmt.Errorf("supplement: pending resolution returned no class: %w", ErrUnresolvable)
		}
		return resolved, nil
	default:
		return nil, fmt.Errorf("supplement: unknown source kind: %w", ErrUnresolvable)
	}
}
