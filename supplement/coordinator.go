package supplement

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/ahoyle/classkit/class"
	"github.com/ahoyle/classkit/internal/logbook"
)

// targetMeta is the per-target supplementation record: how many operations
// are in flight and the completion signal. Created lazily on the first
// operation against a target and kept for the target's lifetime.
type targetMeta struct {
	inflight  int
	completed int
	resolved  bool
	done      chan struct{}
}

// Coordinator copies writable members from source classes onto target
// classes and tracks completion per target. Metadata lives in a side table
// keyed by target identity, never on the class itself.
type Coordinator struct {
	resolver Resolver
	log      *logbook.Logbook

	mu   sync.Mutex
	meta map[*class.Class]*targetMeta

	// copyMu serializes copy phases. Resolutions may interleave freely, but
	// two copy phases never run at the same time.
	copyMu sync.Mutex
}

// Option customizes the coordinator.
type Option func(*Coordinator)

// WithLogbook attaches a logbook; each operation logs under a short op ID.
func WithLogbook(log *logbook.Logbook) Option {
	return func(c *Coordinator) {
		if log != nil {
			c.log = log
		}
	}
}

// New wires a coordinator to a resolver. The resolver may be nil when only
// Concrete and Pending refs are used; Locator refs then fail to resolve.
func New(resolver Resolver, opts ...Option) *Coordinator {
	coord := &Coordinator{
		resolver: resolver,
		meta:     map[*class.Class]*targetMeta{},
	}
	for _, opt := range opts {
		opt(coord)
	}
	return coord
}

// SupplementOne resolves ref and copies its writable members onto target:
// instance methods first, then statics, each in the source table's own
// order. Same-name entries are overwritten, last writer wins. Non-writable
// members are skipped silently. The target's metadata record is created as
// soon as the call is issued, so Done works while the resolution is still in
// flight; the in-flight counter itself is incremented only after the source
// resolves, so a failed resolution never blocks the target's completion
// signal.
func (c *Coordinator) SupplementOne(ctx context.Context, target *class.Class, ref SourceRef) error {
	if target == nil {
		return fmt.Errorf("supplement: target class is required")
	}
	c.register(target)
	log := c.log.With("op-" + uuid.NewString()[:8])
	source, err := ref.resolve(ctx, c.resolver)
	if err != nil {
		log.Warn("%s: %v", ref, err)
		return err
	}
	c.enter(target)
	defer c.leave(target)

	c.copyMu.Lock()
	defer c.copyMu.Unlock()
	copied, err := copyMembers(source.Methods(), target.Methods())
	if err != nil {
		return fmt.Errorf("supplement: copy instance members of %s: %w", source.Name(), err)
	}
	staticCopied, err := copyMembers(source.Statics(), target.Statics())
	if err != nil {
		return fmt.Errorf("supplement: copy static members of %s: %w", source.Name(), err)
	}
	log.Info("%s supplemented %s (%d instance, %d static)",
		sourceLabel(source, ref), targetLabel(target), copied, staticCopied)
	return nil
}

// SupplementMany issues one SupplementOne per ref, each on its own
// goroutine. Calls are unordered and independent: a source that fails to
// resolve is logged and dropped without aborting the batch. Callers who need
// "all done" await the target's completion signal via Done.
func (c *Coordinator) SupplementMany(ctx context.Context, target *class.Class, refs []SourceRef) {
	for _, ref := range refs {
		go func(ref SourceRef) {
			if err := c.SupplementOne(ctx, target, ref); err != nil {
				c.logf("batch source %s failed: %v", ref, err)
			}
		}(ref)
	}
}

// Done returns the target's completion signal. The channel is closed exactly
// once, when the in-flight counter returns to zero after having been raised
// at least once; awaiting it repeatedly is safe. The signal is available from
// the moment a supplementation call is issued, even while its resolution is
// still in flight; only a target with no calls at all is an error (the
// metadata does not exist yet). A new round of supplementation after
// completion raises the counter again but never re-arms the closed channel.
//
// With staggered calls the counter can touch zero between them: if one
// source finishes its copy before a slower source has resolved, the signal
// closes with the slow source's members still absent. Callers mixing fast
// and slow sources who need strict joint completion should await their own
// calls instead.
func (c *Coordinator) Done(target *class.Class) (<-chan struct{}, error) {
	if target == nil {
		return nil, fmt.Errorf("supplement: target class is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	meta, ok := c.meta[target]
	if !ok {
		return nil, fmt.Errorf("supplement: no supplementation requested for %s", targetLabel(target))
	}
	return meta.done, nil
}

// InFlight reports how many operations are currently executing against the
// target. Zero for targets that were never supplemented.
func (c *Coordinator) InFlight(target *class.Class) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	meta, ok := c.meta[target]
	if !ok {
		return 0
	}
	return meta.inflight
}

// Completed reports how many operations have finished their copy phase
// against the target. Reading it synchronizes with those copy phases, so a
// caller that has observed Completed == k may inspect the target's tables
// for the first k copies without further locking.
func (c *Coordinator) Completed(target *class.Class) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	meta, ok := c.meta[target]
	if !ok {
		return 0
	}
	return meta.completed
}

// register creates the target's metadata record without touching the
// counter, so the completion signal exists while resolutions are in flight.
func (c *Coordinator) register(target *class.Class) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.meta[target]; !ok {
		c.meta[target] = &targetMeta{done: make(chan struct{})}
	}
}

// enter raises the counter. The metadata record already exists; register
// runs before any resolution starts.
func (c *Coordinator) enter(target *class.Class) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.meta[target].inflight++
}

// leave lowers the counter and resolves the completion signal the first time
// the counter returns to zero. The check and the close happen under the same
// lock so concurrent decrements cannot lose the transition.
func (c *Coordinator) leave(target *class.Class) {
	c.mu.Lock()
	defer c.mu.Unlock()
	meta, ok := c.meta[target]
	if !ok {
		return
	}
	meta.inflight--
	meta.completed++
	if meta.inflight == 0 && !meta.resolved {
		meta.resolved = true
		close(meta.done)
	}
}

// copyMembers copies every writable member of src onto dst. Instance and
// static copies run against separate destinations, so a key present in both
// source tables never collides.
func copyMembers(src, dst *class.Table) (int, error) {
	seq, err := class.Enumerate(src)
	if err != nil {
		return 0, err
	}
	copied := 0
	for key, desc := range seq {
		if !desc.Writable {
			continue
		}
		if err := dst.Define(key, desc); err != nil {
			return copied, err
		}
		copied++
	}
	return copied, nil
}

func (c *Coordinator) logf(format string, args ...any) {
	if c.log == nil {
		return
	}
	c.log.Info(format, args...)
}

func sourceLabel(source *class.Class, ref SourceRef) string {
	if source != nil && source.Name() != "" {
		return source.Name()
	}
	return ref.String()
}

func targetLabel(target *class.Class) string {
	if target != nil && target.Name() != "" {
		return target.Name()
	}
	return "<anonymous class>"
}
