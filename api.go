// Package stasis produces immutable, deeply copied values.
//
// Given a composite value (object, array, map, set or date), stasis clones
// it, optionally lets a producer mutate the clone, and returns the result
// frozen all the way down. It also merges several values of the same kind
// into one frozen result, and waits on pending values before producing.
//
// # Value Model
//
// Go has no freezable maps or prototype chains, so the engine works on its
// own containers:
//
//   - Object: ordered properties with string or Symbol keys, descriptors
//     (writable, enumerable, configurable, getters and setters) and a
//     prototype chain
//   - Array: an ordered list
//   - Map: an insertion-ordered map with keys of any comparable type
//   - Set: an insertion-ordered set
//   - Date: an instant (a bare time.Time also classifies as a date)
//
// Everything else is a scalar and is shared, not copied, unless it has a
// Clone method (see Cloner). Native structs, maps and slices enter the
// model through Import and leave through Export or Bind.
//
// # Producing
//
//	base := stasis.NewObject()
//	base.Set("title", "draft")
//
//	next, err := stasis.Update(base, stasis.Apply(func(d *stasis.Object) error {
//	    return d.Set("title", "final")
//	}))
//
//	// base still reads "draft"; next reads "final" and is frozen
//	err = next.Set("title", "again") // ErrReadOnly
//
// Produce is the dynamic form and accepts the same call shapes as Update
// plus merging:
//
//	stasis.Produce(base)                       // clone and freeze
//	stasis.Produce(base, fn)                   // run a producer
//	stasis.Produce(base, fn, stasis.WithoutFreeze())
//	stasis.Produce(base, other, more)          // merge
//
// # Producers
//
// A Producer receives the draft and returns an Outcome: Keep to freeze the
// draft, Replace to freeze another value. Adapters cover the common shapes:
//
//   - Mutate: in-place change that cannot fail
//   - Apply: in-place change that may fail
//   - Transform: always replaces the draft
//
// # Freezing
//
// Frozen objects, arrays and dates refuse writes with a *MutationError.
// On frozen maps and sets, Set, Add, Delete and Clear do nothing; each call
// hands a Violation to the Reporter configured with WithReporter and emits
// a signal.
//
// # Async
//
// ProduceAsync (and Produce given a *Future) waits for the base, then
// produces. The returned future always resolves; failures arrive in
// Result.Err, with a rejected base reported as ErrRejected.
//
// # Struct Tags
//
// Import reads the stasis tag:
//
//	type User struct {
//	    ID    string `stasis:"id,readonly"`
//	    Notes string `stasis:"notes,hidden"`
//	    Token string `stasis:"-"`
//	}
//
// # Codec Providers
//
// The following codecs preserve key order in both directions:
//
//   - json - JSON encoding (application/json)
//   - yaml - YAML encoding (application/yaml)
//   - msgpack - MessagePack encoding (application/msgpack)
//   - bson - BSON encoding (application/bson)
//
// # Observability
//
// Operations emit capitan signals (see signals.go); hook them with
// capitan.Hook to log or measure.
package stasis
