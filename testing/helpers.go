// Package testing provides test utilities for stasis.
package testing

import (
	"sync"
	"testing"
	"time"

	"github.com/zoobzio/stasis"
)

// Epoch is the fixed instant used by the fixtures.
var Epoch = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

// Recorder collects violations reported by frozen maps and sets.
// It is safe for concurrent use.
type Recorder struct {
	mu         sync.Mutex
	violations []stasis.Violation
}

// Reporter returns a stasis.Reporter that appends to r.
func (r *Recorder) Reporter() stasis.Reporter {
	return func(v stasis.Violation) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.violations = append(r.violations, v)
	}
}

// Violations returns a copy of everything recorded so far.
func (r *Recorder) Violations() []stasis.Violation {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stasis.Violation, len(r.violations))
	copy(out, r.violations)
	return out
}

// Len returns the number of recorded violations.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.violations)
}

// User is a fixture type exercising every stasis tag option.
type User struct {
	ID       string    `json:"id" stasis:"id,readonly"`
	Name     string    `json:"name" stasis:"name"`
	Tags     []string  `json:"tags" stasis:"tags"`
	Notes    string    `json:"notes" stasis:"notes,hidden"`
	Password string    `json:"-" stasis:"-"`
	Joined   time.Time `json:"joined" stasis:"joined"`
}

// Clone implements stasis.Cloner[User].
func (u User) Clone() User {
	tags := make([]string, len(u.Tags))
	copy(tags, u.Tags)
	u.Tags = tags
	return u
}

// NewUser returns a populated User.
func NewUser() User {
	return User{
		ID:       "u-1",
		Name:     "Alice",
		Tags:     []string{"admin", "ops"},
		Notes:    "internal",
		Password: "secret",
		Joined:   Epoch,
	}
}

// SampleState builds an unfrozen object holding one value of every
// composite kind:
//
//	{name: "root", list: [1, [2, 3]], lookup: Map{"a" => 1}, seen: Set{"x"}, at: Date}
func SampleState(tb testing.TB) *stasis.Object {
	tb.Helper()
	o := stasis.NewObject()
	set := func(k string, v any) {
		if err := o.Set(k, v); err != nil {
			tb.Fatalf("Set(%q) error: %v", k, err)
		}
	}
	set("name", "root")
	set("list", stasis.NewArray(1, stasis.NewArray(2, 3)))
	set("lookup", stasis.NewMap().Set("a", 1))
	set("seen", stasis.NewSet("x"))
	set("at", stasis.NewDate(Epoch))
	return o
}

// AssertFrozen fails the test unless v is frozen all the way down.
func AssertFrozen(tb testing.TB, v any) {
	tb.Helper()
	if !stasis.IsFrozen(v) {
		tb.Errorf("IsFrozen(%T) = false, want true", v)
	}
}

// AssertEqual fails the test unless got and want are structurally equal.
func AssertEqual(tb testing.TB, got, want any) {
	tb.Helper()
	if !stasis.Equal(got, want) {
		tb.Errorf("Equal() = false:\n got  %v\n want %v", stasis.Export(got), stasis.Export(want))
	}
}
