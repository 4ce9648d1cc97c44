// Package multimap is a distributed associative container: keys are hashed
// to a target locality, and every key maps to a growable vector of values —
// the Go analogue of the original SHAD Multimap/LocalMultimap pair, minus
// the ObjectID/GetPtr indirection the in-process transport doesn't need (see
// the Vector type's doc comment in containers/vector for the same point).
//
// Unlike containers/vector, a multimap's global iteration order has no
// useful flattened-integer meaning (key placement is hash-order, not
// insertion or value order), so it does not implement iter.Contract; it is
// driven directly through Insert/Lookup/Erase instead of package algo.
package multimap

import (
	"fmt"
	"sync"

	"github.com/OneOfOne/xxhash"
	"github.com/shadcore/shad/rt"
	"github.com/shadcore/shad/rterr"
)

// HashFunc maps a key to a hash used for bucket placement. DefaultHash
// covers any key type whose fmt.Sprint representation is injective enough
// for the caller's purposes; supply a dedicated HashFunc for anything else
// (binary keys, case-insensitive strings, etc).
type HashFunc[K any] func(K) uint64

// DefaultHash hashes fmt.Sprint(k) with xxhash, the same stable, non-cryptographic
// hash the teacher uses for object-name placement.
func DefaultHash[K any](k K) uint64 {
	h := xxhash.New64()
	fmt.Fprint(h, k)
	return h.Sum64()
}

// Multimap is a distributed multimap of K to []V, one bucket table per
// locality. The zero value is not usable; construct with New.
type Multimap[K comparable, V any] struct {
	hash    HashFunc[K]
	nLoc    int
	mu      []sync.Mutex
	buckets []map[K][]V
}

// New creates an empty Multimap over the current locality set.
func New[K comparable, V any](hash HashFunc[K]) *Multimap[K, V] {
	if hash == nil {
		hash = DefaultHash[K]
	}
	n := rt.NumLocalities()
	m := &Multimap[K, V]{hash: hash, nLoc: n, mu: make([]sync.Mutex, n), buckets: make([]map[K][]V, n)}
	for i := range m.buckets {
		m.buckets[i] = make(map[K][]V)
	}
	return m
}

func (m *Multimap[K, V]) targetLocality(key K) rt.Locality {
	return rt.Locality(m.hash(key) % uint64(m.nLoc))
}

type kv[K comparable, V any] struct {
	Key K
	Val V
}

// Insert adds a key-value pair. Multiple values may be inserted under the
// same key; none are overwritten.
func (m *Multimap[K, V]) Insert(key K, val V) error {
	loc := m.targetLocality(key)
	return rt.ExecuteAt(loc, func(a kv[K, V]) {
		m.mu[loc].Lock()
		defer m.mu[loc].Unlock()
		m.buckets[loc][a.Key] = append(m.buckets[loc][a.Key], a.Val)
	}, kv[K, V]{key, val})
}

// InsertAsync is the asynchronous form of Insert, attached to h.
func (m *Multimap[K, V]) InsertAsync(h *rt.Handle, key K, val V) error {
	loc := m.targetLocality(key)
	return rt.ExecuteAtAsync(h, loc, func(a kv[K, V]) {
		m.mu[loc].Lock()
		defer m.mu[loc].Unlock()
		m.buckets[loc][a.Key] = append(m.buckets[loc][a.Key], a.Val)
	}, kv[K, V]{key, val})
}

// Erase removes a key and every value stored under it.
func (m *Multimap[K, V]) Erase(key K) error {
	loc := m.targetLocality(key)
	return rt.ExecuteAt(loc, func(k K) {
		m.mu[loc].Lock()
		defer m.mu[loc].Unlock()
		delete(m.buckets[loc], k)
	}, key)
}

// EraseAsync is the asynchronous form of Erase, attached to h.
func (m *Multimap[K, V]) EraseAsync(h *rt.Handle, key K) error {
	loc := m.targetLocality(key)
	return rt.ExecuteAtAsync(h, loc, func(k K) {
		m.mu[loc].Lock()
		defer m.mu[loc].Unlock()
		delete(m.buckets[loc], k)
	}, key)
}

type lookupResult[V any] struct {
	Ptr   rt.RemotePtr[V]
	N     int
	Found bool
}

// Lookup returns every value stored under key, or ok=false if the key is
// absent. The value vector is variable-length, so this goes through the dma
// path (C5) rather than the
// fixed-shape typed-argument/result channel: the owning locality snapshots
// the bucket into a freshly exported region, and this call pulls it over
// with rt.Get before releasing it.
func (m *Multimap[K, V]) Lookup(key K) (values []V, ok bool, err error) {
	loc := m.targetLocality(key)
	res, err := rt.CallAt(loc, func(k K) lookupResult[V] {
		m.mu[loc].Lock()
		vs, found := m.buckets[loc][k]
		snapshot := make([]V, len(vs))
		copy(snapshot, vs)
		m.mu[loc].Unlock()
		if !found {
			return lookupResult[V]{}
		}
		return lookupResult[V]{Ptr: rt.Export(loc, snapshot), N: len(snapshot), Found: true}
	}, key)
	if err != nil {
		return nil, false, err
	}
	if !res.Found {
		return nil, false, nil
	}
	out := make([]V, res.N)
	if err := rt.Get(out, res.Ptr, res.N); err != nil {
		return nil, false, err
	}
	res.Ptr.Release()
	return out, true, nil
}

// NumberKeys returns the total number of distinct keys across every locality.
func (m *Multimap[K, V]) NumberKeys() (int, error) {
	counts, err := rt.CallOnAll(func(_ struct{}) int {
		loc := rt.ThisLocality()
		m.mu[loc].Lock()
		defer m.mu[loc].Unlock()
		return len(m.buckets[loc])
	}, struct{}{})
	if err != nil {
		return 0, err
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	return total, nil
}

// CheckKeyPlacement verifies the multimap's own container contract: every
// key stored in locality loc's bucket table must hash to loc. It is the
// hash-placement analogue of iter.CheckPartitionErr for containers, like
// this one, that don't implement iter.Contract — an opportunistic detector
// for ContainerContractViolation test suites are expected to call, not a
// check performed on every Insert.
func (m *Multimap[K, V]) CheckKeyPlacement() error {
	type misplaced struct {
		Key K
		Loc int
	}
	results, err := rt.CallOnAll(func(_ struct{}) []misplaced {
		loc := rt.ThisLocality()
		m.mu[loc].Lock()
		defer m.mu[loc].Unlock()
		var bad []misplaced
		for k := range m.buckets[loc] {
			if m.targetLocality(k) != loc {
				bad = append(bad, misplaced{Key: k, Loc: int(loc)})
			}
		}
		return bad
	}, struct{}{})
	if err != nil {
		return err
	}
	for _, perLoc := range results {
		for _, bad := range perLoc {
			return &rterr.ContainerContractViolation{
				Reason: fmt.Sprintf("key %v stored in locality %d bucket, hashes to a different locality", bad.Key, bad.Loc),
			}
		}
	}
	return nil
}

// Size returns the total number of key-value entries (counting every value
// under every key) across every locality.
func (m *Multimap[K, V]) Size() (int, error) {
	counts, err := rt.CallOnAll(func(_ struct{}) int {
		loc := rt.ThisLocality()
		m.mu[loc].Lock()
		defer m.mu[loc].Unlock()
		n := 0
		for _, vs := range m.buckets[loc] {
			n += len(vs)
		}
		return n
	}, struct{}{})
	if err != nil {
		return 0, err
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	return total, nil
}
