package domains

import (
	"sync"
	"sync/atomic"

	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/aukilabs/idalloc/idgen"
	"github.com/google/uuid"
)

// Generator is the capability surface shared by all id generators.
type Generator interface {
	Next() uint64
}

// Kind selects the generator backing a domain.
type Kind string

const (
	KindSequential Kind = "sequential"
	KindReusable   Kind = "reusable"
	KindStrict     Kind = "strict"
	KindLockFree   Kind = "lockfree"
)

// ParseKind converts a string into a Kind.
func ParseKind(v string) (Kind, error) {
	switch kind := Kind(v); kind {
	case KindSequential, KindReusable, KindStrict, KindLockFree:
		return kind, nil

	default:
		return "", errors.New("unknown generator kind").WithTag("kind", v)
	}
}

// A Domain is a named id allocation scope backed by a single generator.
type Domain struct {
	Name string
	UUID string
	Kind Kind

	gen Generator

	issued   atomic.Uint64
	released atomic.Uint64
}

// Next returns an id from the domain generator.
func (d *Domain) Next() uint64 {
	id := d.gen.Next()
	d.issued.Add(1)
	instrumentCountIssuedID(d.Name, string(d.Kind))
	return id
}

// Release hands id back to the domain generator for reuse. It returns an
// error when the domain generator does not reuse ids, or when a strict
// generator rejects the release.
func (d *Domain) Release(id uint64) error {
	switch gen := d.gen.(type) {
	case interface{ Release(id uint64) error }:
		if err := gen.Release(id); err != nil {
			return errors.New("releasing id failed").
				WithTag("domain", d.Name).
				WithTag("id", id).
				Wrap(err)
		}

	case interface{ Release(id uint64) }:
		gen.Release(id)

	default:
		return errors.New("domain does not reuse ids").
			WithTag("domain", d.Name).
			WithTag("kind", d.Kind)
	}

	d.released.Add(1)
	instrumentCountReleasedID(d.Name, string(d.Kind))
	return nil
}

// Stats returns a snapshot of the domain tallies.
func (d *Domain) Stats() Stats {
	issued := d.issued.Load()
	released := d.released.Load()

	return Stats{
		Name:     d.Name,
		UUID:     d.UUID,
		Kind:     d.Kind,
		Issued:   issued,
		Released: released,
		InUse:    issued - released,
	}
}

// Stats describes the allocation activity of a domain. InUse assumes callers
// honor the release contract.
type Stats struct {
	Name     string `json:"name"`
	UUID     string `json:"uuid"`
	Kind     Kind   `json:"kind"`
	Issued   uint64 `json:"issued"`
	Released uint64 `json:"released"`
	InUse    uint64 `json:"in_use"`
}

// Store holds the allocation domains of a process, keyed by name.
type Store struct {
	initOnce sync.Once
	mutex    sync.RWMutex
	domains  map[string]*Domain
}

func (s *Store) init() {
	s.domains = map[string]*Domain{}
}

// Open returns the domain with the given name, creating it when it does not
// exist. Opening an existing domain with a different kind is an error.
func (s *Store) Open(name string, kind Kind) (*Domain, error) {
	s.initOnce.Do(s.init)
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if d, ok := s.domains[name]; ok {
		if d.Kind != kind {
			return nil, errors.New("domain is already open with another kind").
				WithTag("domain", name).
				WithTag("kind", d.Kind).
				WithTag("requested_kind", kind)
		}
		return d, nil
	}

	gen, err := newGenerator(kind)
	if err != nil {
		return nil, err
	}

	d := &Domain{
		Name: name,
		UUID: uuid.New().String(),
		Kind: kind,
		gen:  gen,
	}
	s.domains[name] = d

	instrumentIncreaseDomainGauge(string(kind))
	instrumentCountDomain(string(kind))
	return d, nil
}

// Get returns the domain with the given name.
func (s *Store) Get(name string) (*Domain, bool) {
	s.initOnce.Do(s.init)
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	d, ok := s.domains[name]
	return d, ok
}

// Remove forgets the domain with the given name. Ids issued from a removed
// domain stay valid but are never reused.
func (s *Store) Remove(name string) {
	s.initOnce.Do(s.init)
	s.mutex.Lock()
	defer s.mutex.Unlock()

	d, ok := s.domains[name]
	if !ok {
		return
	}
	delete(s.domains, name)

	instrumentDecreaseDomainGauge(string(d.Kind))
}

// List returns all open domains.
func (s *Store) List() []*Domain {
	s.initOnce.Do(s.init)
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	domains := make([]*Domain, 0, len(s.domains))
	for _, d := range s.domains {
		domains = append(domains, d)
	}
	return domains
}

// Stats returns a snapshot of every open domain.
func (s *Store) Stats() []Stats {
	domains := s.List()

	stats := make([]Stats, 0, len(domains))
	for _, d := range domains {
		stats = append(stats, d.Stats())
	}
	return stats
}

func newGenerator(kind Kind) (Generator, error) {
	switch kind {
	case KindSequential:
		return &idgen.SequentialIDGenerator{}, nil

	case KindReusable:
		return &idgen.ReusableIDGenerator{}, nil

	case KindStrict:
		return &idgen.StrictReusableIDGenerator{}, nil

	case KindLockFree:
		return &idgen.LockFreeReusableIDGenerator{}, nil

	default:
		return nil, errors.New("unknown generator kind").WithTag("kind", kind)
	}
}
