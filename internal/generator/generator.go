// Package generator produces identifiers for build runs.
package generator

import (
	"strconv"
	"sync"

	"github.com/google/uuid"
)

// Generator returns a new value of type T on each call.
type Generator[T any] interface {
	Next() (T, error)
}

// UUIDV4Generator produces random UUIDv4 strings.
type UUIDV4Generator struct{}

func (g *UUIDV4Generator) Next() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

var _ Generator[string] = &UUIDV4Generator{}

// SequenceGenerator produces Prefix1, Prefix2, ... and is safe for
// concurrent use. It gives reproducible run IDs in logs and tests.
type SequenceGenerator struct {
	Prefix string

	mu sync.Mutex
	n  int
}

func (g *SequenceGenerator) Next() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return g.Prefix + strconv.Itoa(g.n), nil
}

var _ Generator[string] = &SequenceGenerator{}
