// Package seeders holds the registry of database seed functions. Seeders
// go through the services, so seeded stock is reconciled exactly like
// stock arriving over the API.
//
//	func init() {
//	    seeders.Register("catalogue", seedCatalogue)
//	}
package seeders

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/shashiranjanraj/inventory/app/services"
)

// Deps are the services a seeder may use.
type Deps struct {
	Products *services.ProductService
	Users    *services.UserService
}

// SeederFunc is the signature for a seed function.
type SeederFunc func(ctx context.Context, deps Deps) error

type seederEntry struct {
	name string
	fn   SeederFunc
}

var (
	mu      sync.Mutex
	entries []seederEntry
)

// Register adds a seeder to the global registry.
func Register(name string, fn SeederFunc) {
	mu.Lock()
	defer mu.Unlock()
	entries = append(entries, seederEntry{name: name, fn: fn})
}

// RunAll executes every registered seeder in registration order and stops
// on the first error. Progress is written to out.
func RunAll(ctx context.Context, deps Deps, out io.Writer) error {
	mu.Lock()
	current := append([]seederEntry(nil), entries...)
	mu.Unlock()

	if len(current) == 0 {
		fmt.Fprintln(out, "  (no seeders registered)")
		return nil
	}

	for _, e := range current {
		fmt.Fprintf(out, "  • Running seeder: %s … ", e.name)
		if err := e.fn(ctx, deps); err != nil {
			fmt.Fprintln(out, "FAILED")
			return fmt.Errorf("seeder %q: %w", e.name, err)
		}
		fmt.Fprintln(out, "done")
	}
	return nil
}
