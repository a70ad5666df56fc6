// Package catalog defines the capability set the search core consumes
// (§6): execute, get_property, get_cached_value, get_class_table. Concrete
// implementations back onto a real store or a test double; the search core
// never imports a storage driver directly.
package catalog

import "context"

// Row is one result row from Execute, keyed by column name.
type Row map[string]any

// Statement names a table and a set of lookup conditions. Concrete
// backends translate it into whatever query language they speak.
type Statement struct {
	Table   string
	Filter  string
	Binds   map[string]any
	OrderBy string
	Limit   int
}

// ValueFactory computes a value to populate the cache on a miss.
type ValueFactory func(ctx context.Context) (any, error)

// Capability is the full set of operations a Search needs from the
// catalog.
type Capability interface {
	// Execute runs a structured query over one of the named tables
	// (placex, search_name, word, postcode, osmline, tiger, country_name,
	// country_grid, or a dynamic place_classtype_<class>_<type> table).
	Execute(ctx context.Context, stmt Statement) ([]Row, error)

	// GetProperty fetches a single scalar property (tokenizer config
	// version, rule-set revision, etc).
	GetProperty(ctx context.Context, name string) (string, error)

	// GetCachedValue returns a cached value for (namespace, key),
	// computing and storing it via factory on a miss.
	GetCachedValue(ctx context.Context, namespace, key string, factory ValueFactory) (any, error)

	// GetClassTable reports whether a companion place_classtype_<class>_
	// <type> table exists, and its name if so.
	GetClassTable(ctx context.Context, class, typ string) (table string, ok bool)
}
