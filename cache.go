package dynrec

import (
	"slices"
	"sync"
)

// Cache deduplicates compiled schemas by shape. Compile does not deduplicate
// on its own; callers that build the same shape repeatedly can route through
// a Cache instead. The zero value is ready to use and safe for concurrent use.
type Cache struct {
	mu      sync.Mutex
	schemas map[uint64][]*Schema
}

// Compile returns the cached schema for (typeName, fields) or compiles and
// stores a new one. Errors are not cached.
func (c *Cache) Compile(typeName string, fields ...FieldDescriptor) (*Schema, error) {
	fp := fingerprint(typeName, fields)

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range c.schemas[fp] {
		if s.name == typeName && slices.Equal(s.Fields(), fields) {
			return s, nil
		}
	}
	s, err := Compile(typeName, fields...)
	if err != nil {
		return nil, err
	}
	if c.schemas == nil {
		c.schemas = make(map[uint64][]*Schema)
	}
	c.schemas[fp] = append(c.schemas[fp], s)
	return s, nil
}

// Len returns the number of distinct schemas held.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, ss := range c.schemas {
		n += len(ss)
	}
	return n
}
