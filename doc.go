// Package nebula is an in-memory engine for nested columnar arrays.
//
// Rows of host values (scalars, strings, lists, structs, tuples and maps) are
// converted into Arrow-compatible columnar storage in two passes: a counting
// pass sizes every nesting level, then a single fill pass writes offsets,
// null bits and leaf data into buffers that never grow. Maps are stored as
// lists of key/value structs, and strings can be split on a separator into a
// zero-copy view that shares the source's character buffer.
//
// # Packages
//
//	pkg/columnar  - shapes, values, arrays, builders, map array, split view, arrow interop
//	pkg/errors    - structured errors with typed sentinels
//	pkg/config    - YAML and environment configuration
//	pkg/logger    - zap structured logging
//	pkg/metrics   - Prometheus build metrics
//	pkg/json      - JSON host-value codec on goccy/go-json
//	pkg/pool      - generic object pools
//	pkg/strings   - zero-copy string helpers
//
// # Command line
//
// cmd/nestctl builds arrays from JSON rows and prints them back:
//
//	echo '[{"a":1,"a":2},null]' | nestctl map --value int64
//	echo '["a,b,c",""]' | nestctl split --sep ,
//	nestctl shape 'struct<id:int64,tags:list<utf8>>'
package nebula
