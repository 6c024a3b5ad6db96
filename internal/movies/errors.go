package movies

import (
	"errors"
	"fmt"
)

// ErrMissingColumns indicates the source header lacks required columns.
var ErrMissingColumns = errors.New("required columns missing")

// DataSourceError reports a source that cannot produce a dataset at all:
// unreadable, unsupported, or schema-incompatible. It is fatal to a query cycle.
type DataSourceError struct {
	Path string
	Op   string
	Err  error
}

func (e *DataSourceError) Error() string {
	if e == nil {
		return "data source error"
	}
	if e.Path != "" {
		return fmt.Sprintf("data source %s: %s: %v", e.Path, e.Op, e.Err)
	}
	return fmt.Sprintf("data source: %s: %v", e.Op, e.Err)
}

func (e *DataSourceError) Unwrap() error { return e.Err }
