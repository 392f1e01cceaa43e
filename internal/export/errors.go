package export

import "fmt"

// Error codes for export failures.
const (
	// ErrCodeStorageOpen indicates the relational source could not be opened.
	ErrCodeStorageOpen = "E301"
	// ErrCodeStorageQuery indicates a query against the source failed.
	ErrCodeStorageQuery = "E302"
	// ErrCodeDestCollision indicates two schema entries share a destination name.
	ErrCodeDestCollision = "E311"
	// ErrCodeMalformedSpec indicates a schema entry is internally inconsistent.
	ErrCodeMalformedSpec = "E312"
)

// StorageError reports that the relational source was unreadable.
// It aborts the specific export call; earlier, already-converted files
// in the input list are unaffected.
type StorageError struct {
	Code string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: relational source %s: %v", e.Code, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// SchemaError reports a destination collision or malformed entry in
// the static table schema. With a validated schema this is a
// programmer error and should never surface at run time.
type SchemaError struct {
	Code    string
	Dest    string
	Message string
}

func (e *SchemaError) Error() string {
	if e.Dest != "" {
		return fmt.Sprintf("%s: schema entry %q: %s", e.Code, e.Dest, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
