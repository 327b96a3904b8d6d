package model

// Error types
type Error string

const (
	ErrNotFound       Error = "IP not found in database"
	ErrInvalidIP      Error = "invalid IP address"
	ErrFamilyMismatch Error = "address family mismatch"
	ErrInvalidMask    Error = "invalid CIDR mask"
	ErrInvalidRange   Error = "invalid address range"
	ErrUnknownSortKey Error = "unknown sort key"
	ErrUnknownColor   Error = "unknown color mode"
	ErrUnknownFormat  Error = "unknown output format"
	ErrDatabaseClosed Error = "database is closed"
)

func (e Error) Error() string {
	return string(e)
}
