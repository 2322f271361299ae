package resolver

import "errors"

// ErrMissingAddressTable is returned when a package is in the installed state
// but carries no address table. This is a broken data-layer contract rather
// than an unconfigured address, so it is surfaced instead of resolving to "".
var ErrMissingAddressTable = errors.New("installed package has no interface address table")
