package catalog

import (
	"errors"

	"github.com/nao1215/netctx/internal/model"
)

// Catalog errors.
var (
	// ErrDuplicatePackage is returned when two packages share an ID.
	ErrDuplicatePackage = errors.New("duplicate package id")

	// ErrDuplicateInterface is returned when a package declares an interface key twice.
	ErrDuplicateInterface = errors.New("duplicate interface key")

	// ErrEmptyPackageID is returned when a package has no ID.
	ErrEmptyPackageID = model.ErrEmptyPackageID

	// ErrInvalidDocument is returned when a section has the wrong YAML shape,
	// e.g. a list where a mapping is expected.
	ErrInvalidDocument = errors.New("invalid catalog document")

	// ErrPackageNotFound is returned by Store lookups for an unknown package.
	ErrPackageNotFound = errors.New("package not found")

	// ErrEmptyPattern is returned when a filter pattern is empty.
	ErrEmptyPattern = errors.New("filter pattern cannot be empty")
)
