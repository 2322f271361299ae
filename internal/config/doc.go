// Package config provides configuration structures and utilities for netctx.
// It defines the runtime options populated from CLI flags and the workspace
// file that carries build identifiers and the development mock override.
package config
