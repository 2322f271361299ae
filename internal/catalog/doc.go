// Package catalog is the package data layer of netctx.
//
// Packages come from a YAML catalog file (LoadFile, Decode) or from a SQLite
// database (Store). Interface definitions keep the order they have in the
// document, because the first UI interface is the one that gets launched.
//
// A Watcher reloads a catalog file when it changes and a Filter narrows a
// catalog down by package ID globs.
package catalog
