// Package model defines the data shapes the resolver reads.
//
// This package contains the following main types:
//   - PackageRecord: an application package as seen by the dashboard
//   - InterfaceDefinition: one named network interface from a package manifest
//   - InstalledAddressTable: the runtime addresses assigned to those interfaces
//   - OnionAddress: a validated Tor onion service hostname
//   - Issue: a lint finding about a package's addresses
//
// Models are separated into their own package so that the catalog, resolver,
// probe and report packages can share them without import cycles.
//
// Records are read-only from the resolver's point of view. Whoever loads them
// (the catalog package in this repository) owns their lifecycle.
package model
