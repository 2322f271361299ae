// Package hostutil provides small string helpers used when displaying
// addresses and launch URLs. They are total and side-effect free.
package hostutil
