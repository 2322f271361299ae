// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// The SecureHandler masks:
//   - credential-like attributes (cookies, tokens, API keys, passwords)
//   - values that look like secrets (JWTs, bearer tokens, private key blocks)
//   - the middle of onion service hostnames found in string and error values
//
// Onion hostnames identify a user's device to anyone who reads the logs, so
// they are shortened to "abcdef...vwxyz.onion" unless the logger is built
// with WithOnionAddresses(true).
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
//
// The returned *slog.Logger can also be handed to tornago, which accepts slog loggers.
package log
