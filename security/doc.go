// Package security builds the TLS configuration of outbound connections,
// for providers served behind a private CA or requiring client
// certificates.
package security
