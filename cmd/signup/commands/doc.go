// Package commands holds the signup CLI: serve runs the web service,
// submit runs one registration headless, version prints build info.
package commands
