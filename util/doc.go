// Package util holds small helpers shared by the registration packages.
package util
