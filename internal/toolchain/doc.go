// Package toolchain runs the external programs that build modules drive
// (compilers, node and package managers) and provides the file helpers
// they share. Modules take a RunFunc so tests can replace the process
// runner.
package toolchain
