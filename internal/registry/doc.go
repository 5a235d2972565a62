// Package registry provides the central "glue" for the module system.
//
// The Registry maps the step types used in project files (e.g. "echo" or
// "@build/generic") to the compiled Go modules that implement them, together
// with each module's manifest: its description and the options it accepts.
//
// During application startup, the registry is populated and then validated to
// ensure that the Go input structs and the manifests are perfectly in sync.
// Before a step runs, its options are checked against the manifest and
// decoded into the module's input struct.
package registry
