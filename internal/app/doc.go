// Package app contains the core application logic. It defines the main App
// struct, its configuration and the run lifecycle: resolve the project file,
// parse it, validate every step of the selected job against its module and
// then initiate the steps in order. It is decoupled from any specific
// entrypoint like a CLI.
package app
