// Package rsproj parses redstart project files.
//
// A project file holds an optional settings block and any number of named
// jobs:
//
//	settings {
//	    dbgprint: true
//	}
//
//	build {
//	    @build/generic {
//	        command: "go"
//	        arguments: "build" "./..."
//	    }
//	}
//
//	release {
//	    use build
//	    echo {
//	        message: "done"
//	        color: "green"
//	    }
//	}
//
// Values are strings, digit-only numbers or the words true and false. A line
// with several values, or a key repeated within a block, produces an array.
// `use` copies the already-resolved steps of an earlier job into place.
//
// Parsing is all-or-nothing: failures are returned as *Error, which carries
// the failing position and renders the source context for display.
package rsproj
