// Package manifest decodes module manifests.
//
// Every module ships an HCL manifest next to its Go code describing the step
// type it implements and the options it takes:
//
//	module "echo" {
//	  description = "Write to stdout"
//
//	  field "message" {
//	    type        = string
//	    description = "The message to write"
//	  }
//
//	  field "color" {
//	    type     = string
//	    optional = true
//	    choices  = ["red", "green"]
//	  }
//	}
//
// Field types are string, number, bool, any, or list(...) of a primitive.
// The registry uses the decoded Manifest to check step options and to
// generate usage text.
package manifest
