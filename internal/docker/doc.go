// Package docker wraps the docker CLI binary.
//
// Typed option builders assemble argument vectors, the stream package
// shells out and captures output in real time, and best-effort parsers
// turn the CLI's JSON-lines or tabular output back into structs. Nothing
// in this package talks to the Docker Engine API directly; the external
// docker binary owns all runtime behavior.
package docker
