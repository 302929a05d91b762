// Package app wires application dependencies for the CLI.
//
// Load reads Config from an optional YAML file and WIRECORE_* environment
// variables (a .env file in the working directory is loaded first). NewWire
// builds the concrete stores, backend client and services from it and
// exposes them via the Wire struct for commands to use.
package app
