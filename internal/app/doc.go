// Package app contains the core application logic. It wires the config
// compiler, the scheduler, the executor, and the xlsx I/O layer into one
// migration pipeline, decoupled from any specific entrypoint like a CLI.
package app
