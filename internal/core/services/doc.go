// Package services implements the driving port interfaces.
// Services contain the document synchronisation logic and orchestrate
// calls to driven ports (adapters).
//
// Each operation is a bounded sequence of remote calls with no state kept
// between invocations.
package services
