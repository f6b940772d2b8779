// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Interfaces
//
//   - DocumentAPI: the remote document, drive, media and application
//     endpoints (implemented by internal/connectors/lark)
//   - ImageFetcher: downloads images referenced from markdown
//     (implemented by internal/adapters/driven/fetch)
//   - ConfigStore: application configuration
//     (implemented by internal/adapters/driven/config/file)
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
