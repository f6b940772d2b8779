// Package domain defines the core types of docsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Block: a node of a remote docx document's content tree
//   - FilterResult: converted blocks cleaned for insertion
//   - ImageRef / ImagePair: markdown images and their placeholder blocks
//   - WriteResult / AppendResult: outcomes of the synchronisation flows
//   - LarkConfig: credentials and limits for the remote document service
//
// The block classifier, the insert filter and the markdown image extractor
// live here because they are pure functions over these types.
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
