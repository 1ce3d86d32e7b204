// Package pipeline builds and publishes a single commit through the GitHub Git Data API.
//
// It is the core of gitpusher, responsible for:
//   - Resolving the target branch, falling back to the default branch's head
//   - Uploading file contents as blobs, one at a time or in concurrent batches
//   - Overlaying the uploaded blobs onto the base tree
//   - Creating a single-parent commit
//   - Moving the branch pointer with a fetch-then-conditional-update retry loop
//
// Progress is reported through a caller-owned Reporter. Nothing here is persisted:
// blobs, trees and commits created by a failed push stay on the remote unreferenced.
package pipeline
