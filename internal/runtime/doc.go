// Package runtime provides the execution context for gitpusher commands.
//
// It encapsulates shared dependencies needed by actions, such as the
// effective configuration, the logger, and lazily created GitHub clients.
package runtime
