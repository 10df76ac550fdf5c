// Package resolve turns dependency specifiers into node ids.
//
// A specifier is classified first:
//
//   - relative: starts with "./" or "../", or is exactly "." or ".."
//   - absolute: starts with a path root ("/" or a volume on Windows)
//   - foreign: anything else, such as "lodash" or "@scope/pkg/sub"
//
// Relative and absolute specifiers are resolved on disk. The candidate path
// is tried as an exact file, then with each configured extension appended in
// order, then as a directory holding an index file with the same extension
// fallback. The first existing regular file wins.
//
// Foreign specifiers are not resolved on disk: their id is the specifier
// text itself. An optional [PackageLocator] can still verify that the package
// exists, for example in a node_modules directory.
package resolve
