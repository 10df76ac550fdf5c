// Package extract finds dependency specifiers in source files.
//
// An [Extractor] turns file content into three specifier lists, one per
// dependency type. The [JavaScript] extractor parses with tree-sitter and
// recognizes:
//
//	require('./a')           normal
//	import x from './a'      normal
//	export * from './a'      normal
//	require.resolve('./a')   resolve-only (Options.RequireResolve)
//	require.async('./a', cb) async        (Options.RequireAsync)
//	import('./a')            async        (Options.RequireAsync)
//
// With Options.CommentRequire, annotations inside comments are honoured as
// well: @require('./a'), @require.resolve('./a') and @require.async('./a').
//
// Malformed calls fail with BAD_DEPENDENCY_USAGE under the strict options
// and are skipped otherwise.
package extract
