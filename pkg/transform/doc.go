// Package transform runs source-to-source stages over file content before
// dependency extraction.
//
// Every run starts with an implicit classification stage that assigns a
// [Kind] from the file extension. Registered stages then run in registration
// order, each receiving the previous stage's output, but only when the
// stage's [MatchRule] accepts the filename. A stage may rewrite the content
// and may also reclassify it, for example a template compiler that turns a
// ".tpl" file into JavaScript source.
//
// A [Pipeline] belongs to one walker. There is no package-level registry, so
// independent walks never share stage lists.
package transform
