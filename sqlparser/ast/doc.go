// Package ast defines the canonical query tree and its interchange
// forms.
//
// A Query is the structurally deterministic result of parsing: every
// textual variation that means the same thing (keyword case, identifier
// quoting, redundant parentheses, literal spellings that normalize
// equally) arrives at the same tree, and every tree has exactly one
// canonical byte encoding. That encoding, not the source text, is the
// commitment input for the proof pipeline.
//
// The package provides:
//
//   - the node types (Query, SelectItem, TableExpression, Expression),
//     with the unions sealed by marker methods so type switches stay
//     exhaustive
//   - structural equality (Equal, EqualExpression)
//   - EncodeQuery / DecodeQuery, the canonical JSON interchange pair
//   - Digest, the domain-separated SHA-256 commitment over the
//     canonical bytes
//   - RenderSQL, a deterministic rendering of the tree back to query
//     text
//
// Nodes carry no source spans; spans live on tokens and errors. Trees
// are owned by their root and never shared, so constructed queries can
// be treated as immutable values.
package ast
