// Package disambiguate canonicalizes colors into graph nodes for the
// property disambiguation pass.
//
// ColorGraphNodeFactory maps every color the pass encounters to a
// ColorGraphNode: a canonical color plus a dense integer index used as the
// vertex key by the ambiguation graph. Colors that behave identically for
// ambiguation share a node:
//
//   - an absent color and null_or_void mean "unknown"
//   - null and void are stripped from unions
//   - primitives are replaced by their boxed object color (number ->
//     number_object)
//   - object colors are never merged with anything else
//
// ARCHITECTURE:
//
// Single-owner cache:
// A factory belongs to exactly one pass and has no internal locking. Indices
// are assigned in first-observed order, so calling CreateNode from several
// goroutines would make indices nondeterministic even with a lock.
//
// INVARIANTS:
//   - index 0 is always the registry's unknown color, inserted by NewFactory
//   - indices are gapless, never reused and never reassigned
//   - one node per canonical color for the lifetime of a factory
package disambiguate
