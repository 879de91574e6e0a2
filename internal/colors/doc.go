// Package colors implements the type descriptor model ("colors") consumed by
// the disambiguation pass.
//
// A Color is one of three shapes:
//   - Primitive: tagged with native color ids (well-formed primitives carry
//     exactly one, e.g. number)
//   - Union: a set of at least two member colors
//   - Object: everything else (named classes, anonymous object types, boxed
//     natives, unknown, top object), compared by its own identity
//
// Colors are immutable and content-addressed: every color carries a ColorID
// derived from its canonical descriptor (see package ir). Two unions with the
// same member set have the same ColorID however they were built, so ColorID is
// the key to use in maps.
//
// A nil *Color stands for an absent color.
package colors
