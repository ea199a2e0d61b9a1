// Package expr turns model equations such as "y = a*x**2 + b*x + c" into
// evaluable functions.
//
// The pipeline has four steps:
//
//   - ParseEquation splits "y = <expression>" and rejects anything else.
//   - Normalize blanks library calls ("np.sin(", ")") without moving any
//     other character, so later steps can work by column.
//   - ExtractParameters collects the single-letter identifiers, "x" first.
//   - Compile lexes and parses the expression into an arithmetic tree that
//     is evaluated against a binding table. Nothing in the text is executed.
//
// Library calls resolve through an Environment. DefaultEnvironment binds the
// numpy-style library under the alias "np"; ResolveLibraries adds more from
// specs such as "math" or "numpy as n".
package expr
