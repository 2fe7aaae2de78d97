// Every node in this package implements Node; expression nodes also
// implement Expression, statement nodes also implement Statement. There
// is deliberately no shared base class beyond the embedded Base (line
// number) — dispatch happens by type switch in the parser and
// evaluator, not by a visitor interface, matching the "do not simulate
// inheritance between AST node kinds" guidance (spec §9).
package ast
