// Package parser reads the K2 surface syntax and produces expression
// handles through the smart constructors of the expr package.
//
// A source file holds zero or more expressions, one per line. Blank
// lines are skipped and // starts a comment running to the end of the
// line. The grammar, loosest binding first:
//
//	expr    := until
//	until   := sum (("U" | "W" | "R" | "S") until)?      right-assoc
//	sum     := conj (("+" | "^" | "-") conj)*            left-assoc
//	conj    := seq ("&" seq)*                            left-assoc
//	seq     := unary (";" unary)*                        left-assoc
//	unary   := ("!" | "X" | "WX" | "F" | "G") unary | postfix
//	postfix := atom "*"*
//	atom    := "0" | "1" | "top" | "dup" | "end"
//	         | field ":=" value | field "=" value | "(" expr ")"
//	field   := "x" digits
//	value   := "0" | "1"
//
// The parser takes the packet width k as context: a field index outside
// 0..k-1 is a parse error, not a deferred runtime failure.
//
// Errors carry the one-based source line and column; they satisfy
// errors.Is against ErrParse so callers can branch without string
// matching.
package parser
