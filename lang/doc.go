// Package lang implements arsla, a small postfix (RPN) stack language built
// for code golf.
//
// Source text runs through three stages:
//
//   - [Tokenize] splits source into [Token] values
//   - [Parse] nests tokens into a [Program] of literal and command [Node]s
//   - [Machine] executes a Program against one mutable data stack
//
// # Grammar
//
// Informal EBNF:
//
//	Program  → Item* EOF
//	Item     → Number | String | Bracket | Command
//	Bracket  → '[' Item* ']'
//	Number   → '-'? (Digits ('.' Digits?)? | '.' Digits) Exponent?
//	Exponent → ('e' | 'E') ('+' | '-')? Digits
//	String   → '"' (Escape | <any rune except '"' and '\'>)* '"'
//	Escape   → '\' <any rune>
//	Command  → <any other single non-space rune>
//
// Comments run from '#' to end of line.
//
// A bracket whose direct children are all literals is a List value. A bracket
// with at least one command is a Block: code that control-flow commands run
// later. Every bracket is classified on its own, so [[D][S]] is a List of two
// Blocks.
//
// # Example
//
//	[1 2 3] D * p          # prints [1 4 9]
//	"Hello" " " + "World" + p
//	10 [1 2 3] *           # [10 20 30]
//	[1 2] 3 *              # [1 2 1 2 1 2]
//	5 !                    # 120
//	3 [1 -] W              # counts down to zero
//	1 ["yes"] ["no"] ?     # "yes"
//
// # Values
//
// Numbers are exact integers or doubles. Integers never overflow; they widen
// to arbitrary precision. Strings are immutable, Lists hold any values and
// nest, Blocks hold code.
//
// Arithmetic and comparison commands vectorize: when either operand is a
// List the operation is applied element by element, broadcasting scalars.
//
// # Errors
//
// Every failure is an [*Error] belonging to a phase ([ErrLex], [ErrParse],
// [ErrRuntime]) and a kind such as [ErrStackUnderflow]. Both match with
// [errors.Is].
package lang
