// Package lang implements a small S-expression language with integer and
// boolean values, arithmetic, logic, comparisons, global definitions,
// anonymous and named functions, conditionals and two print forms.
//
// # Pipeline
//
// Source text is converted to tokens by [Lex], parsed into a [Program] by
// [Parse], and run statement by statement by an [Interpreter]. Arity is
// checked while parsing, so a parsed Program is always well-formed.
//
// # Grammar
//
// Informal EBNF:
//
//	program     → statement*
//	statement   → expression | define | print
//	define      → '(' 'define' IDENT expression ')'
//	print       → '(' ('print-num' | 'print-bool') expression ')'
//	expression  → NUMBER | BOOLEAN | IDENT
//	            | '(' ('+' | '*' | 'and' | 'or' | '=') expression{2,} ')'
//	            | '(' ('-' | '/' | 'mod' | '>' | '<') expression expression ')'
//	            | '(' 'not' expression ')'
//	            | '(' 'if' expression expression expression ')'
//	            | function
//	            | '(' (function | IDENT) expression* ')'
//	function    → '(' 'fun' '(' expression* ')' expression+ ')'
//
// # Example
//
//	(define square (fun (x) (* x x)))
//	(print-num (square 7))
//	(print-bool (> (square 2) 3))
//	(print-num (/ -7 2))
//
// prints the lines 49, #t and -4.
//
// # Scoping
//
// There is one global environment per [Interpreter]; only define writes to
// it. Functions are not closures. A call evaluates its arguments in the
// caller's scope, then evaluates the first body expression against a
// snapshot of the global environment taken at call time, overlaid with the
// parameter bindings.
//
// # Engines
//
// [EngineTree] evaluates by walking the tree. [EngineVM] compiles each
// expression to an expr-lang program and runs it on the expr virtual
// machine. Both produce the same output and the same errors.
//
// # Errors
//
// Every failure is an [*Error] with a [Kind]; [errors.Is] matches an error
// against the sentinel of its kind, such as [ErrDivisionByZero]. [Report]
// renders the single line shown to users.
package lang
