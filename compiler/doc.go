/*

Process of compilation

Program Text ->
	lex ->
Token Stream ->
	parse ->
Abstract Syntax Tree (ast) ->
	analyze ->
Annotated Syntax Tree ->
	emit ->
Python 3.10+ Source Text

Each stage is a pure function of its input: no stage retains state across
calls, and every stage accumulates its own diagnostics rather than aborting
on the first problem. A file with local imports recurses back into lex ->
parse -> analyze for each imported path before its importer continues.

*/
package compiler
