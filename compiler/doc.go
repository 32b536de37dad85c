/*

Process of compilation

Program Text ->
	parse (compiler/parse) ->
Intermediate Representation (compiler/ir) ->
	interpret (compiler/interp) OR lower (compiler/asm) ->
Tape Execution / Callable Program (compiler/jit) OR Assembly Text (compiler/aot)

*/
package compiler
