/*
Package godel converts Turing machines to and from their binary Gödel encoding.

Each transition δ(qi, Xj) = (qk, Xl, Dm) is written as the unary-run record

	0^i 1 0^j 1 0^k 1 0^l 1 0^m

Records are joined with "11" and the full Gödel number carries a leading "1".
Symbol ids follow a fixed table so that a decoder needs no prior knowledge of
the alphabet:

	1 = '0', 2 = '1', 3 = blank ('_'), n >= 4 = 'A' + (n - 4)

Direction ids are 1 = LEFT, 2 = RIGHT and 3 = NONE. The NONE id extends the
classic scheme; decoders that predate it read 3 as RIGHT.

A universal machine input is "<encoding>111<input>", split on the first "111".
*/
package godel
