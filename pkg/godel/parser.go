package godel

import (
	"fmt"
	"math/big"
	"strings"
)

// InputSeparator delimits the program from its input in combined strings.
const InputSeparator = "111"

// SplitCombined splits "<encoding>111<input>" on the first "111".
//
// The separator overlaps the record separator: an encoding whose last record ends
// where another begins could be cut early. Encodings produced by Encoder never
// contain "111" because every record starts and ends with a zero run. An encoding
// ending in '1', such as the Gödel number "1" of a machine without transitions,
// would lend those ones to the input; JoinCombined trims them.
func SplitCombined(combined string) (encoding, input string, err error) {
	encoding, input, found := strings.Cut(combined, InputSeparator)
	if !found {
		return "", "", ErrMissingSeparator
	}
	return encoding, input, nil
}

// JoinCombined is the inverse of SplitCombined. Trailing '1's of encoding are
// dropped; they only delimit empty runs and never change the decoded transitions.
func JoinCombined(encoding, input string) string {
	return strings.TrimRight(encoding, "1") + InputSeparator + input
}

// DecimalToBinary converts a decimal Gödel number to its binary representation.
func DecimalToBinary(decimal string) (string, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(decimal), 10)
	if !ok || n.Sign() < 0 {
		return "", fmt.Errorf("%w: %q", ErrInvalidGodelNumber, decimal)
	}
	return n.Text(2), nil
}

// BinaryToDecimal converts a binary Gödel number to base 10.
func BinaryToDecimal(binary string) (string, error) {
	n, ok := new(big.Int).SetString(binary, 2)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidGodelNumber, binary)
	}
	return n.Text(10), nil
}
