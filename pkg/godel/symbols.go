package godel

import (
	"fmt"

	"github.com/aretw0/turing/pkg/domain"
)

// Fixed wire ids.
const (
	SymbolZero  = 1
	SymbolOne   = 2
	SymbolBlank = 3
	// SymbolLetterBase is the id of 'A'; later letters follow in code point order.
	SymbolLetterBase = 4
	// SymbolReserved is the slot of '_' in code point order. The blank already
	// owns id 3, so this id decodes to nothing and '_' is never given it.
	SymbolReserved = SymbolLetterBase + int(domain.Blank-'A')

	DirectionLeft  = 1
	DirectionRight = 2
	DirectionNone  = 3
)

// SymbolForID maps a wire id to its symbol. Ids below 1 and SymbolReserved
// have no symbol.
func SymbolForID(id int) (domain.Symbol, bool) {
	switch {
	case id == SymbolZero:
		return '0', true
	case id == SymbolOne:
		return '1', true
	case id == SymbolBlank:
		return domain.Blank, true
	case id >= SymbolLetterBase && id != SymbolReserved:
		return domain.Symbol('A' + rune(id-SymbolLetterBase)), true
	}
	return 0, false
}

// IDForSymbol maps a symbol to its wire id. The machine's blank always takes id 3,
// whatever character it uses. A non-blank '_' cannot be encoded.
func IDForSymbol(sym, blank domain.Symbol) (int, error) {
	switch {
	case sym == blank:
		return SymbolBlank, nil
	case sym == '0':
		return SymbolZero, nil
	case sym == '1':
		return SymbolOne, nil
	case sym >= 'A' && sym != domain.Blank:
		return SymbolLetterBase + int(sym-'A'), nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnencodableSymbol, sym)
}

// DirectionForID maps a wire direction id: 1 is LEFT, 3 is NONE, anything else is RIGHT.
func DirectionForID(id int) domain.Direction {
	switch id {
	case DirectionLeft:
		return domain.Left
	case DirectionNone:
		return domain.None
	}
	return domain.Right
}

// IDForDirection is the inverse of DirectionForID.
func IDForDirection(d domain.Direction) int {
	switch d {
	case domain.Left:
		return DirectionLeft
	case domain.Right:
		return DirectionRight
	}
	return DirectionNone
}
