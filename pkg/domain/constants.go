package domain

const (
	// Blank is the blank symbol used by the wire format (symbol id 3).
	Blank Symbol = '_'

	// StartStateID and AcceptStateID are the reserved state ids.
	StartStateID  = 1
	AcceptStateID = 2
)
