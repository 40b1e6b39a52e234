package governance

// Direction is the human-readable vote label recorded with the reward ledger.
type Direction string

const (
	DirectionFor     Direction = "For"
	DirectionAgainst Direction = "Against"
	DirectionAbstain Direction = "Abstain"
)

// supportCodes maps a direction to the small-integer outcome code a Governor
// contract expects. The mapping is deliberately not index-based: the UI's
// first choice (index 1, "For") is support 1 while the second (index 2,
// "Against") is support 0, matching the OpenZeppelin/Compound convention.
var supportCodes = map[Direction]uint8{
	DirectionAgainst: 0,
	DirectionFor:     1,
	DirectionAbstain: 2,
}

// SupportCode resolves the on-chain support code for a direction.
func SupportCode(d Direction) (uint8, bool) {
	code, ok := supportCodes[d]
	return code, ok
}

// DirectionForChoice translates a 1-based ballot choice index into a
// direction label. Snapshot ballots order choices For, Against, Abstain.
func DirectionForChoice(choice int) Direction {
	switch choice {
	case 1:
		return DirectionFor
	case 2:
		return DirectionAgainst
	default:
		return DirectionAbstain
	}
}
