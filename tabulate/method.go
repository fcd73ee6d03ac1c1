package tabulate

import (
	"strings"

	"github.com/MatthewNewland/rcvplus/core"
)

// ParseMethod maps a method label to a counting method name.
// Unrecognised labels fall back to STV for more than one seat, else BTR-IRV.
func ParseMethod(label string, seats int) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "irv":
		return core.MethodIRV
	case "btr", "btr-irv", "b2":
		return core.MethodBTRIRV
	case "stv":
		return core.MethodSTV
	case "webster", "pr":
		return core.MethodWebster
	}
	if seats > 1 {
		return core.MethodSTV
	}
	return core.MethodBTRIRV
}

// IsPartyMethod reports whether method counts party votes instead of ballots.
func IsPartyMethod(method string) bool {
	return method == core.MethodWebster
}
