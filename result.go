package libinjection

/*
 * Result is the tri-state verdict returned by every public entry point.
 *
 * The numeric values are part of the contract: older callers that treat
 * the verdict as a boolean detection flag (0 = clean, 1 = attack) keep
 * working, and ResultError is the only negative value. An invalid internal
 * state is reported through ResultError instead of aborting the process;
 * callers must branch on all three values and must never coerce
 * ResultError into "clean".
 */
type Result int

const (
	ResultNone  Result = 0
	ResultMatch Result = 1
	ResultError Result = -1
)

/* Match reports whether the input was classified as an attack. */
func (r Result) Match() bool {
	return r == ResultMatch
}

func (r Result) String() string {
	switch r {
	case ResultNone:
		return "no_match"
	case ResultMatch:
		return "match"
	case ResultError:
		return "internal_error"
	default:
		return "invalid_result"
	}
}
