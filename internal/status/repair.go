package status

import "regexp"

// Textual repairs for the malformed JSON the backend occasionally emits:
// trailing commas before closing braces/brackets, empty value slots, and
// duplicate commas. The repair set is bounded and applied once; there is no
// repair loop.
var (
	trailingCommaObj = regexp.MustCompile(`,\s*}`)
	trailingCommaArr = regexp.MustCompile(`,\s*]`)
	emptyValueSlot   = regexp.MustCompile(`:\s*,`)
	duplicateComma   = regexp.MustCompile(`,\s*,`)
)

// RepairJSON applies the bounded repair set to a raw response body. The
// result is not guaranteed to be valid JSON; callers must still handle a
// failed re-parse.
func RepairJSON(raw []byte) []byte {
	// Fill empty slots and collapse comma runs before stripping trailing
	// commas, so `{"a": ,}` repairs to `{"a": null}` rather than `{"a": }`.
	repaired := emptyValueSlot.ReplaceAll(raw, []byte(": null,"))
	repaired = duplicateComma.ReplaceAll(repaired, []byte(","))
	repaired = trailingCommaObj.ReplaceAll(repaired, []byte("}"))
	repaired = trailingCommaArr.ReplaceAll(repaired, []byte("]"))
	return repaired
}
