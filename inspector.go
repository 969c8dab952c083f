package bmff

// FormatHint tells an AtomInspector how a scalar field should be
// rendered, without the inspector needing to guess from the field name.
type FormatHint int

const (
	HintNone FormatHint = iota
	HintHex
	HintBoolean
)

// AtomInspector is the visitor an atom tree is rendered through; Base
// and each concrete box call it during Inspect/InspectFields to produce
// a structured dump without coupling the atom model to any particular
// output format. TextInspector and JSONInspector are the two renderers
// this package provides.
type AtomInspector interface {
	// StartElement begins a nested element named name; extra is a short
	// free-form annotation (e.g. a type mnemonic) or "".
	StartElement(name, extra string)
	EndElement()

	AddFieldUint(name string, value uint64, hint FormatHint)
	AddFieldString(name, value string)
	AddFieldBytes(name string, value []byte, hint FormatHint)
}
