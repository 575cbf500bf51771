package models

// Kind discriminates the two record collections. All record behavior is
// shared; only the report title and closing field set differ per kind.
type Kind string

// Supported record kinds.
const (
	KindInspection Kind = "inspection"
	KindMinutes    Kind = "minutes"
)

// ParseKind validates a kind string from a path or CLI argument.
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if _, ok := kindSpecs[k]; !ok {
		return "", ErrUnknownKind
	}

	return k, nil
}

// KindSpec is the per-kind configuration: the report title and the field
// keys promoted to the report's closing page.
type KindSpec struct {
	Kind          Kind
	Title         string
	FilePrefix    string
	ClosingFields []string
}

var kindSpecs = map[Kind]KindSpec{
	KindInspection: {
		Kind:          KindInspection,
		Title:         "Informe de Inspección de Obra",
		FilePrefix:    "informe",
		ClosingFields: []string{"supervisor", "contratista", "observacionesGenerales"},
	},
	KindMinutes: {
		Kind:          KindMinutes,
		Title:         "Minuta de Reunión de Obra",
		FilePrefix:    "minuta",
		ClosingFields: []string{"asistentes", "acuerdos", "pendientes"},
	},
}

// SpecFor returns the configuration for a kind. The zero KindSpec is
// returned for unknown kinds; callers validate with ParseKind first.
func SpecFor(kind Kind) KindSpec {
	return kindSpecs[kind]
}
