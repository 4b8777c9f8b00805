package core

import "strings"

// Control directives understood by the ERP input automation.
const (
	KeyTab         = "TAB"
	KeySave        = `\^S`
	KeyNextBlock   = `\^{F4}`
	KeyNumpadEnter = `\{NUMPAD ENTER}`
	KeyNewForm     = `\%FN`
	KeyFind        = `\%VF`

	// AckLine confirms one quality text line and moves to the next.
	AckLine = KeyNumpadEnter

	// EmptyQuality is typed when the record has no quality lines.
	EmptyQuality = "NA"

	placeholder            = "."
	updateDescPlaceholder  = "*?"
	categoriesFieldLiteral = "FASCIA ITE"
	itemTypeFieldLiteral   = "TIPO ARTICOLO"
)

// Token is one record of the DataLoad stream.
type Token string

// entryKind discriminates template entries.
type entryKind int

const (
	entryLiteral entryKind = iota
	entryField
	entryCategories
	entryItemCode
	entryItemInitial
	entryQuality
)

// templateEntry is either a literal or a reference into the output record.
type templateEntry struct {
	kind  entryKind
	value string
}

func lit(vals ...string) []templateEntry {
	out := make([]templateEntry, len(vals))
	for i, v := range vals {
		out[i] = templateEntry{kind: entryLiteral, value: v}
	}
	return out
}

func tabs(n int) []templateEntry {
	out := make([]templateEntry, n)
	for i := range out {
		out[i] = templateEntry{kind: entryLiteral, value: KeyTab}
	}
	return out
}

func field(name string) []templateEntry {
	return []templateEntry{{kind: entryField, value: name}}
}

func seq(parts ...[]templateEntry) []templateEntry {
	var out []templateEntry
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

var (
	itemCodeEntry    = []templateEntry{{kind: entryItemCode}}
	itemInitialEntry = []templateEntry{{kind: entryItemInitial}}
	categoriesEntry  = []templateEntry{{kind: entryCategories}}
	qualityEntry     = []templateEntry{{kind: entryQuality}}
)

// Shared tail: catalog, drawing, material and quality screens.
var catalogToEnd = seq(
	lit(`\%TG`), field(FieldCatalog), tabs(4), field(FieldDisegno), tabs(1),
	lit(KeySave, KeyNextBlock, `\%TR`, "MATER+DESCR_FPD"), tabs(2),
	field(FieldFPDMaterialCode), tabs(1),
	field(FieldMaterial), lit(KeySave, KeySave, KeyNextBlock, `\%VA`), tabs(1),
	lit("Quality"), tabs(4),
	qualityEntry,
	lit(KeySave, KeyNextBlock, KeySave),
)

var createTemplate = seq(
	lit(KeyNewForm), itemCodeEntry, lit(`\%TC`), field(FieldTemplate), tabs(1),
	lit(`\%D`, `\%O`), tabs(1),
	field(FieldDescription), tabs(6),
	field(FieldIdentificativo), tabs(1), field(FieldClasseRicambi), tabs(1),
	lit(`\%O`, KeySave, `\%TA`), tabs(1),
	categoriesEntry, tabs(1), lit(categoriesFieldLiteral), tabs(1),
	itemInitialEntry, tabs(1), lit(KeySave, KeyNextBlock),
	catalogToEnd,
)

var updateTemplate = seq(
	lit(KeyFind), itemCodeEntry, lit(KeyNumpadEnter), tabs(1),
	field(FieldDescription), tabs(6),
	field(FieldIdentificativo), tabs(1), field(FieldClasseRicambi), tabs(1),
	lit(`\%O`, KeySave, `\%TA`),
	lit(KeyFind, categoriesFieldLiteral, KeyNumpadEnter), tabs(1),
	itemInitialEntry, tabs(1), lit(KeySave),
	lit(KeyFind, itemTypeFieldLiteral, KeyNumpadEnter), tabs(1),
	categoriesEntry, tabs(1), lit(KeySave, KeyNextBlock),
	catalogToEnd,
)

func templateFor(mode Mode) []templateEntry {
	if mode == ModeUpdate {
		return updateTemplate
	}
	return createTemplate
}

// Serialize expands the DataLoad template for mode against rec.
// An empty item code fails with *MissingInputError and yields no tokens.
func Serialize(mode Mode, itemCode string, rec OutputRecord) ([]Token, error) {
	itemCode = strings.TrimSpace(itemCode)
	if itemCode == "" {
		return nil, &MissingInputError{Field: FieldItem}
	}
	mode, err := ParseMode(string(mode))
	if err != nil {
		return nil, err
	}

	initial := string([]rune(itemCode)[:1])

	entries := templateFor(mode)
	tokens := make([]Token, 0, len(entries)+8)
	for _, e := range entries {
		switch e.kind {
		case entryLiteral:
			tokens = append(tokens, Token(e.value))
		case entryItemCode:
			tokens = append(tokens, Token(itemCode))
		case entryItemInitial:
			tokens = append(tokens, Token(initial))
		case entryCategories:
			tokens = append(tokens, Token(valueOr(rec.ERPL1, placeholder)+"."+valueOr(rec.ERPL2, placeholder)))
		case entryField:
			tokens = append(tokens, Token(valueOr(rec.Field(e.value), fieldPlaceholder(mode, e.value))))
		case entryQuality:
			tokens = append(tokens, QualityTokens(rec.Quality)...)
		}
	}
	return tokens, nil
}

// QualityTokens interleaves quality lines with AckLine, without a trailing
// acknowledge. A blank block yields the single token "NA".
func QualityTokens(q Quality) []Token {
	lines := q.Lines()
	if len(lines) == 0 {
		return []Token{EmptyQuality}
	}
	out := make([]Token, 0, 2*len(lines)-1)
	for i, line := range lines {
		if i > 0 {
			out = append(out, AckLine)
		}
		out = append(out, Token(line))
	}
	return out
}

func fieldPlaceholder(mode Mode, name string) string {
	if mode == ModeUpdate && name == FieldDescription {
		return updateDescPlaceholder
	}
	return placeholder
}

func valueOr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// TokenStrings converts tokens to plain strings.
func TokenStrings(tokens []Token) []string {
	out := make([]string, len(tokens))
	for i, t := range tokens {
		out[i] = string(t)
	}
	return out
}
