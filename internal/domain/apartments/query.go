package apartments

import (
	"regexp"
	"strings"
)

// Field names a queryable apartment attribute. Values match the stored document keys.
type Field string

const (
	FieldSearchText  Field = "searchText"
	FieldPrice       Field = "price"
	FieldBedrooms    Field = "bedrooms"
	FieldBathrooms   Field = "bathrooms"
	FieldSize        Field = "size"
	FieldLocation    Field = "location"
	FieldProject     Field = "project"
	FieldIsAvailable Field = "isAvailable"
	FieldAmenities   Field = "amenities"
)

type ClauseKind int

const (
	// ClauseContains is a case-insensitive literal substring match.
	ClauseContains ClauseKind = iota + 1
	// ClauseRange bounds a numeric field with optional inclusive min/max.
	ClauseRange
	// ClauseEquals is exact boolean equality.
	ClauseEquals
	// ClauseContainsAll requires every value to be present in an array field.
	ClauseContainsAll
)

// Clause is one AND-ed constraint of a Predicate.
type Clause struct {
	Kind    ClauseKind
	Field   Field
	Pattern string
	Min     *float64
	Max     *float64
	Bool    bool
	Values  []string

	matcher *regexp.Regexp
}

// Predicate is an immutable conjunction of clauses. The zero value matches everything.
type Predicate struct {
	clauses []Clause
}

// Clauses returns a copy of the predicate's clauses.
func (p Predicate) Clauses() []Clause {
	out := make([]Clause, len(p.clauses))
	copy(out, p.clauses)
	return out
}

func (p Predicate) IsEmpty() bool { return len(p.clauses) == 0 }

// EscapePattern quotes regex metacharacters so the term matches literally.
func EscapePattern(term string) string {
	return regexp.QuoteMeta(term)
}

// BuildPredicate composes the search term and filter into a single predicate.
// Conflicting bounds are kept as given and simply match nothing.
func BuildPredicate(search string, f *Filter) Predicate {
	var clauses []Clause
	if term := strings.TrimSpace(search); term != "" {
		clauses = append(clauses, containsClause(FieldSearchText, term))
	}
	if f.IsZero() {
		return Predicate{clauses: clauses}
	}

	for _, r := range []struct {
		field    Field
		min, max *float64
	}{
		{FieldPrice, f.MinPrice, f.MaxPrice},
		{FieldBedrooms, f.MinBedrooms, f.MaxBedrooms},
		{FieldBathrooms, f.MinBathrooms, f.MaxBathrooms},
		{FieldSize, f.MinSize, f.MaxSize},
	} {
		if r.min == nil && r.max == nil {
			continue
		}
		clauses = append(clauses, Clause{Kind: ClauseRange, Field: r.field, Min: copyFloat(r.min), Max: copyFloat(r.max)})
	}

	if f.Location != nil {
		clauses = append(clauses, containsClause(FieldLocation, *f.Location))
	}
	if f.Project != nil {
		clauses = append(clauses, containsClause(FieldProject, *f.Project))
	}
	if f.IsAvailable != nil {
		clauses = append(clauses, Clause{Kind: ClauseEquals, Field: FieldIsAvailable, Bool: *f.IsAvailable})
	}
	if len(f.Amenities) > 0 {
		clauses = append(clauses, Clause{Kind: ClauseContainsAll, Field: FieldAmenities, Values: append([]string(nil), f.Amenities...)})
	}
	return Predicate{clauses: clauses}
}

func containsClause(field Field, term string) Clause {
	// invalid UTF-8 would make the pattern uncompilable
	pattern := EscapePattern(strings.ToValidUTF8(term, "\uFFFD"))
	return Clause{
		Kind:    ClauseContains,
		Field:   field,
		Pattern: pattern,
		matcher: regexp.MustCompile("(?i)" + pattern),
	}
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

// Matches evaluates the predicate against an apartment in process.
func (p Predicate) Matches(a *Apartment) bool {
	if a == nil {
		return false
	}
	for _, c := range p.clauses {
		if !c.matches(a) {
			return false
		}
	}
	return true
}

func (c Clause) matches(a *Apartment) bool {
	switch c.Kind {
	case ClauseContains:
		matcher := c.matcher
		if matcher == nil {
			matcher = regexp.MustCompile("(?i)" + c.Pattern)
		}
		return matcher.MatchString(stringField(a, c.Field))
	case ClauseRange:
		value, ok := numberField(a, c.Field)
		if !ok {
			return false
		}
		if c.Min != nil && value < *c.Min {
			return false
		}
		if c.Max != nil && value > *c.Max {
			return false
		}
		return true
	case ClauseEquals:
		return c.Field == FieldIsAvailable && a.IsAvailable == c.Bool
	case ClauseContainsAll:
		return containsAll(a.Amenities, c.Values)
	default:
		return false
	}
}

func stringField(a *Apartment, field Field) string {
	switch field {
	case FieldSearchText:
		return a.SearchText
	case FieldLocation:
		return a.Location
	case FieldProject:
		return a.Project
	default:
		return ""
	}
}

func numberField(a *Apartment, field Field) (float64, bool) {
	switch field {
	case FieldPrice:
		return a.Price, true
	case FieldBedrooms:
		return float64(a.Bedrooms), true
	case FieldBathrooms:
		return float64(a.Bathrooms), true
	case FieldSize:
		return a.Size, true
	default:
		return 0, false
	}
}

func containsAll(values, required []string) bool {
	if len(required) == 0 {
		return true
	}
	index := make(map[string]struct{}, len(values))
	for _, value := range values {
		index[value] = struct{}{}
	}
	for _, token := range required {
		if _, ok := index[token]; !ok {
			return false
		}
	}
	return true
}
