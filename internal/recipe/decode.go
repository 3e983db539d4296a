package recipe

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrMalformedEnvelope is returned when the payload is not an object
	// holding a "recipes" array.
	ErrMalformedEnvelope = errors.New("malformed recipe envelope")

	// ErrInvalidRecipe is wrapped by FieldError for elements missing a
	// required field.
	ErrInvalidRecipe = errors.New("invalid recipe")
)

// FieldError reports a required field that is absent, null, or not a string.
// An empty Field means the element is not a JSON object.
type FieldError struct {
	Index int
	Field string
}

func (e *FieldError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("recipe %d: not an object", e.Index)
	}
	return fmt.Sprintf("recipe %d: missing or invalid %q", e.Index, e.Field)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalidRecipe
}

// Policy selects how Decode treats invalid elements.
type Policy int

const (
	// Strict fails the whole decode on the first invalid element.
	Strict Policy = iota
	// SkipInvalid drops invalid elements and keeps the rest.
	SkipInvalid
)

// String returns the config spelling of the policy.
func (p Policy) String() string {
	if p == SkipInvalid {
		return "skip"
	}
	return "strict"
}

// ParsePolicy maps "strict" and "skip" to a Policy. Empty means Strict.
func ParsePolicy(value string) (Policy, error) {
	switch value {
	case "", "strict":
		return Strict, nil
	case "skip":
		return SkipInvalid, nil
	default:
		return Strict, fmt.Errorf("unknown decode policy %q", value)
	}
}

type decodeOptions struct {
	policy  Policy
	skipped func(FieldError)
}

// DecodeOption customizes Decode.
type DecodeOption func(*decodeOptions)

// WithPolicy sets the element policy.
func WithPolicy(p Policy) DecodeOption {
	return func(o *decodeOptions) { o.policy = p }
}

// WithSkipped registers a hook called for every element dropped under
// SkipInvalid.
func WithSkipped(fn func(FieldError)) DecodeOption {
	return func(o *decodeOptions) { o.skipped = fn }
}

// Decode parses a {"recipes": [...]} payload into a Feed.
func Decode(data []byte, opts ...DecodeOption) (Feed, error) {
	var o decodeOptions
	for _, opt := range opts {
		opt(&o)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrMalformedEnvelope
	}
	// Keys match exactly; struct tags would also accept "Recipes".
	var env map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	rawList, ok := env["recipes"]
	if !ok {
		return nil, fmt.Errorf("%w: missing recipes array", ErrMalformedEnvelope)
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(rawList, &elems); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if elems == nil {
		return nil, fmt.Errorf("%w: recipes is null", ErrMalformedEnvelope)
	}

	feed := make(Feed, 0, len(elems))
	for i, raw := range elems {
		r, err := decodeRecipe(i, raw)
		if err != nil {
			var fe *FieldError
			if o.policy == SkipInvalid && errors.As(err, &fe) {
				if o.skipped != nil {
					o.skipped(*fe)
				}
				continue
			}
			return nil, err
		}
		feed = append(feed, r)
	}
	return feed, nil
}

func decodeRecipe(index int, raw json.RawMessage) (Recipe, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil || fields == nil {
		return Recipe{}, &FieldError{Index: index}
	}

	var r Recipe
	required := []struct {
		key  string
		dest *string
	}{
		{"uuid", &r.ID},
		{"cuisine", &r.Cuisine},
		{"name", &r.Name},
		{"photo_url_large", &r.PhotoURLLarge},
		{"photo_url_small", &r.PhotoURLSmall},
	}
	for _, f := range required {
		v, ok := stringField(fields, f.key)
		if !ok {
			return Recipe{}, &FieldError{Index: index, Field: f.key}
		}
		*f.dest = v
	}

	if v, ok := stringField(fields, "source_url"); ok {
		r.SourceURL = &v
	}
	if v, ok := stringField(fields, "youtube_url"); ok {
		r.YouTubeURL = &v
	}
	return r, nil
}

// stringField reports false for absent keys, null, and non-string values.
func stringField(fields map[string]json.RawMessage, key string) (string, bool) {
	raw, ok := fields[key]
	if !ok {
		return "", false
	}
	var v *string
	if err := json.Unmarshal(raw, &v); err != nil || v == nil {
		return "", false
	}
	return *v, true
}
