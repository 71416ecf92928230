package synth

import (
	"math"
	"strings"

	"github.com/waftester/tdgen/pkg/payload"
	"github.com/waftester/tdgen/pkg/rules"
	"github.com/waftester/tdgen/pkg/schema"
)

// Literal values produced by the built-in generators.
const (
	ValidEmail         = "email@email.com"
	InvalidEmailFormat = "email.email.com"
	Filler             = "a"
	OnlySpacesValue    = "  "
	WrongTypeValue     = "not-a-number"
	EmailMissingDomain = "email@"
	EmailMissingLocal  = "@email.com"

	tooLongEmailLocal = 256
	tooLongEmailHost  = "@mail.com"
	tooLongString     = 1000
)

func str(s string) Generator {
	return func(schema.Field) (payload.Value, error) { return payload.String(s), nil }
}

func validEmail(schema.Field) (payload.Value, error) {
	return payload.String(ValidEmail), nil
}

func validString(f schema.Field) (payload.Value, error) {
	return payload.String(strings.Repeat(Filler, f.MinLength())), nil
}

func validInt(f schema.Field) (payload.Value, error) {
	return payload.Int(int64(f.Min())), nil
}

func tooLongEmail(schema.Field) (payload.Value, error) {
	return payload.String(strings.Repeat(Filler, tooLongEmailLocal) + tooLongEmailHost), nil
}

func tooLongStr(schema.Field) (payload.Value, error) {
	return payload.String(strings.Repeat(Filler, tooLongString)), nil
}

func shorterThanMin(f schema.Field) (payload.Value, error) {
	n := f.MinLength()
	if n == 0 {
		return payload.Value{}, &UnsatisfiableRuleError{
			Field:  f.Name,
			Type:   f.Type,
			Rule:   rules.ShorterThanMin,
			Reason: "min_length is 0",
		}
	}
	return payload.String(strings.Repeat(Filler, n-1)), nil
}

func longerThanMax(f schema.Field) (payload.Value, error) {
	max, ok := f.MaxLength()
	if !ok {
		return tooLongStr(f)
	}
	return payload.String(strings.Repeat(Filler, max+1)), nil
}

func belowMin(f schema.Field) (payload.Value, error) {
	lo := int64(f.Min())
	if lo == math.MinInt64 {
		return payload.Value{}, &UnsatisfiableRuleError{Reason: "min is the smallest int64"}
	}
	return payload.Int(lo - 1), nil
}

func aboveMax(f schema.Field) (payload.Value, error) {
	max, ok := f.Max()
	if !ok {
		return payload.Value{}, &UnsatisfiableRuleError{
			Field:  f.Name,
			Type:   f.Type,
			Rule:   rules.AboveMax,
			Reason: "no max constraint",
		}
	}
	if int64(max) == math.MaxInt64 {
		return payload.Value{}, &UnsatisfiableRuleError{Reason: "max is the largest int64"}
	}
	return payload.Int(int64(max) + 1), nil
}

func missing(schema.Field) (payload.Value, error) { return payload.Absent(), nil }

func null(schema.Field) (payload.Value, error) { return payload.Null(), nil }

// registerBuiltins installs every generator that ships with tdgen.
func (s *Synthesizer) registerBuiltins() {
	s.mustType(schema.TypeEmail, validEmail)
	s.mustType(schema.TypeString, validString)
	s.mustType(schema.TypeInt, validInt)

	s.mustUniversal(rules.Missing, "field is omitted from the payload", missing)
	s.mustUniversal(rules.Null, "field is set to JSON null", null)

	s.mustRule(schema.TypeEmail, rules.InvalidFormat, "address without @", str(InvalidEmailFormat))
	s.mustRule(schema.TypeEmail, rules.Empty, "empty string", str(""))
	s.mustRule(schema.TypeEmail, rules.OnlySpaces, "two spaces", str(OnlySpacesValue))
	s.mustRule(schema.TypeEmail, rules.LeadingTrailingSpaces, "valid address padded with spaces",
		str(OnlySpacesValue+ValidEmail+OnlySpacesValue))
	s.mustRule(schema.TypeEmail, rules.TooLong, "256 character local part", tooLongEmail)
	s.mustRule(schema.TypeEmail, rules.MissingDomain, "address without domain", str(EmailMissingDomain))
	s.mustRule(schema.TypeEmail, rules.MissingLocalPart, "address without local part", str(EmailMissingLocal))

	s.mustRule(schema.TypeString, rules.ShorterThanMin, "one character below min_length", shorterThanMin)
	s.mustRule(schema.TypeString, rules.LongerThanMax, "one character above max_length", longerThanMax)
	s.mustRule(schema.TypeString, rules.Empty, "empty string", str(""))
	s.mustRule(schema.TypeString, rules.OnlySpaces, "two spaces", str(OnlySpacesValue))
	s.mustRule(schema.TypeString, rules.TooLong, "1000 characters", tooLongStr)

	s.mustRule(schema.TypeInt, rules.BelowMin, "one below min", belowMin)
	s.mustRule(schema.TypeInt, rules.AboveMax, "one above max", aboveMax)
	s.mustRule(schema.TypeInt, rules.WrongType, "non-numeric string", str(WrongTypeValue))
	s.mustRule(schema.TypeInt, rules.Empty, "empty string", str(""))
}

func (s *Synthesizer) mustType(typ schema.FieldType, g Generator) {
	if err := s.RegisterType(typ, g); err != nil {
		panic(err)
	}
}

func (s *Synthesizer) mustRule(typ schema.FieldType, r rules.RuleName, desc string, g Generator) {
	if err := s.RegisterRule(typ, r, desc, g); err != nil {
		panic(err)
	}
}

func (s *Synthesizer) mustUniversal(r rules.RuleName, desc string, g Generator) {
	if err := s.RegisterUniversal(r, desc, g); err != nil {
		panic(err)
	}
}
