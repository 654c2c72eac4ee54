package calendar

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genRecord generates valid records with a concrete day across the whole
// supported year range of sys.
func genRecord(sys System) gopter.Gen {
	lo, hi := YearBounds(sys)
	return gopter.CombineGens(
		gen.IntRange(lo, hi),
		gen.IntRange(1, 12),
	).FlatMap(func(v interface{}) gopter.Gen {
		vals := v.([]interface{})
		year := vals[0].(int)
		month := vals[1].(int)
		return gen.IntRange(1, MaxDay(month, year, sys)).Map(func(d int) Record {
			return Record{Day: d, Month: month, Year: year}
		})
	}, reflect.TypeOf(Record{}))
}

func TestRoundTripProperty(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	for _, sys := range []System{Jalaali, Gregorian} {
		sys := sys
		properties.Property(sys.String()+" toInstant/fromInstant round trips", prop.ForAll(
			func(r Record) bool {
				in, err := ToInstant(r, sys)
				if err != nil {
					t.Logf("ToInstant(%v): %v", r, err)
					return false
				}
				return FromInstant(in, sys) == r
			},
			genRecord(sys),
		))

		properties.Property(sys.String()+" format/parse round trips with the default mask", prop.ForAll(
			func(r Record) bool {
				in := MustInstant(r, sys)
				text := Format(in, "", sys)
				back, ok := ParseStrict(text, DefaultMask(sys))
				return ok && back.Equal(in)
			},
			genRecord(sys),
		))
	}

	properties.TestingRun(t)
}

func TestMonthLengthProperty(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("jalaali esfand has 29 or 30 days matching the leap rule", prop.ForAll(
		func(year int) bool {
			n := MaxDay(12, year, Jalaali)
			if IsLeap(year, Jalaali) {
				return n == 30
			}
			return n == 29
		},
		gen.IntRange(MinJalaaliYear, MaxJalaaliYear),
	))

	properties.Property("gregorian february has 28 or 29 days matching the leap rule", prop.ForAll(
		func(year int) bool {
			leap := (year%4 == 0 && year%100 != 0) || year%400 == 0
			n := MaxDay(2, year, Gregorian)
			if leap {
				return n == 29
			}
			return n == 28
		},
		gen.IntRange(1, 3000),
	))

	properties.Property("esfand 30 exists exactly in jalaali leap years", prop.ForAll(
		func(year int) bool {
			_, err := ToInstant(Record{Day: 30, Month: 12, Year: year}, Jalaali)
			return (err == nil) == IsLeap(year, Jalaali)
		},
		gen.IntRange(MinJalaaliYear, MaxJalaaliYear),
	))

	properties.TestingRun(t)
}
