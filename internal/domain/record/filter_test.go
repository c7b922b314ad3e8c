package record_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/okian/recupero/internal/domain/record"
	. "github.com/smartystreets/goconvey/convey"
)

func sampleSet() record.Set {
	set, err := record.FromRows([][]string{
		{"Estudiante", "Materia", "Recupero?"},
		{"Ana Gomez", "Matemática", "Si"},
		{"Ana Gomez", "Lengua", "No"},
		{"Mariana Díaz", "Historia", "Si"},
		{"ÁLVARO RUIZ", "Física", "No"},
		{"Luis Perez", "Química", "N/A"},
	})
	if err != nil {
		panic(err)
	}
	return set
}

func TestFilter(t *testing.T) {
	Convey("Given a record set", t, func() {
		set := sampleSet()

		Convey("When filtering by a lower-case fragment", func() {
			got := record.Filter(set, "ana")

			Convey("Then every student containing it matches regardless of case", func() {
				names := make([]string, 0, got.Len())
				for _, r := range got.Records {
					names = append(names, r.Student)
				}
				So(cmp.Diff([]string{"Ana Gomez", "Ana Gomez", "Mariana Díaz"}, names), ShouldBeEmpty)
			})

			Convey("And the headers are carried over", func() {
				So(got.Headers, ShouldResemble, set.Headers)
			})
		})

		Convey("When the query has accented capitals", func() {
			got := record.Filter(set, "álvaro")

			Convey("Then Unicode case folding still matches", func() {
				So(got.Len(), ShouldEqual, 1)
				So(got.Records[0].Subject, ShouldEqual, "Física")
			})
		})

		Convey("When nothing matches", func() {
			got := record.Filter(set, "Zzz")

			Convey("Then the result is an empty, non-nil set", func() {
				So(got.Empty(), ShouldBeTrue)
				So(got.Records, ShouldNotBeNil)
			})
		})

		Convey("When filtering", func() {
			before := set.Len()
			_ = record.Filter(set, "luis")

			Convey("Then the input set is left untouched", func() {
				So(set.Len(), ShouldEqual, before)
				So(set.Records[0].Student, ShouldEqual, "Ana Gomez")
			})
		})
	})
}

func TestFilterMatchesExactlyTheSubstringSubset(t *testing.T) {
	set := sampleSet()
	for _, q := range []string{"a", "GOMEZ", "ez", "ruiz", "mariana d", "x"} {
		got := record.Filter(set, q)

		var want []record.Record
		for _, r := range set.Records {
			if strings.Contains(strings.ToLower(r.Student), strings.ToLower(q)) {
				want = append(want, r)
			}
		}
		if diff := cmp.Diff(want, got.Records, cmpopts.EquateEmpty()); diff != "" {
			t.Errorf("Filter(%q) mismatch (-want +got):\n%s", q, diff)
		}
	}
}
