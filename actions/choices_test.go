package actions

import (
	"errors"

	"github.com/cevaris/ordered_map"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("BuildGrouped", func() {
	var om *ordered_map.OrderedMap
	row := func(name string) MetadataRow {
		return MetadataRow{Catalog: "DB", Schema: "PUBLIC", Name: name}
	}
	labels := func(c []Choice) []string {
		l := make([]string, 0, len(c))
		for _, x := range c {
			l = append(l, x.Label)
		}
		return l
	}

	BeforeEach(func() {
		om = ordered_map.NewOrderedMap()
	})

	It("Should not add headers or indentation for a single connection", func() {
		om.Set("sf", ConnectionRows{Rows: []MetadataRow{row("A"), row("B")}})
		c := BuildGrouped(om, "stages", ObjectChoice(false))
		Expect(labels(c)).To(Equal([]string{"DB.PUBLIC.A", "DB.PUBLIC.B"}))
		for _, x := range c {
			Expect(x.IsSelectable()).To(BeTrue())
		}
		Expect(*c[0].Value).To(Equal(`"DB"."PUBLIC"."A"`))
	})

	It("Should group by connection with headers and indented labels", func() {
		om.Set("sf_b", ConnectionRows{Rows: []MetadataRow{row("A")}})
		om.Set("sf_a", ConnectionRows{Rows: []MetadataRow{row("B")}})
		c := BuildGrouped(om, "stages", ObjectChoice(false))
		Expect(labels(c)).To(Equal([]string{
			"From connection sf_b:",
			"⠀⠀DB.PUBLIC.A",
			"From connection sf_a:",
			"⠀⠀DB.PUBLIC.B",
		}))
		Expect(c[0].Value).To(BeNil())
		Expect(c[2].Value).To(BeNil())
	})

	It("Should replace the rows of failed connections with one warning each", func() {
		om.Set("sf_1", ConnectionRows{Err: errors.New("boom")})
		om.Set("sf_2", ConnectionRows{Err: errors.New("boom")})
		c := BuildGrouped(om, "file formats", ObjectChoice(false))
		Expect(labels(c)).To(Equal([]string{
			"From connection sf_1:",
			"⠀⠀Failed getting file formats",
			"From connection sf_2:",
			"⠀⠀Failed getting file formats",
		}))
		for _, x := range c {
			Expect(x.IsSelectable()).To(BeFalse())
		}
	})

	It("Should keep going after a failed connection", func() {
		om.Set("sf_1", ConnectionRows{Err: errors.New("boom")})
		om.Set("sf_2", ConnectionRows{Rows: []MetadataRow{row("OK")}})
		c := BuildGrouped(om, "stages", ObjectChoice(false))
		Expect(labels(c)).To(Equal([]string{
			"From connection sf_1:",
			"⠀⠀Failed getting stages",
			"From connection sf_2:",
			"⠀⠀DB.PUBLIC.OK",
		}))
	})

	It("Should never emit a header for one connection without rows", func() {
		om.Set("sf", ConnectionRows{})
		Expect(BuildGrouped(om, "stages", ObjectChoice(false))).To(BeEmpty())
		Expect(BuildGrouped(nil, "stages", ObjectChoice(false))).To(BeEmpty())
	})

	It("Should add comments to labels when asked", func() {
		om.Set("sf", ConnectionRows{Rows: []MetadataRow{{Catalog: "C", Schema: "S", Name: "N", Comment: "daily"}}})
		c := BuildGrouped(om, "stages", ObjectChoice(true))
		Expect(c[0].Label).To(Equal("C.S.N (daily)"))
		Expect(*c[0].Value).To(Equal(`"C"."S"."N"`))
	})
})

var _ = Describe("Row filter", func() {
	It("Should reject invalid rules", func() {
		_, err := newRowFilter("{not json")
		Expect(err).To(HaveOccurred())
	})

	It("Should keep rows matching the rule", func() {
		f, err := newRowFilter(`{"==": [{"var": "schema"}, "EXPORTS"]}`)
		Expect(err).NotTo(HaveOccurred())
		cr := f.apply("sf", ConnectionRows{Rows: []MetadataRow{
			{Catalog: "DB", Schema: "EXPORTS", Name: "A"},
			{Catalog: "DB", Schema: "PUBLIC", Name: "B"},
		}})
		Expect(cr.Err).NotTo(HaveOccurred())
		Expect(cr.Rows).To(HaveLen(1))
		Expect(cr.Rows[0].Name).To(Equal("A"))
	})

	It("Should keep everything without a rule", func() {
		f, err := newRowFilter("  ")
		Expect(err).NotTo(HaveOccurred())
		cr := f.apply("sf", ConnectionRows{Rows: []MetadataRow{{Name: "A"}}})
		Expect(cr.Rows).To(HaveLen(1))
	})
})
