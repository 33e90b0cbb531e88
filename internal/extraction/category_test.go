package extraction

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("SuggestCategory", func() {
	var extractor *Extractor

	BeforeEach(func() {
		extractor = newTestExtractor()
	})

	DescribeTable("built-in taxonomy",
		func(vendor, text, want string) {
			Expect(extractor.SuggestCategory(vendor, text)).To(Equal(want))
		},
		Entry("supermarket vendor", "BILLA AG", "", "Lebensmittel"),
		Entry("keyword only in the text", "", "OMV Tankstelle Graz\nDiesel 45,20", "Kraftstoff"),
		Entry("case-insensitive keyword", "Austrian Airlines", "", "Reisen"),
		Entry("earlier category wins", "Hotel Sacher", "Restaurant Rote Bar", "Reisen"),
		Entry("telecom", "A1 Telekom Austria AG", "", "Telekommunikation"),
		Entry("no keyword", "Unbekannt", "Nichts Bekanntes", "Sonstiges"),
		Entry("bounded keyword inside a longer word", "BILLA", "BILLA\nSie haben heute weniger bezahlt", "Lebensmittel"),
		Entry("bounded keyword at the start of a word", "Labor Dr. Maier", "Labor Dr. Maier\nBlutbild 35,00", "Sonstiges"),
		Entry("bounded keyword as a whole word", "ENI Servicestation", "", "Kraftstoff"),
		Entry("bounded keyword after a hyphen", "", "Jahres-Abo 2024", "Software & IT"),
		Entry("nothing at all", "", "", "Sonstiges"),
	)

	It("should be deterministic", func() {
		first := extractor.SuggestCategory("Libro", "Papier und Toner")
		for i := 0; i < 10; i++ {
			Expect(extractor.SuggestCategory("Libro", "Papier und Toner")).To(Equal(first))
		}
	})

	When("two categories share a keyword", func() {
		BeforeEach(func() {
			loc := German()
			loc.Categories = []Category{
				{Label: "Erste", Keywords: []string{"Geteilt"}},
				{Label: "Zweite", Keywords: []string{"geteilt"}},
			}
			var err error
			extractor, err = NewExtractorWithClock(loc, func() time.Time { return fixedNow })
			Expect(err).NotTo(HaveOccurred())
		})

		It("should return the category listed first", func() {
			Expect(extractor.SuggestCategory("", "GETEILT")).To(Equal("Erste"))
		})
	})
})
