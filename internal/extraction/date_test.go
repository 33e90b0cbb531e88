package extraction

import (
	"strings"

	"cloud.google.com/go/civil"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExtractDate", func() {
	var (
		extractor *Extractor
		text      string
		date      civil.Date
		found     bool
	)

	BeforeEach(func() {
		extractor = newTestExtractor()
	})

	JustBeforeEach(func() {
		date, found = extractor.ExtractDate(text)
	})

	When("the date follows an invoice date keyword", func() {
		BeforeEach(func() {
			text = "Rechnungsdatum: 15.03.2024"
		})

		It("should return the ISO date", func() {
			Expect(found).To(BeTrue())
			Expect(date.String()).To(Equal("2024-03-15"))
		})
	})

	When("the date is in year-month-day order", func() {
		BeforeEach(func() {
			text = "Invoice 2024-03-15"
		})

		It("should return the ISO date", func() {
			Expect(found).To(BeTrue())
			Expect(date.String()).To(Equal("2024-03-15"))
		})
	})

	When("another date comes before the keyword-anchored one", func() {
		BeforeEach(func() {
			text = "Lieferung 01.02.2024\nRechnungsdatum: 15.03.2024"
		})

		It("should prefer the anchored date", func() {
			Expect(date.String()).To(Equal("2024-03-15"))
		})
	})

	When("the only date is calendrically invalid", func() {
		BeforeEach(func() {
			text = "Datum 32.13.2024"
		})

		It("should not find a date", func() {
			Expect(found).To(BeFalse())
		})
	})

	When("an invalid date precedes a valid one", func() {
		BeforeEach(func() {
			text = "Ref 32.13.2024 am 05.06.2023"
		})

		It("should skip the invalid one", func() {
			Expect(date.String()).To(Equal("2023-06-05"))
		})
	})

	When("the day does not exist in that month", func() {
		BeforeEach(func() {
			text = "30.02.2024"
		})

		It("should not find a date", func() {
			Expect(found).To(BeFalse())
		})
	})

	When("the keyword window holds no date", func() {
		BeforeEach(func() {
			text = "12.12.2023 Lieferung\nRechnungsdatum: siehe unten"
		})

		It("should fall back to the first date anywhere", func() {
			Expect(date.String()).To(Equal("2023-12-12"))
		})
	})

	When("the date is beyond the keyword window", func() {
		BeforeEach(func() {
			text = "01.01.2024 Kassa\nRechnungsdatum:" + strings.Repeat(" ", 90) + "15.03.2024"
		})

		It("should fall back to the first date anywhere", func() {
			Expect(date.String()).To(Equal("2024-01-01"))
		})
	})

	When("the keyword is written in another case", func() {
		BeforeEach(func() {
			text = "01.01.2024\nRECHNUNGSDATUM 02.01.2024"
		})

		It("should still anchor on it", func() {
			Expect(date.String()).To(Equal("2024-01-02"))
		})
	})

	DescribeTable("separators and single-digit fields",
		func(input, want string) {
			d, ok := extractor.ExtractDate(input)
			Expect(ok).To(BeTrue())
			Expect(d.String()).To(Equal(want))
		},
		Entry("slashes", "Datum 5/3/2024", "2024-03-05"),
		Entry("dashes", "Datum 5-3-2024", "2024-03-05"),
		Entry("dots", "Datum 5.3.2024", "2024-03-05"),
		Entry("year first with slashes", "2024/3/5", "2024-03-05"),
	)

	DescribeTable("year bounds",
		func(input string, wantFound bool) {
			_, ok := extractor.ExtractDate(input)
			Expect(ok).To(Equal(wantFound))
		},
		Entry("before 1990", "01.01.1989", false),
		Entry("first accepted year", "01.01.1990", true),
		Entry("next year", "01.01.2027", true),
		Entry("two years ahead", "01.01.2028", false),
	)

	When("the text is empty", func() {
		BeforeEach(func() {
			text = ""
		})

		It("should not find a date", func() {
			Expect(found).To(BeFalse())
		})
	})
})
