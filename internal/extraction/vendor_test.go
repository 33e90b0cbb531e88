package extraction

import (
	"strings"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExtractVendorName", func() {
	var (
		extractor *Extractor
		text      string
		vendor    string
		found     bool
	)

	BeforeEach(func() {
		extractor = newTestExtractor()
	})

	JustBeforeEach(func() {
		vendor, found = extractor.ExtractVendorName(text)
	})

	When("a line carries a legal form", func() {
		BeforeEach(func() {
			text = "Rechnung Nr. 4711\nBäckerei Hubert Ströck Filiale Wien\nMusterbau GmbH\nSumme 12,00"
		})

		It("should prefer it over a longer line", func() {
			Expect(found).To(BeTrue())
			Expect(vendor).To(Equal("Musterbau GmbH"))
		})
	})

	When("a legal form is written with dots", func() {
		BeforeEach(func() {
			text = "Blumen Maier e.U.\nHauptplatz 1"
		})

		It("should recognise it", func() {
			Expect(vendor).To(Equal("Blumen Maier e.U."))
		})
	})

	When("a short legal form follows the name in upper case", func() {
		BeforeEach(func() {
			text = "Bäckerei und Konditorei am Hauptplatz\nGruber KG\nSumme 4,20"
		})

		It("should prefer it over a longer line", func() {
			Expect(vendor).To(Equal("Gruber KG"))
		})
	})

	When("a line item carries a weight unit", func() {
		BeforeEach(func() {
			text = "Fleischerei Huber Wiener Neustadt\nHauptstraße 1\nFaschiertes 0,500 kg 6,49\nSumme 6,49"
		})

		It("should not mistake the unit for a legal form", func() {
			Expect(vendor).To(Equal("Fleischerei Huber Wiener Neustadt"))
		})
	})

	When("an address carries a floor number", func() {
		BeforeEach(func() {
			text = "Kanzlei Dr. Mustermann & Partner\nMariahilfer Straße 10, 2. OG\nHonorar 480,00"
		})

		It("should not mistake the floor for a legal form", func() {
			Expect(vendor).To(Equal("Kanzlei Dr. Mustermann & Partner"))
		})
	})

	When("a two-letter legal form is written in lower case", func() {
		BeforeEach(func() {
			text = "Obst und Gemüse Stand Naschmarkt\nÄpfel lose kg 2,99"
		})

		It("should not count it", func() {
			Expect(vendor).To(Equal("Obst und Gemüse Stand Naschmarkt"))
		})
	})

	When("no line carries a legal form", func() {
		BeforeEach(func() {
			text = "Café Central Wien\nHerrengasse 14\nTel: 01 5333763\nMelange 4,90"
		})

		It("should take the longest header line", func() {
			Expect(vendor).To(Equal("Café Central Wien"))
		})
	})

	When("the longest line is past the header area", func() {
		BeforeEach(func() {
			text = "Kiosk\nAaa\nBbb\nCcc\nDdd\nEin sehr langer Text weiter unten"
		})

		It("should only consider the first five candidates", func() {
			Expect(vendor).To(Equal("Kiosk"))
		})
	})

	When("two header lines have the same length", func() {
		BeforeEach(func() {
			text = "Kiosk\nLaden"
		})

		It("should keep the first", func() {
			Expect(vendor).To(Equal("Kiosk"))
		})
	})

	When("the name starts like a non-name word", func() {
		BeforeEach(func() {
			text = "Telekom Austria AG\nTel. 0800 664 100"
		})

		It("should not treat the name as a phone line", func() {
			Expect(vendor).To(Equal("Telekom Austria AG"))
		})
	})

	When("every line is disqualified", func() {
		BeforeEach(func() {
			text = strings.Join([]string{
				"12",
				"----------",
				"€ 12,50 Kaffee",
				"www.example.at",
				"info@example.at",
				"UID: ATU12345678",
				"Tel. 0664 1234567",
				"Summe 12,50",
				"Rechnungsnummer 2024-001",
				"12.03.2024 14:33",
				"*** % ***",
			}, "\n")
		})

		It("should not find a vendor", func() {
			Expect(found).To(BeFalse())
		})
	})

	When("the line is very long", func() {
		BeforeEach(func() {
			text = strings.Repeat("Handel ", 20) + "GmbH"
		})

		It("should truncate to 100 characters", func() {
			Expect(utf8.RuneCountInString(vendor)).To(Equal(100))
			Expect(vendor).To(HavePrefix("Handel Handel"))
		})
	})

	When("the text uses Windows line endings", func() {
		BeforeEach(func() {
			text = "Spar Markt\r\nSumme 5,00\r\n"
		})

		It("should split lines correctly", func() {
			Expect(vendor).To(Equal("Spar Markt"))
		})
	})

	When("the text is empty", func() {
		BeforeEach(func() {
			text = ""
		})

		It("should not find a vendor", func() {
			Expect(found).To(BeFalse())
		})
	})
})
