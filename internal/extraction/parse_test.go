package extraction

import (
	"encoding/json"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

const billaReceipt = `BILLA AG
Filiale 1234
Mariahilfer Straße 10, 1060 Wien
Rechnungsdatum: 14.02.2024 12:31
Milch 1,29
Brot 2,49
Summe EUR 3,78`

var _ = Describe("Parse", func() {
	var (
		extractor *Extractor
		text      string
		invoice   ParsedInvoice
	)

	BeforeEach(func() {
		extractor = newTestExtractor()
	})

	JustBeforeEach(func() {
		invoice = extractor.Parse(text)
	})

	When("parsing a complete receipt", func() {
		BeforeEach(func() {
			text = billaReceipt
		})

		It("should extract the vendor", func() {
			Expect(invoice.VendorName).NotTo(BeNil())
			Expect(*invoice.VendorName).To(Equal("BILLA AG"))
		})

		It("should extract the date", func() {
			Expect(invoice.InvoiceDate).NotTo(BeNil())
			Expect(invoice.InvoiceDate.String()).To(Equal("2024-02-14"))
		})

		It("should extract the total", func() {
			Expect(invoice.Amount).NotTo(BeNil())
			Expect(invoice.Amount.StringFixed(2)).To(Equal("3.78"))
		})

		It("should set the currency", func() {
			Expect(invoice.Currency).To(Equal("EUR"))
		})
	})

	When("the text is empty", func() {
		BeforeEach(func() {
			text = ""
		})

		It("should leave every field absent", func() {
			Expect(invoice.VendorName).To(BeNil())
			Expect(invoice.InvoiceDate).To(BeNil())
			Expect(invoice.Amount).To(BeNil())
		})

		It("should still set the currency", func() {
			Expect(invoice.Currency).To(Equal("EUR"))
		})
	})

	When("the text is only whitespace", func() {
		BeforeEach(func() {
			text = " \n\t\r\n "
		})

		It("should leave every field absent", func() {
			Expect(invoice).To(Equal(ParsedInvoice{Currency: "EUR"}))
		})
	})

	When("only some fields are present", func() {
		BeforeEach(func() {
			text = "Summe € 9,90"
		})

		It("should fill the fields it finds", func() {
			Expect(invoice.Amount).NotTo(BeNil())
			Expect(invoice.InvoiceDate).To(BeNil())
			Expect(invoice.VendorName).To(BeNil())
		})
	})

	When("serialised to JSON", func() {
		BeforeEach(func() {
			text = billaReceipt
		})

		It("should use typed date and amount fields", func() {
			data, err := json.Marshal(invoice)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(data)).To(MatchJSON(`{
				"vendor_name": "BILLA AG",
				"invoice_date": "2024-02-14",
				"amount": "3.78",
				"currency": "EUR"
			}`))
		})
	})

	It("should give identical results when called concurrently", func() {
		want := extractor.Parse(billaReceipt)
		var wg sync.WaitGroup
		results := make([]ParsedInvoice, 16)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i] = extractor.Parse(billaReceipt)
			}(i)
		}
		wg.Wait()
		for _, got := range results {
			Expect(*got.VendorName).To(Equal(*want.VendorName))
			Expect(*got.InvoiceDate).To(Equal(*want.InvoiceDate))
			Expect(got.Amount.Equal(*want.Amount)).To(BeTrue())
		}
	})
})
