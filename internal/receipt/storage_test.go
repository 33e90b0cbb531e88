package receipt

import (
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("LocalStorage", func() {
	var (
		tmpDir  string
		storage Storage
	)

	BeforeEach(func() {
		tmpDir = filepath.Join(GinkgoT().TempDir(), "belege")
		var err error
		storage, err = NewLocalStorage(tmpDir)
		Expect(err).NotTo(HaveOccurred())
	})

	It("should create the base directory", func() {
		Expect(tmpDir).To(BeADirectory())
	})

	Describe("Save", func() {
		var (
			filename  string
			savedName string
			err       error
		)

		JustBeforeEach(func() {
			savedName, err = storage.Save(filename, []byte("%PDF-1.4"))
		})

		When("the name is plain", func() {
			BeforeEach(func() {
				filename = "r1_rechnung.pdf"
			})

			It("should write the file under the base directory", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(savedName).To(Equal("r1_rechnung.pdf"))
				Expect(filepath.Join(tmpDir, savedName)).To(BeAnExistingFile())
			})
		})

		When("the name contains directories", func() {
			BeforeEach(func() {
				filename = "../../outside.pdf"
			})

			It("should keep the file inside the base directory", func() {
				Expect(err).NotTo(HaveOccurred())
				Expect(savedName).To(Equal("outside.pdf"))
				Expect(filepath.Join(tmpDir, "outside.pdf")).To(BeAnExistingFile())
				Expect(filepath.Join(tmpDir, "..", "outside.pdf")).NotTo(BeAnExistingFile())
			})
		})
	})

	Describe("Get", func() {
		When("file exists", func() {
			BeforeEach(func() {
				_, err := storage.Save("beleg.txt", []byte("Summe 3,78"))
				Expect(err).NotTo(HaveOccurred())
			})

			It("should return the file data", func() {
				data, err := storage.Get("beleg.txt")
				Expect(err).NotTo(HaveOccurred())
				Expect(string(data)).To(Equal("Summe 3,78"))
			})
		})

		When("file does not exist", func() {
			It("returns the error", func() {
				_, err := storage.Get("nonexistent.jpg")
				Expect(err).To(MatchError(ContainSubstring("reading file")))
			})
		})
	})

	Describe("Delete", func() {
		When("file exists", func() {
			BeforeEach(func() {
				_, err := storage.Save("beleg.jpg", []byte("jpeg"))
				Expect(err).NotTo(HaveOccurred())
			})

			It("should remove the file from disk", func() {
				Expect(storage.Delete("beleg.jpg")).To(Succeed())
				Expect(filepath.Join(tmpDir, "beleg.jpg")).NotTo(BeAnExistingFile())
			})
		})

		When("file does not exist", func() {
			It("returns the error", func() {
				Expect(storage.Delete("nonexistent.jpg")).To(MatchError(ContainSubstring("deleting file")))
			})
		})
	})
})
