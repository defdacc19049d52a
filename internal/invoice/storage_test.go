package invoice

import (
	"encoding/json"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/freighthook/invoice-extract/internal/extraction"
)

var _ = Describe("DirExporter", func() {
	var (
		tmpDir   string
		exporter *DirExporter
		inv      *ParsedInvoice
	)

	BeforeEach(func() {
		tmpDir = GinkgoT().TempDir()
		var err error
		exporter, err = NewDirExporter(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		inv = &ParsedInvoice{
			ID:     "test-id-123",
			Record: sampleRecord(),
		}
	})

	Describe("Export", func() {
		var (
			written []string
			err     error
		)

		JustBeforeEach(func() {
			written, err = exporter.Export(inv)
		})

		It("should not return an error", func() {
			Expect(err).NotTo(HaveOccurred())
		})

		It("returns the three artifact filenames", func() {
			Expect(written).To(Equal([]string{"record.json", "config.json", "items.csv"}))
		})

		It("writes the full record as JSON", func() {
			data, readErr := os.ReadFile(filepath.Join(tmpDir, "record.json"))
			Expect(readErr).NotTo(HaveOccurred())

			var record extraction.InvoiceRecord
			Expect(json.Unmarshal(data, &record)).NotTo(HaveOccurred())
			Expect(record.Vendor).To(Equal("Cincinnati Industrial Auctioneers"))
			Expect(record.Items).To(HaveLen(2))
		})

		It("writes the logistics config", func() {
			data, readErr := os.ReadFile(filepath.Join(tmpDir, "config.json"))
			Expect(readErr).NotTo(HaveOccurred())

			var cfg LogisticsConfig
			Expect(json.Unmarshal(data, &cfg)).NotTo(HaveOccurred())
			Expect(cfg.EmailSubject).To(Equal(
				"Pickup Request - Cincinnati Industrial Auctioneers - Invoice A-4417"))
		})

		It("writes the lot items as CSV", func() {
			data, readErr := os.ReadFile(filepath.Join(tmpDir, "items.csv"))
			Expect(readErr).NotTo(HaveOccurred())
			Expect(string(data)).To(HavePrefix("lot_number,description\n"))
			Expect(string(data)).To(ContainSubstring("101,Stainless steel mixing tank with agitator\n"))
		})
	})

	Describe("NewDirExporter", func() {
		When("the directory does not exist", func() {
			It("creates it", func() {
				path := filepath.Join(GinkgoT().TempDir(), "exports")
				created, newErr := NewDirExporter(path)
				Expect(newErr).NotTo(HaveOccurred())
				Expect(path).To(BeADirectory())

				_, exportErr := created.Export(inv)
				Expect(exportErr).NotTo(HaveOccurred())
			})
		})
	})
})
