package main

import (
	"bufio"
	_ "embed"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/freighthook/invoice-extract/internal/extraction"
	"github.com/freighthook/invoice-extract/internal/invoice"
	"github.com/freighthook/invoice-extract/internal/pdftext"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("invoice-extract")
	var (
		input       = fs.StringLong("input", "", "Invoice file to parse (PDF or plain text)")
		format      = fs.StringLong("format", "display", "Output format: 'json', 'display', or 'config'")
		payment     = fs.StringLong("payment", "Cash", "Payment method preference: 'Cash' or 'Credit'")
		strict      = fs.BoolLong("strict", "Fail on ambiguous or conflicting totals instead of guessing")
		askPayment  = fs.BoolLong("ask-payment", "Prompt for the payment method when the invoice offers both")
		vendor      = fs.StringLong("vendor", "", "Force a vendor profile by name (fuzzy matched)")
		exportDir   = fs.StringLong("export-dir", "", "Directory to write record.json, config.json, and items.csv")
		dbPath      = fs.StringLong("db", "invoice-extract.db", "Database file path (parse history + vendor patterns)")
		serve       = fs.BoolLong("serve", "Run the HTTP API instead of a one-shot parse")
		port        = fs.IntLong("port", 8080, "HTTP server port")
		authUser    = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass    = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		showVersion = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("INVOICE_EXTRACT"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	slog.Info("Initializing database...", "path", *dbPath)
	db, err := invoice.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	extractor := pdftext.NewFitzExtractor()
	defer extractor.Close()

	registry := extraction.NewRegistry(db)
	service := invoice.NewService(db, extractor, registry)

	if *serve {
		server := invoice.NewServer(service, invoice.BasicAuth{
			Username: *authUser,
			Password: *authPass,
		})
		addr := fmt.Sprintf(":%d", *port)
		slog.Info("Serving", "address", fmt.Sprintf("http://localhost%s", addr))
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
		return
	}

	if *input == "" {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintln(os.Stderr, "error: --input is required unless --serve is set")
		os.Exit(1)
	}

	data, err := os.ReadFile(*input)
	if err != nil {
		slog.Error("Failed to read input file", "path", *input, "error", err)
		os.Exit(1)
	}

	method := extraction.PaymentCash
	if strings.EqualFold(*payment, string(extraction.PaymentCredit)) {
		method = extraction.PaymentCredit
	}

	var prompt extraction.PromptFunc
	if *askPayment {
		prompt = promptPaymentMethod
	}

	inv, err := service.ProcessInvoice(invoice.ParseRequest{
		Filename:      filepath.Base(*input),
		Data:          data,
		ContentType:   contentTypeFor(*input),
		Vendor:        *vendor,
		PaymentMethod: method,
		Strict:        *strict,
		Prompt:        prompt,
	})
	if err != nil {
		slog.Error("Failed to process invoice", "error", err)
		os.Exit(1)
	}

	if err := writeOutput(inv, *format); err != nil {
		slog.Error("Failed to write output", "error", err)
		os.Exit(1)
	}

	if *exportDir != "" {
		if err := exportAll(inv, *exportDir); err != nil {
			slog.Error("Failed to export files", "error", err)
			os.Exit(1)
		}
	}
}

func contentTypeFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return "application/pdf"
	}
	return "text/plain"
}

// promptPaymentMethod asks on the terminal which total to use. Only invoked
// when the invoice carries both a cash-like and a credit-like total.
func promptPaymentMethod() (extraction.PaymentMethod, bool) {
	fmt.Fprint(os.Stderr, "Payment method [cash/credit]: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "credit", "cr":
		return extraction.PaymentCredit, true
	case "cash", "c", "":
		return extraction.PaymentCash, true
	}
	return "", false
}

func writeOutput(inv *invoice.ParsedInvoice, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(inv.Record)
	case "config":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(invoice.BuildLogisticsConfig(inv.Record))
	case "display":
		fmt.Print(invoice.Display(inv.Record))
		return nil
	}
	return fmt.Errorf("unknown format %q (want json, display, or config)", format)
}

func exportAll(inv *invoice.ParsedInvoice, dir string) error {
	exporter, err := invoice.NewDirExporter(dir)
	if err != nil {
		return err
	}
	files, err := exporter.Export(inv)
	if err != nil {
		return err
	}
	slog.Info("Exported invoice files", "dir", dir, "files", strings.Join(files, ", "))
	return nil
}
