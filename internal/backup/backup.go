// Package backup moves the catalog and ledger in and out of a single JSON
// document, the shape the terminal's web predecessor used for its data
// files: {"products": [...], "txns": [...]}.
package backup

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/MrJamesThe3rd/warung/internal/catalog"
	"github.com/MrJamesThe3rd/warung/internal/encoding"
	"github.com/MrJamesThe3rd/warung/internal/ledger"
)

// Document is the interchange shape written by Export. Import reads the
// same shape but decodes each side independently, see rawDocument.
type Document struct {
	Products *[]catalog.Product    `json:"products,omitempty"`
	Txns     *[]ledger.Transaction `json:"txns,omitempty"`
}

// Summary reports what an import replaced.
type Summary struct {
	Products int
	Txns     int

	ReplacedProducts bool
	ReplacedTxns     bool
}

type Service struct {
	catalog *catalog.Catalog
	ledger  *ledger.Ledger
}

func NewService(cat *catalog.Catalog, led *ledger.Ledger) *Service {
	return &Service{catalog: cat, ledger: led}
}

// Export writes the full catalog and ledger as an indented JSON document.
func (s *Service) Export(w io.Writer) error {
	products := s.catalog.List()
	txns := s.ledger.All()

	doc := Document{Products: &products, Txns: &txns}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding backup: %w", err)
	}

	return nil
}

// ExportFile writes the document to path.
func (s *Service) ExportFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating backup file: %w", err)
	}
	defer f.Close()

	return s.Export(f)
}

// rawDocument defers per-field decoding so one bad side cannot take down
// the other.
type rawDocument struct {
	Products json.RawMessage `json:"products"`
	Txns     json.RawMessage `json:"txns"`
}

// Import replaces the catalog and ledger wholesale from a document. Each
// side is handled independently: a field that is absent or not a valid
// array is skipped and that side's existing state is left untouched. Only a
// document that does not parse at all is an error.
func (s *Service) Import(r io.Reader) (Summary, error) {
	utf8r, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return Summary{}, fmt.Errorf("reading backup: %w", err)
	}

	var doc rawDocument
	if err := json.NewDecoder(utf8r).Decode(&doc); err != nil {
		return Summary{}, fmt.Errorf("parsing backup: %w", err)
	}

	var sum Summary

	var products []catalog.Product
	if decodeArray(doc.Products, &products) {
		s.catalog.Replace(products)
		sum.ReplacedProducts = true
		sum.Products = len(products)
	}

	var txns []ledger.Transaction
	if decodeArray(doc.Txns, &txns) {
		s.ledger.Replace(txns)
		sum.ReplacedTxns = true
		sum.Txns = len(txns)
	}

	return sum, nil
}

// decodeArray reports whether raw held a usable array for dst. JSON null
// unmarshals into a slice without error, so it is rejected explicitly.
func decodeArray(raw json.RawMessage, dst any) bool {
	if len(raw) == 0 || string(raw) == "null" {
		return false
	}

	return json.Unmarshal(raw, dst) == nil
}

// ImportFile reads a document from path.
func (s *Service) ImportFile(path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return Summary{}, fmt.Errorf("opening backup file: %w", err)
	}
	defer f.Close()

	return s.Import(f)
}
