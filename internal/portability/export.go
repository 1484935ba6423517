// Package portability serializes the catalog to the tagged interchange
// document and restores it from one. Import is a destructive full replace;
// confirmation is the caller's job.
package portability

import (
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/openpoint/stockpos/internal/domain"
)

// DocumentVersion tags exported documents. Import accepts any version; the
// field exists for forward compatibility.
const DocumentVersion = "1.0"

var jsonCodec = jsoniter.ConfigCompatibleWithStandardLibrary

// Document is the interchange format:
// { "products": [...], "exportDate": RFC3339, "version": "1.0" }.
type Document struct {
	Products   []domain.Product `json:"products"`
	ExportDate time.Time        `json:"exportDate"`
	Version    string           `json:"version"`
}

// Export renders the catalog as an indented interchange document.
func Export(products []domain.Product, now time.Time) ([]byte, error) {
	doc := Document{
		Products:   products,
		ExportDate: now,
		Version:    DocumentVersion,
	}
	if doc.Products == nil {
		doc.Products = []domain.Product{}
	}
	return jsonCodec.MarshalIndent(doc, "", "  ")
}
