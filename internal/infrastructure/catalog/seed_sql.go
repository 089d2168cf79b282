package catalog

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// WriteSeedUp escribe el script que inserta o actualiza el catálogo.
// Nunca toca stock: el stock solo cambia por el kardex.
func WriteSeedUp(w io.Writer, parts []*entity.Part) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("-- Catálogo de repuestos\n")
	bw.WriteString("-- Generado por cmd/seed_parts\n\n")
	if len(parts) == 0 {
		return bw.Flush()
	}
	bw.WriteString("INSERT INTO parts (id, part_number, name, barcode, minimal_stock, rack_location) VALUES\n")
	for i, p := range parts {
		sep := ","
		if i == len(parts)-1 {
			sep = ""
		}
		fmt.Fprintf(bw, "  ('%s', '%s', '%s', %s, %d, '%s')%s\n",
			p.ID, escapeSQL(p.PartNumber), escapeSQL(p.Name), nullable(p.Barcode), p.MinimalStock, escapeSQL(p.RackLocation), sep)
	}
	bw.WriteString("ON CONFLICT (part_number) DO UPDATE SET\n")
	bw.WriteString("  name = EXCLUDED.name,\n")
	bw.WriteString("  barcode = EXCLUDED.barcode,\n")
	bw.WriteString("  minimal_stock = EXCLUDED.minimal_stock,\n")
	bw.WriteString("  rack_location = EXCLUDED.rack_location,\n")
	bw.WriteString("  updated_at = now();\n")
	return bw.Flush()
}

// WriteSeedDown elimina los repuestos sembrados que nunca tuvieron lotes.
func WriteSeedDown(w io.Writer, parts []*entity.Part) error {
	bw := bufio.NewWriter(w)
	if len(parts) == 0 {
		return bw.Flush()
	}
	bw.WriteString("DELETE FROM parts p\nWHERE p.id IN (\n")
	for i, part := range parts {
		sep := ","
		if i == len(parts)-1 {
			sep = ""
		}
		fmt.Fprintf(bw, "  '%s'%s\n", part.ID, sep)
	}
	bw.WriteString(")\nAND NOT EXISTS (SELECT 1 FROM purchase_batches b WHERE b.part_id = p.id);\n")
	return bw.Flush()
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func nullable(s string) string {
	if s == "" {
		return "NULL"
	}
	return "'" + escapeSQL(s) + "'"
}
