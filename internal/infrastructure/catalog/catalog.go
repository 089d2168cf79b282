// Package catalog lee el catálogo de repuestos exportado por el sistema anterior (CSV).
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
)

// namespace fija los IDs derivados del número de parte: recargar el mismo catálogo produce los mismos IDs.
var namespace = uuid.MustParse("6f1c9a52-3f0e-4d8b-9a41-0d3c2b7e5a10")

// Columnas reconocidas. part_number y name son obligatorias.
const (
	colPartNumber   = "part_number"
	colName         = "name"
	colBarcode      = "barcode"
	colMinimalStock = "minimal_stock"
	colRackLocation = "rack_location"
)

// Options formato del archivo.
type Options struct {
	Charset string // "ISO-8859-1" (por defecto) o "UTF-8"
	Comma   rune   // separador; ';' por defecto
}

// PartID ID estable del repuesto a partir de su número de parte.
func PartID(partNumber string) string {
	return uuid.NewSHA1(namespace, []byte(strings.ToUpper(strings.TrimSpace(partNumber)))).String()
}

func decoder(r io.Reader, charset string) (io.Reader, error) {
	switch strings.ToUpper(strings.ReplaceAll(charset, "_", "-")) {
	case "", "ISO-8859-1", "ISO8859-1", "LATIN1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder()), nil
	case "WINDOWS-1252", "CP1252":
		return transform.NewReader(r, charmap.Windows1252.NewDecoder()), nil
	case "UTF-8", "UTF8":
		return r, nil
	default:
		return nil, fmt.Errorf("charset %q no soportado", charset)
	}
}

// Read decodifica el CSV y devuelve los repuestos en el orden del archivo.
// Las filas vacías se ignoran; un número de parte repetido es un error.
func Read(r io.Reader, opts Options) ([]*entity.Part, error) {
	in, err := decoder(r, opts.Charset)
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(in)
	reader.Comma = ';'
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("leer encabezado CSV: %w", err)
	}
	col := make(map[string]int, len(headers))
	for i, h := range headers {
		col[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	for _, req := range []string{colPartNumber, colName} {
		if _, ok := col[req]; !ok {
			return nil, fmt.Errorf("el CSV debe tener la columna %q", req)
		}
	}

	field := func(rec []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	var parts []*entity.Part
	seen := make(map[string]int)
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leer CSV: %w", err)
		}
		line, _ := reader.FieldPos(0)
		if blank(rec) {
			continue
		}

		p := &entity.Part{
			PartNumber:   field(rec, colPartNumber),
			Name:         field(rec, colName),
			Barcode:      field(rec, colBarcode),
			RackLocation: field(rec, colRackLocation),
		}
		if p.PartNumber == "" || p.Name == "" {
			return nil, fmt.Errorf("línea %d: part_number y name son obligatorios", line)
		}
		key := strings.ToUpper(p.PartNumber)
		if prev, dup := seen[key]; dup {
			return nil, fmt.Errorf("línea %d: número de parte %s repetido (línea %d)", line, p.PartNumber, prev)
		}
		seen[key] = line

		if s := field(rec, colMinimalStock); s != "" {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil || n < 0 {
				return nil, fmt.Errorf("línea %d: minimal_stock %q inválido", line, s)
			}
			p.MinimalStock = n
		}
		p.ID = PartID(p.PartNumber)
		parts = append(parts, p)
	}
	return parts, nil
}

func blank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
