package catalog_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/Taller-api/internal/infrastructure/catalog"
)

func latin1(t *testing.T, s string) []byte {
	t.Helper()
	b, err := charmap.ISO8859_1.NewEncoder().Bytes([]byte(s))
	require.NoError(t, err)
	return b
}

func TestRead_Latin1(t *testing.T) {
	src := "part_number;name;minimal_stock;rack_location;barcode\n" +
		"KT-100;Kit de arrastre Pulsar 180;3;A-01;7701234\n" +
		"\n" +
		"PF-22;Pastilla de freno delantera;;B-07;\n"

	parts, err := catalog.Read(bytes.NewReader(latin1(t, src)), catalog.Options{})
	require.NoError(t, err)
	require.Len(t, parts, 2)

	assert.Equal(t, "KT-100", parts[0].PartNumber)
	assert.Equal(t, "Kit de arrastre Pulsar 180", parts[0].Name)
	assert.Equal(t, int64(3), parts[0].MinimalStock)
	assert.Equal(t, "A-01", parts[0].RackLocation)
	assert.Equal(t, "7701234", parts[0].Barcode)
	assert.Equal(t, catalog.PartID("KT-100"), parts[0].ID)

	assert.Equal(t, "Pastilla de freno delantera", parts[1].Name)
	assert.Equal(t, int64(0), parts[1].MinimalStock)
	assert.Zero(t, parts[1].Stock, "el catálogo nunca trae stock: solo entra por compras")
}

func TestRead_DecodesAccents(t *testing.T) {
	src := "part_number;name\nCD-1;Cadena reforzada 428H - tracción\n"
	parts, err := catalog.Read(bytes.NewReader(latin1(t, src)), catalog.Options{Charset: "ISO-8859-1"})
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "Cadena reforzada 428H - tracción", parts[0].Name)
}

func TestRead_UTF8WithComma(t *testing.T) {
	src := "name,part_number\nBujía iridio,NGK-CR8\n"
	parts, err := catalog.Read(strings.NewReader(src), catalog.Options{Charset: "UTF-8", Comma: ','})
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "Bujía iridio", parts[0].Name)
	assert.Equal(t, "NGK-CR8", parts[0].PartNumber)
}

func TestPartID_StableAndCaseInsensitive(t *testing.T) {
	assert.Equal(t, catalog.PartID("kt-100"), catalog.PartID(" KT-100 "))
	assert.NotEqual(t, catalog.PartID("KT-100"), catalog.PartID("KT-101"))
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		opts catalog.Options
	}{
		{"sin columna name", "part_number;rack\nX;1\n", catalog.Options{}},
		{"número de parte repetido", "part_number;name\nA-1;Uno\na-1;Otro\n", catalog.Options{}},
		{"mínimo negativo", "part_number;name;minimal_stock\nA-1;Uno;-2\n", catalog.Options{}},
		{"mínimo no numérico", "part_number;name;minimal_stock\nA-1;Uno;tres\n", catalog.Options{}},
		{"nombre vacío", "part_number;name\nA-1;\n", catalog.Options{}},
		{"charset desconocido", "part_number;name\n", catalog.Options{Charset: "EBCDIC"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalog.Read(strings.NewReader(tt.src), tt.opts)
			assert.Error(t, err)
		})
	}
}

func TestWriteSeedUp(t *testing.T) {
	parts, err := catalog.Read(strings.NewReader("part_number;name;barcode;minimal_stock\nO-1;Retén D'Orazio;;2\nO-2;Guaya;77;0\n"),
		catalog.Options{Charset: "UTF-8"})
	require.NoError(t, err)

	var up bytes.Buffer
	require.NoError(t, catalog.WriteSeedUp(&up, parts))
	sql := up.String()
	assert.Contains(t, sql, "INSERT INTO parts (id, part_number, name, barcode, minimal_stock, rack_location) VALUES")
	assert.Contains(t, sql, "('"+catalog.PartID("O-1")+"', 'O-1', 'Retén D''Orazio', NULL, 2, ''),")
	assert.Contains(t, sql, "('"+catalog.PartID("O-2")+"', 'O-2', 'Guaya', '77', 0, '')\n")
	assert.Contains(t, sql, "ON CONFLICT (part_number) DO UPDATE SET")
	assert.NotContains(t, sql, " stock", "la semilla no modifica stock")

	var down bytes.Buffer
	require.NoError(t, catalog.WriteSeedDown(&down, parts))
	assert.Contains(t, down.String(), catalog.PartID("O-2"))
	assert.Contains(t, down.String(), "NOT EXISTS")
}
