// seed_parts genera la migración SQL que siembra el catálogo de repuestos
// a partir del CSV exportado por el sistema anterior (ISO-8859-1, separado por ';').
//
// Uso: go run ./cmd/seed_parts [ruta/repuestos.csv]
// Por defecto busca repuestos.csv en el directorio actual.
// Escribe: internal/infrastructure/postgres/migrations/000002_seed_parts.{up,down}.sql
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jhoicas/Taller-api/internal/domain/entity"
	"github.com/jhoicas/Taller-api/internal/infrastructure/catalog"
)

func main() {
	csvPath := "repuestos.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	parts, err := catalog.Read(f, catalog.Options{Charset: os.Getenv("SEED_CHARSET")})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer catálogo: %v\n", err)
		os.Exit(1)
	}

	dir := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations")
	upPath := filepath.Join(dir, "000002_seed_parts.up.sql")
	downPath := filepath.Join(dir, "000002_seed_parts.down.sql")
	if err := writeFile(upPath, parts, catalog.WriteSeedUp); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir %s: %v\n", upPath, err)
		os.Exit(1)
	}
	if err := writeFile(downPath, parts, catalog.WriteSeedDown); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir %s: %v\n", downPath, err)
		os.Exit(1)
	}

	fmt.Printf("Generado %s: %d repuestos\n", upPath, len(parts))
}

func writeFile(path string, parts []*entity.Part, render func(io.Writer, []*entity.Part) error) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(out, parts); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
