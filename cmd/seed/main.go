// seed convierte un export CSV de productos (code;description;price;stock) en un script SQL
// idempotente para la tabla products.
//
// Uso: go run ./cmd/seed -in productos.csv [-out seed.sql] [-sep ";"] [-utf8]
// Por defecto el CSV se lee como ISO-8859-1 y el script se escribe en stdout.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"unicode/utf8"
)

func main() {
	in := flag.String("in", "productos.csv", "CSV de entrada")
	out := flag.String("out", "", "archivo SQL de salida (vacío = stdout)")
	sep := flag.String("sep", ";", "separador de columnas")
	isUTF8 := flag.Bool("utf8", false, "el CSV ya está en UTF-8")
	flag.Parse()

	comma, size := utf8.DecodeRuneInString(*sep)
	if size == 0 || size != len(*sep) {
		fmt.Fprintln(os.Stderr, "separador inválido: debe ser un solo carácter")
		os.Exit(2)
	}

	f, err := os.Open(*in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	products, err := readProducts(f, comma, !*isUTF8)
	if err != nil {
		// filas inválidas se reportan pero no detienen el resto
		fmt.Fprintf(os.Stderr, "Filas omitidas:\n%v\n", err)
	}
	if len(products) == 0 {
		fmt.Fprintln(os.Stderr, "No hay productos válidos")
		os.Exit(1)
	}

	var w io.Writer = os.Stdout
	if *out != "" {
		of, err := os.Create(*out)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear salida: %v\n", err)
			os.Exit(1)
		}
		defer of.Close()
		w = of
	}
	if err := writeSQL(w, products); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "%d productos\n", len(products))
}
