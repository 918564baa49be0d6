package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// productNamespace espacio UUIDv5: el mismo código siempre produce el mismo id.
var productNamespace = uuid.MustParse("6f1c7a52-3c1e-4d8e-9a7b-2f4d5e6c7b80")

type seedProduct struct {
	ID          string
	Code        string
	Description string
	Price       decimal.Decimal
	Stock       int
}

// rowError error de una fila concreta del CSV (line es 1-based, incluyendo cabecera).
type rowError struct {
	line int
	msg  string
}

func (e *rowError) Error() string { return fmt.Sprintf("línea %d: %s", e.line, e.msg) }

// readProducts lee el CSV (code;description;price;stock) en ISO-8859-1 o UTF-8.
// La primera fila se descarta si es cabecera. Códigos repetidos: gana la última fila.
func readProducts(r io.Reader, comma rune, latin1 bool) ([]seedProduct, error) {
	if latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		out   []seedProduct
		index = map[string]int{}
		line  int
		errs  []error
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("leer csv: %w", err)
		}
		if line == 1 && isHeader(rec) {
			continue
		}
		if len(rec) == 1 && strings.TrimSpace(rec[0]) == "" {
			continue
		}
		p, perr := parseRow(rec)
		if perr != nil {
			errs = append(errs, &rowError{line: line, msg: perr.Error()})
			continue
		}
		if i, ok := index[p.Code]; ok {
			out[i] = p
			continue
		}
		index[p.Code] = len(out)
		out = append(out, p)
	}
	return out, errors.Join(errs...)
}

func isHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(rec[0])) {
	case "code", "codigo", "código":
		return true
	}
	return false
}

func parseRow(rec []string) (seedProduct, error) {
	if len(rec) < 3 {
		return seedProduct{}, fmt.Errorf("se esperaban al menos 3 columnas, hay %d", len(rec))
	}
	code := strings.TrimSpace(rec[0])
	desc := strings.TrimSpace(rec[1])
	if code == "" || desc == "" {
		return seedProduct{}, errors.New("código y descripción son obligatorios")
	}
	price, err := parsePrice(rec[2])
	if err != nil {
		return seedProduct{}, err
	}
	stock := 0
	if len(rec) > 3 && strings.TrimSpace(rec[3]) != "" {
		stock, err = strconv.Atoi(strings.TrimSpace(rec[3]))
		if err != nil || stock < 0 {
			return seedProduct{}, fmt.Errorf("stock inválido %q", rec[3])
		}
	}
	return seedProduct{
		ID:          uuid.NewSHA1(productNamespace, []byte(code)).String(),
		Code:        code,
		Description: desc,
		Price:       price,
		Stock:       stock,
	}, nil
}

// parsePrice acepta "24500", "24.500", "24.500,50", "$ 24500.5".
func parsePrice(raw string) (decimal.Decimal, error) {
	s := strings.NewReplacer("$", "", " ", "", " ", "").Replace(strings.TrimSpace(raw))
	switch {
	case strings.Contains(s, ","):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") > 1:
		s = strings.ReplaceAll(s, ".", "")
	case strings.Count(s, ".") == 1 && len(s)-strings.Index(s, ".") == 4:
		// un solo punto seguido de 3 dígitos: separador de miles
		s = strings.ReplaceAll(s, ".", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("precio inválido %q", raw)
	}
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("el precio debe ser mayor que 0: %q", raw)
	}
	return d.Round(2), nil
}

// writeSQL genera un script idempotente: los productos existentes actualizan descripción y precio,
// nunca el stock.
func writeSQL(w io.Writer, products []seedProduct) error {
	var b strings.Builder
	b.WriteString("-- generado por cmd/seed\nBEGIN;\n")
	for _, p := range products {
		fmt.Fprintf(&b,
			"INSERT INTO products (id, code, description, price, stock, is_active, created_at, updated_at)\n"+
				"VALUES ('%s', %s, %s, %s, %d, TRUE, now(), now())\n"+
				"ON CONFLICT (code) DO UPDATE SET description = EXCLUDED.description, price = EXCLUDED.price, updated_at = now();\n",
			p.ID, quote(p.Code), quote(p.Description), p.Price.StringFixed(2), p.Stock)
	}
	b.WriteString("COMMIT;\n")
	_, err := io.WriteString(w, b.String())
	return err
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
