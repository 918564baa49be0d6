package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func latin1(t *testing.T, s string) []byte {
	t.Helper()
	out, err := charmap.ISO8859_1.NewEncoder().String(s)
	require.NoError(t, err)
	return []byte(out)
}

func TestReadProducts_Latin1ConCabecera(t *testing.T) {
	csv := "código;descripción;precio;stock\n" +
		"CAM-01;Camiseta algodón niño;24.500;5\n" +
		"GOR-01;Gorra ñandú;\"18.900,50\";\n"

	products, err := readProducts(bytes.NewReader(latin1(t, csv)), ';', true)
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "Camiseta algodón niño", products[0].Description)
	assert.Equal(t, "24500", products[0].Price.String())
	assert.Equal(t, 5, products[0].Stock)
	assert.Equal(t, "Gorra ñandú", products[1].Description)
	assert.Equal(t, "18900.5", products[1].Price.String())
	assert.Equal(t, 0, products[1].Stock, "stock vacío es 0")
}

func TestReadProducts_IDsDeterministasYUltimaFilaGana(t *testing.T) {
	csv := "CAM-01;Primera;1000;1\nCAM-01;Segunda;2000;2\n"
	a, err := readProducts(strings.NewReader(csv), ';', false)
	require.NoError(t, err)
	b, err := readProducts(strings.NewReader(csv), ';', false)
	require.NoError(t, err)

	require.Len(t, a, 1)
	assert.Equal(t, "Segunda", a[0].Description)
	assert.Equal(t, a[0].ID, b[0].ID, "el mismo código produce el mismo id")
}

func TestReadProducts_FilasInvalidasSeReportan(t *testing.T) {
	csv := "CAM-01;Camiseta;24500;5\n;Sin código;1000;1\nX-1;Malo;abc;1\nX-2;Negativo;1000;-3\n"
	products, err := readProducts(strings.NewReader(csv), ';', false)

	require.Error(t, err)
	assert.Len(t, products, 1)
	assert.Contains(t, err.Error(), "línea 2")
	assert.Contains(t, err.Error(), "línea 3")
	assert.Contains(t, err.Error(), "línea 4")
}

func TestParsePrice(t *testing.T) {
	cases := map[string]string{
		"24500":      "24500",
		"24.500":     "24500",
		"1.234.567":  "1234567",
		"24.500,50":  "24500.5",
		"$ 24500.5":  "24500.5",
		"12.345,678": "12345.68",
	}
	for in, want := range cases {
		got, err := parsePrice(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got.String(), in)
	}
	for _, bad := range []string{"", "abc", "0", "-5"} {
		_, err := parsePrice(bad)
		assert.Error(t, err, bad)
	}
}

func TestWriteSQL_EscapaComillas(t *testing.T) {
	products, err := readProducts(strings.NewReader("MUG-01;Taza D'Artagnan;9900;3\n"), ';', false)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeSQL(&buf, products))
	sql := buf.String()
	assert.Contains(t, sql, "'Taza D''Artagnan'")
	assert.Contains(t, sql, "9900.00, 3, TRUE")
	assert.Contains(t, sql, "ON CONFLICT (code) DO UPDATE")
	assert.True(t, strings.HasPrefix(sql, "-- generado por cmd/seed\nBEGIN;\n"))
	assert.True(t, strings.HasSuffix(sql, "COMMIT;\n"))
}
