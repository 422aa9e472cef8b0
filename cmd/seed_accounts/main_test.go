package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/ledger-api/internal/application/billing"
)

const company = "00000000-0000-0000-0000-0000000000c1"

func TestPucParent(t *testing.T) {
	tests := map[string]string{"1": "", "11": "1", "1105": "11", "110505": "1105", "11050501": "110505"}
	for code, want := range tests {
		assert.Equal(t, want, pucParent(code), code)
	}
}

func TestDefaultChart_IncluyeCuentasDePosteo(t *testing.T) {
	codes := map[string]bool{}
	for _, a := range defaultChart() {
		codes[a.code] = true
	}
	p := billing.DefaultPostingAccounts()
	for _, code := range []string{p.Receivable, p.Payable, p.Sales, p.Purchases, p.TaxPayable, p.TaxReceivable, p.Cash, p.Bank} {
		assert.True(t, codes[code], "falta la cuenta %s", code)
	}
}

func TestRender_PadresPrimero(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, render(&buf, company, []account{
		{"1105", "Caja", "asset"},
		{"11", "Disponible", "asset"},
		{"1", "Activo", "asset"},
		{"4135", "Comercio", "income"},
	}))
	sql := buf.String()
	assert.Less(t, strings.Index(sql, "'1', 'Activo'"), strings.Index(sql, "'11', 'Disponible'"))
	assert.Less(t, strings.Index(sql, "'11', 'Disponible'"), strings.Index(sql, "'1105', 'Caja'"))
	assert.Contains(t, sql, "code = '11')")
	// 41 no está en el plan: 4135 queda como raíz.
	assert.Contains(t, sql, "'4135', 'Comercio', 'income', NULL)")
	assert.Equal(t, 4, strings.Count(sql, "ON CONFLICT"))
}

func TestRender_Rechazos(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, render(&buf, company, []account{{"1", "A", "asset"}, {"1", "B", "asset"}}))
	assert.Error(t, render(&buf, company, []account{{"", "Sin código", "asset"}}))
}

func TestReadChart_Latin1YEncabezado(t *testing.T) {
	utf := "codigo;nombre;tipo\n1;Activo;asset\n1355;Anticipo de impuestos;Asset\n2408;IVA por pagar ñ;liability\n"
	latin1, err := charmap.ISO8859_1.NewEncoder().String(utf)
	require.NoError(t, err)

	chart, err := readChart([]byte(latin1))
	require.NoError(t, err)
	require.Len(t, chart, 3)
	assert.Equal(t, "asset", chart[1].typ)
	assert.Equal(t, "IVA por pagar ñ", chart[2].name)

	chart, err = readChart([]byte("5105,Gastos de personal,expense\n"))
	require.NoError(t, err)
	assert.Equal(t, "5105", chart[0].code)

	_, err = readChart([]byte("1;Activo;otro\n"))
	assert.Error(t, err)
}

func TestEscapeSQL(t *testing.T) {
	assert.Equal(t, "D''Angelo", escapeSQL("D'Angelo"))
}
