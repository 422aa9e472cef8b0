// seed_accounts genera el script SQL con el plan de cuentas (PUC Colombia) de una empresa.
// Los códigos por defecto coinciden con las cuentas de posteo de facturas y pagos (LEDGER_ACCOUNT_*).
//
// Uso: go run ./cmd/seed_accounts <company_id> [ruta/plan.csv]
// El CSV opcional tiene columnas codigo;nombre;tipo y puede venir en ISO-8859-1
// (exportación habitual de los programas contables).
// Escribe: internal/infrastructure/postgres/migrations/002_seed_accounts.sql
package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

type account struct {
	code string
	name string
	typ  string
}

// defaultChart clases, grupos y cuentas mínimas del PUC para operar ventas, compras, caja y bancos.
func defaultChart() []account {
	return []account{
		{"1", "Activo", "asset"},
		{"11", "Disponible", "asset"},
		{"1105", "Caja", "asset"},
		{"1110", "Bancos", "asset"},
		{"13", "Deudores", "asset"},
		{"1305", "Clientes", "asset"},
		{"1355", "Anticipo de impuestos y contribuciones (IVA descontable)", "asset"},
		{"2", "Pasivo", "liability"},
		{"22", "Proveedores", "liability"},
		{"2205", "Proveedores nacionales", "liability"},
		{"24", "Impuestos, gravámenes y tasas", "liability"},
		{"2408", "Impuesto sobre las ventas por pagar", "liability"},
		{"3", "Patrimonio", "equity"},
		{"31", "Capital social", "equity"},
		{"3105", "Capital suscrito y pagado", "equity"},
		{"4", "Ingresos", "income"},
		{"41", "Operacionales", "income"},
		{"4135", "Comercio al por mayor y al por menor", "income"},
		{"5", "Gastos", "expense"},
		{"51", "Operacionales de administración", "expense"},
		{"5105", "Gastos de personal", "expense"},
		{"6", "Costos de ventas", "expense"},
		{"61", "Costo de ventas y de prestación de servicios", "expense"},
		{"6135", "Comercio al por mayor y al por menor", "expense"},
	}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Uso: seed_accounts <company_id> [plan.csv]")
		os.Exit(1)
	}
	companyID := os.Args[1]
	if _, err := uuid.Parse(companyID); err != nil {
		fmt.Fprintf(os.Stderr, "company_id inválido: %v\n", err)
		os.Exit(1)
	}

	chart := defaultChart()
	if len(os.Args) > 2 {
		raw, err := os.ReadFile(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
			os.Exit(1)
		}
		if chart, err = readChart(raw); err != nil {
			fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
			os.Exit(1)
		}
	}

	moduleRoot := findModuleRoot()
	outPath := filepath.Join(moduleRoot, "internal", "infrastructure", "postgres", "migrations", "002_seed_accounts.sql")
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	if err := render(w, companyID, chart); err != nil {
		fmt.Fprintf(os.Stderr, "Generar SQL: %v\n", err)
		os.Exit(1)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir archivo: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d cuentas\n", outPath, len(chart))
}

// readChart interpreta el CSV (separador ; o ,). Si no es UTF-8 válido se decodifica como ISO-8859-1.
func readChart(raw []byte) ([]account, error) {
	var r io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	if first, _, _ := bytes.Cut(raw, []byte("\n")); !bytes.Contains(first, []byte(";")) {
		cr.Comma = ','
	}
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	var chart []account
	for i, rec := range records {
		if len(rec) < 3 {
			return nil, fmt.Errorf("línea %d: se esperaban 3 columnas", i+1)
		}
		code := strings.TrimSpace(rec[0])
		if i == 0 && strings.EqualFold(code, "codigo") {
			continue
		}
		typ := strings.ToLower(strings.TrimSpace(rec[2]))
		switch typ {
		case "asset", "liability", "equity", "income", "expense":
		default:
			return nil, fmt.Errorf("línea %d: tipo %q desconocido", i+1, rec[2])
		}
		chart = append(chart, account{code: code, name: strings.TrimSpace(rec[1]), typ: typ})
	}
	return chart, nil
}

// pucParent código de la cuenta padre: clase (1) ← grupo (2) ← cuenta (4) ← subcuenta (6) ← auxiliares (+2).
func pucParent(code string) string {
	switch n := len(code); {
	case n <= 1:
		return ""
	case n == 2:
		return code[:1]
	case n <= 4:
		return code[:2]
	default:
		return code[:n-2]
	}
}

// render escribe padres antes que hijos; las cuentas cuyo padre no está en el plan quedan como raíz.
func render(w io.Writer, companyID string, chart []account) error {
	sorted := append([]account(nil), chart...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if len(sorted[i].code) != len(sorted[j].code) {
			return len(sorted[i].code) < len(sorted[j].code)
		}
		return sorted[i].code < sorted[j].code
	})
	known := make(map[string]bool, len(sorted))
	for _, a := range sorted {
		if a.code == "" {
			return fmt.Errorf("cuenta sin código: %q", a.name)
		}
		if known[a.code] {
			return fmt.Errorf("código duplicado: %s", a.code)
		}
		known[a.code] = true
	}

	fmt.Fprintf(w, "-- Plan de cuentas (PUC) para la empresa %s\n", companyID)
	fmt.Fprintf(w, "-- Generado por cmd/seed_accounts\n\n")
	for _, a := range sorted {
		parent := "NULL"
		if p := pucParent(a.code); known[p] {
			parent = fmt.Sprintf("(SELECT id FROM accounts WHERE company_id = '%s' AND code = '%s')", companyID, p)
		}
		fmt.Fprintf(w, "INSERT INTO accounts (id, company_id, code, name, type, parent_id)\n")
		fmt.Fprintf(w, "VALUES ('%s', '%s', '%s', '%s', '%s', %s)\n",
			uuid.New().String(), companyID, escapeSQL(a.code), escapeSQL(a.name), a.typ, parent)
		fmt.Fprintf(w, "ON CONFLICT (company_id, code) DO UPDATE SET name = EXCLUDED.name;\n")
	}
	return nil
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
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
