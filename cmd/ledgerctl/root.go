package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/ledger-api/internal/domain/money"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Calculadoras del libro contable",
		Long: `ledgerctl ejecuta las mismas reglas que la API sin tocar almacenamiento:
cálculo de líneas y documentos, validación de partida doble y aplicación de pagos.

Los montos se leen y se escriben como strings decimales; la moneda define los decimales.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("currency", "COP", "Código ISO 4217 de la moneda")
	root.PersistentFlags().Int32("currency-exponent", -1, "Decimales de unidad menor (-1: los de ISO 4217)")

	root.AddCommand(
		newLineItemCmd(),
		newDocumentCmd(),
		newJournalCmd(),
		newSettleCmd(),
	)
	return root
}

func currencyFlag(cmd *cobra.Command) (money.Currency, error) {
	code, _ := cmd.Flags().GetString("currency")
	cur, err := money.CurrencyFromCode(code)
	if err != nil {
		return cur, err
	}
	if exp, _ := cmd.Flags().GetInt32("currency-exponent"); exp >= 0 {
		return cur.WithExponent(exp)
	}
	return cur, nil
}

// readInput lee el archivo de -f; "-" lee stdin.
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" {
		return nil, fmt.Errorf("se requiere -f <archivo.json> (o - para stdin)")
	}
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
