package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/domain/ledger"
	"github.com/jhoicas/ledger-api/internal/domain/money"
	"github.com/jhoicas/ledger-api/internal/domain/settlement"
)

func newLineItemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "line-item",
		Short: "Calcula subtotal, base, impuesto y total de una línea",
		Example: `  ledgerctl line-item --qty 2 --price 10.00 --discount 5 --tax-rate 19
  ledgerctl line-item --qty 3 --price 1500 --currency JPY`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cur, err := currencyFlag(cmd)
			if err != nil {
				return err
			}
			in, err := lineFlags(cmd)
			if err != nil {
				return err
			}
			line, err := ledger.ComputeLineItem(cur, in)
			if err != nil {
				return err
			}
			return printJSON(cmd, dto.NewLineItemResponse(line))
		},
	}
	cmd.Flags().String("qty", "1", "Cantidad")
	cmd.Flags().String("price", "", "Precio unitario")
	cmd.Flags().String("discount", "0", "Descuento absoluto de la línea")
	cmd.Flags().String("tax-rate", "0", "Tasa de impuesto en porcentaje (0-100)")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func lineFlags(cmd *cobra.Command) (ledger.LineInput, error) {
	var in ledger.LineInput
	fields := []struct {
		flag string
		dst  *decimal.Decimal
	}{
		{"qty", &in.Quantity},
		{"price", &in.UnitPrice},
		{"discount", &in.Discount},
		{"tax-rate", &in.TaxRate},
	}
	for _, f := range fields {
		s, _ := cmd.Flags().GetString(f.flag)
		d, err := decimal.NewFromString(strings.TrimSpace(s))
		if err != nil {
			return in, fmt.Errorf("--%s: %q no es un decimal", f.flag, s)
		}
		*f.dst = d
	}
	return in, nil
}

func newDocumentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "document",
		Short: "Calcula las líneas y los totales de un documento",
		Long: `Lee un JSON con las líneas, en la misma forma que POST /api/calculations/document:

  {"items": [{"quantity": "2", "unit_price": "10.00", "discount": "0", "tax_rate": "19"}]}

También acepta un arreglo de líneas sin el objeto envolvente.`,
		Example: `  ledgerctl document -f items.json
  cat items.json | ledgerctl document -f -`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cur, err := currencyFlag(cmd)
			if err != nil {
				return err
			}
			path, _ := cmd.Flags().GetString("file")
			raw, err := readInput(cmd, path)
			if err != nil {
				return err
			}
			var req dto.DocumentCalcRequest
			if strings.HasPrefix(strings.TrimSpace(string(raw)), "[") {
				err = json.Unmarshal(raw, &req.Items)
			} else {
				err = json.Unmarshal(raw, &req)
			}
			if err != nil {
				return fmt.Errorf("leer líneas: %w", err)
			}
			inputs := make([]ledger.LineInput, len(req.Items))
			for i, it := range req.Items {
				inputs[i] = it.Input()
			}
			lines, totals, err := ledger.AggregateInputs(cur, inputs)
			if err != nil {
				return err
			}
			out := dto.DocumentCalcResponse{Totals: dto.NewTotalsResponse(cur, totals)}
			for _, l := range lines {
				out.Items = append(out.Items, dto.NewLineItemResponse(l))
			}
			return printJSON(cmd, out)
		},
	}
	cmd.Flags().StringP("file", "f", "", "Archivo JSON con las líneas (- = stdin)")
	return cmd
}

func newJournalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Valida la partida doble de un asiento",
		Long: `Lee un JSON con las filas del asiento ({"rows": [...]} o el arreglo directo) y
verifica que cada fila use un solo lado y que débitos y créditos cuadren.
Las cuentas no se resuelven: solo se validan los montos.`,
		Example: `  ledgerctl journal -f rows.json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cur, err := currencyFlag(cmd)
			if err != nil {
				return err
			}
			path, _ := cmd.Flags().GetString("file")
			raw, err := readInput(cmd, path)
			if err != nil {
				return err
			}
			var req dto.PostJournalEntryRequest
			if strings.HasPrefix(strings.TrimSpace(string(raw)), "[") {
				err = json.Unmarshal(raw, &req.Rows)
			} else {
				err = json.Unmarshal(raw, &req)
			}
			if err != nil {
				return fmt.Errorf("leer filas: %w", err)
			}
			rows := make([]ledger.JournalRowInput, len(req.Rows))
			for i, r := range req.Rows {
				rows[i] = ledger.JournalRowInput{AccountID: r.AccountID, Debit: r.Debit, Credit: r.Credit, Memo: r.Memo}
			}
			v, err := ledger.ValidateJournalEntry(cur, rows)
			if err != nil {
				return err
			}
			return printJSON(cmd, dto.JournalValidationResponse{
				Balanced:    v.Balanced(),
				TotalDebit:  v.TotalDebit,
				TotalCredit: v.TotalCredit,
				RowCount:    len(v.Rows),
			})
		},
	}
	cmd.Flags().StringP("file", "f", "", "Archivo JSON con las filas (- = stdin)")
	return cmd
}

type settleOutput struct {
	GrandTotal money.Money       `json:"grand_total"`
	PaidAmount money.Money       `json:"paid_amount"`
	BalanceDue money.Money       `json:"balance_due"`
	Status     settlement.Status `json:"status"`
}

func newSettleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settle",
		Short: "Aplica un pago al saldo de una factura",
		Example: `  ledgerctl settle --total 500 --paid 100,200 --pay 150
  ledgerctl settle --total 500 --paid 100,200 --pay 250   # overpayment: a lo sumo 200.00`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cur, err := currencyFlag(cmd)
			if err != nil {
				return err
			}
			totalStr, _ := cmd.Flags().GetString("total")
			total, err := cur.Parse(totalStr)
			if err != nil {
				return fmt.Errorf("--total: %w", err)
			}
			paidStr, _ := cmd.Flags().GetStringSlice("paid")
			paid := make([]money.Money, 0, len(paidStr))
			for _, s := range paidStr {
				m, err := cur.Parse(s)
				if err != nil {
					return fmt.Errorf("--paid: %w", err)
				}
				paid = append(paid, m)
			}
			state := settlement.Derive(total, paid)

			if payStr, _ := cmd.Flags().GetString("pay"); payStr != "" {
				pay, err := cur.Parse(payStr)
				if err != nil {
					return fmt.Errorf("--pay: %w", err)
				}
				if state, err = state.Apply(pay); err != nil {
					return err
				}
			}
			return printJSON(cmd, settleOutput{
				GrandTotal: state.GrandTotal,
				PaidAmount: state.PaidAmount,
				BalanceDue: state.BalanceDue,
				Status:     state.Status,
			})
		},
	}
	cmd.Flags().String("total", "", "Total de la factura")
	cmd.Flags().StringSlice("paid", nil, "Pagos ya registrados, separados por coma")
	cmd.Flags().String("pay", "", "Pago a aplicar (vacío = solo mostrar el estado)")
	_ = cmd.MarkFlagRequired("total")
	return cmd
}
