// Command ledgerctl expone las calculadoras del libro (líneas, documentos, asientos y saldos) por consola.
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/pkg/logger"
)

var version = "1.0.0"

func main() {
	log := logger.New(logger.Config{Env: "development", Level: "warn", Output: os.Stderr}).Component("ledgerctl")

	if err := newRootCmd().Execute(); err != nil {
		if ve, ok := domain.AsValidation(err); ok {
			log.Warn().Str("kind", string(ve.Kind)).Str("field", ve.Field).Msg("entrada rechazada")
		} else {
			log.Error().Err(err).Msg("falló la ejecución del comando")
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
