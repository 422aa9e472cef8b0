package billing_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/domain"
	"github.com/jhoicas/ledger-api/internal/domain/entity"
)

func TestPartyUseCase_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	p, err := f.parties.Create(ctx, companyID, entity.PartyCustomer, dto.CreatePartyRequest{Name: " Bancolombia ", TaxID: "890903938-8"})
	require.NoError(t, err)
	assert.Equal(t, "Bancolombia", p.Name)

	_, err = f.parties.Create(ctx, companyID, entity.PartyCustomer, dto.CreatePartyRequest{Name: "Otro", TaxID: "890903938-8"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// El mismo NIT como proveedor es otro tercero.
	_, err = f.parties.Create(ctx, companyID, entity.PartySupplier, dto.CreatePartyRequest{Name: "Bancolombia", TaxID: "890903938-8"})
	assert.NoError(t, err)

	_, err = f.parties.Create(ctx, companyID, entity.PartyCustomer, dto.CreatePartyRequest{Name: "Mal DV", TaxID: "890903938-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.parties.Create(ctx, companyID, "employee", dto.CreatePartyRequest{Name: "X", TaxID: "1"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := f.parties.List(ctx, companyID, entity.PartyCustomer, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
