package procurement

import (
	"context"
	"testing"

	appshared "github.com/erp/backoffice/internal/application/shared"
	"github.com/erp/backoffice/internal/application/shared/mocks"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/procurement"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newPartyService(t *testing.T) (*PartyService, *mocks.PartyRepository, *mocks.Ledger) {
	t.Helper()
	parties := new(mocks.PartyRepository)
	ledger := new(mocks.Ledger)
	scope := appshared.NewNoOpTransactionScope(&appshared.StaticRepositories{PartyRepo: parties, LedgerImpl: ledger})
	t.Cleanup(func() {
		parties.AssertExpectations(t)
		ledger.AssertExpectations(t)
	})
	return NewPartyService(scope), parties, ledger
}

func TestPartyService_Create(t *testing.T) {
	t.Run("first location is primary", func(t *testing.T) {
		svc, parties, _ := newPartyService(t)
		var saved *procurement.Party
		parties.On("Save", mock.Anything, mock.AnythingOfType("*procurement.Party")).
			Run(func(args mock.Arguments) { saved = args.Get(1).(*procurement.Party) }).
			Return(nil)

		resp, err := svc.Create(context.Background(), testTenantID, shared.Actor{}, CreatePartyRequest{
			Name:  "Shree Traders",
			GSTIN: "27AAPFU0939F1ZV",
			Locations: []LocationRequest{
				{Label: "Warehouse", Line1: "Plot 4, MIDC", City: "Pune", State: "Maharashtra", Pincode: "411019"},
				{Label: "Office", Line1: "12 MG Road", City: "Mumbai", State: "Maharashtra", Pincode: "400001"},
			},
		})

		require.NoError(t, err)
		require.Len(t, resp.Locations, 2)
		assert.True(t, resp.Locations[0].IsPrimary)
		assert.False(t, resp.Locations[1].IsPrimary)
		assert.Equal(t, "27AAPFU0939F1ZV", resp.GSTIN)
		require.NotNil(t, saved)
		assert.Equal(t, saved.ID, saved.Locations[0].PartyID)
	})

	t.Run("bad pincode", func(t *testing.T) {
		svc, _, _ := newPartyService(t)
		_, err := svc.Create(context.Background(), testTenantID, shared.Actor{}, CreatePartyRequest{
			Name:      "Shree Traders",
			Locations: []LocationRequest{{Line1: "x", City: "Pune", State: "MH", Pincode: "41"}},
		})
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "locations", verr.Field)
	})

	t.Run("bad gstin", func(t *testing.T) {
		svc, _, _ := newPartyService(t)
		_, err := svc.Create(context.Background(), testTenantID, shared.Actor{}, CreatePartyRequest{Name: "X", GSTIN: "not-a-gstin"})
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestPartyService_Delete(t *testing.T) {
	svc, _, ledger := newPartyService(t)
	id := uuid.New()
	ledger.On("SoftDelete", mock.Anything, testTenantID, audit.EntityParty, id, shared.SystemActor()).Return(nil)

	require.NoError(t, svc.Delete(context.Background(), testTenantID, id, shared.SystemActor()))
}
