package crm

import (
	"context"
	"errors"
	"testing"
	"time"

	appshared "github.com/erp/backoffice/internal/application/shared"
	"github.com/erp/backoffice/internal/application/shared/mocks"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/billing"
	"github.com/erp/backoffice/internal/domain/crm"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testTenantID = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	testClock    = time.Date(2025, time.August, 1, 12, 0, 0, 0, time.UTC)
)

type dealFixture struct {
	svc     *DealService
	deals   *mocks.DealRepository
	agents  *mocks.AgentRepository
	clients *mocks.ClientRepository
	ledger  *mocks.Ledger
}

func newDealFixture(t *testing.T) *dealFixture {
	t.Helper()
	f := &dealFixture{
		deals:   new(mocks.DealRepository),
		agents:  new(mocks.AgentRepository),
		clients: new(mocks.ClientRepository),
		ledger:  new(mocks.Ledger),
	}
	scope := appshared.NewNoOpTransactionScope(&appshared.StaticRepositories{
		DealRepo:   f.deals,
		AgentRepo:  f.agents,
		ClientRepo: f.clients,
		LedgerImpl: f.ledger,
	})
	f.svc = NewDealService(scope)
	f.svc.SetClock(func() time.Time { return testClock })
	t.Cleanup(func() {
		f.deals.AssertExpectations(t)
		f.agents.AssertExpectations(t)
		f.clients.AssertExpectations(t)
		f.ledger.AssertExpectations(t)
	})
	return f
}

func newAgent(t *testing.T, commissionType crm.CommissionType, value int64, trigger crm.CommissionTrigger) *crm.Agent {
	t.Helper()
	agent, err := crm.NewAgent(testTenantID, "Priya", crm.AgentTypeOther, nil, "referral partner", crm.CommissionPlan{
		Type:    commissionType,
		Value:   decimal.NewFromInt(value),
		Trigger: trigger,
	})
	require.NoError(t, err)
	return agent
}

func newDeal(t *testing.T, value int64, agent *crm.Agent) *crm.Deal {
	t.Helper()
	var agentID *uuid.UUID
	if agent != nil {
		agentID = &agent.ID
	}
	deal, err := crm.NewDeal(testTenantID, "Warehouse fit-out", decimal.NewFromInt(value), nil, agentID)
	require.NoError(t, err)
	return deal
}

func TestDealService_Create(t *testing.T) {
	t.Run("creates deal as lead", func(t *testing.T) {
		f := newDealFixture(t)
		agent := newAgent(t, crm.CommissionTypePercentage, 5, crm.TriggerDealClosure)
		clientID := uuid.New()
		f.clients.On("FindByID", mock.Anything, testTenantID, clientID).Return(&billing.Client{}, nil)
		f.agents.On("FindByID", mock.Anything, testTenantID, agent.ID).Return(agent, nil)
		f.deals.On("Save", mock.Anything, mock.AnythingOfType("*crm.Deal")).Return(nil)

		resp, err := f.svc.Create(context.Background(), testTenantID, shared.Actor{}, CreateDealRequest{
			Title:     "Annual maintenance",
			ClientID:  &clientID,
			AgentID:   &agent.ID,
			DealValue: decimal.NewFromInt(50000),
		})

		require.NoError(t, err)
		assert.Equal(t, "lead", resp.Status)
		assert.ElementsMatch(t, []string{"converted", "cancelled"}, resp.AllowedTransitions)
	})

	t.Run("rejects unknown agent", func(t *testing.T) {
		f := newDealFixture(t)
		agentID := uuid.New()
		f.agents.On("FindByID", mock.Anything, testTenantID, agentID).Return(nil, shared.ErrNotFound)

		_, err := f.svc.Create(context.Background(), testTenantID, shared.Actor{}, CreateDealRequest{
			Title:     "Annual maintenance",
			AgentID:   &agentID,
			DealValue: decimal.NewFromInt(50000),
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrValidation))
		f.deals.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects non-positive value", func(t *testing.T) {
		f := newDealFixture(t)
		_, err := f.svc.Create(context.Background(), testTenantID, shared.Actor{}, CreateDealRequest{
			Title:     "Annual maintenance",
			DealValue: decimal.Zero,
		})
		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "deal_value", verr.Field)
	})
}

func TestDealService_ChangeStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("invoiced deal cannot go back to lead", func(t *testing.T) {
		f := newDealFixture(t)
		deal := newDeal(t, 10000, nil)
		deal.Status = crm.DealStatusInvoiced
		f.deals.On("FindByIDForUpdate", mock.Anything, testTenantID, deal.ID).Return(deal, nil)

		_, err := f.svc.ChangeStatus(ctx, testTenantID, deal.ID, ChangeDealStatusRequest{Status: "lead"})

		var terr *shared.InvalidTransitionError
		require.ErrorAs(t, err, &terr)
		assert.Equal(t, "invoiced", terr.From)
		assert.Equal(t, "lead", terr.To)
		assert.Equal(t, crm.DealStatusInvoiced, deal.Status)
		f.deals.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invoiced deal moves to payment received", func(t *testing.T) {
		f := newDealFixture(t)
		deal := newDeal(t, 10000, nil)
		deal.Status = crm.DealStatusInvoiced
		f.deals.On("FindByIDForUpdate", mock.Anything, testTenantID, deal.ID).Return(deal, nil)
		f.deals.On("Save", mock.Anything, deal).Return(nil)

		resp, err := f.svc.ChangeStatus(ctx, testTenantID, deal.ID, ChangeDealStatusRequest{Status: "payment_received"})

		require.NoError(t, err)
		assert.Equal(t, "payment_received", resp.Status)
		assert.Empty(t, resp.AllowedTransitions)
	})

	t.Run("commission fires once on closure", func(t *testing.T) {
		f := newDealFixture(t)
		agent := newAgent(t, crm.CommissionTypePercentage, 10, crm.TriggerDealClosure)
		deal := newDeal(t, 20000, agent)
		f.deals.On("FindByIDForUpdate", mock.Anything, testTenantID, deal.ID).Return(deal, nil)
		f.deals.On("Save", mock.Anything, deal).Return(nil)
		f.agents.On("FindByID", mock.Anything, testTenantID, agent.ID).Return(agent, nil)

		resp, err := f.svc.ChangeStatus(ctx, testTenantID, deal.ID, ChangeDealStatusRequest{Status: "converted"})
		require.NoError(t, err)
		assert.True(t, resp.CommissionCalculated)
		assert.True(t, decimal.NewFromInt(2000).Equal(resp.CommissionAmount))
		require.NotNil(t, resp.ClosedAt)
		assert.Equal(t, testClock, *resp.ClosedAt)

		agent.Commission.Value = decimal.NewFromInt(50)
		for _, next := range []string{"invoiced", "payment_received"} {
			_, err := f.svc.ChangeStatus(ctx, testTenantID, deal.ID, ChangeDealStatusRequest{Status: next})
			require.NoError(t, err)
		}
		assert.True(t, decimal.NewFromInt(2000).Equal(deal.CommissionAmount))
		f.deals.AssertNumberOfCalls(t, "Save", 3)
	})

	t.Run("payment trigger waits for payment", func(t *testing.T) {
		f := newDealFixture(t)
		agent := newAgent(t, crm.CommissionTypeFlat, 1500, crm.TriggerOnPaymentReceived)
		deal := newDeal(t, 20000, agent)
		f.deals.On("FindByIDForUpdate", mock.Anything, testTenantID, deal.ID).Return(deal, nil)
		f.deals.On("Save", mock.Anything, deal).Return(nil)
		f.agents.On("FindByID", mock.Anything, testTenantID, agent.ID).Return(agent, nil)

		_, err := f.svc.ChangeStatus(ctx, testTenantID, deal.ID, ChangeDealStatusRequest{Status: "converted"})
		require.NoError(t, err)
		assert.False(t, deal.CommissionCalculated)

		_, err = f.svc.ChangeStatus(ctx, testTenantID, deal.ID, ChangeDealStatusRequest{Status: "invoiced"})
		require.NoError(t, err)
		resp, err := f.svc.ChangeStatus(ctx, testTenantID, deal.ID, ChangeDealStatusRequest{Status: "payment_received"})
		require.NoError(t, err)
		assert.True(t, resp.CommissionCalculated)
		assert.True(t, decimal.NewFromInt(1500).Equal(resp.CommissionAmount))
	})

	t.Run("flat commission above deal value fails", func(t *testing.T) {
		f := newDealFixture(t)
		agent := newAgent(t, crm.CommissionTypeFlat, 10000, crm.TriggerDealClosure)
		deal := newDeal(t, 5000, agent)
		f.deals.On("FindByIDForUpdate", mock.Anything, testTenantID, deal.ID).Return(deal, nil)
		f.agents.On("FindByID", mock.Anything, testTenantID, agent.ID).Return(agent, nil)

		_, err := f.svc.ChangeStatus(ctx, testTenantID, deal.ID, ChangeDealStatusRequest{Status: "converted"})

		var cerr *crm.CommissionExceedsDealValueError
		require.ErrorAs(t, err, &cerr)
		assert.Equal(t, crm.DealStatusLead, deal.Status)
		assert.False(t, deal.CommissionCalculated)
		f.deals.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("deleted agent earns nothing", func(t *testing.T) {
		f := newDealFixture(t)
		agent := newAgent(t, crm.CommissionTypePercentage, 10, crm.TriggerDealClosure)
		deal := newDeal(t, 20000, agent)
		f.deals.On("FindByIDForUpdate", mock.Anything, testTenantID, deal.ID).Return(deal, nil)
		f.deals.On("Save", mock.Anything, deal).Return(nil)
		f.agents.On("FindByID", mock.Anything, testTenantID, agent.ID).Return(nil, shared.ErrNotFound)

		resp, err := f.svc.ChangeStatus(ctx, testTenantID, deal.ID, ChangeDealStatusRequest{Status: "converted"})

		require.NoError(t, err)
		assert.Equal(t, "converted", resp.Status)
		assert.False(t, resp.CommissionCalculated)
	})

	t.Run("missing deal", func(t *testing.T) {
		f := newDealFixture(t)
		id := uuid.New()
		f.deals.On("FindByIDForUpdate", mock.Anything, testTenantID, id).Return(nil, shared.ErrNotFound)

		_, err := f.svc.ChangeStatus(ctx, testTenantID, id, ChangeDealStatusRequest{Status: "converted"})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestDealService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("edits fields and status together", func(t *testing.T) {
		f := newDealFixture(t)
		deal := newDeal(t, 8000, nil)
		f.deals.On("FindByIDForUpdate", mock.Anything, testTenantID, deal.ID).Return(deal, nil)
		f.deals.On("Save", mock.Anything, deal).Return(nil)

		title := "Renamed"
		value := decimal.NewFromInt(9000)
		status := "cancelled"
		resp, err := f.svc.Update(ctx, testTenantID, deal.ID, UpdateDealRequest{Title: &title, DealValue: &value, Status: &status})

		require.NoError(t, err)
		assert.Equal(t, "Renamed", resp.Title)
		assert.True(t, value.Equal(resp.DealValue))
		assert.Equal(t, "cancelled", resp.Status)
	})

	t.Run("value is frozen after commission", func(t *testing.T) {
		f := newDealFixture(t)
		deal := newDeal(t, 8000, nil)
		deal.Status = crm.DealStatusConverted
		deal.CommissionCalculated = true
		f.deals.On("FindByIDForUpdate", mock.Anything, testTenantID, deal.ID).Return(deal, nil)

		value := decimal.NewFromInt(1)
		_, err := f.svc.Update(ctx, testTenantID, deal.ID, UpdateDealRequest{DealValue: &value})

		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})
}

func TestDealService_Delete(t *testing.T) {
	f := newDealFixture(t)
	id := uuid.New()
	actor := shared.Actor{UserID: &id}
	f.ledger.On("SoftDelete", mock.Anything, testTenantID, audit.EntityDeal, id, actor).Return(nil).Once()
	f.ledger.On("HardDelete", mock.Anything, testTenantID, audit.EntityDeal, id).Return(nil).Once()

	require.NoError(t, f.svc.Delete(context.Background(), testTenantID, id, actor))
	require.NoError(t, f.svc.HardDelete(context.Background(), testTenantID, id))
}

func TestDealService_List(t *testing.T) {
	f := newDealFixture(t)
	deal := newDeal(t, 1000, nil)
	f.deals.On("FindAll", mock.Anything, testTenantID, mock.MatchedBy(func(filter crm.DealFilter) bool {
		return filter.Status == crm.DealStatusLead && filter.Page == 2
	})).Return([]crm.Deal{*deal}, int64(21), nil)

	page, err := f.svc.List(context.Background(), testTenantID, DealListFilter{Page: 2, PageSize: 20, Status: "lead"})

	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 2, page.TotalPages)
}
