package hr

import (
	"context"
	"testing"
	"time"

	appshared "github.com/erp/backoffice/internal/application/shared"
	"github.com/erp/backoffice/internal/application/shared/mocks"
	"github.com/erp/backoffice/internal/domain/audit"
	"github.com/erp/backoffice/internal/domain/hr"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type advanceFixture struct {
	svc       *EmployeeService
	employees *mocks.EmployeeRepository
	advances  *mocks.AdvanceRepository
	ledger    *mocks.Ledger
}

func newAdvanceFixture(t *testing.T) *advanceFixture {
	t.Helper()
	f := &advanceFixture{
		employees: new(mocks.EmployeeRepository),
		advances:  new(mocks.AdvanceRepository),
		ledger:    new(mocks.Ledger),
	}
	scope := appshared.NewNoOpTransactionScope(&appshared.StaticRepositories{
		EmployeeRepo: f.employees,
		AdvanceRepo:  f.advances,
		LedgerImpl:   f.ledger,
	})
	f.svc = NewEmployeeService(scope, new(mocks.NumberIssuer), 1)
	t.Cleanup(func() {
		f.employees.AssertExpectations(t)
		f.advances.AssertExpectations(t)
		f.ledger.AssertExpectations(t)
	})
	return f
}

func advance(t *testing.T, amount int64) *hr.AdvanceRequest {
	t.Helper()
	adv, err := hr.NewAdvanceRequest(employee(t, 30000), time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		decimal.NewFromInt(amount), "Medical", hr.Terms3Months, "HR head")
	require.NoError(t, err)
	return adv
}

func TestEmployeeService_CreateAdvance(t *testing.T) {
	ctx := context.Background()

	t.Run("stores an active advance", func(t *testing.T) {
		f := newAdvanceFixture(t)
		e := employee(t, 30000)
		userID := uuid.New()
		f.employees.On("FindByID", mock.Anything, tenantID, e.ID).Return(e, nil)
		f.advances.On("Save", mock.Anything, mock.MatchedBy(func(a *hr.AdvanceRequest) bool {
			return a.EmployeeID == e.ID && a.CreatedBy != nil && *a.CreatedBy == userID
		})).Return(nil)

		resp, err := f.svc.CreateAdvance(ctx, tenantID, e.ID, shared.UserActor(userID), CreateAdvanceRequest{
			Date:           time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
			Amount:         decimal.NewFromInt(9000),
			Purpose:        "Medical",
			RepaymentTerms: "3",
		})

		require.NoError(t, err)
		assert.Equal(t, "active", resp.Status)
		assert.True(t, decimal.NewFromInt(9000).Equal(resp.OutstandingAmount))
		assert.True(t, decimal.NewFromInt(3000).Equal(resp.SuggestedInstallment))
		assert.Empty(t, resp.Installments)
	})

	t.Run("unknown employee", func(t *testing.T) {
		f := newAdvanceFixture(t)
		id := uuid.New()
		f.employees.On("FindByID", mock.Anything, tenantID, id).Return(nil, shared.ErrNotFound)

		_, err := f.svc.CreateAdvance(ctx, tenantID, id, shared.Actor{}, CreateAdvanceRequest{
			Date: time.Now(), Amount: decimal.NewFromInt(1000), Purpose: "Rent", RepaymentTerms: "custom",
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		f.advances.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestEmployeeService_RecordInstallment(t *testing.T) {
	ctx := context.Background()
	due := time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC)

	t.Run("repayment reduces the outstanding amount", func(t *testing.T) {
		f := newAdvanceFixture(t)
		adv := advance(t, 9000)
		f.advances.On("FindByIDForUpdate", mock.Anything, tenantID, adv.ID).Return(adv, nil)
		f.advances.On("Save", mock.Anything, adv).Return(nil)

		resp, err := f.svc.RecordInstallment(ctx, tenantID, adv.ID, RecordInstallmentRequest{
			DueDate: due,
			Amount:  decimal.NewFromInt(3000),
		})

		require.NoError(t, err)
		require.Len(t, resp.Installments, 1)
		assert.True(t, resp.Installments[0].PayslipDeduction, "payslip deduction defaults on")
		assert.True(t, decimal.NewFromInt(6000).Equal(resp.OutstandingAmount))
		assert.Equal(t, "active", resp.Status)
	})

	t.Run("final repayment closes the advance", func(t *testing.T) {
		f := newAdvanceFixture(t)
		adv := advance(t, 9000)
		off := false
		f.advances.On("FindByIDForUpdate", mock.Anything, tenantID, adv.ID).Return(adv, nil)
		f.advances.On("Save", mock.Anything, adv).Return(nil)

		resp, err := f.svc.RecordInstallment(ctx, tenantID, adv.ID, RecordInstallmentRequest{
			DueDate:          due,
			Amount:           decimal.NewFromInt(9000),
			PayslipDeduction: &off,
		})

		require.NoError(t, err)
		assert.Equal(t, "closed", resp.Status)
		assert.True(t, resp.OutstandingAmount.IsZero())
		assert.False(t, resp.Installments[0].PayslipDeduction)
	})

	t.Run("overpayment writes nothing", func(t *testing.T) {
		f := newAdvanceFixture(t)
		adv := advance(t, 9000)
		f.advances.On("FindByIDForUpdate", mock.Anything, tenantID, adv.ID).Return(adv, nil)

		_, err := f.svc.RecordInstallment(ctx, tenantID, adv.ID, RecordInstallmentRequest{
			DueDate: due,
			Amount:  decimal.NewFromInt(9500),
		})

		var validationErr *shared.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "amount", validationErr.Field)
		f.advances.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestEmployeeService_DeleteAdvance(t *testing.T) {
	f := newAdvanceFixture(t)
	id := uuid.New()
	f.ledger.On("SoftDelete", mock.Anything, tenantID, audit.EntityAdvance, id, shared.Actor{}).Return(nil)

	require.NoError(t, f.svc.DeleteAdvance(context.Background(), tenantID, id, shared.Actor{}))
}

func TestEmployeeService_ListAdvances(t *testing.T) {
	f := newAdvanceFixture(t)
	adv := advance(t, 5000)
	_, err := adv.RecordInstallment(time.Date(2025, 7, 31, 0, 0, 0, 0, time.UTC), decimal.NewFromInt(2000), true)
	require.NoError(t, err)
	f.advances.On("FindByEmployee", mock.Anything, tenantID, adv.EmployeeID).Return([]hr.AdvanceRequest{*adv}, nil)

	list, err := f.svc.ListAdvances(context.Background(), tenantID, adv.EmployeeID)

	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, decimal.NewFromInt(2000).Equal(list[0].TotalRepaid))
	assert.True(t, decimal.NewFromInt(3000).Equal(list[0].OutstandingAmount))
}
