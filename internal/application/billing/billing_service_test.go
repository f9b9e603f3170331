package billing

import (
	"context"
	"testing"
	"time"

	appshared "github.com/erp/backoffice/internal/application/shared"
	"github.com/erp/backoffice/internal/application/shared/mocks"
	"github.com/erp/backoffice/internal/domain/billing"
	"github.com/erp/backoffice/internal/domain/numbering"
	"github.com/erp/backoffice/internal/domain/shared"
	"github.com/erp/backoffice/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	tenantA   = uuid.MustParse("55555555-5555-5555-5555-555555555555")
	billClock = time.Date(2025, time.November, 20, 10, 0, 0, 0, time.UTC)
)

type billingFixture struct {
	scope      appshared.TransactionScope
	clients    *mocks.ClientRepository
	quotations *mocks.QuotationRepository
	invoices   *mocks.InvoiceRepository
	receipts   *mocks.ReceiptRepository
	numbers    *mocks.NumberIssuer
	suppliers  *mocks.SupplierRegistry
}

func newBillingFixture(t *testing.T) *billingFixture {
	t.Helper()
	f := &billingFixture{
		clients:    new(mocks.ClientRepository),
		quotations: new(mocks.QuotationRepository),
		invoices:   new(mocks.InvoiceRepository),
		receipts:   new(mocks.ReceiptRepository),
		numbers:    new(mocks.NumberIssuer),
		suppliers:  new(mocks.SupplierRegistry),
	}
	f.scope = appshared.NewNoOpTransactionScope(&appshared.StaticRepositories{
		ClientRepo:    f.clients,
		QuotationRepo: f.quotations,
		InvoiceRepo:   f.invoices,
		ReceiptRepo:   f.receipts,
	})
	t.Cleanup(func() {
		f.clients.AssertExpectations(t)
		f.quotations.AssertExpectations(t)
		f.invoices.AssertExpectations(t)
		f.receipts.AssertExpectations(t)
		f.numbers.AssertExpectations(t)
		f.suppliers.AssertExpectations(t)
	})
	return f
}

func (f *billingFixture) quotationService() *QuotationService {
	svc := NewQuotationService(f.scope, f.numbers, f.suppliers, 1)
	svc.SetClock(func() time.Time { return billClock })
	return svc
}

func mustGSTIN(t *testing.T, raw string) valueobject.GSTIN {
	t.Helper()
	g, err := valueobject.NewGSTIN(raw)
	require.NoError(t, err)
	return g
}

func quotedClient(t *testing.T, gstin string) (*billing.Client, *billing.Quotation) {
	t.Helper()
	client, err := billing.NewClient(tenantA, "Acme Retail", gstin)
	require.NoError(t, err)
	q, err := billing.NewQuotation(tenantA, client.ID, billClock, []billing.QuotationItemInput{
		{Description: "Consulting", Quantity: decimal.NewFromInt(10), Rate: decimal.NewFromInt(1000)},
	})
	require.NoError(t, err)
	require.NoError(t, q.AssignNumber("QTN/2025-2026/0004"))
	return client, q
}

func TestQuotationService_Create(t *testing.T) {
	f := newBillingFixture(t)
	client, _ := quotedClient(t, "")
	f.clients.On("FindByID", mock.Anything, tenantA, client.ID).Return(client, nil)
	f.numbers.On("IssueWithin", mock.Anything, mock.Anything, tenantA, numbering.DocumentTypeQuotation).Return("QTN/2025-2026/0005", nil)
	f.quotations.On("Save", mock.Anything, mock.AnythingOfType("*billing.Quotation")).Return(nil)

	resp, err := f.quotationService().Create(context.Background(), tenantA, shared.Actor{}, CreateQuotationRequest{
		ClientID: client.ID,
		Items: []QuotationItemRequest{
			{Description: "Design", Quantity: decimal.NewFromInt(3), Rate: decimal.RequireFromString("1250.50")},
			{Description: "Build", Quantity: decimal.NewFromInt(1), Rate: decimal.NewFromInt(5000)},
		},
	})

	require.NoError(t, err)
	assert.Equal(t, "QTN/2025-2026/0005", resp.QuotationNumber)
	assert.Equal(t, billClock, resp.QuotationDate)
	assert.True(t, decimal.RequireFromString("8751.50").Equal(resp.SubTotal), resp.SubTotal.String())
}

func TestQuotationService_CreateInvoice(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		supplier string
		customer string
		cgst     string
		sgst     string
		igst     string
		total    string
	}{
		{"intra state", "27AAPFU0939F1ZV", "27AABCU9603R1ZM", "900", "900", "0", "11800"},
		{"inter state", "27AAPFU0939F1ZV", "29AABCU9603R1ZJ", "0", "0", "1800", "11800"},
		{"unregistered client", "27AAPFU0939F1ZV", "", "900", "900", "0", "11800"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBillingFixture(t)
			client, q := quotedClient(t, tt.customer)
			f.suppliers.On("SupplierGSTIN", mock.Anything, tenantA).Return(mustGSTIN(t, tt.supplier), nil)
			f.quotations.On("FindByID", mock.Anything, tenantA, q.ID).Return(q, nil)
			f.invoices.On("FindByQuotation", mock.Anything, tenantA, q.ID).Return(nil, shared.ErrNotFound)
			f.clients.On("FindByID", mock.Anything, tenantA, client.ID).Return(client, nil)
			f.numbers.On("IssueWithin", mock.Anything, mock.Anything, tenantA, numbering.DocumentTypeInvoice).Return("INV/2025-2026/0001", nil)
			f.invoices.On("Save", mock.Anything, mock.AnythingOfType("*billing.GSTInvoice")).Return(nil)

			resp, err := f.quotationService().CreateInvoice(ctx, tenantA, q.ID, shared.Actor{}, CreateInvoiceRequest{})

			require.NoError(t, err)
			assert.Equal(t, "INV/2025-2026/0001", resp.InvoiceNumber)
			assert.True(t, decimal.NewFromInt(10000).Equal(resp.SubTotal))
			assert.True(t, decimal.RequireFromString(tt.cgst).Equal(resp.CGST), "cgst %s", resp.CGST)
			assert.True(t, decimal.RequireFromString(tt.sgst).Equal(resp.SGST), "sgst %s", resp.SGST)
			assert.True(t, decimal.RequireFromString(tt.igst).Equal(resp.IGST), "igst %s", resp.IGST)
			assert.True(t, decimal.RequireFromString(tt.total).Equal(resp.GrandTotal), "total %s", resp.GrandTotal)
			assert.Equal(t, billClock, resp.InvoiceDate)
		})
	}

	t.Run("quotation invoiced once", func(t *testing.T) {
		f := newBillingFixture(t)
		_, q := quotedClient(t, "")
		f.suppliers.On("SupplierGSTIN", mock.Anything, tenantA).Return(valueobject.GSTIN{}, nil)
		f.quotations.On("FindByID", mock.Anything, tenantA, q.ID).Return(q, nil)
		f.invoices.On("FindByQuotation", mock.Anything, tenantA, q.ID).Return(&billing.GSTInvoice{InvoiceNumber: "INV/2025-2026/0001"}, nil)

		_, err := f.quotationService().CreateInvoice(ctx, tenantA, q.ID, shared.Actor{}, CreateInvoiceRequest{})
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})
}

func TestReceiptService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("net of tds", func(t *testing.T) {
		f := newBillingFixture(t)
		client, _ := quotedClient(t, "")
		f.clients.On("FindByID", mock.Anything, tenantA, client.ID).Return(client, nil)
		f.numbers.On("IssueWithin", mock.Anything, mock.Anything, tenantA, numbering.DocumentTypeReceipt).Return("RCPT/2025-2026/0009", nil)
		f.receipts.On("Save", mock.Anything, mock.AnythingOfType("*billing.Receipt")).Return(nil)

		svc := NewReceiptService(f.scope, f.numbers, 1)
		resp, err := svc.Create(ctx, tenantA, shared.Actor{}, CreateReceiptRequest{
			ClientID:      client.ID,
			PaymentMode:   "bank_transfer",
			Amount:        decimal.NewFromInt(50000),
			TDSPercentage: decimal.NewFromInt(2),
		})

		require.NoError(t, err)
		assert.Equal(t, "RCPT/2025-2026/0009", resp.ReceiptNumber)
		assert.True(t, decimal.NewFromInt(1000).Equal(resp.TDSAmount))
		assert.True(t, decimal.NewFromInt(49000).Equal(resp.NetAmount))
		assert.True(t, resp.NetAmount.Equal(resp.UnallocatedAmount))
	})

	t.Run("invoice of another client", func(t *testing.T) {
		f := newBillingFixture(t)
		client, _ := quotedClient(t, "")
		invoiceID := uuid.New()
		f.clients.On("FindByID", mock.Anything, tenantA, client.ID).Return(client, nil)
		f.invoices.On("FindByID", mock.Anything, tenantA, invoiceID).Return(&billing.GSTInvoice{ClientID: uuid.New()}, nil)

		svc := NewReceiptService(f.scope, f.numbers, 1)
		_, err := svc.Create(ctx, tenantA, shared.Actor{}, CreateReceiptRequest{
			ClientID:    client.ID,
			InvoiceID:   &invoiceID,
			PaymentMode: "cash",
			Amount:      decimal.NewFromInt(100),
		})

		var verr *shared.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "invoice_id", verr.Field)
	})
}

func TestClientService_Create(t *testing.T) {
	f := newBillingFixture(t)
	f.clients.On("Save", mock.Anything, mock.AnythingOfType("*billing.Client")).Return(nil)

	resp, err := NewClientService(f.scope).Create(context.Background(), tenantA, shared.Actor{}, CreateClientRequest{
		Name:      "Globex",
		GSTIN:     "29aabcu9603r1zj",
		Locations: []ClientLocationRequest{{Line1: "1 Residency Rd", City: "Bengaluru", State: "Karnataka", Pincode: "560025"}},
	})

	require.NoError(t, err)
	assert.Equal(t, "29AABCU9603R1ZJ", resp.GSTIN)
	assert.Equal(t, "29", resp.StateCode)
	assert.Len(t, resp.Addresses, 1)
}
