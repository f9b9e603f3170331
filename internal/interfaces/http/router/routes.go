package router

import (
	"github.com/erp/backoffice/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers are the API handlers wired into the route tree
type Handlers struct {
	Sequences   *handler.SequenceHandler
	CRM         *handler.CRMHandler
	Procurement *handler.ProcurementHandler
	Billing     *handler.BillingHandler
	Employees   *handler.EmployeeHandler
	Assets      *handler.AssetHandler
	RecycleBin  *handler.RecycleBinHandler
	System      *handler.SystemHandler
}

// DomainGroups builds the route groups of every module. idempotent guards
// the POSTs that consume a document number; nil disables it.
func DomainGroups(h Handlers, idempotent gin.HandlerFunc) []*DomainGroup {
	numbered := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		if idempotent == nil {
			return []gin.HandlerFunc{fn}
		}
		return []gin.HandlerFunc{idempotent, fn}
	}

	sequences := NewDomainGroup("sequences", "/sequences").
		GET("", h.Sequences.List).
		PUT("/:type", h.Sequences.Provision).
		POST("/:type/next", numbered(h.Sequences.NextNumber)...).
		GET("/:type/current", h.Sequences.Current).
		POST("/:type/lock", h.Sequences.Lock).
		POST("/:type/unlock", h.Sequences.Unlock).
		POST("/:type/reset", h.Sequences.Reset)

	agents := NewDomainGroup("agents", "/agents").
		POST("", h.CRM.CreateAgent).
		GET("", h.CRM.ListAgents).
		GET("/:id", h.CRM.GetAgent).
		DELETE("/:id", h.CRM.DeleteAgent)

	deals := NewDomainGroup("deals", "/deals").
		POST("", h.CRM.CreateDeal).
		GET("", h.CRM.ListDeals).
		GET("/:id", h.CRM.GetDeal).
		PUT("/:id", h.CRM.UpdateDeal).
		DELETE("/:id", h.CRM.DeleteDeal).
		POST("/:id/status", h.CRM.ChangeDealStatus).
		DELETE("/:id/hard", h.CRM.HardDeleteDeal)

	parties := NewDomainGroup("parties", "/parties").
		POST("", h.Procurement.CreateParty).
		GET("", h.Procurement.ListParties).
		GET("/:id", h.Procurement.GetParty).
		DELETE("/:id", h.Procurement.DeleteParty)

	orders := NewDomainGroup("purchase_orders", "/purchase-orders").
		POST("", numbered(h.Procurement.CreatePurchaseOrder)...).
		GET("", h.Procurement.ListPurchaseOrders).
		GET("/:id", h.Procurement.GetPurchaseOrder).
		PUT("/:id", h.Procurement.UpdatePurchaseOrder).
		DELETE("/:id", h.Procurement.DeletePurchaseOrder).
		POST("/:id/status", h.Procurement.ChangePurchaseOrderStatus).
		POST("/:id/grn", numbered(h.Procurement.CreateGRN)...)

	grns := NewDomainGroup("grns", "/grns").
		GET("/:id", h.Procurement.GetGRN).
		PUT("/:id", h.Procurement.UpdateGRN).
		DELETE("/:id", h.Procurement.DeleteGRN).
		POST("/:id/send", h.Procurement.SendGRN)

	clients := NewDomainGroup("clients", "/clients").
		POST("", h.Billing.CreateClient).
		GET("", h.Billing.ListClients).
		GET("/:id", h.Billing.GetClient).
		DELETE("/:id", h.Billing.DeleteClient)

	quotations := NewDomainGroup("quotations", "/quotations").
		POST("", numbered(h.Billing.CreateQuotation)...).
		GET("/:id", h.Billing.GetQuotation).
		DELETE("/:id", h.Billing.DeleteQuotation).
		POST("/:id/invoice", numbered(h.Billing.CreateInvoice)...)

	invoices := NewDomainGroup("invoices", "/invoices").
		GET("/:id", h.Billing.GetInvoice)

	receipts := NewDomainGroup("receipts", "/receipts").
		POST("", numbered(h.Billing.CreateReceipt)...).
		GET("/:id", h.Billing.GetReceipt).
		DELETE("/:id", h.Billing.DeleteReceipt)

	employees := NewDomainGroup("employees", "/employees").
		POST("", numbered(h.Employees.Create)...).
		GET("", h.Employees.List).
		GET("/:id", h.Employees.GetByID).
		DELETE("/:id", h.Employees.Delete).
		POST("/:id/salary-slips", h.Employees.CreateSalarySlip).
		GET("/:id/salary-slips", h.Employees.ListSalarySlips).
		POST("/:id/advances", h.Employees.CreateAdvance).
		GET("/:id/advances", h.Employees.ListAdvances)

	advances := NewDomainGroup("advances", "/advances").
		GET("/:id", h.Employees.GetAdvance).
		DELETE("/:id", h.Employees.DeleteAdvance).
		POST("/:id/installments", h.Employees.RecordInstallment)

	assets := NewDomainGroup("assets", "/assets").
		POST("", h.Assets.Create).
		GET("", h.Assets.List).
		GET("/:id", h.Assets.GetByID).
		GET("/:id/depreciation", h.Assets.Depreciation).
		DELETE("/:id", h.Assets.Delete).
		POST("/:id/disposal", h.Assets.Dispose).
		GET("/:id/disposal", h.Assets.GetDisposal).
		DELETE("/:id/disposal", h.Assets.CancelDisposal)

	recycleBin := NewDomainGroup("recycle_bin", "/recycle-bin").
		GET("", h.RecycleBin.List).
		GET("/:entity_type/:id", h.RecycleBin.Get).
		DELETE("/:entity_type/:id", h.RecycleBin.Purge)

	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo).
		GET("/ping", h.System.Ping)

	health := NewDomainGroup("health", "/health").
		GET("", h.System.Health)

	return []*DomainGroup{
		sequences, agents, deals, parties, orders, grns, clients,
		quotations, invoices, receipts, employees, advances, assets, recycleBin,
		system, health,
	}
}
