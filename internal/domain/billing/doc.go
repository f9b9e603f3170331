// Package billing holds the client, quotation, GST invoice and receipt
// aggregates.
//
// A quotation is converted into at most one GST invoice. The invoice splits
// tax into CGST and SGST when the supplier and the billed location share a
// state code, and into IGST otherwise. Receipts record money received from
// a client, optionally against an invoice and net of TDS.
package billing
