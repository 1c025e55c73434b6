// Package po exposes purchase order browsing on top of the SAP OData backend.
package po

// Filter holds the optional exact-match list filters. Empty fields are
// omitted from the upstream query.
type Filter struct {
	CompCode string `json:"comp_code"`
	Vendor   string `json:"vendor"`
	PurchOrg string `json:"purch_org"`
	POID     string `json:"po_id"`
}

// IsZero reports whether no filter field is populated.
func (f Filter) IsZero() bool {
	return f.CompCode == "" && f.Vendor == "" && f.PurchOrg == "" && f.POID == ""
}

// Header is a purchase order header as delivered by the PO_header entity set.
// Wire fields pass through untouched; display fields are added by the service.
type Header struct {
	POID        string   `json:"po_id"`
	CompCode    string   `json:"comp_code"`
	Vendor      string   `json:"vendor"`
	VendorName  string   `json:"vendor_name"`
	PurchOrg    string   `json:"purch_org"`
	TotalAmount string   `json:"total_amount"`
	Currency    string   `json:"currency"`
	DocDate     string   `json:"doc_date"`
	CreatedBy   string   `json:"created_by"`
	Items       ItemList `json:"to_Item"`
}

// ItemList mirrors the expanded to_Item navigation wrapper.
type ItemList struct {
	Results []Item `json:"results"`
}

// Item is a purchase order line.
type Item struct {
	ItemNo        string `json:"item_no"`
	Material      string `json:"material"`
	MaterialGroup string `json:"material_grp,omitempty"`
	ShortText     string `json:"short_text,omitempty"`
	PlantName     string `json:"plant_name,omitempty"`
	StorageLoc    string `json:"sloc,omitempty"`
	Qty           string `json:"qty"`
	NetPrice      string `json:"net_price"`
	Currency      string `json:"currency"`
	DelivDate     string `json:"deliv_date,omitempty"`
	DeletedItem   string `json:"del_item,omitempty"`
}

// HistoryEntry is one change-log row. ChangeDate uses /Date(ms)/, ChangeTime
// the PT..H..M..S encoding.
type HistoryEntry struct {
	ItemNo     string `json:"ItemNo"`
	Action     string `json:"Action"`
	FieldName  string `json:"FieldName"`
	FieldLabel string `json:"FieldLabel,omitempty"`
	OldValue   string `json:"OldValue,omitempty"`
	NewValue   string `json:"NewValue,omitempty"`
	Username   string `json:"Username"`
	ChangeDate string `json:"ChangeDate"`
	ChangeTime string `json:"ChangeTime"`
	Note       string `json:"Note,omitempty"`
}

// GoodsReceiptRow is a material document line for the PO, read-only.
type GoodsReceiptRow struct {
	MaterialDocument string `json:"MaterialDocument"`
	PostingDate      string `json:"PostingDate"`
	MovementType     string `json:"GoodsMovementType"`
	Quantity         string `json:"GoodsReceiptQtyInOrderUnit"`
	BaseUnit         string `json:"MaterialBaseUnit"`
	Amount           string `json:"TotalGoodsMvtAmtInCCCrcy"`
	Currency         string `json:"CompanyCodeCurrency"`
	Plant            string `json:"Plant"`
	StorageLocation  string `json:"StorageLocation"`
	Batch            string `json:"Batch,omitempty"`
}

// InvoiceRow is a supplier invoice item referencing the PO, read-only.
type InvoiceRow struct {
	SupplierInvoice string `json:"SupplierInvoice"`
	FiscalYear      string `json:"FiscalYear"`
	PurchaseOrder   string `json:"PurchaseOrder"`
	POItem          string `json:"PurchaseOrderItem"`
	Quantity        string `json:"QuantityInPurchaseOrderUnit"`
	QuantityUnit    string `json:"PurchaseOrderQuantityUnit"`
	PriceUnit       string `json:"PurchaseOrderPriceUnit"`
	Amount          string `json:"SupplierInvoiceItemAmount"`
	Currency        string `json:"DocumentCurrency"`
	DeliveryCostQty string `json:"SuplrInvcDeliveryCostCndnCount,omitempty"`
}

// HeaderView decorates a Header with display-ready fields.
type HeaderView struct {
	Header
	DocDateDisplay     string `json:"doc_date_display"`
	TotalAmountDisplay string `json:"total_amount_display"`
}

// HistoryView decorates a HistoryEntry with decoded date and time.
type HistoryView struct {
	HistoryEntry
	ChangeDateDisplay string `json:"ChangeDateDisplay"`
	ChangeTimeDisplay string `json:"ChangeTimeDisplay"`
}

// Overview aggregates the three auxiliary tabs of the detail screen. Each
// section carries its own error so one failing fetch does not blank the rest.
type Overview struct {
	History            []HistoryView     `json:"history"`
	HistoryError       string            `json:"history_error,omitempty"`
	GoodsReceipts      []GoodsReceiptRow `json:"goods_receipts"`
	GoodsReceiptsError string            `json:"goods_receipts_error,omitempty"`
	Invoices           []InvoiceRow      `json:"invoices"`
	InvoicesError      string            `json:"invoices_error,omitempty"`
}
