package po

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/po-mobile/po-gateway/internal/odata"
	"github.com/po-mobile/po-gateway/internal/platform/cache"
	"github.com/po-mobile/po-gateway/internal/sapfmt"
	"github.com/po-mobile/po-gateway/internal/shared"
)

const (
	defaultPageSize = 40
	maxPageSize     = 200
)

// Resources names the OData entity sets behind each operation. The auxiliary
// services filter by different PO key fields, hence the per-resource key name.
type Resources struct {
	Header          string
	History         string
	HistoryKey      string
	GoodsReceipt    string
	GoodsReceiptKey string
	Invoice         string
	InvoiceKey      string
}

// DefaultResources returns the entity set layout of the reference deployment.
func DefaultResources() Resources {
	return Resources{
		Header:          "ZSB_PO_HEADER_203_2/PO_header",
		History:         "ZSB_PO_HISTORY_203/History",
		HistoryKey:      "PoId",
		GoodsReceipt:    "API_MATERIAL_DOCUMENT_SRV/A_MaterialDocumentItem",
		GoodsReceiptKey: "PurchaseOrder",
		Invoice:         "API_SUPPLIERINVOICE_PROCESS_SRV/A_SuplrInvcItemPurOrdRef",
		InvoiceKey:      "PurchaseOrder",
	}
}

// Service composes the OData access layer into the purchase order operations
// the mobile client consumes. All methods are stateless request/response;
// list and detail reads go through a short-lived cache with singleflight
// collapsing concurrent identical misses.
type Service struct {
	client    *odata.Client
	cache     *cache.Cache
	group     singleflight.Group
	formatter sapfmt.Formatter
	res       Resources
	logger    *slog.Logger
}

// NewService builds a Service. cache may be nil to run uncached.
func NewService(client *odata.Client, c *cache.Cache, formatter sapfmt.Formatter, res Resources, logger *slog.Logger) *Service {
	if res.Header == "" {
		res = DefaultResources()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, cache: c, formatter: formatter, res: res, logger: logger}
}

func (s *Service) filterQuery(f Filter) odata.Query {
	return odata.Query{}.
		Eq("comp_code", f.CompCode).
		Eq("vendor", f.Vendor).
		Eq("purch_org", f.PurchOrg).
		Eq("po_id", f.POID)
}

func clampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func clampPageSize(size int) int {
	if size < 1 {
		return defaultPageSize
	}
	if size > maxPageSize {
		return maxPageSize
	}
	return size
}

func (f Filter) cacheKey() string {
	return strings.Join([]string{f.CompCode, f.Vendor, f.PurchOrg, f.POID}, "|")
}

// ListHeaders fetches one page of PO headers with expanded items.
func (s *Service) ListHeaders(ctx context.Context, page, pageSize int, f Filter) ([]Header, error) {
	page = clampPage(page)
	pageSize = clampPageSize(pageSize)
	key := fmt.Sprintf("po:list:%d:%d:%s", page, pageSize, f.cacheKey())

	var cached []Header
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}
	v, err, _ := s.group.Do(key, func() (any, error) {
		q := s.filterQuery(f).
			Top(pageSize).
			Skip(shared.Offset(page, pageSize)).
			Expand("to_Item")
		headers, err := odata.List[Header](ctx, s.client, s.res.Header, q)
		if err != nil {
			return nil, err
		}
		s.cache.Set(ctx, key, headers)
		return headers, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Header), nil
}

// CountHeaders returns the backend total for the given filters.
func (s *Service) CountHeaders(ctx context.Context, f Filter) (int, error) {
	return odata.Count(ctx, s.client, s.res.Header, s.filterQuery(f))
}

// ListPage fetches a page and its total concurrently and returns display-ready
// headers with pagination metadata.
func (s *Service) ListPage(ctx context.Context, page, pageSize int, f Filter) ([]HeaderView, shared.Pagination, error) {
	page = clampPage(page)
	pageSize = clampPageSize(pageSize)

	var (
		headers []Header
		total   int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		headers, err = s.ListHeaders(gctx, page, pageSize, f)
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.CountHeaders(gctx, f)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, shared.Pagination{}, err
	}

	views := make([]HeaderView, len(headers))
	for i, h := range headers {
		views[i] = s.headerView(h)
	}
	return views, shared.NewPagination(page, pageSize, total), nil
}

// GetDetail fetches one PO with its items sorted ascending by numeric item_no,
// regardless of server-returned order.
func (s *Service) GetDetail(ctx context.Context, poID string) (HeaderView, error) {
	key := "po:detail:" + poID

	var cached HeaderView
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}
	v, err, _ := s.group.Do(key, func() (any, error) {
		path := odata.EntityKey(s.res.Header, poID)
		header, err := odata.Entity[Header](ctx, s.client, path, odata.Query{}.Expand("to_Item"))
		if err != nil {
			return HeaderView{}, err
		}
		sortItems(header.Items.Results)
		view := s.headerView(header)
		s.cache.Set(ctx, key, view)
		return view, nil
	})
	if err != nil {
		return HeaderView{}, err
	}
	return v.(HeaderView), nil
}

// History returns the change log for a PO with decoded date and time columns.
func (s *Service) History(ctx context.Context, poID string) ([]HistoryView, error) {
	q := odata.Query{}.Eq(s.res.HistoryKey, poID)
	entries, err := odata.List[HistoryEntry](ctx, s.client, s.res.History, q)
	if err != nil {
		return nil, err
	}
	views := make([]HistoryView, len(entries))
	for i, e := range entries {
		views[i] = HistoryView{
			HistoryEntry:      e,
			ChangeDateDisplay: s.formatter.Date(e.ChangeDate),
			ChangeTimeDisplay: sapfmt.Duration(e.ChangeTime),
		}
	}
	return views, nil
}

// GoodsReceipts returns the material document lines posted against a PO.
func (s *Service) GoodsReceipts(ctx context.Context, poID string) ([]GoodsReceiptRow, error) {
	q := odata.Query{}.Eq(s.res.GoodsReceiptKey, poID)
	return odata.List[GoodsReceiptRow](ctx, s.client, s.res.GoodsReceipt, q)
}

// Invoices returns the supplier invoice items referencing a PO.
func (s *Service) Invoices(ctx context.Context, poID string) ([]InvoiceRow, error) {
	q := odata.Query{}.Eq(s.res.InvoiceKey, poID)
	return odata.List[InvoiceRow](ctx, s.client, s.res.Invoice, q)
}

// Overview fetches history, goods receipts and invoices concurrently. The
// three fetches are independent: a failure in one section is reported in that
// section only and never discards the other two.
func (s *Service) Overview(ctx context.Context, poID string) Overview {
	var (
		ov Overview
		wg sync.WaitGroup
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		rows, err := s.History(ctx, poID)
		if err != nil {
			s.logger.Warn("overview history", slog.String("po_id", poID), slog.Any("error", err))
			ov.HistoryError = sectionError(err)
			return
		}
		ov.History = rows
	}()
	go func() {
		defer wg.Done()
		rows, err := s.GoodsReceipts(ctx, poID)
		if err != nil {
			s.logger.Warn("overview goods receipts", slog.String("po_id", poID), slog.Any("error", err))
			ov.GoodsReceiptsError = sectionError(err)
			return
		}
		ov.GoodsReceipts = rows
	}()
	go func() {
		defer wg.Done()
		rows, err := s.Invoices(ctx, poID)
		if err != nil {
			s.logger.Warn("overview invoices", slog.String("po_id", poID), slog.Any("error", err))
			ov.InvoicesError = sectionError(err)
			return
		}
		ov.Invoices = rows
	}()
	wg.Wait()
	if ov.History == nil {
		ov.History = []HistoryView{}
	}
	if ov.GoodsReceipts == nil {
		ov.GoodsReceipts = []GoodsReceiptRow{}
	}
	if ov.Invoices == nil {
		ov.Invoices = []InvoiceRow{}
	}
	return ov
}

func (s *Service) headerView(h Header) HeaderView {
	return HeaderView{
		Header:             h,
		DocDateDisplay:     s.formatter.Date(h.DocDate),
		TotalAmountDisplay: s.formatter.Amount(h.TotalAmount, h.Currency),
	}
}

// sortItems orders lines ascending by numeric item_no. The sort is stable so
// equal or non-numeric keys keep their server order.
func sortItems(items []Item) {
	sort.SliceStable(items, func(i, j int) bool {
		return itemNo(items[i]) < itemNo(items[j])
	})
}

func itemNo(it Item) int {
	n, err := strconv.Atoi(strings.TrimSpace(it.ItemNo))
	if err != nil {
		return 0
	}
	return n
}

func sectionError(err error) string {
	if err == nil {
		return ""
	}
	return "failed to load"
}
