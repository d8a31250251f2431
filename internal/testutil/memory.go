// Package testutil repositorios en memoria y un proveedor falso para pruebas
// de los casos de uso y handlers.
package testutil

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/domain"
	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/repository"
)

// Store base de datos en memoria compartida por todos los repos.
type Store struct {
	mu sync.Mutex

	Invoices     map[int64]*entity.Invoice
	InvoiceItems map[int64]*entity.InvoiceItem
	ThirdParties map[int64]*entity.ThirdParty
	Services     map[int64]*entity.Service
	Orders       map[int64]*entity.ServiceOrder
	OrderItems   map[int64]*entity.OrderItem
	Numberings   map[int64]*entity.Numbering
	Notes        map[int64]*entity.CreditNote
	Audits       []*entity.ElectronicAudit

	// AppendErr simula una falla de escritura de auditoría.
	AppendErr error
	// NoteCreateErr simula una falla al insertar una nota.
	NoteCreateErr error

	seq int64
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{
		Invoices:     map[int64]*entity.Invoice{},
		InvoiceItems: map[int64]*entity.InvoiceItem{},
		ThirdParties: map[int64]*entity.ThirdParty{},
		Services:     map[int64]*entity.Service{},
		Orders:       map[int64]*entity.ServiceOrder{},
		OrderItems:   map[int64]*entity.OrderItem{},
		Numberings:   map[int64]*entity.Numbering{},
		Notes:        map[int64]*entity.CreditNote{},
		seq:          1000,
	}
}

func (s *Store) nextID() int64 {
	s.seq++
	return s.seq
}

// Repositories arma el conjunto de repos sobre el almacén.
func (s *Store) Repositories() billing.Repositories {
	return billing.Repositories{
		Invoices:     InvoiceRepo{s},
		Items:        InvoiceItemRepo{s},
		ThirdParties: ThirdPartyRepo{s},
		Orders:       OrderRepo{s},
		Numberings:   NumberingRepo{s},
		Audits:       AuditRepo{s},
		Notes:        NoteRepo{s},
	}
}

var (
	_ billing.InvoicingTxRunner  = (*Store)(nil)
	_ billing.CreditNoteTxRunner = (*Store)(nil)
)

// RunInvoicing ejecuta fn sobre el almacén; si fn falla restaura el estado previo.
func (s *Store) RunInvoicing(ctx context.Context, fn func(
	numberingRepo repository.NumberingRepository,
	orderRepo repository.ServiceOrderRepository,
	invoiceRepo repository.InvoiceRepository,
	itemRepo repository.InvoiceItemRepository,
) error) error {
	snap := s.snapshot()
	if err := fn(NumberingRepo{s}, OrderRepo{s}, InvoiceRepo{s}, InvoiceItemRepo{s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// RunCreditNote ejecuta fn sobre el almacén; si fn falla restaura el estado previo.
func (s *Store) RunCreditNote(ctx context.Context, fn func(
	numberingRepo repository.NumberingRepository,
	noteRepo repository.CreditNoteRepository,
) error) error {
	snap := s.snapshot()
	if err := fn(NumberingRepo{s}, NoteRepo{s}); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

type snapshot struct {
	invoices   map[int64]entity.Invoice
	items      map[int64]entity.InvoiceItem
	orderItems map[int64]entity.OrderItem
	numberings map[int64]entity.Numbering
	notes      map[int64]entity.CreditNote
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		invoices:   map[int64]entity.Invoice{},
		items:      map[int64]entity.InvoiceItem{},
		orderItems: map[int64]entity.OrderItem{},
		numberings: map[int64]entity.Numbering{},
		notes:      map[int64]entity.CreditNote{},
	}
	for k, v := range s.Invoices {
		snap.invoices[k] = *v
	}
	for k, v := range s.InvoiceItems {
		snap.items[k] = *v
	}
	for k, v := range s.OrderItems {
		snap.orderItems[k] = *v
	}
	for k, v := range s.Numberings {
		snap.numberings[k] = *v
	}
	for k, v := range s.Notes {
		snap.notes[k] = *v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Invoices = map[int64]*entity.Invoice{}
	for k, v := range snap.invoices {
		v := v
		s.Invoices[k] = &v
	}
	s.InvoiceItems = map[int64]*entity.InvoiceItem{}
	for k, v := range snap.items {
		v := v
		s.InvoiceItems[k] = &v
	}
	for k, v := range snap.orderItems {
		v := v
		s.OrderItems[k] = &v
	}
	for k, v := range snap.numberings {
		v := v
		s.Numberings[k] = &v
	}
	s.Notes = map[int64]*entity.CreditNote{}
	for k, v := range snap.notes {
		v := v
		s.Notes[k] = &v
	}
}

// ── Facturas ─────────────────────────────────────────────────────────────────

// InvoiceRepo facturas en memoria.
type InvoiceRepo struct{ s *Store }

var _ repository.InvoiceRepository = InvoiceRepo{}

func (r InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, other := range r.s.Invoices {
		if other.Prefix == inv.Prefix && other.Number == inv.Number {
			return domain.ErrDuplicate
		}
	}
	if inv.ID == 0 {
		inv.ID = r.s.nextID()
	}
	cp := *inv
	r.s.Invoices[inv.ID] = &cp
	return nil
}

func (r InvoiceRepo) GetByID(_ context.Context, id int64) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inv, ok := r.s.Invoices[id]
	if !ok {
		return nil, nil
	}
	cp := *inv
	return &cp, nil
}

func (r InvoiceRepo) GetByPrefixAndNumber(_ context.Context, prefix, number string) (*entity.Invoice, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, inv := range r.s.Invoices {
		if inv.Prefix == prefix && inv.Number == number {
			cp := *inv
			return &cp, nil
		}
	}
	return nil, nil
}

// InvoiceItemRepo ítems de factura en memoria.
type InvoiceItemRepo struct{ s *Store }

var _ repository.InvoiceItemRepository = InvoiceItemRepo{}

func (r InvoiceItemRepo) Create(_ context.Context, item *entity.InvoiceItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if item.ID == 0 {
		item.ID = r.s.nextID()
	}
	cp := *item
	r.s.InvoiceItems[item.ID] = &cp
	return nil
}

func (r InvoiceItemRepo) ListDetailsByInvoice(_ context.Context, invoiceID int64) ([]*entity.InvoiceItemDetail, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.InvoiceItemDetail
	for _, it := range r.s.InvoiceItems {
		if it.InvoiceID != invoiceID {
			continue
		}
		d := &entity.InvoiceItemDetail{Item: it}
		if oi, ok := r.s.OrderItems[it.OrderItemID]; ok {
			d.OrderItem = oi
			if oi.ServiceID != nil {
				d.Service = r.s.Services[*oi.ServiceID]
			}
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Item.ID < out[j].Item.ID })
	return out, nil
}

// ── Terceros y órdenes ───────────────────────────────────────────────────────

// ThirdPartyRepo terceros en memoria.
type ThirdPartyRepo struct{ s *Store }

var _ repository.ThirdPartyRepository = ThirdPartyRepo{}

func (r ThirdPartyRepo) GetByID(_ context.Context, id int64) (*entity.ThirdParty, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.ThirdParties[id], nil
}

// OrderRepo órdenes de servicio en memoria.
type OrderRepo struct{ s *Store }

var _ repository.ServiceOrderRepository = OrderRepo{}

func (r OrderRepo) ListOrderItemsForUpdate(_ context.Context, ids []int64) ([]*entity.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.OrderItem
	for _, id := range ids {
		if oi, ok := r.s.OrderItems[id]; ok {
			cp := *oi
			if cp.ServiceID != nil {
				if svc, ok := r.s.Services[*cp.ServiceID]; ok {
					cp.ServiceValue = svc.Value
				}
			}
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r OrderRepo) MarkInvoiced(_ context.Context, ids []int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, id := range ids {
		if oi, ok := r.s.OrderItems[id]; ok {
			oi.Invoiced = true
		}
	}
	return nil
}

func (r OrderRepo) ListByInvoice(_ context.Context, invoiceID int64) ([]*entity.ServiceOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	seen := map[int64]bool{}
	var out []*entity.ServiceOrder
	for _, it := range r.s.InvoiceItems {
		if it.InvoiceID != invoiceID {
			continue
		}
		oi, ok := r.s.OrderItems[it.OrderItemID]
		if !ok || seen[oi.OrderID] {
			continue
		}
		if o, ok := r.s.Orders[oi.OrderID]; ok {
			seen[oi.OrderID] = true
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r OrderRepo) GetByID(_ context.Context, id int64) (*entity.ServiceOrder, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.Orders[id], nil
}

// ── Numeración ───────────────────────────────────────────────────────────────

// NumberingRepo numeraciones en memoria.
type NumberingRepo struct{ s *Store }

var _ repository.NumberingRepository = NumberingRepo{}

func (r NumberingRepo) GetByID(_ context.Context, id int64) (*entity.Numbering, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.Numberings[id], nil
}

func (r NumberingRepo) GetActiveByKind(_ context.Context, kind string) (*entity.Numbering, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.Numberings {
		if n.Kind == kind && n.IsActive {
			return n, nil
		}
	}
	return nil, nil
}

func (r NumberingRepo) NextNumber(_ context.Context, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.Numberings[id]
	if !ok {
		return 0, domain.ErrNotFound
	}
	next := n.Current + 1
	if next < n.RangeFrom {
		next = n.RangeFrom
	}
	if next > n.RangeTo || (!n.DateTo.IsZero() && time.Now().After(n.DateTo)) {
		return 0, domain.ErrNumberingExhausted
	}
	n.Current = next
	return next, nil
}

// ── Notas ────────────────────────────────────────────────────────────────────

// NoteRepo notas crédito/débito en memoria.
type NoteRepo struct{ s *Store }

var _ repository.CreditNoteRepository = NoteRepo{}

func (r NoteRepo) Create(_ context.Context, note *entity.CreditNote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.NoteCreateErr != nil {
		return r.s.NoteCreateErr
	}
	if note.ID == 0 {
		note.ID = r.s.nextID()
	}
	if note.Number == 0 {
		note.Number = note.ID
	}
	cp := *note
	r.s.Notes[note.ID] = &cp
	return nil
}

func (r NoteRepo) GetByID(_ context.Context, id int64) (*entity.CreditNote, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	n, ok := r.s.Notes[id]
	if !ok {
		return nil, nil
	}
	cp := *n
	return &cp, nil
}

func (r NoteRepo) UpdateSubmission(_ context.Context, note *entity.CreditNote) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Notes[note.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *note
	r.s.Notes[note.ID] = &cp
	return nil
}

// ── Auditoría ────────────────────────────────────────────────────────────────

// AuditRepo auditoría append-only en memoria.
type AuditRepo struct{ s *Store }

var _ repository.ElectronicAuditRepository = AuditRepo{}

func (r AuditRepo) Append(_ context.Context, a *entity.ElectronicAudit) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.AppendErr != nil {
		return r.s.AppendErr
	}
	a.ID = r.s.nextID()
	cp := *a
	r.s.Audits = append(r.s.Audits, &cp)
	return nil
}

func (r AuditRepo) ListByInvoice(_ context.Context, invoiceID int64) ([]*entity.ElectronicAudit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ElectronicAudit
	for _, a := range r.s.Audits {
		if a.InvoiceID == invoiceID {
			out = append(out, a)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r AuditRepo) FindByCUFE(_ context.Context, cufe string) (*entity.ElectronicAudit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matches []*entity.ElectronicAudit
	for _, a := range r.s.Audits {
		if a.CUFE == cufe {
			matches = append(matches, a)
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}
	sortNewestFirst(matches)
	return matches[0], nil
}

func (r AuditRepo) LatestSuccessfulByInvoice(_ context.Context, invoiceID int64) (*entity.ElectronicAudit, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var matches []*entity.ElectronicAudit
	for _, a := range r.s.Audits {
		if a.InvoiceID == invoiceID && a.NoteID == nil && a.Success && a.UUID != "" {
			matches = append(matches, a)
		}
	}
	if len(matches) == 0 {
		return nil, nil
	}
	sortNewestFirst(matches)
	return matches[0], nil
}

func sortNewestFirst(list []*entity.ElectronicAudit) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].RegisteredAt.Equal(list[j].RegisteredAt) {
			return list[i].RegisteredAt.After(list[j].RegisteredAt)
		}
		return list[i].ID > list[j].ID
	})
}
