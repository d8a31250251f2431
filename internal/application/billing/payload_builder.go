package billing

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/infrastructure/dataico"
	pkgdian "github.com/jhoicas/Facturacion-api/pkg/dian"
)

const providerDateLayout = "02/01/2006"

// InvoiceInput factura con sus relaciones cargadas.
type InvoiceInput struct {
	Invoice    *entity.Invoice
	Items      []*entity.InvoiceItemDetail
	ThirdParty *entity.ThirdParty
	Numbering  *entity.Numbering // nil: se usan prefijo y resolución de la configuración
	Orders     []*entity.ServiceOrder
}

// PayloadBuilder traduce facturas y notas al esquema JSON de DataIco.
// No hace E/S: todo lo que necesita llega en la entrada.
type PayloadBuilder struct {
	cfg Settings
	log zerolog.Logger
}

// NewPayloadBuilder construye el traductor con la configuración inyectada.
func NewPayloadBuilder(cfg Settings, log zerolog.Logger) *PayloadBuilder {
	return &PayloadBuilder{cfg: cfg, log: log.With().Str("component", "payload_builder").Logger()}
}

// Build arma el sobre de la factura y devuelve el código de documento usado
// para elegir el endpoint.
func (b *PayloadBuilder) Build(in InvoiceInput) (*dataico.Envelope, pkgdian.DocumentType, error) {
	inv := in.Invoice
	if inv == nil {
		return nil, 0, fmt.Errorf("factura nula")
	}
	if in.ThirdParty == nil {
		return nil, 0, fmt.Errorf("factura %s sin tercero", inv.FullNumber())
	}

	dt, mapped := pkgdian.DocumentTypeFor(inv.InvoiceType)
	if !mapped {
		b.log.Warn().Int64("factura_id", inv.ID).Str("tipo_factura", inv.InvoiceType).
			Msg("tipo de factura sin mapeo, se usa documento Cliente")
	}

	number, err := SanitizeNumber(inv.Number)
	if err != nil {
		return nil, dt, fmt.Errorf("factura %d: %w", inv.ID, err)
	}

	issueDate := b.date(inv.RegisteredAt)
	paymentDate := issueDate
	if inv.DueDate != nil {
		paymentDate = calendarDate(*inv.DueDate)
	}

	doc := &dataico.Document{
		Env:              b.env(),
		AccountID:        b.cfg.AccountID,
		Number:           number,
		IssueDate:        issueDate,
		PaymentDate:      paymentDate,
		InvoiceTypeCode:  pkgdian.InvoiceTypeCodeVenta,
		PaymentMeansType: paymentMeansType(inv, issueDate, paymentDate),
		PaymentMeans:     pkgdian.PaymentMeansAcuerdo,
		Operation:        pkgdian.OperationEstandar,
		Numbering:        b.invoiceNumbering(inv, in.Numbering),
		Customer:         b.customer(in.ThirdParty),
		Items:            b.items(inv, in.Items),
	}
	if c := strings.TrimSpace(inv.Concept); c != "" {
		doc.Notes = []string{c}
	}
	if dt.IsHealthSector() {
		doc.Operation = pkgdian.OperationSalud
		doc.Health = b.health(inv, in.Orders)
	}
	doc.AssociatedDocuments = associatedDocuments(in.Orders)

	return b.wrap(dt, doc), dt, nil
}

// SanitizeNumber elimina todo lo que no sea dígito del número almacenado y lo
// convierte a entero. Error si no queda ningún dígito.
func SanitizeNumber(stored string) (int64, error) {
	digits := pkgdian.OnlyDigits(stored)
	if digits == "" {
		return 0, fmt.Errorf("número de documento %q sin dígitos", stored)
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("número de documento %q inválido: %w", stored, err)
	}
	return n, nil
}

// FormatDate formato DD/MM/YYYY exigido por el proveedor, con la fecha
// calendario de t en loc (nil: hora de Colombia).
func FormatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = ColombiaTime
	}
	return t.In(loc).Format(providerDateLayout)
}

// Location zona en que se expresan las fechas de los documentos.
func (b *PayloadBuilder) Location() *time.Location { return b.cfg.location() }

// date fecha calendario de un instante (registro, emisión).
func (b *PayloadBuilder) date(t time.Time) string { return FormatDate(t, b.cfg.location()) }

// calendarDate fecha sin hora (vencimiento, periodo): se toma tal como está,
// PostgreSQL devuelve las columnas date en medianoche UTC.
func calendarDate(t time.Time) string { return t.Format(providerDateLayout) }

func (b *PayloadBuilder) env() string {
	if b.cfg.Production {
		return pkgdian.EnvProduccion
	}
	return pkgdian.EnvPruebas
}

func (b *PayloadBuilder) actions() dataico.Actions {
	return dataico.Actions{SendDIAN: true, SendEmail: b.cfg.SendEmail}
}

// wrap ubica el documento en la clave que espera el endpoint.
func (b *PayloadBuilder) wrap(dt pkgdian.DocumentType, doc *dataico.Document) *dataico.Envelope {
	env := &dataico.Envelope{Actions: b.actions()}
	switch dt {
	case pkgdian.DocNotaCredito:
		env.CreditNote = doc
	case pkgdian.DocNotaDebito:
		env.DebitNote = doc
	default:
		env.Invoice = doc
	}
	return env
}

func (b *PayloadBuilder) invoiceNumbering(inv *entity.Invoice, n *entity.Numbering) dataico.Numbering {
	if n != nil {
		return dataico.Numbering{ResolutionNumber: n.ResolutionNumber, Prefix: n.Prefix}
	}
	prefix := inv.Prefix
	if prefix == "" {
		prefix = b.cfg.InvoicePrefix
	}
	return dataico.Numbering{ResolutionNumber: b.cfg.InvoiceResolution, Prefix: prefix}
}

// paymentMeansType crédito si el vencimiento cae en un día posterior al de emisión.
func paymentMeansType(inv *entity.Invoice, issueDate, paymentDate string) string {
	if inv.DueDate != nil && inv.DueDate.After(inv.RegisteredAt) && paymentDate != issueDate {
		return pkgdian.PaymentMeansTypeCredito
	}
	return pkgdian.PaymentMeansTypeContado
}

// ── Cliente ──────────────────────────────────────────────────────────────────

func (b *PayloadBuilder) customer(tp *entity.ThirdParty) *dataico.Customer {
	idType, ok := pkgdian.PartyIdentificationType(strings.ToUpper(strings.TrimSpace(tp.IdentificationType)))
	if !ok {
		b.log.Warn().Int64("tercero_id", tp.ID).Str("tipo_identificacion", tp.IdentificationType).
			Msg("tipo de identificación sin mapeo, se envía NIT")
	}

	c := &dataico.Customer{
		Email:                   strings.TrimSpace(tp.Email),
		Phone:                   strings.TrimSpace(tp.Phone),
		PartyIdentificationType: idType,
		PartyIdentification:     pkgdian.OnlyDigits(tp.IdentificationNumber),
		PartyType:               pkgdian.PartyTypeNatural,
		TaxLevelCode:            pkgdian.TaxLevelNoResponsable,
		Regimen:                 pkgdian.RegimenOrdinario,
		Department:              tp.Department.FirstField("nombre", "name", "departamento"),
		City:                    tp.City.FirstField("nombre", "name", "ciudad", "municipio"),
		AddressLine:             tp.Address.FirstField("direccion", "address", "linea"),
		CountryCode:             pkgdian.CountryColombia,
	}
	if tp.TaxResponsible {
		c.TaxLevelCode = pkgdian.TaxLevelResponsable
	}
	if tp.SimpleRegime {
		c.Regimen = pkgdian.RegimenSimple
	}

	if idType == "NIT" {
		base, dv := pkgdian.SplitNIT(tp.IdentificationNumber)
		c.PartyIdentification = base
		switch {
		case tp.VerificationDigit != "":
			c.CheckDigit = tp.VerificationDigit
		case dv != "":
			c.CheckDigit = dv
		default:
			if d, err := pkgdian.ComputeNITVerificationDigit(base); err == nil {
				c.CheckDigit = strconv.Itoa(d)
			}
		}
	}

	if tp.IsCompany() {
		c.PartyType = pkgdian.PartyTypeJuridica
		c.CompanyName = tp.DisplayName()
	} else {
		c.FirstName = joinNonEmpty(tp.FirstName, tp.SecondName)
		c.FamilyName = joinNonEmpty(tp.FirstSurname, tp.SecondSurname)
		if c.FirstName == "" && c.FamilyName == "" {
			c.FirstName = tp.BusinessName
		}
	}
	return c
}

// ── Ítems ────────────────────────────────────────────────────────────────────

func (b *PayloadBuilder) items(inv *entity.Invoice, details []*entity.InvoiceItemDetail) []dataico.Item {
	items := make([]dataico.Item, 0, len(details))
	for _, d := range details {
		if d == nil {
			continue
		}
		price, ok := d.UnitPrice()
		if !ok {
			b.log.Debug().Int64("factura_id", inv.ID).Int64("factura_item_id", itemID(d)).
				Msg("ítem sin precio, se omite")
			continue
		}
		qty := decimal.NewFromInt(1)
		desc := ""
		if d.OrderItem != nil {
			if d.OrderItem.Quantity.GreaterThan(decimal.Zero) {
				qty = d.OrderItem.Quantity
			}
			desc = d.OrderItem.Description
		}
		sku := ""
		if d.Service != nil {
			sku = strings.TrimSpace(d.Service.Code)
			if desc == "" {
				desc = d.Service.Name
			}
		}
		if sku == "" {
			sku = pkgdian.DefaultSKU
		}
		if desc == "" {
			desc = conceptOrDefault(inv.Concept)
		}
		items = append(items, newItem(sku, desc, qty, price))
	}
	if len(items) == 0 {
		items = append(items, newItem(pkgdian.DefaultSKU, conceptOrDefault(inv.Concept), decimal.NewFromInt(1), inv.Total))
	}
	return items
}

func itemID(d *entity.InvoiceItemDetail) int64 {
	if d.Item == nil {
		return 0
	}
	return d.Item.ID
}

func newItem(sku, desc string, qty, price decimal.Decimal) dataico.Item {
	return dataico.Item{
		SKU:         sku,
		Description: desc,
		Quantity:    qty.InexactFloat64(),
		Price:       price.InexactFloat64(),
		Taxes:       []dataico.Tax{{TaxCategory: pkgdian.TaxCategoryIVA, TaxRate: 0}},
	}
}

func conceptOrDefault(concept string) string {
	if c := strings.TrimSpace(concept); c != "" {
		return c
	}
	return "Servicios prestados"
}

// ── Sector salud ─────────────────────────────────────────────────────────────

func (b *PayloadBuilder) health(inv *entity.Invoice, orders []*entity.ServiceOrder) *dataico.Health {
	coverage, ok := pkgdian.HealthCoverage(inv.InvoiceType)
	if !ok {
		b.log.Warn().Int64("factura_id", inv.ID).Str("tipo_factura", inv.InvoiceType).
			Msg("tipo de factura sin cobertura de salud, se usa PARTICULAR")
	}
	start := b.date(inv.RegisteredAt)
	end := start
	if inv.PeriodStart != nil {
		start = calendarDate(*inv.PeriodStart)
	}
	if inv.PeriodEnd != nil {
		end = calendarDate(*inv.PeriodEnd)
	}
	return &dataico.Health{
		Coverage:        coverage,
		PaymentModality: pkgdian.PaymentModalityEvento,
		ProviderCode:    b.cfg.HealthProviderCode,
		PeriodStart:     start,
		PeriodEnd:       end,
		Users:           b.healthUsers(orders),
	}
}

func (b *PayloadBuilder) healthUsers(orders []*entity.ServiceOrder) []dataico.HealthUser {
	seen := make(map[string]bool, len(orders))
	var users []dataico.HealthUser
	for _, o := range orders {
		if o == nil {
			continue
		}
		p := o.Patient
		id := strings.TrimSpace(p.IdentificationNumber)
		if id == "" || seen[p.IdentificationType+id] {
			continue
		}
		seen[p.IdentificationType+id] = true
		idType, ok := pkgdian.HealthIdentificationType(strings.ToUpper(strings.TrimSpace(p.IdentificationType)))
		if !ok {
			b.log.Warn().Int64("orden_id", o.ID).Str("tipo_identificacion", p.IdentificationType).
				Msg("tipo de identificación de paciente sin mapeo, se usa CEDULA_CIUDADANIA")
		}
		users = append(users, dataico.HealthUser{
			IdentificationType:  idType,
			Identification:      id,
			FirstName:           p.FirstName,
			MiddleName:          p.SecondName,
			FamilyName:          p.FirstSurname,
			SecondFamilyName:    p.SecondSurname,
			UserType:            p.UserType,
			AuthorizationNumber: p.AuthorizationNumber,
			ContractNumber:      p.ContractNumber,
			PolicyNumber:        p.PolicyNumber,
			Copayment:           p.Copayment.InexactFloat64(),
			ModeratingFee:       p.ModeratingFee.InexactFloat64(),
		})
	}
	return users
}

func associatedDocuments(orders []*entity.ServiceOrder) []dataico.AssociatedDocument {
	var docs []dataico.AssociatedDocument
	for _, o := range orders {
		if o == nil || strings.TrimSpace(o.Number) == "" {
			continue
		}
		docs = append(docs, dataico.AssociatedDocument{Type: pkgdian.AssociatedDocOrden, Number: o.Number})
	}
	return docs
}

func joinNonEmpty(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}
