package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Facturacion-api/internal/domain/entity"
	"github.com/jhoicas/Facturacion-api/internal/domain/location"
)

// SeedDate fecha fija de registro de las facturas sembradas.
var SeedDate = time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

// SeedThirdParty tercero persona jurídica con ubicación en JSON y notación heredada.
func SeedThirdParty(s *Store, id int64) *entity.ThirdParty {
	tp := &entity.ThirdParty{
		ID:                   id,
		IdentificationType:   "NIT",
		IdentificationNumber: "900123456",
		BusinessName:         "EPS Salud Total S.A.",
		PersonType:           entity.PersonTypeJuridica,
		TaxResponsible:       true,
		Email:                "facturas@eps.test",
		Phone:                "6041234567",
		Address:              location.Parse(`{"direccion":"Calle 10 # 20-30"}`),
		Department:           location.Parse("codigo: 05, nombre: Antioquia"),
		City:                 location.Parse("Medellín"),
	}
	s.mu.Lock()
	s.ThirdParties[id] = tp
	s.mu.Unlock()
	return tp
}

// SeedNumbering numeración activa del tipo indicado.
func SeedNumbering(s *Store, id int64, kind, prefix string, current int64) *entity.Numbering {
	n := &entity.Numbering{
		ID:               id,
		Kind:             kind,
		Prefix:           prefix,
		ResolutionNumber: "18764000000001",
		RangeFrom:        1,
		RangeTo:          5000,
		Current:          current,
		DateFrom:         SeedDate.AddDate(-1, 0, 0),
		DateTo:           time.Now().AddDate(1, 0, 0),
		IsActive:         true,
	}
	s.mu.Lock()
	s.Numberings[id] = n
	s.mu.Unlock()
	return n
}

// SeedOrderItem orden de servicio con un paciente y un ítem con el valor dado
// (cero para tomar el valor del servicio).
func SeedOrderItem(s *Store, orderID, itemID int64, unitValue, serviceValue int64) *entity.OrderItem {
	svcID := itemID + 500
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Services[svcID] = &entity.Service{ID: svcID, Code: "890201", Name: "Consulta medicina general", Value: decimal.NewFromInt(serviceValue), Active: true}
	if _, ok := s.Orders[orderID]; !ok {
		s.Orders[orderID] = &entity.ServiceOrder{
			ID:           orderID,
			Number:       "OS-" + decimal.NewFromInt(orderID).String(),
			ThirdPartyID: 1,
			Date:         SeedDate,
			Patient: entity.Patient{
				IdentificationType:   "CC",
				IdentificationNumber: "1020304050",
				FirstName:            "Ana",
				FirstSurname:         "Gómez",
				UserType:             "CONTRIBUTIVO",
				AuthorizationNumber:  "AUT-77",
			},
		}
	}
	oi := &entity.OrderItem{
		ID:          itemID,
		OrderID:     orderID,
		ServiceID:   &svcID,
		Description: "Consulta medicina general",
		Quantity:    decimal.NewFromInt(1),
		UnitValue:   decimal.NewFromInt(unitValue),
	}
	s.OrderItems[itemID] = oi
	return oi
}

// SeedInvoice factura con un ítem facturado desde una orden de servicio.
func SeedInvoice(s *Store, id int64, invoiceType string, total int64) *entity.Invoice {
	SeedThirdParty(s, 1)
	SeedOrderItem(s, 10, id*10, total, 0).Invoiced = true
	inv := &entity.Invoice{
		ID:           id,
		CompanyID:    1,
		Prefix:       "FE",
		Number:       "FE-" + decimal.NewFromInt(id).String(),
		ThirdPartyID: 1,
		InvoiceType:  invoiceType,
		Concept:      "Servicios de salud marzo",
		Total:        decimal.NewFromInt(total),
		RegisteredAt: SeedDate,
	}
	s.mu.Lock()
	s.Invoices[id] = inv
	itemID := s.nextID()
	s.InvoiceItems[itemID] = &entity.InvoiceItem{ID: itemID, InvoiceID: id, OrderItemID: id * 10}
	s.mu.Unlock()
	return inv
}
