// Package dian contiene catálogos fijos usados para construir los documentos
// electrónicos que se envían a DataIco (operador tecnológico ante la DIAN).
package dian

// =============================================================================
// Tipos de documento interno → código de documento electrónico
// =============================================================================

// DocumentType código de documento electrónico usado para elegir el endpoint.
type DocumentType int

const (
	DocCliente     DocumentType = 1 // Factura a cliente (no sector salud)
	DocAgrupada    DocumentType = 2 // Factura agrupada (EPS / ARL)
	DocNotaCredito DocumentType = 3 // Nota crédito
	DocIndividual  DocumentType = 4 // Factura individual a paciente
	DocNotaDebito  DocumentType = 5 // Nota débito
)

// Tipos de factura internos (columna tipo_factura).
const (
	InvoiceTypeCliente     = "1"
	InvoiceTypeParticular  = "2"
	InvoiceTypeAgrupadaEPS = "3"
	InvoiceTypeAgrupadaARL = "4"
	InvoiceTypeNotaCredito = "5"
	InvoiceTypeNotaDebito  = "6"
)

// DocumentTypeFor traduce el tipo de factura interno al código de documento.
// Los tipos "3" y "4" van a Agrupada (2), no a nota crédito (3): así se
// comporta el sistema en producción y no se corrige sin confirmación.
// mapped=false indica que se aplicó el valor por defecto (Cliente).
func DocumentTypeFor(invoiceType string) (dt DocumentType, mapped bool) {
	switch invoiceType {
	case InvoiceTypeCliente:
		return DocCliente, true
	case InvoiceTypeParticular:
		return DocIndividual, true
	case InvoiceTypeAgrupadaEPS, InvoiceTypeAgrupadaARL:
		return DocAgrupada, true
	case InvoiceTypeNotaCredito:
		return DocNotaCredito, true
	case InvoiceTypeNotaDebito:
		return DocNotaDebito, true
	default:
		return DocCliente, false
	}
}

// Endpoints REST de DataIco.
const (
	EndpointInvoices    = "invoices"
	EndpointCreditNotes = "credit_notes"
	EndpointDebitNotes  = "debit_notes"
)

// Endpoint devuelve el recurso REST del proveedor para el código de documento.
func Endpoint(dt DocumentType) string {
	switch dt {
	case DocNotaCredito:
		return EndpointCreditNotes
	case DocNotaDebito:
		return EndpointDebitNotes
	default:
		return EndpointInvoices
	}
}

// IsHealthSector indica si el documento lleva la sección de sector salud.
func (dt DocumentType) IsHealthSector() bool {
	switch dt {
	case DocAgrupada, DocIndividual:
		return true
	default:
		return false
	}
}

// String nombre legible del código.
func (dt DocumentType) String() string {
	switch dt {
	case DocCliente:
		return "Cliente"
	case DocAgrupada:
		return "Agrupada"
	case DocNotaCredito:
		return "Nota crédito"
	case DocIndividual:
		return "Individual"
	case DocNotaDebito:
		return "Nota débito"
	default:
		return "Desconocido"
	}
}

// =============================================================================
// Tipos de identificación
// =============================================================================

// PartyIdentificationType traduce el código interno (CC, NIT, TI...) al
// vocabulario de DataIco para party_identification_type. Por defecto "NIT".
func PartyIdentificationType(code string) (string, bool) {
	switch code {
	case "NIT":
		return "NIT", true
	case "CC":
		return "CC", true
	case "CE":
		return "CE", true
	case "TI":
		return "TI", true
	case "PA", "PP":
		return "PASAPORTE", true
	case "RC":
		return "RC", true
	case "TE":
		return "TE", true
	case "DIE":
		return "DIE", true
	case "PEP", "PE":
		return "PEP", true
	case "NE", "NIE":
		return "NIT_OTRO_PAIS", true
	default:
		return "NIT", false
	}
}

// HealthIdentificationType traduce el código interno al vocabulario de la
// sección de salud (usuarios del servicio). Por defecto "CEDULA_CIUDADANIA".
func HealthIdentificationType(code string) (string, bool) {
	switch code {
	case "CC":
		return "CEDULA_CIUDADANIA", true
	case "CE":
		return "CEDULA_EXTRANJERIA", true
	case "TI":
		return "TARJETA_IDENTIDAD", true
	case "RC":
		return "REGISTRO_CIVIL", true
	case "PA", "PP":
		return "PASAPORTE", true
	case "MS":
		return "MENOR_SIN_IDENTIFICACION", true
	case "AS":
		return "ADULTO_SIN_IDENTIFICACION", true
	case "CD":
		return "CARNET_DIPLOMATICO", true
	case "PE", "PEP":
		return "PERMISO_ESPECIAL_PERMANENCIA", true
	case "PT":
		return "PERMISO_PROTECCION_TEMPORAL", true
	case "CN":
		return "CERTIFICADO_NACIDO_VIVO", true
	case "SC":
		return "SALVOCONDUCTO", true
	default:
		return "CEDULA_CIUDADANIA", false
	}
}

// HealthCoverage cobertura del sector salud según el tipo de factura interno.
// Por defecto "PARTICULAR".
func HealthCoverage(invoiceType string) (string, bool) {
	switch invoiceType {
	case InvoiceTypeParticular:
		return CoverageParticular, true
	case InvoiceTypeAgrupadaEPS:
		return CoveragePlanBeneficios, true
	case InvoiceTypeAgrupadaARL:
		return CoverageRiesgosLaborales, true
	default:
		return CoverageParticular, false
	}
}

// Coberturas y modalidad de pago del sector salud.
const (
	CoverageParticular       = "PARTICULAR"
	CoveragePlanBeneficios   = "PLAN_BENEFICIOS_SALUD"
	CoverageRiesgosLaborales = "RIESGOS_LABORALES"

	PaymentModalityEvento = "PAGO_POR_EVENTO"

	AssociatedDocOrden = "ORDEN_SERVICIO"
)

// =============================================================================
// Valores fijos del esquema DataIco
// =============================================================================

const (
	EnvProduccion = "PRODUCCION"
	EnvPruebas    = "PRUEBAS"

	TaxCategoryIVA = "IVA"

	PartyTypeNatural  = "PERSONA_NATURAL"
	PartyTypeJuridica = "PERSONA_JURIDICA"

	TaxLevelNoResponsable = "NO_RESPONSABLE_DE_IVA"
	TaxLevelResponsable   = "RESPONSABLE_DE_IVA"
	RegimenOrdinario      = "ORDINARIO"
	RegimenSimple         = "SIMPLE"

	InvoiceTypeCodeVenta = "FACTURA_VENTA"
	OperationEstandar    = "ESTANDAR"
	OperationSalud       = "SS_CUFE"

	PaymentMeansTypeContado = "DEBITO"
	PaymentMeansTypeCredito = "CREDITO"
	PaymentMeansAcuerdo     = "MUTUAL_AGREEMENT"

	CountryColombia = "CO"

	DefaultSKU = "SERV_001"
)

// Estados DIAN reportados por el proveedor (campo dian_status).
const (
	DianStatusAceptado  = "DIAN_ACEPTADO"
	DianStatusRechazado = "DIAN_RECHAZADO"
	DianStatusEnProceso = "DIAN_EN_PROCESO"
)

// Códigos de concepto de corrección de notas (Anexo técnico, tabla 13.2.4).
const (
	CreditReasonDevolucion   = "DEVOLUCION"
	CreditReasonAnulacion    = "ANULACION"
	CreditReasonDescuento    = "REBAJA"
	CreditReasonAjustePrecio = "AJUSTE_PRECIO"
	CreditReasonOtros        = "OTROS"

	DebitReasonIntereses   = "INTERESES"
	DebitReasonGastos      = "GASTOS"
	DebitReasonCambioValor = "CAMBIO_VALOR"
	DebitReasonOtros       = "OTROS"
)
