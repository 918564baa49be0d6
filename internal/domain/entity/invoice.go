package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus estado de la factura. Solo CANCELLED tiene efecto sobre el stock.
type InvoiceStatus string

const (
	InvoiceStatusPending   InvoiceStatus = "PENDING"
	InvoiceStatusConfirmed InvoiceStatus = "CONFIRMED"
	InvoiceStatusShipped   InvoiceStatus = "SHIPPED"
	InvoiceStatusDelivered InvoiceStatus = "DELIVERED"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// InvoiceStatuses lista los estados válidos (orden de presentación).
var InvoiceStatuses = []InvoiceStatus{
	InvoiceStatusPending, InvoiceStatusConfirmed, InvoiceStatusShipped,
	InvoiceStatusDelivered, InvoiceStatusCancelled,
}

// Valid indica si s es uno de los estados definidos.
func (s InvoiceStatus) Valid() bool {
	for _, v := range InvoiceStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// InvoiceOrigin canal por el que llegó el pedido.
type InvoiceOrigin string

const (
	OriginWhatsApp  InvoiceOrigin = "WHATSAPP"
	OriginInstagram InvoiceOrigin = "INSTAGRAM"
	OriginFacebook  InvoiceOrigin = "FACEBOOK"
	OriginWebsite   InvoiceOrigin = "WEBSITE"
	OriginStore     InvoiceOrigin = "STORE"
	OriginOther     InvoiceOrigin = "OTHER"
)

// InvoiceOrigins lista los orígenes válidos.
var InvoiceOrigins = []InvoiceOrigin{
	OriginWhatsApp, OriginInstagram, OriginFacebook, OriginWebsite, OriginStore, OriginOther,
}

// Valid indica si o es uno de los orígenes definidos.
func (o InvoiceOrigin) Valid() bool {
	for _, v := range InvoiceOrigins {
		if v == o {
			return true
		}
	}
	return false
}

// PaymentMethod medio de pago de la factura.
type PaymentMethod string

const (
	PaymentCash           PaymentMethod = "CASH"
	PaymentTransfer       PaymentMethod = "TRANSFER"
	PaymentCard           PaymentMethod = "CARD"
	PaymentCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
	PaymentOther          PaymentMethod = "OTHER"
)

// PaymentMethods lista los medios de pago válidos.
var PaymentMethods = []PaymentMethod{
	PaymentCash, PaymentTransfer, PaymentCard, PaymentCashOnDelivery, PaymentOther,
}

// Valid indica si m es uno de los medios de pago definidos.
func (m PaymentMethod) Valid() bool {
	for _, v := range PaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}

// Invoice cabecera de factura con sus líneas.
// Total == suma de Items[i].Subtotal cada vez que se persisten las líneas.
//
// StockRestored indica que el stock de las líneas ya fue devuelto (por cancelación);
// mientras sea true ninguna operación vuelve a reintegrarlo.
type Invoice struct {
	ID            string
	Status        InvoiceStatus
	Origin        InvoiceOrigin
	PaymentMethod PaymentMethod

	CustomerName  string
	CustomerIDDoc string
	CustomerPhone string
	CustomerEmail *string

	City         string
	Neighborhood string
	Address      string

	InvoiceDate   time.Time
	DeliveryDate  *time.Time
	Total         decimal.Decimal
	StockRestored bool

	CreatedByID string
	CreatedBy   *UserSummary
	Items       []*InvoiceItem

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsCancelled indica si la factura está en estado CANCELLED.
func (i *Invoice) IsCancelled() bool {
	return i.Status == InvoiceStatusCancelled
}

// InvoiceItem línea de factura. ProductID es opcional (líneas de texto libre);
// solo las líneas con producto afectan el stock.
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	ProductID   *string
	Product     *Product
	Description string
	Quantity    int
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
}

// HasProduct indica si la línea referencia un producto del catálogo.
func (it *InvoiceItem) HasProduct() bool {
	return it.ProductID != nil && *it.ProductID != ""
}
