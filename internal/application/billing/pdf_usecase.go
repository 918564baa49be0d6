package billing

import (
	"context"
	"fmt"

	"github.com/jhoicas/naste-api/internal/domain"
	"github.com/jhoicas/naste-api/internal/domain/repository"
)

// PDFUseCase genera la representación gráfica (PDF) de una factura.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	generator   InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando sus dependencias.
func NewPDFUseCase(invoiceRepo repository.InvoiceRepository, generator InvoicePDFGenerator) *PDFUseCase {
	return &PDFUseCase{invoiceRepo: invoiceRepo, generator: generator}
}

// DownloadInvoicePDF carga la factura expandida y genera su PDF.
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la factura no existe.
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil {
		return nil, "", domain.NotFound("factura")
	}

	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, inv)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	return pdfBytes, PDFFilename(inv.ID), nil
}

// PDFFilename nombre de descarga: factura-<primeros 8 caracteres del id>.pdf.
func PDFFilename(invoiceID string) string {
	short := invoiceID
	if len(short) > 8 {
		short = short[:8]
	}
	return fmt.Sprintf("factura-%s.pdf", short)
}
