package dto

import "github.com/jhoicas/naste-api/internal/domain/entity"

// ToProductResponse convierte la entidad en su salida HTTP. ImageBase64 vacío sale como null.
func ToProductResponse(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	out := &ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.ImageBase64 != "" {
		img := p.ImageBase64
		out.ImageBase64 = &img
	}
	return out
}

// ToInvoiceResponse convierte la factura expandida (líneas, productos, creador).
func ToInvoiceResponse(inv *entity.Invoice) *InvoiceResponse {
	if inv == nil {
		return nil
	}
	out := &InvoiceResponse{
		ID:            inv.ID,
		Status:        string(inv.Status),
		Origin:        string(inv.Origin),
		PaymentMethod: string(inv.PaymentMethod),
		CustomerName:  inv.CustomerName,
		CustomerIDDoc: inv.CustomerIDDoc,
		CustomerPhone: inv.CustomerPhone,
		CustomerEmail: inv.CustomerEmail,
		City:          inv.City,
		Neighborhood:  inv.Neighborhood,
		Address:       inv.Address,
		InvoiceDate:   inv.InvoiceDate,
		DeliveryDate:  inv.DeliveryDate,
		Total:         inv.Total,
		CreatedByID:   inv.CreatedByID,
		Items:         make([]InvoiceItemResponse, 0, len(inv.Items)),
		CreatedAt:     inv.CreatedAt,
		UpdatedAt:     inv.UpdatedAt,
	}
	if inv.CreatedBy != nil {
		out.CreatedBy = &CreatorSummary{ID: inv.CreatedBy.ID, Name: inv.CreatedBy.Name, Email: inv.CreatedBy.Email}
	}
	for _, it := range inv.Items {
		out.Items = append(out.Items, InvoiceItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			Product:     ToProductResponse(it.Product),
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
		})
	}
	return out
}

// ToUserResponse convierte el usuario provisionado.
func ToUserResponse(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:         u.ID,
		ExternalID: u.ExternalID,
		Email:      u.Email,
		Name:       u.Name,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}
