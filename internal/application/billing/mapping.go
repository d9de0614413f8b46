package billing

import (
	"github.com/jhoicas/facturador-api/internal/application/dto"
	"github.com/jhoicas/facturador-api/internal/domain/entity"
	"github.com/jhoicas/facturador-api/internal/domain/money"
)

func toLineItemResponse(it *entity.LineItem) dto.LineItemResponse {
	return dto.LineItemResponse{
		ID:          it.ID,
		ParentID:    it.ParentID,
		Description: it.Description,
		Quantity:    it.Quantity.String(),
		UnitPrice:   money.Price(it.UnitPrice),
		Discount:    money.Fixed(it.Discount),
		Amount:      money.Fixed(it.Amount),
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
	}
}

// toDocumentResponse arma la respuesta; en listados items va vacío y se omite del JSON.
func toDocumentResponse(doc *entity.Document, customerName string, items []*entity.LineItem) *dto.DocumentResponse {
	resp := &dto.DocumentResponse{
		ID:                 doc.ID,
		Kind:               string(doc.Kind),
		CompanyID:          doc.CompanyID,
		CustomerID:         doc.CustomerID,
		CustomerName:       customerName,
		Number:             doc.Number,
		IssueDate:          doc.IssueDate.Format(dateLayout),
		Status:             doc.Status,
		Subtotal:           money.Fixed(doc.Subtotal),
		Discount:           money.Fixed(doc.Discount),
		DiscountedSubtotal: money.Fixed(doc.Total.Sub(doc.Tax)), // total = subtotal con descuento + tax
		TaxRate:            money.FixedPtr(doc.TaxRate),
		Tax:                money.Fixed(doc.Tax),
		Total:              money.Fixed(doc.Total),
		Notes:              doc.Notes,
		Terms:              doc.Terms,
		LinkedID:           doc.LinkedID,
		CreatedAt:          doc.CreatedAt,
		UpdatedAt:          doc.UpdatedAt,
	}
	if doc.DueDate != nil {
		s := doc.DueDate.Format(dateLayout)
		resp.DueDate = &s
	}
	for _, it := range items {
		resp.Items = append(resp.Items, toLineItemResponse(it))
	}
	return resp
}
