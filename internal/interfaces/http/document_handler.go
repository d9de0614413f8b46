package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/facturador-api/internal/application/billing"
	"github.com/jhoicas/facturador-api/internal/application/dto"
)

// DocumentHandler rutas de facturas o cotizaciones; el tipo lo fija el caso de uso inyectado.
type DocumentHandler struct {
	docs       *billing.DocumentUseCase
	items      *billing.LineItemUseCase
	pdf        *billing.PDFUseCase
	conversion *billing.ConversionUseCase // solo cotizaciones
	log        zerolog.Logger
}

// NewDocumentHandler construye el handler. conversion puede ser nil.
func NewDocumentHandler(
	docs *billing.DocumentUseCase,
	items *billing.LineItemUseCase,
	pdf *billing.PDFUseCase,
	conversion *billing.ConversionUseCase,
	log zerolog.Logger,
) *DocumentHandler {
	return &DocumentHandler{
		docs:       docs,
		items:      items,
		pdf:        pdf,
		conversion: conversion,
		log:        log.With().Str("kind", string(docs.Kind())).Logger(),
	}
}

// Create godoc
// @Summary      Crear factura o cotización en borrador
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        kind  path  string  true  "invoices | quotations"
// @Param        body  body  dto.CreateDocumentRequest  true  "Cabecera y líneas iniciales"
// @Success      201  {object}  dto.DocumentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/{kind} [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CreateDocumentRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.docs.Create(c.UserContext(), companyID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List GET /api/{kind}?status=&customer_id=&limit=&offset=
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	page, err := pageFromQuery(c)
	if err != nil {
		return err
	}
	out, err := h.docs.List(c.UserContext(), companyID, dto.ListDocumentsRequest{
		PageRequest: page,
		Status:      c.Query("status"),
		CustomerID:  c.Query("customer_id"),
	})
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// GetByID GET /api/{kind}/:id con sus líneas.
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.docs.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Update PUT /api/{kind}/:id: patch de cabecera; recalcula los totales.
func (h *DocumentHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDocumentRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.docs.Update(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado (force solo admin)
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.UpdateStatusRequest  true  "Nuevo estado"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/{kind}/{id}/status [patch]
func (h *DocumentHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.docs.UpdateStatus(c.UserContext(), GetCompanyID(c), GetRole(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// Delete DELETE /api/{kind}/:id: solo borradores; las líneas se eliminan en cascada.
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	if err := h.docs.Delete(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// PDF godoc
// @Summary      Descargar PDF
// @Tags         documents
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200  {file}  binary
// @Router       /api/{kind}/{id}/pdf [get]
func (h *DocumentHandler) PDF(c *fiber.Ctx) error {
	out, filename, err := h.pdf.Download(c.UserContext(), h.docs.Kind(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(out)
}

// Convert POST /api/quotations/:id/convert
func (h *DocumentHandler) Convert(c *fiber.Ctx) error {
	if h.conversion == nil {
		return c.SendStatus(fiber.StatusNotFound)
	}
	out, err := h.conversion.Convert(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListItems GET /api/{kind}/:id/items
func (h *DocumentHandler) ListItems(c *fiber.Ctx) error {
	out, err := h.items.List(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// CreateItem godoc
// @Summary      Agregar línea y recalcular totales
// @Tags         documents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateLineItemRequest  true  "description, quantity, unit_price, discount"
// @Success      201  {object}  dto.LineItemResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/{kind}/{id}/items [post]
func (h *DocumentHandler) CreateItem(c *fiber.Ctx) error {
	var in dto.CreateLineItemRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.items.Create(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateItem PUT /api/{kind}/:id/items/:itemId
func (h *DocumentHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateLineItemRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.items.Update(c.UserContext(), GetCompanyID(c), c.Params("id"), c.Params("itemId"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// DeleteItem DELETE /api/{kind}/:id/items/:itemId
func (h *DocumentHandler) DeleteItem(c *fiber.Ctx) error {
	if err := h.items.Delete(c.UserContext(), GetCompanyID(c), c.Params("id"), c.Params("itemId")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
