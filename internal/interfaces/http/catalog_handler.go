package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/facturador-api/internal/application/catalog"
	"github.com/jhoicas/facturador-api/internal/application/dto"
)

// CatalogHandler catálogo propio, repositorio central y términos.
type CatalogHandler struct {
	items   *catalog.ItemUseCase
	masters *catalog.MasterUseCase
	terms   *catalog.TermUseCase
	log     zerolog.Logger
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(items *catalog.ItemUseCase, masters *catalog.MasterUseCase, terms *catalog.TermUseCase, log zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{items: items, masters: masters, terms: terms, log: log}
}

// CreateItem godoc
// @Summary      Crear ítem de catálogo
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.CreateCatalogItemRequest  true  "Ítem"
// @Success      201  {object}  dto.CatalogItemResponse
// @Router       /api/catalog/items [post]
func (h *CatalogHandler) CreateItem(c *fiber.Ctx) error {
	var in dto.CreateCatalogItemRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.items.Create(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CatalogHandler) ListItems(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return err
	}
	out, err := h.items.List(c.UserContext(), GetCompanyID(c), page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler) GetItem(c *fiber.Ctx) error {
	out, err := h.items.Get(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.UpdateCatalogItemRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.items.Update(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler) DeleteItem(c *fiber.Ctx) error {
	if err := h.items.Delete(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ImportItems godoc
// @Summary      Importar catálogo desde xlsx (campo multipart "file")
// @Tags         catalog
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        file  formData  file  true  "Hoja con columnas name, description, unit_price, unit, tax_rate"
// @Success      200  {object}  dto.ImportResult
// @Router       /api/catalog/items/import [post]
func (h *CatalogHandler) ImportItems(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "falta el archivo (campo file)"})
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, h.log, err)
	}
	defer f.Close()

	out, err := h.items.Import(c.UserContext(), GetCompanyID(c), f)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListMaster GET /api/catalog/master-items
func (h *CatalogHandler) ListMaster(c *fiber.Ctx) error {
	page, err := pageFromQuery(c)
	if err != nil {
		return err
	}
	out, err := h.masters.List(c.UserContext(), page)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// CreateMaster POST /api/catalog/master-items (admin)
func (h *CatalogHandler) CreateMaster(c *fiber.Ctx) error {
	var in dto.CreateCatalogItemRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.masters.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CopyMaster POST /api/catalog/master-items/:id/copy: copia el ítem al catálogo de la empresa.
func (h *CatalogHandler) CopyMaster(c *fiber.Ctx) error {
	out, err := h.masters.CopyToCompany(c.UserContext(), GetCompanyID(c), c.Params("id"))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CatalogHandler) CreateTerm(c *fiber.Ctx) error {
	var in dto.CreateTermRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.terms.Create(c.UserContext(), GetCompanyID(c), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *CatalogHandler) ListTerms(c *fiber.Ctx) error {
	out, err := h.terms.List(c.UserContext(), GetCompanyID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler) UpdateTerm(c *fiber.Ctx) error {
	var in dto.UpdateTermRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.terms.Update(c.UserContext(), GetCompanyID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

func (h *CatalogHandler) DeleteTerm(c *fiber.Ctx) error {
	if err := h.terms.Delete(c.UserContext(), GetCompanyID(c), c.Params("id")); err != nil {
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
