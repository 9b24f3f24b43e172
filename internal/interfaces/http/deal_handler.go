package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Acquisitions-api/internal/application/deal"
	"github.com/jhoicas/Acquisitions-api/internal/application/dto"
	"github.com/jhoicas/Acquisitions-api/internal/application/validation"
	"github.com/jhoicas/Acquisitions-api/pkg/logger"
)

// DealHandler ofertas de compra sobre publicaciones.
type DealHandler struct {
	uc  *deal.UseCase
	val *validation.Validator
	log *logger.Logger
}

// NewDealHandler construye el handler.
func NewDealHandler(uc *deal.UseCase, val *validation.Validator, log *logger.Logger) *DealHandler {
	return &DealHandler{uc: uc, val: val, log: log}
}

// ListForListing godoc
// @Summary      Ofertas de una publicación
// @Description  Dueño y admin ven todas; el resto solo las propias.
// @Tags         deals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Listing ID"
// @Success      200  {object}  dto.DealListResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/listings/{id}/deals [get]
func (h *DealHandler) ListForListing(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.ListForListing(c.UserContext(), GetActor(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Propose godoc
// @Summary      Proponer oferta
// @Tags         deals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                  true  "Listing ID"
// @Param        body  body  dto.ProposeDealRequest  true  "offer_amount, message"
// @Success      201  {object}  dto.DealResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/listings/{id}/deals [post]
func (h *DealHandler) Propose(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var in dto.ProposeDealRequest
	if err := bindJSON(c, h.val, &in); err != nil {
		return err
	}
	out, err := h.uc.Propose(c.UserContext(), GetActor(c), id, in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener oferta
// @Tags         deals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path  string  true  "Deal ID"
// @Success      200  {object}  dto.DealResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/deals/{id} [get]
func (h *DealHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	out, err := h.uc.GetByID(c.UserContext(), GetActor(c), id)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// Respond godoc
// @Summary      Aceptar o rechazar oferta
// @Description  Aceptar vende la publicación y rechaza el resto de ofertas pendientes.
// @Tags         deals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string                  true  "Deal ID"
// @Param        body  body  dto.RespondDealRequest  true  "decision: accept | reject"
// @Success      200  {object}  dto.RespondDealResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/deals/{id} [patch]
func (h *DealHandler) Respond(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var in dto.RespondDealRequest
	if err := bindJSON(c, h.val, &in); err != nil {
		return err
	}
	out, err := h.uc.Respond(c.UserContext(), GetActor(c), id, in)
	if err != nil {
		return err
	}
	h.log.Info().
		Str("deal_id", out.Deal.ID).
		Str("listing_id", out.Deal.ListingID).
		Str("status", out.Deal.Status).
		Int64("rejected_siblings", out.RejectedSiblings).
		Str("by", GetUserID(c)).
		Msg("oferta respondida")
	return c.JSON(out)
}
