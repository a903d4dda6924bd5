package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/VZENNN/hrvenomdashboard/internal/dto"
	"github.com/VZENNN/hrvenomdashboard/internal/errs"
	"github.com/VZENNN/hrvenomdashboard/internal/middleware"
	"github.com/VZENNN/hrvenomdashboard/internal/usecase"
	"github.com/VZENNN/hrvenomdashboard/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type EvaluationHandler struct {
	uc *usecase.EvaluationUsecase
}

func NewEvaluationHandler(uc *usecase.EvaluationUsecase) *EvaluationHandler {
	return &EvaluationHandler{uc: uc}
}

func (h *EvaluationHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/evaluations/metadata/:employeeId", h.Metadata)
	app.Post("/evaluations/preview", h.Preview)
	app.Post("/evaluations", middleware.RateLimiter(10, 1*time.Minute), h.Create)
	app.Get("/evaluations/top", h.Top)
	app.Get("/evaluations/:id", h.Detail)
	app.Put("/evaluations/:id", h.Amend)
	app.Delete("/evaluations/:id", h.Delete)
	app.Get("/employees/:id/evaluations", h.History)
}

func (h *EvaluationHandler) Metadata(c *fiber.Ctx) error {
	employeeID, err := uuid.Parse(c.Params("employeeId"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "malformed employee id",
		}, err)
	}

	meta, err := h.uc.Metadata(c.Context(), employeeID)
	if err != nil {
		return engineError(c, err, "failed to load evaluation metadata")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get evaluation metadata",
		Data:    meta,
	})
}

func (h *EvaluationHandler) Preview(c *fiber.Ctx) error {
	var input dto.PreviewInput
	if err := c.BodyParser(&input); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "malformed request body",
		}, err)
	}

	result, err := h.uc.Preview(input)
	if err != nil {
		return engineError(c, err, "failed to compute preview")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success compute preview",
		Data:    result,
	})
}

func (h *EvaluationHandler) Create(c *fiber.Ctx) error {
	var input dto.CreateEvaluationInput
	if err := c.BodyParser(&input); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "malformed request body",
		}, err)
	}

	eval, err := h.uc.Create(c.Context(), middleware.UserID(c), middleware.Role(c), input)
	if err != nil {
		return engineError(c, err, "failed to create evaluation")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success create evaluation",
		Data:    dto.NewEvaluationDTO(eval),
	})
}

func (h *EvaluationHandler) Detail(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "malformed evaluation id",
		}, err)
	}

	eval, err := h.uc.Detail(c.Context(), id)
	if err != nil {
		return engineError(c, err, "failed to get evaluation")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get evaluation",
		Data:    dto.NewEvaluationDTO(eval),
	})
}

func (h *EvaluationHandler) Amend(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "malformed evaluation id",
		}, err)
	}

	var input dto.AmendEvaluationInput
	if err := c.BodyParser(&input); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "malformed request body",
		}, err)
	}

	eval, err := h.uc.Amend(c.Context(), id, middleware.Role(c), input)
	if err != nil {
		return engineError(c, err, "failed to amend evaluation")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success amend evaluation",
		Data:    dto.NewEvaluationDTO(eval),
	})
}

func (h *EvaluationHandler) Delete(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "malformed evaluation id",
		}, err)
	}

	if err := h.uc.Delete(c.Context(), id, middleware.Role(c)); err != nil {
		return engineError(c, err, "failed to delete evaluation")
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success delete evaluation",
	})
}

func (h *EvaluationHandler) History(c *fiber.Ctx) error {
	employeeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "malformed employee id",
		}, err)
	}
	year := c.QueryInt("year", time.Now().Year())

	evals, average, err := h.uc.History(c.Context(), employeeID, year)
	if err != nil {
		return engineError(c, err, "failed to get evaluation history")
	}

	out := dto.EvaluationHistoryDTO{AnnualAverage: average}
	for i := range evals {
		out.Evaluations = append(out.Evaluations, dto.NewEvaluationDTO(&evals[i]))
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get evaluation history",
		Data:    out,
	})
}

func (h *EvaluationHandler) Top(c *fiber.Ctx) error {
	month := c.QueryInt("month", int(time.Now().Month()))
	year := c.QueryInt("year", time.Now().Year())
	limit, _ := strconv.Atoi(c.Query("limit", "5"))

	evals, err := h.uc.TopByPeriod(c.Context(), month, year, limit)
	if err != nil {
		return engineError(c, err, "failed to get top evaluations")
	}

	data := make([]dto.EvaluationDTO, 0, len(evals))
	for i := range evals {
		data = append(data, dto.NewEvaluationDTO(&evals[i]))
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get top evaluations",
		Data:    data,
	})
}

// engineError maps the engine's error taxonomy onto the response envelope.
func engineError(c *fiber.Ctx, err error, fallback string) error {
	var verr *errs.ValidationError
	switch {
	case errors.As(err, &verr):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusUnprocessableEntity,
			Message: verr.Message,
			Details: verr.Fields,
		})
	case errors.Is(err, errs.ErrDuplicateEvaluation):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusConflict,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrNotFound):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusNotFound,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrForbidden):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusForbidden,
			Message: err.Error(),
		})
	case errors.Is(err, errs.ErrCategoryCompleted):
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusConflict,
			Message: err.Error(),
		})
	default:
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: fallback,
		}, err)
	}
}
