package handler

import (
	"github.com/VZENNN/hrvenomdashboard/internal/dto"
	"github.com/VZENNN/hrvenomdashboard/internal/middleware"
	"github.com/VZENNN/hrvenomdashboard/internal/response"
	"github.com/VZENNN/hrvenomdashboard/internal/usecase"
	"github.com/VZENNN/hrvenomdashboard/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AssessmentHandler struct {
	uc *usecase.AssessmentUsecase
}

func NewAssessmentHandler(uc *usecase.AssessmentUsecase) *AssessmentHandler {
	return &AssessmentHandler{uc: uc}
}

func (h *AssessmentHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/assessment/categories", h.Categories)
	app.Get("/assessment/next", h.Next)
	app.Post("/assessment/categories/:id/start", h.Start)
	app.Post("/assessment/categories/:id/submit", h.Submit)
	app.Get("/assessment/results", h.Results)
}

func (h *AssessmentHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.uc.ListCategories(c.Context())
	if err != nil {
		return engineError(c, err, "failed to list assessment categories")
	}

	data := make([]dto.CategoryDTO, 0, len(categories))
	for i := range categories {
		data = append(data, dto.NewCategoryDTO(&categories[i]))
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success list assessment categories",
		Data:    data,
	})
}

// Next tells the applicant which category to take. A nil category means the
// whole test is finished.
func (h *AssessmentHandler) Next(c *fiber.Ctx) error {
	next, err := h.uc.NextCategory(c.Context(), middleware.UserID(c))
	if err != nil {
		return engineError(c, err, "failed to resolve next category")
	}

	data := fiber.Map{"finished": next == nil}
	if next != nil {
		cat := dto.NewCategoryDTO(next)
		data["next"] = cat
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success get next category",
		Data:    data,
	})
}

func (h *AssessmentHandler) Start(c *fiber.Ctx) error {
	categoryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "malformed category id",
		}, err)
	}

	session, err := h.uc.StartCategory(c.Context(), middleware.UserID(c), categoryID)
	if err != nil {
		return engineError(c, err, "failed to start assessment session")
	}

	out := dto.StartSessionDTO{
		Category:  dto.NewCategoryDTO(session.Category),
		StartedAt: session.StartedAt,
		Remaining: session.Remaining,
	}
	for _, q := range session.Category.Questions {
		out.Questions = append(out.Questions, dto.QuestionDTO{
			ID:      q.ID,
			Content: q.Content,
			Type:    string(q.Type),
			Options: q.Options,
		})
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success start assessment session",
		Data:    out,
	})
}

// Submit ends the attempt. A replayed call is answered exactly like the first
// one apart from created=false; the applicant just moves on.
func (h *AssessmentHandler) Submit(c *fiber.Ctx) error {
	categoryID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "malformed category id",
		}, err)
	}

	var input dto.SubmitAnswersInput
	if err := c.BodyParser(&input); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "malformed request body",
		}, err)
	}

	outcome, err := h.uc.Submit(c.Context(), middleware.UserID(c), categoryID, input.Answers)
	if err != nil {
		return engineError(c, err, "failed to submit assessment answers")
	}

	out := dto.SubmitOutcomeDTO{
		Created:  outcome.Created,
		Expired:  outcome.Expired,
		Finished: outcome.Next == nil,
	}
	if outcome.Next != nil {
		next := dto.NewCategoryDTO(outcome.Next)
		out.Next = &next
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success submit assessment answers",
		Data:    out,
	})
}

func (h *AssessmentHandler) Results(c *fiber.Ctx) error {
	var applicantID *uuid.UUID
	if raw := c.Query("applicant_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusBadRequest,
				Message: "malformed applicant id",
			}, err)
		}
		applicantID = &id
	}
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := c.QueryInt("page_size", 20)
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	results, total, err := h.uc.ListResults(c.Context(), applicantID, page, pageSize)
	if err != nil {
		return engineError(c, err, "failed to list assessment results")
	}

	data := make([]dto.ResultDTO, 0, len(results))
	for i := range results {
		data = append(data, dto.NewResultDTO(&results[i]))
	}

	totalPages := total / int64(pageSize)
	if total%int64(pageSize) != 0 {
		totalPages++
	}
	from, to := 0, 0
	if len(results) > 0 {
		from = (page-1)*pageSize + 1
		to = from + len(results) - 1
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusOK,
		Message: "Success list assessment results",
		Data:    data,
		Pagination: &response.Pagination{
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
			TotalItems: total,
			HasMore:    int64(page) < totalPages,
			From:       from,
			To:         to,
		},
	})
}
