package api

import (
	"errors"
	"strings"

	"github.com/bucksy-bot/bucksy/bucksy/database"
	"github.com/bucksy-bot/bucksy/bucksy/database/models"
	"github.com/gofiber/fiber/v2"
)

type addQuestionRequest struct {
	Text string `json:"text"`
}

type prioritiesRequest struct {
	Priorities []models.PriorityUpdate `json:"priorities"`
}

func (s *Server) listQuestions(c *fiber.Ctx) error {
	questions, err := s.deps.Questions.GetAll(c.UserContext())
	if err != nil {
		return SendInternalServerError(c, "Failed to fetch questions")
	}
	if questions == nil {
		questions = []*models.Question{}
	}
	return SendSuccess(c, questions, "")
}

func (s *Server) addQuestion(c *fiber.Ctx) error {
	var req addQuestionRequest
	if err := c.BodyParser(&req); err != nil {
		return SendBadRequest(c, "Invalid request body", nil)
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return SendBadRequest(c, "Question text is required", nil)
	}

	ctx := c.UserContext()
	exists, err := s.deps.Questions.Exists(ctx, text)
	if err != nil {
		return SendInternalServerError(c, "Failed to add question")
	}
	if exists {
		return SendConflict(c, "Question already exists")
	}

	q, err := s.deps.Questions.Add(ctx, text)
	if errors.Is(err, database.ErrDuplicate) {
		return SendConflict(c, "Question already exists")
	}
	if err != nil {
		return SendInternalServerError(c, "Failed to add question")
	}
	return SendCreated(c, q, "Question added")
}

func (s *Server) updateQuestion(c *fiber.Ctx) error {
	var update models.QuestionUpdate
	if err := c.BodyParser(&update); err != nil {
		return SendBadRequest(c, "Invalid request body", nil)
	}
	if update.Empty() {
		return SendBadRequest(c, "No fields to update", nil)
	}
	if update.Text != nil {
		text := strings.TrimSpace(*update.Text)
		if text == "" {
			return SendBadRequest(c, "Question text must not be empty", nil)
		}
		update.Text = &text
	}

	q, err := s.deps.Questions.Update(c.UserContext(), c.Params("id"), update)
	if err != nil {
		return s.questionError(c, err, "Failed to update question")
	}
	return SendSuccess(c, q, "Question updated")
}

func (s *Server) deleteQuestion(c *fiber.Ctx) error {
	if err := s.deps.Questions.RemoveByID(c.UserContext(), c.Params("id")); err != nil {
		return s.questionError(c, err, "Failed to delete question")
	}
	return SendSuccess(c, nil, "Question deleted")
}

func (s *Server) updatePriorities(c *fiber.Ctx) error {
	var req prioritiesRequest
	if err := c.BodyParser(&req); err != nil || req.Priorities == nil {
		return SendBadRequest(c, "Priorities must be an array", nil)
	}

	n, err := s.deps.Questions.UpdatePriorities(c.UserContext(), req.Priorities)
	if err != nil {
		return s.questionError(c, err, "Failed to update priorities")
	}
	return SendSuccess(c, fiber.Map{"updatedCount": n}, "Priorities updated successfully")
}

func (s *Server) questionError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, database.ErrInvalidID):
		return SendBadRequest(c, "Invalid question id", nil)
	case errors.Is(err, database.ErrNotFound):
		return SendNotFound(c, "Question not found")
	default:
		return SendInternalServerError(c, fallback)
	}
}

func (s *Server) listShinies(c *fiber.Ctx) error {
	shinies, err := s.deps.Shinies.GetAll(c.UserContext())
	if err != nil {
		return SendInternalServerError(c, "Failed to fetch shinies")
	}
	if shinies == nil {
		shinies = []*models.Shiny{}
	}
	return SendSuccess(c, shinies, "")
}
