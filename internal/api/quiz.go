package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rustybadge/after-sales-quiz/internal/api/respond"
	"github.com/rustybadge/after-sales-quiz/internal/common/errors"
	"github.com/rustybadge/after-sales-quiz/internal/common/observability"
	"github.com/rustybadge/after-sales-quiz/internal/quiz"
	"github.com/rustybadge/after-sales-quiz/internal/report"

	"github.com/gin-gonic/gin"
)

// Renderer produces the action plan PDF for a result.
type Renderer interface {
	Render(ctx context.Context, r quiz.Result, opts report.RenderOptions) ([]byte, error)
	FileName(company string) string
}

type submission struct {
	Company string         `json:"company"`
	Answers quiz.AnswerSet `json:"answers"`
}

type categoryView struct {
	ID          quiz.Category `json:"id"`
	Label       string        `json:"label"`
	Weight      float64       `json:"weight"`
	WeightLabel string        `json:"weightLabel"`
	Threshold   float64       `json:"threshold"`
}

type catalogView struct {
	Questions  []quiz.Question `json:"questions"`
	Categories []categoryView  `json:"categories"`
	Personas   []quiz.Persona  `json:"personas"`
}

// QuizHandler serves the catalog, scoring and PDF export.
type QuizHandler struct {
	renderer Renderer
	obs      *observability.Observability
	now      func() time.Time
}

func NewQuizHandler(renderer Renderer, obs *observability.Observability) *QuizHandler {
	if obs == nil {
		obs = observability.Noop()
	}
	return &QuizHandler{renderer: renderer, obs: obs, now: time.Now}
}

func (h *QuizHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/questions", h.Questions)
	rg.POST("/quiz/results", h.Results)
	rg.POST("/quiz/report", h.Report)
}

// Questions returns the catalog.
func (h *QuizHandler) Questions(c *gin.Context) {
	view := catalogView{
		Questions: quiz.Questions(),
		Personas:  quiz.Personas(),
	}
	for _, cat := range quiz.Categories() {
		view.Categories = append(view.Categories, categoryView{
			ID:          cat,
			Label:       cat.Label(),
			Weight:      quiz.Weight(cat),
			WeightLabel: quiz.WeightLabel(cat),
			Threshold:   quiz.Threshold(cat),
		})
	}
	respond.OK(c, gin.H{"data": view})
}

// Results scores a submission. ?partial=true accepts unanswered questions.
func (h *QuizHandler) Results(c *gin.Context) {
	result, err := h.evaluate(c)
	if err != nil {
		respond.FromError(c, err)
		return
	}
	respond.OK(c, gin.H{"data": result})
}

// Report scores a submission and returns the action plan as a PDF attachment.
func (h *QuizHandler) Report(c *gin.Context) {
	result, err := h.evaluate(c)
	if err != nil {
		respond.FromError(c, err)
		return
	}

	pdf, err := h.renderer.Render(c.Request.Context(), result, report.RenderOptions{Date: h.now()})
	if err != nil {
		respond.FromError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, h.renderer.FileName(result.Company)))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

func (h *QuizHandler) evaluate(c *gin.Context) (quiz.Result, error) {
	ctx, span := h.obs.StartSpan(c.Request.Context(), "quiz.evaluate")
	defer span.End()

	raw, err := c.GetRawData()
	if err != nil {
		return quiz.Result{}, errors.NewInvalidRequestError(err)
	}
	if err := checkSchema(submissionSchema, raw); err != nil {
		return quiz.Result{}, err
	}
	var sub submission
	if err := json.Unmarshal(raw, &sub); err != nil {
		return quiz.Result{}, errors.NewInvalidRequestError(err)
	}

	if err := sub.Answers.Validate(); err != nil {
		return quiz.Result{}, errors.NewInvalidAnswersError(err)
	}
	partial, _ := strconv.ParseBool(c.Query("partial"))
	if !partial {
		if missing := sub.Answers.Missing(); len(missing) > 0 {
			return quiz.Result{}, errors.NewIncompleteAnswersError(missing)
		}
	}

	result := quiz.Evaluate(sub.Company, sub.Answers)
	h.obs.RecordEvaluation(ctx, result.Persona.Name, string(result.RecommendationState), result.Complete)
	return result, nil
}
