package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"deepmirror/internal/domain"
	"deepmirror/internal/repository"
)

var ErrStorage = errors.New("storage failure")

// CreateResultInput es el cuestionario ya puntuado que llega del cliente.
type CreateResultInput struct {
	Nickname          string         `json:"nickname" validate:"required"`
	Openness          int            `json:"openness" validate:"min=0,max=100"`
	Conscientiousness int            `json:"conscientiousness" validate:"min=0,max=100"`
	Extraversion      int            `json:"extraversion" validate:"min=0,max=100"`
	Agreeableness     int            `json:"agreeableness" validate:"min=0,max=100"`
	Neuroticism       int            `json:"neuroticism" validate:"min=0,max=100"`
	DetailScores      map[string]int `json:"detail_scores" validate:"omitempty,dive,keys,notblank,endkeys,min=0,max=100"`
}

func (in CreateResultInput) Traits() domain.TraitScores {
	return domain.TraitScores{
		Openness:          in.Openness,
		Conscientiousness: in.Conscientiousness,
		Extraversion:      in.Extraversion,
		Agreeableness:     in.Agreeableness,
		Neuroticism:       in.Neuroticism,
	}
}

// ResultService crea y recupera resultados de personalidad.
type ResultService struct {
	logger   *zap.Logger
	results  repository.ResultRepository
	analysis AnalysisProvider
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
}

func NewResultService(logger *zap.Logger, results repository.ResultRepository, analysis AnalysisProvider) *ResultService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultService{
		logger:   logger,
		results:  results,
		analysis: analysis,
		validate: newValidator(),
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Create valida, obtiene el analisis y persiste el resultado.
// Una vez iniciada, la creacion no se interrumpe aunque el cliente se desconecte.
func (s *ResultService) Create(ctx context.Context, in CreateResultInput) (domain.Result, error) {
	if s.results == nil || s.analysis == nil {
		return domain.Result{}, errors.New("result service not configured")
	}
	ctx = context.WithoutCancel(ctx)

	in.Nickname = strings.TrimSpace(in.Nickname)
	if err := toValidationError(s.validate.Struct(in), ""); err != nil {
		return domain.Result{}, err
	}

	detail, err := EncodeDetailScores(in.DetailScores)
	if err != nil {
		s.logger.Warn("detail scores encode failed, storing without facets", zap.Error(err))
		detail = nil
	}

	scores := in.Traits()
	analysis := s.analysis.Generate(ctx, scores)

	res := domain.Result{
		ID:                s.newID(),
		Nickname:          in.Nickname,
		Openness:          scores.Openness,
		Conscientiousness: scores.Conscientiousness,
		Extraversion:      scores.Extraversion,
		Agreeableness:     scores.Agreeableness,
		Neuroticism:       scores.Neuroticism,
		AIAnalysis:        analysis,
		DetailScores:      detail,
		CreatedAt:         s.now().UTC().Truncate(time.Microsecond),
	}

	if err := s.results.Create(ctx, res); err != nil {
		s.logger.Error("result persist failed", zap.Error(err), zap.String("result_id", res.ID))
		return domain.Result{}, fmt.Errorf("%w: create result: %w", ErrStorage, err)
	}

	s.logger.Info("result created", zap.String("result_id", res.ID), zap.Bool("fallback_analysis", analysis == FallbackAnalysis))
	return res, nil
}

// Get devuelve found=false para ids mal formados o inexistentes; solo las fallas de almacenamiento son error.
func (s *ResultService) Get(ctx context.Context, id string) (domain.Result, bool, error) {
	parsed, err := uuid.Parse(strings.TrimSpace(id))
	if err != nil {
		return domain.Result{}, false, nil
	}

	res, err := s.results.GetByID(ctx, parsed.String())
	if err != nil {
		if errors.Is(err, repository.ErrResultNotFound) {
			return domain.Result{}, false, nil
		}
		s.logger.Error("result lookup failed", zap.Error(err), zap.String("result_id", parsed.String()))
		return domain.Result{}, false, fmt.Errorf("%w: get result: %w", ErrStorage, err)
	}
	return res, true, nil
}

// View agrega el mapa de facetas decodificado para la vista del resultado.
func (s *ResultService) View(ctx context.Context, id string) (domain.ResultView, bool, error) {
	res, found, err := s.Get(ctx, id)
	if err != nil || !found {
		return domain.ResultView{}, found, err
	}
	detailMap, err := DecodeDetailScores(res.DetailScores)
	if err != nil {
		s.logger.Warn("detail scores decode failed", zap.Error(err), zap.String("result_id", res.ID))
	}
	return domain.ResultView{Result: res, DetailMap: detailMap}, true, nil
}
