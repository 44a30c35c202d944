package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"legal_eval_backend/internal/model"
	"legal_eval_backend/internal/repository"
	"legal_eval_backend/internal/util"
	"legal_eval_backend/pkg/logger"
	"legal_eval_backend/pkg/monitoring"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	exportPrefix = "evaluation-"
	exportExt    = ".json"
)

// ExportService 把评测数据快照写入存储，供离线分析使用
type ExportService struct {
	QuestionRepo   *repository.QuestionRepository
	ModelRepo      *repository.ModelRepository
	GenerationRepo *repository.GenerationRepository
	RatingRepo     *repository.RatingRepository
	WriteinRepo    *repository.WriteinRepository
	Storage        *StorageService
	now            func() time.Time
}

func NewExportService(
	questionRepo *repository.QuestionRepository,
	modelRepo *repository.ModelRepository,
	generationRepo *repository.GenerationRepository,
	ratingRepo *repository.RatingRepository,
	writeinRepo *repository.WriteinRepository,
	storage *StorageService,
) *ExportService {
	return &ExportService{
		QuestionRepo:   questionRepo,
		ModelRepo:      modelRepo,
		GenerationRepo: generationRepo,
		RatingRepo:     ratingRepo,
		WriteinRepo:    writeinRepo,
		Storage:        storage,
		now:            time.Now,
	}
}

type ExportGeneration struct {
	GenerationID uint   `json:"generation_id"`
	QuestionID   uint   `json:"question_id"`
	ModelID      uint   `json:"model_id"`
	ModelName    string `json:"model_name"`
	Text         string `json:"generation_text"`
}

// WriteinDetail 补充 used_generation_ids 便于直接读取
type WriteinDetail struct {
	model.Writein
	UsedGenerationIDs []uint `json:"used_generation_ids"`
}

func NewWriteinDetail(w model.Writein) WriteinDetail {
	return WriteinDetail{Writein: w, UsedGenerationIDs: w.UsedGenerationIDs()}
}

// Snapshot 导出文件内容，评分只包含每个 (用户, 问题, 回答对) 的最新一条
type Snapshot struct {
	ExportedAt  time.Time          `json:"exported_at"`
	Questions   []model.Question   `json:"questions"`
	Models      []model.LLMModel   `json:"models"`
	Generations []ExportGeneration `json:"generations"`
	Ratings     []model.Rating     `json:"ratings"`
	Writeins    []WriteinDetail    `json:"writeins"`
}

type ExportResult struct {
	Object   string `json:"object"`
	URL      string `json:"url"`
	Ratings  int    `json:"ratings"`
	Writeins int    `json:"writeins"`
}

type questionUser struct {
	questionID uint
	userID     uint
}

func (s *ExportService) BuildSnapshot(ctx context.Context) (*Snapshot, error) {
	questions, err := s.QuestionRepo.All(ctx)
	if err != nil {
		return nil, err
	}
	models, err := s.ModelRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	gens, err := s.GenerationRepo.All(ctx)
	if err != nil {
		return nil, err
	}
	ratings, err := s.RatingRepo.All(ctx)
	if err != nil {
		return nil, err
	}
	writeins, err := s.WriteinRepo.All(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		ExportedAt:  s.now().UTC(),
		Questions:   questions,
		Models:      models,
		Generations: make([]ExportGeneration, 0, len(gens)),
		Ratings:     []model.Rating{},
		Writeins:    make([]WriteinDetail, 0, len(writeins)),
	}

	for i := range gens {
		g := &gens[i]
		snap.Generations = append(snap.Generations, ExportGeneration{
			GenerationID: g.ID,
			QuestionID:   g.QuestionID,
			ModelID:      g.ModelID,
			ModelName:    g.ModelName(),
			Text:         g.Text,
		})
	}

	// ratings 已按 (question_id, user_id) 排序，逐组取最新
	groups := make(map[questionUser][]model.Rating)
	order := []questionUser{}
	for _, r := range ratings {
		key := questionUser{questionID: r.QuestionID, userID: r.UserID}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}
	for _, key := range order {
		snap.Ratings = append(snap.Ratings, SortedRatings(LatestRatings(groups[key]))...)
	}

	for i := range writeins {
		snap.Writeins = append(snap.Writeins, NewWriteinDetail(writeins[i]))
	}

	return snap, nil
}

// Export 生成快照并写入配置的存储
func (s *ExportService) Export(ctx context.Context) (*ExportResult, error) {
	snap, err := s.BuildSnapshot(ctx)
	if err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, err
	}

	object := exportPrefix + snap.ExportedAt.Format(util.ExportTimeFormat) + exportExt
	url, err := s.Storage.Upload(ctx, object, bytes.NewReader(data), int64(len(data)), util.MimeJSON)
	if err != nil {
		return nil, err
	}

	monitoring.ExportsCreated.WithLabelValues(s.Storage.Type).Inc()
	logger.Log.Info("Dataset exported",
		zap.String("object", object),
		zap.Int("ratings", len(snap.Ratings)),
		zap.Int("writeins", len(snap.Writeins)),
	)

	return &ExportResult{
		Object:   object,
		URL:      url,
		Ratings:  len(snap.Ratings),
		Writeins: len(snap.Writeins),
	}, nil
}

// DeleteExport 删除一个此前生成的导出对象，只接受 Export 产生的对象名
func (s *ExportService) DeleteExport(ctx context.Context, object string) error {
	if !strings.HasPrefix(object, exportPrefix) || !strings.HasSuffix(object, exportExt) || strings.ContainsAny(object, `/\`) {
		return fmt.Errorf("%w: invalid export object %q", util.ErrInvalidInput, object)
	}

	if err := s.Storage.Delete(ctx, object); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: export %s", util.ErrNotFound, object)
		}
		return err
	}

	logger.Log.Info("Export deleted", zap.String("object", object), zap.String("storage", s.Storage.Type))
	return nil
}
