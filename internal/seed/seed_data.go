package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"tmf-api/internal/model"
	"tmf-api/internal/service"

	"gopkg.in/yaml.v3"
)

// Report はシード投入結果の件数
type Report struct {
	Created int
	Skipped int
}

// SeedDataManager はリソースサービス経由でサンプルデータを投入する
// （API入力と同じ正規化が適用される）
type SeedDataManager struct {
	services *service.Services
	logger   *slog.Logger
}

// NewSeedDataManager は新しいシードデータマネージャーを作成
func NewSeedDataManager(services *service.Services, logger *slog.Logger) *SeedDataManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &SeedDataManager{services: services, logger: logger}
}

// SeedFile はYAMLまたはJSONファイルからデータを投入
func (s *SeedDataManager) SeedFile(ctx context.Context, path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return s.Seed(ctx, data)
}

// Seed はコレクション名からリソース一覧へのマッピングを投入する
// コレクションはドキュメント順に処理し、既存IDのリソースはスキップ
func (s *SeedDataManager) Seed(ctx context.Context, data []byte) (*Report, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse seed data: %w", err)
	}

	report := &Report{}
	if len(doc.Content) == 0 {
		return report, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("seed data must be a mapping of collection name to resources")
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		name := root.Content[i].Value
		svc, ok := s.services.ByName(name)
		if !ok {
			return nil, fmt.Errorf("unknown collection %q in seed data", name)
		}

		var entries []map[string]any
		if err := root.Content[i+1].Decode(&entries); err != nil {
			return nil, fmt.Errorf("collection %q: %w", name, err)
		}

		for idx, entry := range entries {
			raw, err := toResource(entry)
			if err != nil {
				return nil, fmt.Errorf("collection %q entry %d: %w", name, idx, err)
			}

			res, err := svc.Create(ctx, raw)
			if errors.Is(err, service.ErrConflict) {
				report.Skipped++
				s.logger.DebugContext(ctx, "seed resource already exists, skipping",
					"collection", name, "id", raw.ID())
				continue
			}
			if err != nil {
				return nil, fmt.Errorf("collection %q entry %d: %w", name, idx, err)
			}

			report.Created++
			s.logger.DebugContext(ctx, "seeded resource", "collection", name, "id", res.ID())
		}
	}

	s.logger.InfoContext(ctx, "seed data loaded", "created", report.Created, "skipped", report.Skipped)
	return report, nil
}

// toResource はYAMLの値をJSONリクエストと同じ型に揃える
func toResource(entry map[string]any) (model.Resource, error) {
	buf, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	var res model.Resource
	if err := json.Unmarshal(buf, &res); err != nil {
		return nil, err
	}
	return res, nil
}
