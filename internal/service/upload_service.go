// internal/service/upload_service.go
package service

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kiranalabs/restock/internal/domain"
	"github.com/kiranalabs/restock/internal/ingest"
	"github.com/kiranalabs/restock/internal/repository"
	"github.com/kiranalabs/restock/internal/storage"
)

// pipelineTimeout bounds the background forecast/reorder run triggered
// after a successful upload.
const pipelineTimeout = 2 * time.Minute

// PipelineRunner regenerates forecasts and recommendations for a store.
// The upload service triggers it asynchronously after ingestion.
type PipelineRunner interface {
	RunPipeline(ctx context.Context, storeID string, horizon int) error
}

// UploadService ingests sales spreadsheets: parse, resolve columns,
// normalize, persist, archive the raw file, then kick off the forecast
// pipeline in the background.
type UploadService struct {
	stores repository.StoreRepository
	skus   repository.SKURepository
	sales  repository.SalesRepository

	archive  storage.ObjectStorage
	pipeline PipelineRunner
}

func NewUploadService(
	stores repository.StoreRepository,
	skus repository.SKURepository,
	sales repository.SalesRepository,
	archive storage.ObjectStorage,
	pipeline PipelineRunner,
) *UploadService {
	if archive == nil {
		archive = storage.NewNoopStorage()
	}
	return &UploadService{
		stores:   stores,
		skus:     skus,
		sales:    sales,
		archive:  archive,
		pipeline: pipeline,
	}
}

// Process ingests one uploaded file. Row-level problems are reported in
// the result; only file-level problems (unreadable document, unmappable
// columns) come back as errors.
func (s *UploadService) Process(ctx context.Context, filename string, data []byte) (*domain.UploadReport, error) {
	uploadID := uuid.NewString()

	table, err := readTable(filename, data)
	if err != nil {
		return nil, err
	}

	resolution := ingest.ResolveColumns(table)
	if len(resolution.Missing) > 0 {
		return nil, missingColumnsError(resolution.Missing, table.Columns)
	}

	result := ingest.Normalize(table, resolution)

	report := &domain.UploadReport{
		UploadID:      uploadID,
		Success:       len(result.Records) > 0,
		RowsProcessed: len(result.Records),
		RowsFailed:    result.RowsFailed,
		Errors:        result.Errors,
		StoreID:       result.StoreID,
	}

	if len(result.Records) == 0 {
		return report, nil
	}

	storeIDs, err := s.persist(ctx, result.Records)
	if err != nil {
		return nil, err
	}

	s.archiveUpload(uploadID, filename, data)

	for _, storeID := range storeIDs {
		s.triggerPipeline(storeID)
	}

	log.Info().
		Str("upload_id", uploadID).
		Int("rows_processed", report.RowsProcessed).
		Int("rows_failed", report.RowsFailed).
		Msg("upload ingested")

	return report, nil
}

// persist writes the validated records store by store and returns the
// affected store ids.
func (s *UploadService) persist(ctx context.Context, records []domain.SalesRecord) ([]string, error) {
	byStore := make(map[string][]domain.SalesRecord)
	var order []string
	for _, rec := range records {
		if _, ok := byStore[rec.StoreID]; !ok {
			order = append(order, rec.StoreID)
		}
		byStore[rec.StoreID] = append(byStore[rec.StoreID], rec)
	}

	for _, storeID := range order {
		recs := byStore[storeID]

		store, err := s.stores.GetOrCreate(ctx, storeID, storeID)
		if err != nil {
			return nil, err
		}

		catalog, err := s.skus.EnsureMany(ctx, store.ID, recs)
		if err != nil {
			return nil, err
		}

		txs := make([]domain.SalesTransaction, 0, len(recs))
		for _, rec := range recs {
			sku, ok := catalog[rec.SKUID]
			if !ok {
				return nil, fmt.Errorf("sku %s missing after upsert", rec.SKUID)
			}
			txs = append(txs, domain.SalesTransaction{
				StoreID:   store.ID,
				SKUID:     sku.ID,
				Date:      rec.Date,
				UnitsSold: rec.UnitsSold,
				Price:     rec.Price,
				Discount:  rec.Discount,
			})
		}

		if err := s.sales.ReplaceWindow(ctx, store.ID, txs); err != nil {
			return nil, err
		}
	}

	return order, nil
}

// archiveUpload stores the raw file for audit. Best-effort: a storage
// failure is logged and forgotten.
func (s *UploadService) archiveUpload(uploadID, filename string, data []byte) {
	key := fmt.Sprintf("uploads/%s/%s", uploadID, filepath.Base(filename))
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.archive.UploadObject(ctx, key, data, contentTypeFor(filename)); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("upload archive failed")
		}
	}()
}

// ListArchived returns metadata for the archived upload files.
func (s *UploadService) ListArchived(ctx context.Context) ([]storage.ObjectInfo, error) {
	return s.archive.ListObjects(ctx, "uploads/")
}

// triggerPipeline regenerates forecasts and recommendations off the
// request path. The upload response never waits for model fitting.
func (s *UploadService) triggerPipeline(storeID string) {
	if s.pipeline == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), pipelineTimeout)
		defer cancel()
		if err := s.pipeline.RunPipeline(ctx, storeID, 0); err != nil {
			log.Warn().Err(err).Str("store", storeID).Msg("post-upload pipeline failed")
		}
	}()
}

// contentTypeFor maps an upload's extension to the archived object's
// content type.
func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return "text/csv"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

func readTable(filename string, data []byte) (*ingest.Table, error) {
	if strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return ingest.ReadXLSX(bytes.NewReader(data))
	}
	return ingest.ReadCSV(bytes.NewReader(data))
}

// missingColumnsError names each unresolvable field and the headers we
// would have accepted for it, so the store owner can fix the sheet.
func missingColumnsError(missing []string, columns []string) error {
	var parts []string
	for _, field := range missing {
		aliases := ingest.FieldAliases(field)
		if len(aliases) > 5 {
			aliases = aliases[:5]
		}
		parts = append(parts, fmt.Sprintf("%s (accepted headers: %s)", field, strings.Join(aliases, ", ")))
	}
	return fmt.Errorf("could not identify required columns: %s; found columns: %s",
		strings.Join(parts, "; "), strings.Join(columns, ", "))
}
