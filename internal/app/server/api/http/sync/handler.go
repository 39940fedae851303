package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"storesync/internal/domain/conflict"
	"storesync/internal/domain/entity"
	"storesync/internal/domain/rule"
)

// Handler принимает синк-батчи от магазинов и прогоняет каждую пару
// снимков через движок обнаружения конфликтов.
type Handler struct {
	service    conflict.Servicer
	entities   entity.Store
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service conflict.Servicer, entities entity.Store, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		entities:   entities,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.detectOp(), h.detect)
}

func (h *Handler) detect(ctx context.Context, input *detectInput) (*detectOutput, error) {
	resp := conflict.DetectBatchResponse{Status: "Ok"}

	var batchID *string
	if input.Body.SyncBatchID != "" {
		batchID = &input.Body.SyncBatchID
	}

	for i, item := range input.Body.Items {
		c, err := h.detectItem(ctx, item, batchID)
		if err != nil {
			resp.Failed++
			resp.FailErrors = append(resp.FailErrors, fmt.Sprintf("item %d (%s/%s): %v", i, item.EntityType, item.EntityID, err))
			continue
		}
		if c == nil {
			resp.InSync++
			continue
		}
		resp.Detected++
		resp.Conflicts = append(resp.Conflicts, c.ID)
	}

	if resp.Failed > 0 {
		resp.Status = "Error"
		resp.Error = fmt.Sprintf("%d of %d items failed", resp.Failed, len(input.Body.Items))
	}

	return &detectOutput{Body: resp}, nil
}

// detectItem дополняет пару канонической записью, если магазин не прислал
// удаленную сторону, и отдает ее движку. Нет канонической записи — локальный
// снимок принимается как новая каноническая, конфликта нет.
func (h *Handler) detectItem(ctx context.Context, item conflict.DetectItem, batchID *string) (*conflict.Conflict, error) {
	entityType := rule.EntityType(item.EntityType)

	remote := item.RemoteSnapshot
	remoteTS := time.Time{}
	if item.RemoteTimestamp != nil {
		remoteTS = *item.RemoteTimestamp
	}

	if remote == nil {
		snapshot, updatedAt, err := h.entities.Get(ctx, entityType, item.EntityID)
		if err != nil {
			if errors.Is(err, entity.ErrNotFound) {
				if err := h.entities.Replace(ctx, entityType, item.EntityID, item.LocalSnapshot); err != nil {
					return nil, fmt.Errorf("store new entity: %w", err)
				}
				return nil, nil
			}
			return nil, fmt.Errorf("load canonical entity: %w", err)
		}
		remote = snapshot
		remoteTS = updatedAt
	}

	return h.service.Detect(ctx, conflict.DetectRequest{
		EntityType:      entityType,
		EntityID:        item.EntityID,
		LocalSnapshot:   item.LocalSnapshot,
		RemoteSnapshot:  remote,
		LocalTimestamp:  item.LocalTimestamp,
		RemoteTimestamp: remoteTS,
		SyncBatchID:     batchID,
	})
}
