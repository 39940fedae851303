package conflict

import (
	"context"
	"errors"
	"fmt"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"storesync/internal/app/server/api/http/middleware/auth"
	"storesync/internal/domain/conflict"
	"storesync/internal/domain/rule"
)

type Handler struct {
	service    conflict.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service conflict.Servicer, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.statsOp(), h.stats)
	huma.Register(api, h.bulkResolveOp(), h.bulkResolve)
	huma.Register(api, h.autoResolveOp(), h.autoResolve)
	huma.Register(api, h.purgeOp(), h.purge)
	huma.Register(api, h.getOp(), h.get)
	huma.Register(api, h.trailOp(), h.trail)
	huma.Register(api, h.resolveOp(), h.resolve)
	huma.Register(api, h.manualResolveOp(), h.manualResolve)
	huma.Register(api, h.ignoreOp(), h.ignore)
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	f := conflict.ListFilter{
		Limit:  input.Limit,
		Offset: input.Offset,
	}
	if input.Status != "" {
		st := conflict.Status(input.Status)
		f.Status = &st
	}
	if input.EntityType != "" {
		et := rule.EntityType(input.EntityType)
		f.EntityType = &et
	}
	if input.SyncBatchID != "" {
		f.SyncBatchID = &input.SyncBatchID
	}

	conflicts, err := h.service.List(ctx, f)
	if err != nil {
		return &listOutput{
			Body: conflict.ListConflictsResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	data := make([]conflict.Conflict, 0, len(conflicts))
	for _, c := range conflicts {
		data = append(data, *c)
	}

	return &listOutput{
		Body: conflict.ListConflictsResponse{Status: "Ok", Data: data},
	}, nil
}

func (h *Handler) get(ctx context.Context, input *getInput) (*getOutput, error) {
	c, err := h.service.GetByID(ctx, input.ID)
	if err != nil {
		return &getOutput{
			Body: conflict.GetConflictResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	return &getOutput{
		Body: conflict.GetConflictResponse{Status: "Ok", Data: c},
	}, nil
}

func (h *Handler) resolve(ctx context.Context, input *resolveInput) (*resolveOutput, error) {
	var userID *int64
	if id, ok := auth.GetUserID(ctx); ok {
		userID = &id
	}

	result, err := h.service.ResolveByID(ctx, input.ID, userID)
	if err != nil {
		return &resolveOutput{
			Body: conflict.ResolveResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	return &resolveOutput{Body: resolveResponse(result)}, nil
}

func (h *Handler) manualResolve(ctx context.Context, input *manualResolveInput) (*resolveOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return &resolveOutput{
			Body: conflict.ResolveResponse{Status: "Error", Error: "operator identity required"},
		}, nil
	}

	req := conflict.ManualResolveRequest{
		ConflictID:       input.ID,
		ResolvedSnapshot: input.Body.ResolvedSnapshot,
		ResolutionType:   rule.TypeManual,
		UserID:           userID,
	}
	if input.Body.ResolutionType != "" {
		req.ResolutionType = rule.ResolutionType(input.Body.ResolutionType)
	}
	if input.Body.Notes != "" {
		req.Notes = &input.Body.Notes
	}

	result, err := h.service.ManualResolve(ctx, req)
	if err != nil {
		return &resolveOutput{
			Body: conflict.ResolveResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	return &resolveOutput{Body: resolveResponse(result)}, nil
}

func (h *Handler) ignore(ctx context.Context, input *ignoreInput) (*resolveOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return &resolveOutput{
			Body: conflict.ResolveResponse{Status: "Error", Error: "operator identity required"},
		}, nil
	}

	var notes *string
	if input.Body.Notes != "" {
		notes = &input.Body.Notes
	}

	c, err := h.service.Ignore(ctx, input.ID, userID, notes)
	if err != nil {
		if errors.Is(err, conflict.ErrAlreadyTerminal) {
			return &resolveOutput{
				Body: conflict.ResolveResponse{
					Status:          "Ok",
					Message:         "conflict already finalized",
					AlreadyResolved: true,
					Data:            c,
				},
			}, nil
		}
		return &resolveOutput{
			Body: conflict.ResolveResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	return &resolveOutput{
		Body: conflict.ResolveResponse{Status: "Ok", Message: "conflict ignored", Data: c},
	}, nil
}

func (h *Handler) bulkResolve(ctx context.Context, input *bulkResolveInput) (*bulkResolveOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return &bulkResolveOutput{
			Body: conflict.CountResponse{Status: "Error", Error: "operator identity required"},
		}, nil
	}

	req := conflict.BulkResolveRequest{
		ConflictIDs:    input.Body.ConflictIDs,
		ResolutionType: rule.ResolutionType(input.Body.ResolutionType),
		UserID:         userID,
	}
	if input.Body.Notes != "" {
		req.Notes = &input.Body.Notes
	}

	count, err := h.service.BulkResolve(ctx, req)
	if err != nil {
		return &bulkResolveOutput{
			Body: conflict.CountResponse{Status: "Error", Error: err.Error(), Count: count},
		}, nil
	}

	return &bulkResolveOutput{
		Body: conflict.CountResponse{Status: "Ok", Count: count},
	}, nil
}

func (h *Handler) autoResolve(ctx context.Context, _ *autoResolveInput) (*autoResolveOutput, error) {
	count, err := h.service.AutoResolveAll(ctx)
	if err != nil {
		return &autoResolveOutput{
			Body: conflict.CountResponse{Status: "Error", Error: err.Error(), Count: count},
		}, nil
	}

	return &autoResolveOutput{
		Body: conflict.CountResponse{Status: "Ok", Count: count},
	}, nil
}

func (h *Handler) purge(ctx context.Context, input *purgeInput) (*purgeOutput, error) {
	count, err := h.service.PurgeResolved(ctx, input.Body.OlderThan)
	if err != nil {
		return &purgeOutput{
			Body: conflict.CountResponse{Status: "Error", Error: err.Error(), Count: count},
		}, nil
	}

	return &purgeOutput{
		Body: conflict.CountResponse{Status: "Ok", Count: count},
	}, nil
}

func (h *Handler) stats(ctx context.Context, _ *statsInput) (*statsOutput, error) {
	counts, err := h.service.CountByStatus(ctx)
	if err != nil {
		return &statsOutput{
			Body: conflict.StatsResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	return &statsOutput{
		Body: conflict.StatsResponse{Status: "Ok", Data: counts},
	}, nil
}

func (h *Handler) trail(ctx context.Context, input *trailInput) (*trailOutput, error) {
	entries, err := h.service.Trail(ctx, input.ID)
	if err != nil {
		return &trailOutput{
			Body: conflict.TrailResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	return &trailOutput{
		Body: conflict.TrailResponse{Status: "Ok", Data: entries},
	}, nil
}

func resolveResponse(result *conflict.ResolveResult) conflict.ResolveResponse {
	switch {
	case result.ManualRequired:
		return conflict.ResolveResponse{
			Status:         "Ok",
			Message:        "manual resolution required",
			ManualRequired: true,
			ManualFields:   result.ManualFields,
			Data:           result.Conflict,
		}
	case result.AlreadyResolved:
		return conflict.ResolveResponse{
			Status:          "Ok",
			Message:         "conflict already finalized",
			AlreadyResolved: true,
			Data:            result.Conflict,
		}
	default:
		return conflict.ResolveResponse{
			Status:  "Ok",
			Message: fmt.Sprintf("resolved with %s", *result.Conflict.ResolutionType),
			Data:    result.Conflict,
		}
	}
}
