package rule

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"storesync/internal/domain/rule"
)

type Handler struct {
	rules      *rule.Store
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(rules *rule.Store, log *slog.Logger, middleware huma.Middlewares) *Handler {
	return &Handler{
		rules:      rules,
		log:        log,
		middleware: middleware,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.listOp(), h.list)
	huma.Register(api, h.putOp(), h.put)
	huma.Register(api, h.deleteOp(), h.remove)
	huma.Register(api, h.resetOp(), h.reset)
}

func (h *Handler) list(_ context.Context, _ *listInput) (*listOutput, error) {
	return &listOutput{
		Body: ListRulesResponse{Status: "Ok", Data: h.rules.All()},
	}, nil
}

func (h *Handler) put(ctx context.Context, input *putInput) (*putOutput, error) {
	r := rule.Rule{
		EntityType: rule.EntityType(input.Body.EntityType),
		Property:   input.Body.Property,
		Type:       rule.ResolutionType(input.Body.ResolutionType),
	}

	if err := h.rules.AddOrUpdate(ctx, r); err != nil {
		return &putOutput{
			Body: RuleResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	stored := h.rules.ApplicableRule(r.EntityType, r.Property)
	return &putOutput{
		Body: RuleResponse{Status: "Ok", Data: &stored},
	}, nil
}

func (h *Handler) remove(ctx context.Context, input *deleteInput) (*deleteOutput, error) {
	removed, err := h.rules.Remove(ctx, rule.EntityType(input.EntityType), input.Property)
	if err != nil {
		return &deleteOutput{
			Body: DeleteRuleResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	return &deleteOutput{
		Body: DeleteRuleResponse{Status: "Ok", Removed: removed},
	}, nil
}

func (h *Handler) reset(ctx context.Context, _ *resetInput) (*resetOutput, error) {
	if err := h.rules.ResetToDefaults(ctx); err != nil {
		return &resetOutput{
			Body: ResetRulesResponse{Status: "Error", Error: err.Error()},
		}, nil
	}

	return &resetOutput{
		Body: ResetRulesResponse{Status: "Ok"},
	}, nil
}
