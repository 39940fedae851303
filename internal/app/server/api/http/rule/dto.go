package rule

import "storesync/internal/domain/rule"

type listInput struct{}

type listOutput struct {
	Body ListRulesResponse
}

type ListRulesResponse struct {
	Status string      `json:"status"`
	Error  string      `json:"error,omitempty"`
	Data   []rule.Rule `json:"data,omitempty"`
}

type putInput struct {
	Body PutRuleRequest
}

// PutRuleRequest — правило разрешения: пустое property задает дефолт
// для всего типа сущности.
type PutRuleRequest struct {
	EntityType     string `json:"entity_type" minLength:"1" example:"Product"`
	Property       string `json:"property,omitempty" example:"price"`
	ResolutionType string `json:"resolution_type" enum:"local_wins,remote_wins,last_write_wins,merge,manual"`
}

type putOutput struct {
	Body RuleResponse
}

type RuleResponse struct {
	Status string     `json:"status"`
	Error  string     `json:"error,omitempty"`
	Data   *rule.Rule `json:"data,omitempty"`
}

type deleteInput struct {
	EntityType string `query:"entity_type" required:"true" minLength:"1"`
	Property   string `query:"property"`
}

type deleteOutput struct {
	Body DeleteRuleResponse
}

type DeleteRuleResponse struct {
	Status  string `json:"status"`
	Error   string `json:"error,omitempty"`
	Removed bool   `json:"removed"`
}

type resetInput struct{}

type resetOutput struct {
	Body ResetRulesResponse
}

type ResetRulesResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}
