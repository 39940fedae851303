package sync

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) detectOp() huma.Operation {
	return huma.Operation{
		OperationID: "sync-detect",
		Method:      http.MethodPost,
		Path:        "/api/sync/detect",
		Summary:     "Обнаружение конфликтов в синк-батче",
		Description: "Принимает пары снимков из синк-прохода магазина и фиксирует конфликты с расхождениями",
		Tags:        []string{"sync"},
		Middlewares: h.middleware,
	}
}
