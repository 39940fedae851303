package rule

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "rules-list",
		Method:      http.MethodGet,
		Path:        "/api/rules",
		Summary:     "Список правил разрешения",
		Tags:        []string{"rules"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) putOp() huma.Operation {
	return huma.Operation{
		OperationID: "rules-put",
		Method:      http.MethodPut,
		Path:        "/api/rules",
		Summary:     "Создать или обновить правило",
		Description: "Правило для свойства перекрывает дефолт типа сущности, тот — глобальный last_write_wins",
		Tags:        []string{"rules"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) deleteOp() huma.Operation {
	return huma.Operation{
		OperationID: "rules-delete",
		Method:      http.MethodDelete,
		Path:        "/api/rules",
		Summary:     "Удалить правило",
		Tags:        []string{"rules"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) resetOp() huma.Operation {
	return huma.Operation{
		OperationID: "rules-reset",
		Method:      http.MethodPost,
		Path:        "/api/rules/reset",
		Summary:     "Сбросить все правила",
		Description: "Удаляет все настроенные правила, остается глобальный last_write_wins",
		Tags:        []string{"rules"},
		Middlewares: h.middleware,
	}
}
