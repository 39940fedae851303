package conflict

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (h *Handler) listOp() huma.Operation {
	return huma.Operation{
		OperationID: "conflicts-list",
		Method:      http.MethodGet,
		Path:        "/api/conflicts",
		Summary:     "Список конфликтов",
		Description: "Возвращает конфликты с фильтрами по статусу, типу сущности и синк-батчу",
		Tags:        []string{"conflicts"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) getOp() huma.Operation {
	return huma.Operation{
		OperationID: "conflicts-get",
		Method:      http.MethodGet,
		Path:        "/api/conflicts/{id}",
		Summary:     "Получить конфликт",
		Tags:        []string{"conflicts"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) resolveOp() huma.Operation {
	return huma.Operation{
		OperationID: "conflicts-resolve",
		Method:      http.MethodPost,
		Path:        "/api/conflicts/{id}/resolve",
		Summary:     "Разрешить конфликт по правилам",
		Description: "Применяет действующие правила разрешения; manual-правила возвращают manual_required",
		Tags:        []string{"conflicts"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) manualResolveOp() huma.Operation {
	return huma.Operation{
		OperationID: "conflicts-manual-resolve",
		Method:      http.MethodPost,
		Path:        "/api/conflicts/{id}/manual",
		Summary:     "Разрешить конфликт вручную",
		Description: "Принимает итоговую запись от оператора, минуя правила",
		Tags:        []string{"conflicts"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) ignoreOp() huma.Operation {
	return huma.Operation{
		OperationID: "conflicts-ignore",
		Method:      http.MethodPost,
		Path:        "/api/conflicts/{id}/ignore",
		Summary:     "Игнорировать конфликт",
		Description: "Переводит конфликт в ignored, каноническая запись не меняется",
		Tags:        []string{"conflicts"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) bulkResolveOp() huma.Operation {
	return huma.Operation{
		OperationID: "conflicts-bulk-resolve",
		Method:      http.MethodPost,
		Path:        "/api/conflicts/bulk-resolve",
		Summary:     "Массовое разрешение одной политикой",
		Tags:        []string{"conflicts"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) autoResolveOp() huma.Operation {
	return huma.Operation{
		OperationID: "conflicts-auto-resolve",
		Method:      http.MethodPost,
		Path:        "/api/conflicts/auto-resolve",
		Summary:     "Авторазрешение всех pending-конфликтов",
		Description: "Прогоняет все pending-конфликты через правила; manual-конфликты остаются в очереди",
		Tags:        []string{"conflicts"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) purgeOp() huma.Operation {
	return huma.Operation{
		OperationID: "conflicts-purge",
		Method:      http.MethodPost,
		Path:        "/api/conflicts/purge",
		Summary:     "Очистка терминальных конфликтов",
		Description: "Удаляет resolved и ignored конфликты старше границы; pending не трогает",
		Tags:        []string{"conflicts"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) statsOp() huma.Operation {
	return huma.Operation{
		OperationID: "conflicts-stats",
		Method:      http.MethodGet,
		Path:        "/api/conflicts/stats",
		Summary:     "Количество конфликтов по статусам",
		Tags:        []string{"conflicts"},
		Middlewares: h.middleware,
	}
}

func (h *Handler) trailOp() huma.Operation {
	return huma.Operation{
		OperationID: "conflicts-audit-trail",
		Method:      http.MethodGet,
		Path:        "/api/conflicts/{id}/audit",
		Summary:     "Аудит-след конфликта",
		Tags:        []string{"conflicts"},
		Middlewares: h.middleware,
	}
}
