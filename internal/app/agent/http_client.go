package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/exp/slog"

	"storesync/internal/app/agent/config"
	"storesync/internal/domain/conflict"
	"storesync/internal/domain/rule"
	"storesync/internal/domain/user"
)

type httpClient struct {
	client    *http.Client
	config    *config.Config
	log       *slog.Logger
	baseURL   string
	token     string
	userAgent string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) (*httpClient, error) {
	client := &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			IdleConnTimeout:     90 * time.Second,
			MaxIdleConnsPerHost: 10,
		},
	}

	scheme := "http://"
	if cfg.EnableTLS {
		scheme = "https://"
	}

	return &httpClient{
		client:    client,
		config:    cfg,
		log:       log,
		baseURL:   scheme + cfg.ServerAddress,
		userAgent: "StoreSync-Agent/1.0",
	}, nil
}

// SetToken устанавливает токен аутентификации
func (h *httpClient) SetToken(token string) {
	h.token = token
}

// HealthCheck проверяет доступность сервера
func (h *httpClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", h.baseURL+"/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("User-Agent", h.userAgent)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("сервер недоступен: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("сервер вернул статус: %d", resp.StatusCode)
	}
	return nil
}

func (h *httpClient) Register(ctx context.Context, login, password string) (int64, error) {
	resp, err := h.doRequest(ctx, "POST", "/user/register", user.BaseRequest{Login: login, Password: password})
	if err != nil {
		return 0, err
	}

	var registerResp struct {
		ID     int64  `json:"user_id"`
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := h.parseResponse(resp, &registerResp); err != nil {
		return 0, err
	}
	if registerResp.Status != "Ok" {
		return 0, fmt.Errorf("регистрация отклонена: %s", registerResp.Error)
	}
	return registerResp.ID, nil
}

func (h *httpClient) Login(ctx context.Context, login, password string) (string, error) {
	resp, err := h.doRequest(ctx, "POST", "/user/login", user.BaseRequest{Login: login, Password: password})
	if err != nil {
		return "", err
	}

	var loginResp struct {
		Token  string `json:"token"`
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := h.parseResponse(resp, &loginResp); err != nil {
		return "", err
	}
	if loginResp.Status != "Ok" || loginResp.Token == "" {
		return "", fmt.Errorf("вход отклонен: %s", loginResp.Error)
	}
	return loginResp.Token, nil
}

// Detect отправляет синк-батч и возвращает итог обнаружения.
func (h *httpClient) Detect(ctx context.Context, batch conflict.DetectBatchRequest) (*conflict.DetectBatchResponse, error) {
	resp, err := h.doRequest(ctx, "POST", "/api/sync/detect", batch)
	if err != nil {
		return nil, err
	}

	var detectResp conflict.DetectBatchResponse
	if err := h.parseResponse(resp, &detectResp); err != nil {
		return nil, err
	}
	return &detectResp, nil
}

func (h *httpClient) ListConflicts(ctx context.Context, status string, limit, offset int) ([]conflict.Conflict, error) {
	path := fmt.Sprintf("/api/conflicts?limit=%d&offset=%d", limit, offset)
	if status != "" {
		path += "&status=" + status
	}

	resp, err := h.doRequest(ctx, "GET", path, nil)
	if err != nil {
		return nil, err
	}

	var listResp conflict.ListConflictsResponse
	if err := h.parseResponse(resp, &listResp); err != nil {
		return nil, err
	}
	if listResp.Status != "Ok" {
		return nil, fmt.Errorf("запрос отклонен: %s", listResp.Error)
	}
	return listResp.Data, nil
}

func (h *httpClient) GetConflict(ctx context.Context, id int64) (*conflict.Conflict, error) {
	resp, err := h.doRequest(ctx, "GET", fmt.Sprintf("/api/conflicts/%d", id), nil)
	if err != nil {
		return nil, err
	}

	var getResp conflict.GetConflictResponse
	if err := h.parseResponse(resp, &getResp); err != nil {
		return nil, err
	}
	if getResp.Status != "Ok" {
		return nil, fmt.Errorf("запрос отклонен: %s", getResp.Error)
	}
	return getResp.Data, nil
}

func (h *httpClient) Trail(ctx context.Context, id int64) (*conflict.TrailResponse, error) {
	resp, err := h.doRequest(ctx, "GET", fmt.Sprintf("/api/conflicts/%d/audit", id), nil)
	if err != nil {
		return nil, err
	}

	var trailResp conflict.TrailResponse
	if err := h.parseResponse(resp, &trailResp); err != nil {
		return nil, err
	}
	return &trailResp, nil
}

func (h *httpClient) ResolveConflict(ctx context.Context, id int64) (*conflict.ResolveResponse, error) {
	resp, err := h.doRequest(ctx, "POST", fmt.Sprintf("/api/conflicts/%d/resolve", id), nil)
	if err != nil {
		return nil, err
	}

	var resolveResp conflict.ResolveResponse
	if err := h.parseResponse(resp, &resolveResp); err != nil {
		return nil, err
	}
	return &resolveResp, nil
}

func (h *httpClient) IgnoreConflict(ctx context.Context, id int64, notes string) (*conflict.ResolveResponse, error) {
	body := map[string]string{}
	if notes != "" {
		body["notes"] = notes
	}

	resp, err := h.doRequest(ctx, "POST", fmt.Sprintf("/api/conflicts/%d/ignore", id), body)
	if err != nil {
		return nil, err
	}

	var ignoreResp conflict.ResolveResponse
	if err := h.parseResponse(resp, &ignoreResp); err != nil {
		return nil, err
	}
	return &ignoreResp, nil
}

func (h *httpClient) BulkResolve(ctx context.Context, ids []int64, resolutionType, notes string) (*conflict.CountResponse, error) {
	body := map[string]any{
		"conflict_ids":    ids,
		"resolution_type": resolutionType,
	}
	if notes != "" {
		body["notes"] = notes
	}

	resp, err := h.doRequest(ctx, "POST", "/api/conflicts/bulk-resolve", body)
	if err != nil {
		return nil, err
	}

	var bulkResp conflict.CountResponse
	if err := h.parseResponse(resp, &bulkResp); err != nil {
		return nil, err
	}
	return &bulkResp, nil
}

func (h *httpClient) Purge(ctx context.Context, olderThan time.Time) (*conflict.CountResponse, error) {
	resp, err := h.doRequest(ctx, "POST", "/api/conflicts/purge", map[string]any{"older_than": olderThan})
	if err != nil {
		return nil, err
	}

	var purgeResp conflict.CountResponse
	if err := h.parseResponse(resp, &purgeResp); err != nil {
		return nil, err
	}
	return &purgeResp, nil
}

func (h *httpClient) ListRules(ctx context.Context) ([]rule.Rule, error) {
	resp, err := h.doRequest(ctx, "GET", "/api/rules", nil)
	if err != nil {
		return nil, err
	}

	var listResp struct {
		Status string      `json:"status"`
		Error  string      `json:"error"`
		Data   []rule.Rule `json:"data"`
	}
	if err := h.parseResponse(resp, &listResp); err != nil {
		return nil, err
	}
	if listResp.Status != "Ok" {
		return nil, fmt.Errorf("запрос отклонен: %s", listResp.Error)
	}
	return listResp.Data, nil
}

func (h *httpClient) PutRule(ctx context.Context, entityType, property, resolutionType string) error {
	body := map[string]string{
		"entity_type":     entityType,
		"resolution_type": resolutionType,
	}
	if property != "" {
		body["property"] = property
	}

	resp, err := h.doRequest(ctx, "PUT", "/api/rules", body)
	if err != nil {
		return err
	}

	var putResp struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := h.parseResponse(resp, &putResp); err != nil {
		return err
	}
	if putResp.Status != "Ok" {
		return fmt.Errorf("правило отклонено: %s", putResp.Error)
	}
	return nil
}

func (h *httpClient) DeleteRule(ctx context.Context, entityType, property string) (bool, error) {
	path := "/api/rules?entity_type=" + entityType
	if property != "" {
		path += "&property=" + property
	}

	resp, err := h.doRequest(ctx, "DELETE", path, nil)
	if err != nil {
		return false, err
	}

	var deleteResp struct {
		Status  string `json:"status"`
		Error   string `json:"error"`
		Removed bool   `json:"removed"`
	}
	if err := h.parseResponse(resp, &deleteResp); err != nil {
		return false, err
	}
	if deleteResp.Status != "Ok" {
		return false, fmt.Errorf("запрос отклонен: %s", deleteResp.Error)
	}
	return deleteResp.Removed, nil
}

func (h *httpClient) ResetRules(ctx context.Context) error {
	resp, err := h.doRequest(ctx, "POST", "/api/rules/reset", nil)
	if err != nil {
		return err
	}

	var resetResp struct {
		Status string `json:"status"`
		Error  string `json:"error"`
	}
	if err := h.parseResponse(resp, &resetResp); err != nil {
		return err
	}
	if resetResp.Status != "Ok" {
		return fmt.Errorf("запрос отклонен: %s", resetResp.Error)
	}
	return nil
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("ошибка маршалинга тела запроса: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", h.userAgent)
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	h.log.Debug("Отправка запроса",
		"method", method,
		"url", req.URL.String(),
	)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка выполнения запроса: %w", err)
	}

	return resp, nil
}

func (h *httpClient) parseResponse(resp *http.Response, result interface{}) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	h.log.Debug("Получен ответ",
		"status", resp.StatusCode,
		"body", string(body),
	)

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
			return fmt.Errorf("ошибка сервера: %s", errResp.Error)
		}
		return fmt.Errorf("ошибка сервера: статус %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("ошибка парсинга ответа: %w", err)
		}
	}

	return nil
}
