package simplybook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"strizh/config"
)

// Client — минимальный JSON-RPC клиент SimplyBook: токен компании,
// справочники исполнителей и услуг, экспорт брони.
type Client struct {
	httpClient *http.Client
	baseURL    string
	company    string
	apiKey     string
	logger     *zap.Logger

	mu    sync.Mutex
	token string
}

type Unit struct {
	ID          int64  `json:"id,string"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsVisible   bool   `json:"is_visible"`
}

type Event struct {
	ID       int64   `json:"id,string"`
	Name     string  `json:"name"`
	Duration int     `json:"duration"`
	Price    float64 `json:"price"`
	IsActive bool    `json:"is_active"`
}

type BookingRequest struct {
	EventID     int64  `json:"event_id"`
	UnitID      int64  `json:"unit_id"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	ClientName  string `json:"client_name"`
	ClientPhone string `json:"client_phone"`
}

type rpcRequest struct {
	JSONRPC string        `json:"jsonrpc"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

func NewClient(cfg config.SimplyBookConfig, logger *zap.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.BaseURL,
		company:    cfg.Company,
		apiKey:     cfg.APIKey,
		logger:     logger,
	}
}

// Configured сообщает, заданы ли учетные данные компании.
func (c *Client) Configured() bool {
	return c.company != "" && c.apiKey != ""
}

func (c *Client) GetUnitList(ctx context.Context) ([]Unit, error) {
	raw, err := c.call(ctx, "getUnitList", nil)
	if err != nil {
		return nil, err
	}

	units := make(map[string]Unit)
	if err := json.Unmarshal(raw, &units); err != nil {
		return nil, fmt.Errorf("ошибка разбора списка исполнителей: %w", err)
	}

	result := make([]Unit, 0, len(units))
	for _, u := range units {
		result = append(result, u)
	}

	return result, nil
}

func (c *Client) GetEventList(ctx context.Context) ([]Event, error) {
	raw, err := c.call(ctx, "getEventList", nil)
	if err != nil {
		return nil, err
	}

	events := make(map[string]Event)
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, fmt.Errorf("ошибка разбора списка услуг: %w", err)
	}

	result := make([]Event, 0, len(events))
	for _, e := range events {
		result = append(result, e)
	}

	return result, nil
}

// Book отправляет запись в SimplyBook; возвращает внешний код брони.
func (c *Client) Book(ctx context.Context, req BookingRequest) (string, error) {
	raw, err := c.call(ctx, "book", []interface{}{
		req.EventID,
		req.UnitID,
		req.Date,
		req.Time,
		map[string]string{
			"name":  req.ClientName,
			"phone": req.ClientPhone,
		},
	})
	if err != nil {
		return "", err
	}

	var result struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return "", fmt.Errorf("ошибка разбора ответа брони: %w", err)
	}

	return result.Code, nil
}

func (c *Client) call(ctx context.Context, method string, params []interface{}) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, errors.New("клиент SimplyBook не настроен")
	}

	token, err := c.getToken(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := c.doRPC(ctx, "/"+c.company, method, params, map[string]string{
		"X-Company-Login": c.company,
		"X-Token":         token,
	})
	if err != nil {
		c.logger.Warn("ошибка вызова SimplyBook", zap.String("method", method), zap.Error(err))
	}
	return raw, err
}

// getToken запрашивает токен компании и кеширует его на время жизни клиента.
// При ошибке авторизации токен сбрасывается на следующем вызове.
func (c *Client) getToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" {
		return c.token, nil
	}

	raw, err := c.doRPC(ctx, "/login", "getToken", []interface{}{c.company, c.apiKey}, nil)
	if err != nil {
		return "", fmt.Errorf("ошибка получения токена SimplyBook: %w", err)
	}

	var token string
	if err := json.Unmarshal(raw, &token); err != nil {
		return "", fmt.Errorf("ошибка разбора токена SimplyBook: %w", err)
	}

	c.token = token
	return token, nil
}

func (c *Client) doRPC(ctx context.Context, path, method string, params []interface{}, headers map[string]string) (json.RawMessage, error) {
	if params == nil {
		params = []interface{}{}
	}

	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ошибка вызова SimplyBook: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("вызов SimplyBook",
		zap.String("method", method),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("SimplyBook вернул статус %d", resp.StatusCode)
	}

	var rpcResp rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("ошибка разбора ответа: %w", err)
	}

	if rpcResp.Error != nil {
		return nil, fmt.Errorf("ошибка SimplyBook: %s (код %d)", rpcResp.Error.Message, rpcResp.Error.Code)
	}

	return rpcResp.Result, nil
}
