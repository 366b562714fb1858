package editsyncclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"transfer-cards-backend/lib/editsync"
)

// Client - http клиент синхронизации таблицы карты.
// Используется сеансом редактирования как источник и приемник
// авторитетного состояния.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type responseEnvelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type cardDataPayload struct {
	TableData []map[string]interface{} `json:"table_data"`
}

// GetCardData читает авторитетную таблицу строк карты
func (c *Client) GetCardData(ctx context.Context, cardID string) ([]map[string]interface{}, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/cards/%v/data", cardID), nil)
	if err != nil {
		return nil, err
	}
	payload := cardDataPayload{}
	if err = json.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrap(err, "ошибка разбора таблицы карты")
	}
	return payload.TableData, nil
}

// SaveCardData отправляет таблицу строк целиком
func (c *Client) SaveCardData(ctx context.Context, cardID string, tableData []map[string]interface{}) error {
	request := cardDataPayload{TableData: tableData}
	if tableData == nil {
		request.TableData = []map[string]interface{}{}
	}
	_, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/v1/cards/%v/data", cardID), request)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) (json.RawMessage, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	envelope := responseEnvelope{}
	if err = json.Unmarshal(raw, &envelope); err != nil {
		return nil, errors.Wrapf(err, "неожиданный ответ сервера (%v)", resp.StatusCode)
	}
	if envelope.Status != "success" {
		return nil, errors.Errorf("ошибка сервера: %v", envelope.Message)
	}
	return envelope.Data, nil
}

// FetchFunc адаптирует клиента к сеансу редактирования
func (c *Client) FetchFunc(cardID string) editsync.FetchFunc {
	return func(ctx context.Context) (editsync.Table, error) {
		rows, err := c.GetCardData(ctx, cardID)
		if err != nil {
			return nil, err
		}
		table := make(editsync.Table, 0, len(rows))
		for _, row := range rows {
			table = append(table, editsync.Row(row))
		}
		return table, nil
	}
}

// SaveFunc адаптирует клиента к сеансу редактирования
func (c *Client) SaveFunc(cardID string) editsync.SaveFunc {
	return func(ctx context.Context, table editsync.Table) error {
		rows := make([]map[string]interface{}, 0, len(table))
		for _, row := range table {
			rows = append(rows, map[string]interface{}(row))
		}
		return c.SaveCardData(ctx, cardID, rows)
	}
}
