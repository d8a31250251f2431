package dataico

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// HTTPDoer permite inyectar un *http.Client o un doble de pruebas.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config parámetros de conexión. Se inyecta al construir el cliente.
type Config struct {
	BaseURL   string
	AuthToken string
	Timeout   time.Duration
}

// Client cliente REST de DataIco. No reintenta: el reenvío es una acción manual.
type Client struct {
	cfg  Config
	http HTTPDoer
	log  zerolog.Logger
}

// NewClient construye el cliente. Si doer es nil usa un http.Client con cfg.Timeout
// (60 s si no se indica; DataIco puede tardar mientras la DIAN valida).
func NewClient(cfg Config, doer HTTPDoer, log zerolog.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if doer == nil {
		doer = &http.Client{Timeout: cfg.Timeout}
	}
	return &Client{cfg: cfg, http: doer, log: log.With().Str("component", "dataico").Logger()}
}

// Submit envía el documento con POST {BaseURL}/{endpoint}.
func (c *Client) Submit(ctx context.Context, payload any, endpoint string) *Result {
	body, err := json.Marshal(payload)
	if err != nil {
		return &Result{Message: fmt.Sprintf("Error al serializar el documento: %v", err)}
	}
	url := fmt.Sprintf("%s/%s", c.cfg.BaseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &Result{Message: fmt.Sprintf("Error de conexión con el proveedor: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, body)
}

// Fetch consulta el estado vigente de un documento: GET {BaseURL}/{endpoint}/{uuid}.
func (c *Client) Fetch(ctx context.Context, endpoint, uuid string) *Result {
	url := fmt.Sprintf("%s/%s/%s", c.cfg.BaseURL, endpoint, uuid)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &Result{Message: fmt.Sprintf("Error de conexión con el proveedor: %v", err)}
	}
	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, payload []byte) *Result {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Auth-Token", c.cfg.AuthToken)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", req.Method).Str("url", req.URL.String()).Msg("fallo de transporte con DataIco")
		return &Result{Message: fmt.Sprintf("Error de conexión con el proveedor: %v", err)}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Result{StatusCode: resp.StatusCode, Message: fmt.Sprintf("Error de conexión con el proveedor: leer respuesta: %v", err)}
	}
	res := &Result{StatusCode: resp.StatusCode, RawBody: raw}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		parsed, err := parseResponse(raw)
		if err != nil {
			c.log.Warn().Err(err).Int("status", resp.StatusCode).Msg("respuesta de DataIco no es JSON válido")
		}
		res.Success = true
		res.Response = parsed
		return res
	}

	if resp.StatusCode >= 500 {
		c.log.Error().
			Int("status", resp.StatusCode).
			Str("url", req.URL.String()).
			RawJSON("payload", jsonOrNull(payload)).
			Str("response", string(raw)).
			Msg("error del servidor de DataIco")
	}
	res.Message, res.Errors = parseErrorBody(raw)
	return res
}

// parseResponse lee la respuesta; la consulta GET la envuelve en
// {"invoice": {...}} o {"credit_note": {...}}.
func parseResponse(raw []byte) (*Response, error) {
	out := &Response{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return out, nil
	}
	if !gjson.ValidBytes(raw) {
		return out, fmt.Errorf("cuerpo no JSON")
	}
	body := raw
	root := gjson.ParseBytes(raw)
	if !root.Get("dian_status").Exists() {
		for _, key := range []string{"invoice", "credit_note", "debit_note"} {
			if inner := root.Get(key); inner.IsObject() {
				body = []byte(inner.Raw)
				break
			}
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return out, err
	}
	return out, nil
}

func jsonOrNull(b []byte) []byte {
	if len(b) == 0 || !json.Valid(b) {
		return []byte("null")
	}
	return b
}
