package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"flixcrd-backend/utils"
)

type AsaasConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	Client  *http.Client
}

type Asaas struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewAsaas(cfg AsaasConfig) (*Asaas, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("asaas: base url is required")
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		utils.LogWarn("Asaas API key not configured, payment verification will fail")
	}
	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Asaas{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		httpClient: client,
	}, nil
}

func (a *Asaas) newRequest(ctx context.Context, parts ...string) (*http.Request, error) {
	escaped := make([]string, len(parts))
	for i, p := range parts {
		escaped[i] = url.PathEscape(p)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, joinURL(a.baseURL, escaped...), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("access_token", a.apiKey)
	req.Header.Set("User-Agent", "flixcrd-backend")
	return req, nil
}

func (a *Asaas) GetPayment(ctx context.Context, id string) (*PaymentDetail, error) {
	req, err := a.newRequest(ctx, "v3", "payments", id)
	if err != nil {
		return nil, err
	}
	var out PaymentDetail
	if err := doJSON(a.httpClient, req, "asaas", &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("asaas: payment %s: empty response", id)
	}
	return &out, nil
}

func (a *Asaas) GetPixQrCode(ctx context.Context, id string) (*PixQrCode, error) {
	req, err := a.newRequest(ctx, "v3", "payments", id, "pixQrCode")
	if err != nil {
		return nil, err
	}
	var out PixQrCode
	if err := doJSON(a.httpClient, req, "asaas", &out); err != nil {
		return nil, err
	}
	return &out, nil
}
