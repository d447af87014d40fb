package gateway

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"flixcrd-backend/utils"
)

const interScopes = "cob.read boleto-cobranca.read"

type InterConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	CertFile     string
	KeyFile      string
	Timeout      time.Duration
	Client       *http.Client
}

type interToken struct {
	value     string
	expiresAt time.Time
}

func (t *interToken) valid(now time.Time) bool {
	return t != nil && t.value != "" && now.Add(time.Minute).Before(t.expiresAt)
}

// Inter talks to the Banco Inter PJ API. The OAuth token is cached in an
// atomic pointer; two goroutines refreshing at once both get a usable token
// and the last store wins.
type Inter struct {
	baseURL      string
	clientID     string
	clientSecret string
	httpClient   *http.Client
	token        atomic.Pointer[interToken]
	now          func() time.Time
}

func NewInter(cfg InterConfig) (*Inter, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("inter: base url is required")
	}

	client := cfg.Client
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		transport := http.DefaultTransport.(*http.Transport).Clone()
		if cfg.CertFile != "" && cfg.KeyFile != "" {
			cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
			if err != nil {
				return nil, fmt.Errorf("inter: load client certificate: %w", err)
			}
			transport.TLSClientConfig = &tls.Config{
				Certificates: []tls.Certificate{cert},
				MinVersion:   tls.VersionTLS12,
			}
		} else {
			utils.LogWarn("Inter client certificate not configured, mTLS disabled")
		}
		client = &http.Client{Timeout: timeout, Transport: transport}
	}

	return &Inter{
		baseURL:      cfg.BaseURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		httpClient:   client,
		now:          time.Now,
	}, nil
}

func (i *Inter) accessToken(ctx context.Context) (string, error) {
	current := i.token.Load()
	if current.valid(i.now()) {
		return current.value, nil
	}

	form := url.Values{}
	form.Set("client_id", i.clientID)
	form.Set("client_secret", i.clientSecret)
	form.Set("grant_type", "client_credentials")
	form.Set("scope", interScopes)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, joinURL(i.baseURL, "oauth", "v2", "token"), strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out struct {
		AccessToken string      `json:"access_token"`
		ExpiresIn   json.Number `json:"expires_in"`
	}
	if err := doJSON(i.httpClient, req, "inter", &out); err != nil {
		return "", fmt.Errorf("inter: oauth: %w", err)
	}
	if strings.TrimSpace(out.AccessToken) == "" {
		return "", fmt.Errorf("inter: oauth: empty access_token")
	}

	ttl := 55 * time.Minute
	if secs, err := out.ExpiresIn.Int64(); err == nil && secs > 0 {
		ttl = time.Duration(secs) * time.Second
	}
	fresh := &interToken{value: out.AccessToken, expiresAt: i.now().Add(ttl)}
	i.token.CompareAndSwap(current, fresh)
	return fresh.value, nil
}

// invalidate drops the cached token if it is still the one that failed.
func (i *Inter) invalidate(value string) {
	current := i.token.Load()
	if current != nil && current.value == value {
		i.token.CompareAndSwap(current, nil)
	}
}

func (i *Inter) get(ctx context.Context, out interface{}, parts ...string) error {
	token, err := i.accessToken(ctx)
	if err != nil {
		return err
	}

	escaped := make([]string, len(parts))
	for n, p := range parts {
		escaped[n] = url.PathEscape(p)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, joinURL(i.baseURL, escaped...), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)

	err = doJSON(i.httpClient, req, "inter", out)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
		i.invalidate(token)
	}
	return err
}

func (i *Inter) GetPixCob(ctx context.Context, txid string) (*PixCob, error) {
	var out PixCob
	if err := i.get(ctx, &out, "pix", "v2", "cob", txid); err != nil {
		return nil, err
	}
	return &out, nil
}

func (i *Inter) GetCobrancaDetalhe(ctx context.Context, codigoSolicitacao string) (*CobrancaDetalhe, error) {
	// v3 wraps the charge in {"cobranca": {...}}; older payloads are flat.
	var out struct {
		CobrancaDetalhe
		Cobranca *CobrancaDetalhe `json:"cobranca"`
	}
	if err := i.get(ctx, &out, "cobranca", "v3", "cobrancas", codigoSolicitacao); err != nil {
		return nil, err
	}
	if out.Cobranca != nil {
		return out.Cobranca, nil
	}
	return &out.CobrancaDetalhe, nil
}
