package webhooks

import (
	"fmt"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	codigoA = "0f5f3c0e-5a4b-4b8e-9f0a-2d4f1c7e9b11"
	codigoB = "7d1e4a52-3c9f-4f0e-8b7a-1a2b3c4d5e6f"
)

func TestParsePixBatch_Shapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
	}{
		{"bare array", `[{"txid":"a","valor":"1.00"},{"txid":"b"}]`, []string{"a", "b"}},
		{"pix wrapper", `{"pix":[{"txid":"abc123","valor":"14.99","horario":"2026-10-19T12:00:00Z"}]}`, []string{"abc123"}},
		{"pixRecebidos wrapper", `{"pixRecebidos":[{"txid":"r1"}]}`, []string{"r1"}},
		{"single object", `{"txid":"solo","valor":2}`, []string{"solo"}},
		{"duplicates collapse", `{"pix":[{"txid":"a"},{"txid":"a"},{"txid":"b"}]}`, []string{"a", "b"}},
		{"missing txid skipped", `[{"valor":"1.00"},{"txid":" c "}]`, []string{"c"}},
		{"empty", `{"pix":[]}`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := parsePixBatch([]byte(tt.body))
			require.NoError(t, err)
			got := make([]string, 0, len(items))
			for _, n := range items {
				got = append(got, n.Txid)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParsePixBatch_ValueAndRaw(t *testing.T) {
	items, err := parsePixBatch([]byte(`{"pix":[{"txid":"abc123","valor":"14.99"},{"txid":"n","valor":7.5},{"txid":"bad","valor":"abc"}]}`))
	require.NoError(t, err)
	require.Len(t, items, 3)

	require.True(t, items[0].Valor.Valid)
	assert.True(t, items[0].Valor.Decimal.Equal(decimal.RequireFromString("14.99")))
	assert.JSONEq(t, `{"txid":"abc123","valor":"14.99"}`, string(items[0].Raw))

	require.True(t, items[1].Valor.Valid)
	assert.True(t, items[1].Valor.Decimal.Equal(decimal.RequireFromString("7.5")))

	assert.False(t, items[2].Valor.Valid)
}

func TestParsePixBatch_Invalid(t *testing.T) {
	_, err := parsePixBatch([]byte(`{"pix":[`))
	assert.Error(t, err)

	_, err = parsePixBatch([]byte(`"abc123"`))
	assert.ErrorIs(t, err, errUnsupportedShape)
}

func TestParseCobrancas_KnownShapes(t *testing.T) {
	flat, err := parseCobrancas([]byte(`{"codigoSolicitacao":"` + codigoA + `","situacao":"RECEBIDO","valorNominal":29.9}`))
	require.NoError(t, err)
	require.Len(t, flat, 1)
	assert.Equal(t, codigoA, flat[0].CodigoSolicitacao)
	assert.Equal(t, "RECEBIDO", flat[0].Situacao)
	assert.True(t, flat[0].Valor.Decimal.Equal(decimal.RequireFromString("29.9")))

	arr, err := parseCobrancas([]byte(`[{"codigoSolicitacao":"` + codigoA + `"},{"codigoSolicitacao":"` + codigoB + `","situacao":"ATRASADO"},{"codigoSolicitacao":"` + codigoA + `"}]`))
	require.NoError(t, err)
	require.Len(t, arr, 2)
	assert.Equal(t, codigoB, arr[1].CodigoSolicitacao)
	assert.Equal(t, "ATRASADO", arr[1].Situacao)

	wrapped, err := parseCobrancas([]byte(`{"cobranca":{"codigoSolicitacao":"` + codigoA + `","situacao":"PAGO","valorTotalRecebido":"10.00"}}`))
	require.NoError(t, err)
	require.Len(t, wrapped, 1)
	assert.Equal(t, "PAGO", wrapped[0].Situacao)
	assert.True(t, wrapped[0].Valor.Decimal.Equal(decimal.NewFromInt(10)))

	list, err := parseCobrancas([]byte(`{"cobrancas":[{"codigoSolicitacao":"` + codigoA + `"},{"codigoSolicitacao":"` + codigoB + `"}]}`))
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestParseCobrancas_WalkerPrefersKeyedValues(t *testing.T) {
	body := `{"evento":{"id":"` + codigoB + `","dados":{"boleto":{"codigoSolicitacao":"` + codigoA + `","situacao":"RECEBIDO"}}}}`
	items, err := parseCobrancas([]byte(body))
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, codigoA, items[0].CodigoSolicitacao)
	assert.Equal(t, "RECEBIDO", items[0].Situacao)
	assert.JSONEq(t, `{"codigoSolicitacao":"`+codigoA+`","situacao":"RECEBIDO"}`, string(items[0].Raw))
}

func TestParseCobrancas_WalkerFallsBackToUUIDs(t *testing.T) {
	body := `{"evento":{"refs":["not-a-uuid","` + strings.ToUpper(codigoB) + `"],"nested":{"x":"` + codigoA + `"}}}`
	items, err := parseCobrancas([]byte(body))
	require.NoError(t, err)
	require.Len(t, items, 2)

	got := []string{items[0].CodigoSolicitacao, items[1].CodigoSolicitacao}
	assert.ElementsMatch(t, []string{codigoA, codigoB}, got)
	assert.Empty(t, items[0].Situacao)
	assert.Equal(t, body, string(items[0].Raw))
}

func TestParseCobrancas_CodigoCaseIsNormalized(t *testing.T) {
	upper := strings.ToUpper(codigoA)

	keyed, err := parseCobrancas([]byte(`[{"codigoSolicitacao":"` + upper + `"},{"codigoSolicitacao":"` + codigoA + `"}]`))
	require.NoError(t, err)
	require.Len(t, keyed, 1)
	assert.Equal(t, codigoA, keyed[0].CodigoSolicitacao)

	walked, err := parseCobrancas([]byte(`{"evento":{"boleto":{"codigoSolicitacao":"` + upper + `"}}}`))
	require.NoError(t, err)
	require.Len(t, walked, 1)
	assert.Equal(t, codigoA, walked[0].CodigoSolicitacao)

	loose, err := parseCobrancas([]byte(`{"evento":{"ref":"` + upper + `"}}`))
	require.NoError(t, err)
	require.Len(t, loose, 1)
	assert.Equal(t, keyed[0].CodigoSolicitacao, loose[0].CodigoSolicitacao)

	opaque, err := parseCobrancas([]byte(`{"codigoSolicitacao":"INT-0042"}`))
	require.NoError(t, err)
	require.Len(t, opaque, 1)
	assert.Equal(t, "INT-0042", opaque[0].CodigoSolicitacao)
}

func TestWalkCobrancas_DepthLimit(t *testing.T) {
	nest := func(levels int) string {
		return strings.Repeat(`{"a":`, levels) + `"` + codigoA + `"` + strings.Repeat("}", levels)
	}

	items, err := parseCobrancas([]byte(nest(10)))
	require.NoError(t, err)
	assert.Len(t, items, 1)

	items, err = parseCobrancas([]byte(nest(walkMaxDepth + 4)))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestWalkCobrancas_NodeLimit(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`{"list":[`)
	for i := 0; i < walkMaxNodes+100; i++ {
		fmt.Fprintf(&sb, `"filler-%d",`, i)
	}
	sb.WriteString(`"` + codigoA + `"]}`)

	items, err := parseCobrancas([]byte(sb.String()))
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestAdvisedValue(t *testing.T) {
	assert.True(t, advisedValue([]byte(`"14.99"`)).Valid)
	assert.True(t, advisedValue([]byte(`14.99`)).Valid)
	assert.False(t, advisedValue(nil).Valid)
	assert.False(t, advisedValue([]byte(`null`)).Valid)
	assert.False(t, advisedValue([]byte(`""`)).Valid)
	assert.False(t, advisedValue([]byte(`"R$ 10"`)).Valid)
}
