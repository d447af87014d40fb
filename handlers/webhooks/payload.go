package webhooks

import (
	"bytes"
	"encoding/json"
	"errors"
	"sort"
	"strings"

	"flixcrd-backend/billing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	walkMaxDepth = 16
	walkMaxNodes = 5000
)

var errUnsupportedShape = errors.New("unsupported payload shape")

// advisedValue reads a webhook-advised amount given as a JSON number or a
// numeric string. Anything else is treated as absent.
func advisedValue(raw json.RawMessage) decimal.NullDecimal {
	s := strings.TrimSpace(string(raw))
	s = strings.Trim(s, `"`)
	if s == "" || s == "null" {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

func decodeTree(body []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var root interface{}
	if err := dec.Decode(&root); err != nil {
		return nil, err
	}
	return root, nil
}

// treeValue converts a value decoded by decodeTree back into raw JSON.
func treeValue(v interface{}) json.RawMessage {
	switch t := v.(type) {
	case nil:
		return nil
	case json.Number:
		return json.RawMessage(t.String())
	case string:
		return json.RawMessage(`"` + t + `"`)
	default:
		return nil
	}
}

func stringField(node map[string]interface{}, key string) string {
	s, _ := node[key].(string)
	return strings.TrimSpace(s)
}

func objects(v interface{}) []map[string]interface{} {
	arr, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(arr))
	for _, item := range arr {
		if m, ok := item.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}

// parsePixBatch accepts a bare array, {"pix": [...]} or {"pixRecebidos": [...]}.
// A single object carrying a txid is treated as a batch of one.
func parsePixBatch(body []byte) ([]billing.PixNotification, error) {
	root, err := decodeTree(body)
	if err != nil {
		return nil, err
	}

	var items []map[string]interface{}
	switch v := root.(type) {
	case []interface{}:
		items = objects(v)
	case map[string]interface{}:
		items = append(objects(v["pix"]), objects(v["pixRecebidos"])...)
		if len(items) == 0 && stringField(v, "txid") != "" {
			items = []map[string]interface{}{v}
		}
	default:
		return nil, errUnsupportedShape
	}

	seen := make(map[string]bool, len(items))
	out := make([]billing.PixNotification, 0, len(items))
	for _, item := range items {
		txid := stringField(item, "txid")
		if txid == "" || seen[txid] {
			continue
		}
		seen[txid] = true
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		out = append(out, billing.PixNotification{
			Txid:  txid,
			Valor: advisedValue(treeValue(item["valor"])),
			Raw:   raw,
		})
	}
	return out, nil
}

// cobrancaRef is a codigoSolicitacao plus the object it was found in, when known.
type cobrancaRef struct {
	codigo string
	node   map[string]interface{}
}

// parseCobrancas extracts every codigoSolicitacao of an Inter boleto webhook.
// Known shapes are read directly; anything else goes through the bounded walker.
func parseCobrancas(body []byte) ([]billing.CobrancaNotification, error) {
	root, err := decodeTree(body)
	if err != nil {
		return nil, err
	}

	refs := knownCobrancaShapes(root)
	if len(refs) == 0 {
		refs = walkCobrancas(root)
	}

	seen := make(map[string]bool, len(refs))
	out := make([]billing.CobrancaNotification, 0, len(refs))
	for _, ref := range refs {
		if seen[ref.codigo] {
			continue
		}
		seen[ref.codigo] = true

		n := billing.CobrancaNotification{CodigoSolicitacao: ref.codigo, Raw: body}
		if ref.node != nil {
			n.Situacao = stringField(ref.node, "situacao")
			for _, key := range []string{"valorNominal", "valorTotalRecebido", "valor"} {
				if v := advisedValue(treeValue(ref.node[key])); v.Valid {
					n.Valor = v
					break
				}
			}
			if raw, err := json.Marshal(ref.node); err == nil {
				n.Raw = raw
			}
		}
		out = append(out, n)
	}
	return out, nil
}

func knownCobrancaShapes(root interface{}) []cobrancaRef {
	var candidates []map[string]interface{}
	switch v := root.(type) {
	case []interface{}:
		candidates = objects(v)
	case map[string]interface{}:
		if stringField(v, "codigoSolicitacao") != "" {
			candidates = []map[string]interface{}{v}
			break
		}
		if nested, ok := v["cobranca"].(map[string]interface{}); ok {
			candidates = append(candidates, nested)
		}
		candidates = append(candidates, objects(v["cobrancas"])...)
	}

	var refs []cobrancaRef
	for _, c := range candidates {
		if codigo := normalizeCodigo(stringField(c, "codigoSolicitacao")); codigo != "" {
			refs = append(refs, cobrancaRef{codigo: codigo, node: c})
		}
	}
	return refs
}

func isUUID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}

// normalizeCodigo lowercases UUID-shaped codes, the form Inter issues them
// in. Other codes are kept as sent.
func normalizeCodigo(s string) string {
	if isUUID(s) {
		return strings.ToLower(s)
	}
	return s
}

type walkEntry struct {
	value interface{}
	depth int
}

// walkCobrancas is the last-resort scan for unknown shapes. It stops at
// walkMaxDepth levels and walkMaxNodes visited values. Values under a
// codigoSolicitacao key win; loose UUID-shaped strings are used only when
// no such key exists anywhere in the visited part of the tree.
func walkCobrancas(root interface{}) []cobrancaRef {
	var keyed, loose []cobrancaRef
	stack := []walkEntry{{value: root}}
	visited := 0

	for len(stack) > 0 && visited < walkMaxNodes {
		entry := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visited++

		switch v := entry.value.(type) {
		case map[string]interface{}:
			if codigo := normalizeCodigo(stringField(v, "codigoSolicitacao")); codigo != "" {
				keyed = append(keyed, cobrancaRef{codigo: codigo, node: v})
			}
			if entry.depth >= walkMaxDepth {
				continue
			}
			keys := make([]string, 0, len(v))
			for k := range v {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for i := len(keys) - 1; i >= 0; i-- {
				stack = append(stack, walkEntry{value: v[keys[i]], depth: entry.depth + 1})
			}
		case []interface{}:
			if entry.depth >= walkMaxDepth {
				continue
			}
			for i := len(v) - 1; i >= 0; i-- {
				stack = append(stack, walkEntry{value: v[i], depth: entry.depth + 1})
			}
		case string:
			if s := strings.TrimSpace(v); isUUID(s) {
				loose = append(loose, cobrancaRef{codigo: normalizeCodigo(s)})
			}
		}
	}

	if len(keyed) > 0 {
		return keyed
	}
	return loose
}
