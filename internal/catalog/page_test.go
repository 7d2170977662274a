package catalog

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePage(t *testing.T) {
	tests := []struct {
		name   string
		page   string
		want   []string
		wantOK bool
	}{
		{"bare list", `[{"id":"1"},{"id":"2"}]`, []string{`{"id":"1"}`, `{"id":"2"}`}, true},
		{"result object", `{"result":[{"id":"1"}],"total":1}`, []string{`{"id":"1"}`}, true},
		{"category groups", `{"category":{"title":"F1","groups":[{"id":"g1"}]}}`, []string{`{"id":"g1"}`}, true},
		{"empty groups", `{"category":{"groups":[]}}`, nil, false},
		{"other object", `{"items":[1]}`, nil, false},
		{"string", `"hello"`, nil, false},
		{"not json", `<html>`, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizePage(json.RawMessage(tt.page))
			require.Equal(t, tt.wantOK, ok)
			require.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.JSONEq(t, tt.want[i], string(got[i]))
			}
		})
	}
}

func TestNormalizePageKeepsResultUnchanged(t *testing.T) {
	inner := `[{"type":"movie","id":"1","title":"A"},{"type":"series","id":"2"}]`

	fromResult, ok := NormalizePage(json.RawMessage(`{"result":` + inner + `}`))
	require.True(t, ok)
	fromList, ok := NormalizePage(json.RawMessage(inner))
	require.True(t, ok)

	a, err := json.Marshal(fromResult)
	require.NoError(t, err)
	b, err := json.Marshal(fromList)
	require.NoError(t, err)
	assert.JSONEq(t, inner, string(a))
	assert.JSONEq(t, inner, string(b))
}
