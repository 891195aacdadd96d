package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawSelection_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected RawSelection
	}{
		{"массив чисел", `[1, 2, 3]`, RawSelection{"1", "2", "3"}},
		{"массив строк", `["4", "5"]`, RawSelection{"4", "5"}},
		{"смешанный массив", `[1, "2", null, true]`, RawSelection{"1", "2", "", ""}},
		{"JSON в строке", `"[7, 8]"`, RawSelection{"7", "8"}},
		{"строка через запятую", `"7, 8,9"`, RawSelection{"7", " 8", "9"}},
		{"пустая строка", `""`, RawSelection{}},
		{"битый JSON в строке", `"[1, 2"`, RawSelection{}},
		{"объект", `{"a": 1}`, RawSelection{}},
		{"число", `42`, RawSelection{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var payload struct {
				Selected RawSelection `json:"selected"`
			}
			err := json.Unmarshal([]byte(`{"selected": `+tt.input+`}`), &payload)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, payload.Selected)
		})
	}
}

func TestParseSelection(t *testing.T) {
	tests := []struct {
		name              string
		raw               []string
		expectedIDs       []int64
		expectedMalformed int
	}{
		{"корректные", []string{"1", "2", "3"}, []int64{1, 2, 3}, 0},
		{"пробелы", []string{" 1 ", "2"}, []int64{1, 2}, 0},
		{"мусор пропускается поштучно", []string{"1", "abc", "3"}, []int64{1, 3}, 1},
		{"ноль и отрицательные", []string{"0", "-5", "6"}, []int64{6}, 2},
		{"дробные", []string{"1.5", "2"}, []int64{2}, 1},
		{"повторы", []string{"3", "1", "3"}, []int64{3, 1}, 0},
		{"пустой", nil, []int64{}, 0},
		{"пустые элементы", []string{"", " "}, []int64{}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, malformed := ParseSelection(tt.raw)

			assert.Equal(t, tt.expectedIDs, ids)
			assert.Equal(t, tt.expectedMalformed, malformed)
		})
	}
}

func TestParseStoredSelection(t *testing.T) {
	assert.Equal(t, []int64{1, 2}, ParseStoredSelection("[1, 2]"))
	assert.Equal(t, []int64{1, 2}, ParseStoredSelection(`["1","2"]`))
	assert.Equal(t, []int64{4, 5}, ParseStoredSelection("4,5"))
	assert.Equal(t, []int64{}, ParseStoredSelection(""))
	assert.Equal(t, []int64{}, ParseStoredSelection("[1,"))
	assert.Equal(t, []int64{}, ParseStoredSelection("garbage"))
}
