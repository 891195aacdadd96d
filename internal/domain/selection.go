package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// RawSelection - выбранные нарушения в том виде, в котором они пришли из формы:
// числа, строки с числами, JSON-список или строка через запятую
type RawSelection []string

// UnmarshalJSON никогда не возвращает ошибку: неразбираемый ввод = пустой выбор
func (s *RawSelection) UnmarshalJSON(data []byte) error {
	if items, ok := decodeSelectionArray(data); ok {
		*s = items
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*s = splitSelection(str)
		return nil
	}

	*s = RawSelection{}
	return nil
}

// ParseSelection превращает сырой выбор в упорядоченный набор ID
// Некорректные элементы пропускаются поштучно и считаются в malformed.
// Повторы не имеют смысла: остается первое вхождение.
func ParseSelection(raw []string) (ids []int64, malformed int) {
	ids = make([]int64, 0, len(raw))
	seen := make(map[int64]struct{}, len(raw))

	for _, item := range raw {
		id, err := strconv.ParseInt(strings.TrimSpace(item), 10, 64)
		if err != nil || id <= 0 {
			malformed++
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	return ids, malformed
}

// ParseStoredSelection разбирает сохраненный выбор ("[1, 2]" или "1,2")
// Неразбираемая строка дает пустой выбор
func ParseStoredSelection(raw string) []int64 {
	ids, _ := ParseSelection(splitSelection(raw))
	return ids
}

func splitSelection(raw string) RawSelection {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return RawSelection{}
	}

	if strings.HasPrefix(raw, "[") {
		if items, ok := decodeSelectionArray([]byte(raw)); ok {
			return items
		}
		// Битый JSON не пытаемся чинить
		return RawSelection{}
	}

	return RawSelection(strings.Split(raw, ","))
}

func decodeSelectionArray(data []byte) (RawSelection, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var items []interface{}
	if err := dec.Decode(&items); err != nil {
		return nil, false
	}

	out := make(RawSelection, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case json.Number:
			out = append(out, v.String())
		case string:
			out = append(out, v)
		default:
			// null, bool, объекты - заведомо некорректный элемент
			out = append(out, "")
		}
	}
	return out, true
}
