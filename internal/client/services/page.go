package services

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dkovalev-net/vizlab/internal/client/models"
	"github.com/dkovalev-net/vizlab/internal/common"
)

// decodePage normalizes the two list shapes the backend produces — a
// {"items":[...],"total":n} envelope or a bare array — into one Page. Every
// list operation goes through this so callers only ever see the envelope.
func decodePage[T any](raw json.RawMessage) (models.Page[T], error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")

	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return models.Page[T]{}, fmt.Errorf("%w: %v", common.ErrorDecode, err)
		}
		return models.Page[T]{Items: items, Total: len(items)}, nil
	}

	var page models.Page[T]
	if err := json.Unmarshal(raw, &page); err != nil {
		return models.Page[T]{}, fmt.Errorf("%w: %v", common.ErrorDecode, err)
	}
	return page, nil
}
