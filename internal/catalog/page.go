package catalog

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2/log"
)

// NormalizePage extracts the node list from a fetched page. A page is
// either a bare list, an object with a result list, or a category whose
// groups are the nodes. Anything else yields false.
func NormalizePage(raw json.RawMessage) ([]json.RawMessage, bool) {
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, true
	}

	var page struct {
		Result   json.RawMessage `json:"result"`
		Category *struct {
			Groups json.RawMessage `json:"groups"`
		} `json:"category"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		log.Warnf("failed to parse page: %v", err)
		return nil, false
	}

	switch {
	case page.Result != nil:
		if err := json.Unmarshal(page.Result, &list); err == nil {
			return list, true
		}
	case page.Category != nil && truthy(page.Category.Groups):
		if err := json.Unmarshal(page.Category.Groups, &list); err == nil {
			return list, true
		}
	}

	log.Warnf("failed to parse page: unrecognised shape")
	return nil, false
}
