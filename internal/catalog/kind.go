// Package catalog turns the backend's polymorphic page JSON into listings
// of media items and walks the category tree.
package catalog

import (
	"bytes"
	"encoding/json"
)

// Kind is the shape of a page node.
type Kind int

const (
	Unrecognized Kind = iota
	AssetWrapper
	CategoryWrapper
	Movie
	SeriesWithGroups
	SeriesWithCategoryID
	SeriesBare
	SportWithGroups
	SportBare
	Channel
)

var kindNames = [...]string{
	Unrecognized:         "unrecognized",
	AssetWrapper:         "asset-wrapper",
	CategoryWrapper:      "category-wrapper",
	Movie:                "movie",
	SeriesWithGroups:     "series-with-groups",
	SeriesWithCategoryID: "series-with-category-id",
	SeriesBare:           "series",
	SportWithGroups:      "sport-with-groups",
	SportBare:            "sport",
	Channel:              "channel",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Classify inspects the keys of a node once and reports its shape. The
// first matching rule wins: asset, category, type, channel.
func Classify(raw json.RawMessage) Kind {
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keys); err != nil {
		return Unrecognized
	}

	if truthy(keys["asset"]) {
		return AssetWrapper
	}
	if truthy(keys["category"]) {
		return CategoryWrapper
	}

	var typ string
	if t, ok := keys["type"]; ok {
		_ = json.Unmarshal(t, &typ)
	}
	switch typ {
	case "movie":
		return Movie
	case "series":
		switch {
		case truthy(keys["groups"]):
			return SeriesWithGroups
		case truthy(keys["categoryId"]):
			return SeriesWithCategoryID
		default:
			return SeriesBare
		}
	case "sport":
		if _, ok := keys["groups"]; ok {
			return SportWithGroups
		}
		return SportBare
	}

	if truthy(keys["channel"]) {
		return Channel
	}
	return Unrecognized
}

// truthy reports whether a JSON value is present and not empty, false,
// zero or null.
func truthy(raw json.RawMessage) bool {
	var buf bytes.Buffer
	if len(raw) == 0 || json.Compact(&buf, raw) != nil {
		return false
	}
	switch buf.String() {
	case "null", "false", "0", `""`, "[]", "{}":
		return false
	}
	return true
}
