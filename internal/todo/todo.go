// Package todo defines the todo item model used throughout the application
// and the presence validation applied to incoming payloads.
package todo

import (
	"fmt"
	"sort"
	"time"

	"github.com/thoas/go-funk"
)

// Todo represents a single todo item owned by exactly one user.
// Every read and mutation of a Todo is scoped by OwnerID.
type Todo struct {
	// ID is the unique identifier of the item, meaning a UUID minted server-side.
	ID string `json:"id"`

	Title       string `json:"title"`
	Description string `json:"description"`

	// OwnerID is the identifier of the user who created the item. Immutable.
	OwnerID string `json:"ownerId"`

	// CreatedAt orders the owner's items for listing. Immutable.
	CreatedAt time.Time `json:"createdAt"`

	// LastUpdate is refreshed on every successful edit.
	LastUpdate time.Time `json:"lastUpdate"`
}

// Information is the client-supplied part of a todo item.
// Nil fields were absent from the request body; on edit an absent field
// preserves the stored value.
type Information struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// CollectAsStrings flattens the payload to a field-name-to-value mapping,
// with absent fields represented by empty strings.
func (i Information) CollectAsStrings() map[string]string {
	return map[string]string{
		"title":       stringOrEmpty(i.Title),
		"description": stringOrEmpty(i.Description),
	}
}

// CollectSuppliedAsStrings flattens only the fields that were present in
// the request body.
func (i Information) CollectSuppliedAsStrings() map[string]string {
	result := map[string]string{}
	if i.Title != nil {
		result["title"] = *i.Title
	}
	if i.Description != nil {
		result["description"] = *i.Description
	}

	return result
}

// CollectEmptyFields returns one human-readable message per field whose
// value is empty, in field-name order. An input with no empty values
// yields nil.
func CollectEmptyFields(entries map[string]string) []string {
	keys := funk.Keys(entries).([]string)
	sort.Strings(keys)

	var errs []string
	for _, key := range keys {
		if entries[key] == "" {
			errs = append(errs, fmt.Sprintf("%s is empty", key))
		}
	}

	return errs
}

func stringOrEmpty(value *string) string {
	if value == nil {
		return ""
	}

	return *value
}
