package response

import "github.com/google/uuid"

// Query views already carry their JSON shape, so read endpoints return them
// as-is. These envelopes cover the write endpoints.

type ID struct {
	ID uuid.UUID `json:"id"`
}

type Message struct {
	Message string `json:"message"`
}

type List[T any] struct {
	Items []T `json:"items"`
	Count int `json:"count"`
}

func NewList[T any](items []T) List[T] {
	return List[T]{Items: items, Count: len(items)}
}
