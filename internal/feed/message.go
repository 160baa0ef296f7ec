// Package feed delivers mesh snapshots and updates from a transport.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"meshview/internal/mesh"
)

var ErrCompressedUpdate = errors.New("compressed updates are not supported")

// Message is one decoded transport message. Exactly one of Load, Delta and
// Err is set.
type Message struct {
	Load  *mesh.Load
	Delta *mesh.Delta
	Err   error
}

// Source produces messages until its context is cancelled or its input
// ends.
type Source interface {
	Run(ctx context.Context, emit func(Message)) error
}

// Decode classifies and decodes one message. A normal_update key marks a
// delta; anything else is a full snapshot.
func Decode(data []byte) (Message, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return Message{}, fmt.Errorf("decode message: %w", err)
	}
	if _, ok := probe["compressed_update"]; ok {
		return Message{}, ErrCompressedUpdate
	}
	if _, ok := probe["normal_update"]; ok {
		var d mesh.Delta
		if err := json.Unmarshal(data, &d); err != nil {
			return Message{}, fmt.Errorf("decode update: %w", err)
		}
		return Message{Delta: &d}, nil
	}
	var l mesh.Load
	if err := json.Unmarshal(data, &l); err != nil {
		return Message{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return Message{Load: &l}, nil
}

type normalUpdate struct {
	NormalUpdate int `json:"normal_update"`
	*mesh.Delta
}

// Encode is the inverse of Decode.
func Encode(msg Message) ([]byte, error) {
	switch {
	case msg.Load != nil:
		return json.Marshal(msg.Load)
	case msg.Delta != nil:
		return json.Marshal(normalUpdate{NormalUpdate: 1, Delta: msg.Delta})
	}
	return nil, errors.New("encode: empty message")
}
