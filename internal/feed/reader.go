package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"meshview/internal/mesh"
)

// Reader replays a stream of concatenated JSON messages, typically a
// recorded relay session. Pace is the delay between messages.
type Reader struct {
	R    io.Reader
	Pace time.Duration
}

func (r *Reader) Run(ctx context.Context, emit func(Message)) error {
	dec := json.NewDecoder(r.R)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		var raw json.RawMessage
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read feed: %w", err)
		}
		msg, err := Decode(raw)
		if err != nil {
			emit(Message{Err: err})
			continue
		}
		emit(msg)
		if r.Pace > 0 && !sleep(ctx, r.Pace) {
			return ctx.Err()
		}
	}
}

// ReadFile loads a snapshot from disk, in blueprint or legacy layout.
func ReadFile(path string) (*mesh.Load, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseSnapshot(data)
}

// ParseSnapshot accepts a blueprint snapshot or a legacy coord/zones
// document.
func ParseSnapshot(data []byte) (*mesh.Load, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, err
	}
	if _, ok := probe["coordsets"]; ok {
		msg, err := Decode(data)
		if err != nil {
			return nil, err
		}
		if msg.Load == nil {
			return nil, errors.New("snapshot file holds an update")
		}
		return msg.Load, nil
	}
	if _, ok := probe["zones"]; ok {
		return ConvertLegacy(data)
	}
	return nil, errors.New("not a mesh snapshot")
}
