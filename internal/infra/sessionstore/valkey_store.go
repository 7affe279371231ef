package sessionstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/bible-chat/internal/domain/chat"
)

// ValkeyStore persists conversation history in a Valkey-compatible database.
type ValkeyStore struct {
	client valkey.Client
	prefix string
}

// NewValkeyStore constructs a new store backed by Valkey.
func NewValkeyStore(client valkey.Client, prefix string) *ValkeyStore {
	if prefix == "" {
		prefix = "bible-chat"
	}
	return &ValkeyStore{client: client, prefix: prefix}
}

func (s *ValkeyStore) Load(ctx context.Context, sessionID string) ([]chat.Turn, bool, error) {
	cmd := s.client.B().Get().Key(s.sessionKey(sessionID)).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	var turns []chat.Turn
	if err := json.Unmarshal([]byte(payload), &turns); err != nil {
		return nil, false, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return turns, true, nil
}

func (s *ValkeyStore) Save(ctx context.Context, sessionID string, turns []chat.Turn, ttl time.Duration) error {
	payload, err := json.Marshal(turns)
	if err != nil {
		return err
	}
	builder := s.client.B().Set().Key(s.sessionKey(sessionID)).Value(string(payload))
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) Delete(ctx context.Context, sessionID string) error {
	return s.client.Do(ctx, s.client.B().Del().Key(s.sessionKey(sessionID)).Build()).Error()
}

func (s *ValkeyStore) sessionKey(sessionID string) string {
	return fmt.Sprintf("%s:session:%s", s.prefix, sessionID)
}

var _ chat.SessionStore = (*ValkeyStore)(nil)
