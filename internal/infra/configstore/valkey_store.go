package configstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/seasonal-tarot/internal/domain/gateway"
)

// ValkeyStore persists gateway settings in a Valkey-compatible database so an
// operator supplied key survives restarts.
type ValkeyStore struct {
	client valkey.Client
	prefix string
	sealer *Sealer
}

type record struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	APIKey   string `json:"apiKey"`
	Sealed   bool   `json:"sealed"`
}

// NewValkeyStore constructs a new store backed by Valkey. sealer may be nil.
func NewValkeyStore(client valkey.Client, prefix string, sealer *Sealer) *ValkeyStore {
	if prefix == "" {
		prefix = "tarot"
	}
	return &ValkeyStore{client: client, prefix: prefix, sealer: sealer}
}

func (s *ValkeyStore) Load(ctx context.Context) (gateway.StoredSettings, bool, error) {
	cmd := s.client.B().Get().Key(s.settingsKey()).Build()
	payload, err := s.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return gateway.StoredSettings{}, false, nil
		}
		return gateway.StoredSettings{}, false, err
	}
	settings, err := decodeRecord([]byte(payload), s.sealer)
	if err != nil {
		return gateway.StoredSettings{}, false, err
	}
	return settings, true, nil
}

func (s *ValkeyStore) Save(ctx context.Context, settings gateway.StoredSettings) error {
	payload, err := encodeRecord(settings, s.sealer)
	if err != nil {
		return err
	}
	cmd := s.client.B().Set().Key(s.settingsKey()).Value(string(payload)).Build()
	return s.client.Do(ctx, cmd).Error()
}

func (s *ValkeyStore) settingsKey() string {
	return fmt.Sprintf("%s:gateway:settings", s.prefix)
}

func encodeRecord(settings gateway.StoredSettings, sealer *Sealer) ([]byte, error) {
	key, err := sealer.Seal(settings.APIKey)
	if err != nil {
		return nil, err
	}
	return json.Marshal(record{
		Provider: settings.Provider,
		Model:    settings.Model,
		APIKey:   key,
		Sealed:   sealer.Enabled(),
	})
}

func decodeRecord(payload []byte, sealer *Sealer) (gateway.StoredSettings, error) {
	var rec record
	if err := json.Unmarshal(payload, &rec); err != nil {
		return gateway.StoredSettings{}, fmt.Errorf("decode stored settings: %w", err)
	}
	key := rec.APIKey
	if rec.Sealed {
		if !sealer.Enabled() {
			return gateway.StoredSettings{}, fmt.Errorf("stored api key is sealed but no encryption key is configured")
		}
		opened, err := sealer.Open(rec.APIKey)
		if err != nil {
			return gateway.StoredSettings{}, err
		}
		key = opened
	}
	return gateway.StoredSettings{Provider: rec.Provider, APIKey: key, Model: rec.Model}, nil
}

var _ gateway.Store = (*ValkeyStore)(nil)
