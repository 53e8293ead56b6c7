package bridge

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/feedmill/mdbridge/dict"
	"github.com/feedmill/mdbridge/wire"
)

const (
	defaultPassThroughOffset = 5000
	defaultKafkaTopic        = "mdbridge.books"
)

// Config keeps the runtime configuration for the bridge.
type Config struct {
	// WireDictPath locates the vendor field dictionary file.
	WireDictPath string

	// FieldMapPath locates the user-supplied field-map table.
	FieldMapPath string

	// PassThrough translates wire fields absent from the field map using
	// auto-assigned normalized ids.
	PassThrough bool

	// PassThroughOffset is the first auto-assigned normalized id.
	PassThroughOffset uint16

	Kafka KafkaConfig
}

// KafkaConfig stores publish transport parameters.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// LoadConfig builds Config from environment variables.
func LoadConfig() (*Config, error) {
	dictPath := getString("MDB_WIRE_DICT", "")
	if dictPath == "" {
		return nil, fmt.Errorf("MDB_WIRE_DICT is required")
	}

	mapPath := getString("MDB_FIELD_MAP", "")
	if mapPath == "" {
		return nil, fmt.Errorf("MDB_FIELD_MAP is required")
	}

	offset, err := getInt("MDB_PASS_THROUGH_OFFSET", defaultPassThroughOffset)
	if err != nil {
		return nil, err
	}
	if offset < 0 || offset > wire.MaxFID {
		return nil, fmt.Errorf("MDB_PASS_THROUGH_OFFSET out of range: %d", offset)
	}

	cfg := &Config{
		WireDictPath:      dictPath,
		FieldMapPath:      mapPath,
		PassThrough:       getBool("MDB_PASS_THROUGH", false),
		PassThroughOffset: uint16(offset),
		Kafka: KafkaConfig{
			Brokers: splitList(getString("MDB_KAFKA_BROKERS", "")),
			Topic:   getString("MDB_KAFKA_TOPIC", defaultKafkaTopic),
		},
	}

	return cfg, nil
}

// LoadDictionary reads the configured dictionary files and builds the merged
// field dictionary against the given normalized schema.
func LoadDictionary(cfg *Config, schema map[string]uint16) (*dict.FieldDictionary, error) {
	df, err := os.Open(cfg.WireDictPath)
	if err != nil {
		return nil, fmt.Errorf("open wire dictionary: %w", err)
	}
	defer df.Close()

	wireDict, err := wire.ParseDictionary(df)
	if err != nil {
		return nil, err
	}

	mf, err := os.Open(cfg.FieldMapPath)
	if err != nil {
		return nil, fmt.Errorf("open field map: %w", err)
	}
	defer mf.Close()

	rows := dict.ParseMapTable(mf)

	return dict.Build(wireDict, rows, schema, dict.Options{
		PassThrough:       cfg.PassThrough,
		PassThroughOffset: cfg.PassThroughOffset,
	}), nil
}

func getString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
