package bridge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feedmill/mdbridge/dict"
)

func writeFixture(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("MDB_WIRE_DICT", "/etc/mdbridge/wire.dict")
		t.Setenv("MDB_FIELD_MAP", "/etc/mdbridge/fields.map")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.Equal(t, "/etc/mdbridge/wire.dict", cfg.WireDictPath)
		assert.False(t, cfg.PassThrough)
		assert.Equal(t, uint16(defaultPassThroughOffset), cfg.PassThroughOffset)
		assert.Empty(t, cfg.Kafka.Brokers)
		assert.Equal(t, defaultKafkaTopic, cfg.Kafka.Topic)
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("MDB_WIRE_DICT", "wire.dict")
		t.Setenv("MDB_FIELD_MAP", "fields.map")
		t.Setenv("MDB_PASS_THROUGH", "true")
		t.Setenv("MDB_PASS_THROUGH_OFFSET", "9000")
		t.Setenv("MDB_KAFKA_BROKERS", "k1:9092, k2:9092")
		t.Setenv("MDB_KAFKA_TOPIC", "books.raw")

		cfg, err := LoadConfig()
		require.NoError(t, err)
		assert.True(t, cfg.PassThrough)
		assert.Equal(t, uint16(9000), cfg.PassThroughOffset)
		assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
		assert.Equal(t, "books.raw", cfg.Kafka.Topic)
	})

	t.Run("dictionary path is required", func(t *testing.T) {
		t.Setenv("MDB_FIELD_MAP", "fields.map")
		_, err := LoadConfig()
		assert.Error(t, err)
	})

	t.Run("offset must fit the fid range", func(t *testing.T) {
		t.Setenv("MDB_WIRE_DICT", "wire.dict")
		t.Setenv("MDB_FIELD_MAP", "fields.map")
		t.Setenv("MDB_PASS_THROUGH_OFFSET", "90000")
		_, err := LoadConfig()
		assert.Error(t, err)
	})
}

func TestLoadDictionary(t *testing.T) {
	wireDict := writeFixture(t, "wire.dict", `# vendor dictionary
6|TRDPRC_1|real|price
22|BID|real|price
1021|DSPLY_NAME|string
`)
	fieldMap := writeFixture(t, "fields.map", `# local field map
6|101|TradePrice|price
22||Bid|price
1021|107|DisplayName|string
`)

	cfg := &Config{
		WireDictPath: wireDict,
		FieldMapPath: fieldMap,
	}

	fd, err := LoadDictionary(cfg, map[string]uint16{"Bid": 102})
	require.NoError(t, err)

	desc := fd.Resolve(6)
	require.NotNil(t, desc)
	assert.Equal(t, uint16(101), desc.NormID)
	assert.Equal(t, dict.TypePrice, desc.Type)

	// Schema-resolved id for the row with an empty normId column.
	desc = fd.Resolve(22)
	require.NotNil(t, desc)
	assert.Equal(t, uint16(102), desc.NormID)

	wireFid, ok := fd.ResolveNorm(107)
	require.True(t, ok)
	assert.Equal(t, uint16(1021), wireFid)

	t.Run("missing dictionary file", func(t *testing.T) {
		_, err := LoadDictionary(&Config{WireDictPath: "/nope", FieldMapPath: fieldMap}, nil)
		assert.Error(t, err)
	})
}
