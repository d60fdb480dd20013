package kafka

import (
	"testing"

	"github.com/IBM/sarama"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrokersFromEnv(t *testing.T) {
	t.Run("unset", func(t *testing.T) {
		t.Setenv("KAFKA_BROKERS", "")

		_, err := brokersFromEnv()
		require.Error(t, err)
	})

	t.Run("trims and drops empty segments", func(t *testing.T) {
		t.Setenv("KAFKA_BROKERS", " kafka-1:9092 ,, kafka-2:9092")

		brokers, err := brokersFromEnv()
		require.NoError(t, err)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, brokers)
	})
}

func TestSaramaConfigs(t *testing.T) {
	sub := subscriberConfig()
	assert.Equal(t, clientID, sub.ClientID)
	assert.Equal(t, sarama.OffsetOldest, sub.Consumer.Offsets.Initial)

	pub := publisherConfig()
	assert.Equal(t, clientID, pub.ClientID)
	assert.True(t, pub.Producer.Return.Successes)
	assert.Equal(t, sarama.CompressionSnappy, pub.Producer.Compression)
}
