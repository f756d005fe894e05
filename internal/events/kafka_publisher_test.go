package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockMessageWriter struct {
	mock.Mock
}

func (m *MockMessageWriter) WriteMessage(ctx context.Context, msg kafka.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *MockMessageWriter) Close() error {
	return m.Called().Error(0)
}

func TestKafkaPublisher_Publish(t *testing.T) {
	writer := new(MockMessageWriter)
	publisher := NewKafkaPublisherWithWriter(writer)
	event := Event{
		Type:        SaleFinalized,
		AggregateID: "sale-1",
		Folio:       "20240315-0001",
		Amount:      decimal.RequireFromString("23.20"),
		UserID:      "user-1",
		OccurredAt:  time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
	}

	var sent kafka.Message
	writer.On("WriteMessage", mock.Anything, mock.AnythingOfType("kafka.Message")).
		Run(func(args mock.Arguments) { sent = args.Get(1).(kafka.Message) }).
		Return(nil).Once()

	require.NoError(t, publisher.Publish(context.Background(), event))
	writer.AssertExpectations(t)

	assert.Equal(t, []byte("sale-1"), sent.Key)
	require.Len(t, sent.Headers, 1)
	assert.Equal(t, "sale.finalized", string(sent.Headers[0].Value))

	var decoded Event
	require.NoError(t, json.Unmarshal(sent.Value, &decoded))
	assert.Equal(t, event.Folio, decoded.Folio)
	assert.True(t, event.Amount.Equal(decoded.Amount))
}

func TestKafkaPublisher_PublishError(t *testing.T) {
	writer := new(MockMessageWriter)
	publisher := NewKafkaPublisherWithWriter(writer)
	writer.On("WriteMessage", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	err := publisher.Publish(context.Background(), Event{Type: DrawerClosed, AggregateID: "drawer-1"})

	assert.ErrorContains(t, err, "broker down")
	writer.AssertExpectations(t)
}
