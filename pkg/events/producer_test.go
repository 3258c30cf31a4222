package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_NoBrokersIsNop(t *testing.T) {
	p := New(nil)
	_, ok := p.(Nop)
	assert.True(t, ok)
	assert.NoError(t, p.Publish(context.Background(), TopicOrders, "k", map[string]any{"a": 1}))

	_, ok = New([]string{"localhost:9092"}).(*Producer)
	assert.True(t, ok)
}

func TestBuildMessage(t *testing.T) {
	msg, err := buildMessage(TopicOrders, "order-1", map[string]any{"type": "order_placed", "total": 2500})
	require.NoError(t, err)

	assert.Equal(t, TopicOrders, msg.Topic)
	assert.Equal(t, []byte("order-1"), msg.Key)

	var got map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, "order_placed", got["type"])
	assert.EqualValues(t, 2500, got["total"])
}

func TestBuildMessage_Unmarshalable(t *testing.T) {
	_, err := buildMessage(TopicOrders, "k", make(chan int))
	assert.ErrorContains(t, err, "json.Marshal failed")
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	require.NoError(t, r.Publish(context.Background(), TopicProducts, "p", "x"))
	assert.Equal(t, []string{TopicProducts}, r.Topics())

	r.Err = errors.New("down")
	assert.Error(t, r.Publish(context.Background(), TopicProducts, "p", "y"))
	assert.Len(t, r.Messages, 1)
}
