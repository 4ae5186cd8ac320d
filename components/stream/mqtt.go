/*
 * Copyright 2024 The RuleGo Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package stream implements stream-shaped components backed by
// external transports; today that is an MQTT topic subscription
// exposed as a chunked stream handle via the execution context's
// stream manager.
package stream

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/lcod-team/lcod-kernel-go/kernel"
	"github.com/lcod-team/lcod-kernel-go/types"
)

// MqttSubscribeId subscribes to an MQTT topic and returns a stream
// handle yielding one chunk per received message payload.
const MqttSubscribeId types.ComponentId = "lcod://stream/mqtt/subscribe@1"

// mqttChunkSource adapts an MQTT subscription to kernel.ChunkSource:
// each incoming message payload becomes one chunk, buffered on an
// unbounded-enough channel until Next is called.
type mqttChunkSource struct {
	client  mqtt.Client
	topic   string
	chunks  chan []byte
	closeCh chan struct{}
}

func (s *mqttChunkSource) Next() ([]byte, bool, error) {
	select {
	case chunk, ok := <-s.chunks:
		if !ok {
			return nil, true, nil
		}
		return chunk, false, nil
	case <-s.closeCh:
		return nil, true, nil
	}
}

func (s *mqttChunkSource) Close() error {
	select {
	case <-s.closeCh:
	default:
		close(s.closeCh)
	}
	token := s.client.Unsubscribe(s.topic)
	token.WaitTimeout(5 * time.Second)
	s.client.Disconnect(250)
	return token.Error()
}

// MqttSubscribe reads "brokerUrl", "topic", optional "clientId" and
// "qos" from its input, connects, subscribes, and returns {stream: a
// StreamHandle} whose reads yield one chunk per message payload.
// It registers the matching close with ctx.Defer, so the handle is
// released when the cleanup scope open around this call pops (under
// Execute, at the end of this step).
func MqttSubscribe(ctx *kernel.Context, input types.Value, meta kernel.CallMeta) (types.Value, error) {
	obj := types.AsObject(input)
	brokerUrl, _ := obj["brokerUrl"].(string)
	topic, _ := obj["topic"].(string)
	if brokerUrl == "" || topic == "" {
		return nil, &types.Error{Code: types.InputValidationFailed, Message: "mqtt/subscribe: \"brokerUrl\" and \"topic\" are required"}
	}
	clientId, _ := obj["clientId"].(string)
	if clientId == "" {
		clientId = fmt.Sprintf("lcod-%d", time.Now().UnixNano())
	}
	qos := byte(0)
	if q, ok := obj["qos"].(float64); ok {
		qos = byte(q)
	}

	source := &mqttChunkSource{closeCh: make(chan struct{}), chunks: make(chan []byte, 64), topic: topic}

	opts := mqtt.NewClientOptions().AddBroker(brokerUrl).SetClientID(clientId)
	client := mqtt.NewClient(opts)
	source.client = client

	if token := client.Connect(); token.WaitTimeout(10*time.Second) && token.Error() != nil {
		return nil, types.Wrap(types.UnexpectedError, token.Error())
	}

	handler := func(_ mqtt.Client, msg mqtt.Message) {
		select {
		case source.chunks <- msg.Payload():
		case <-source.closeCh:
		}
	}
	if token := client.Subscribe(topic, qos, handler); token.WaitTimeout(10*time.Second) && token.Error() != nil {
		client.Disconnect(250)
		return nil, types.Wrap(types.UnexpectedError, token.Error())
	}

	handle := ctx.Streams().CreateFromReadable(source)
	ctx.Defer(func() { _, _ = ctx.Streams().Close(handle) })

	return map[string]any{"stream": handle}, nil
}

// RegisterAll registers the built-in stream components on reg.
func RegisterAll(reg *kernel.Registry) {
	reg.Register(kernel.Registration{Id: MqttSubscribeId, Handler: MqttSubscribe})
}
