package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrUnknownCodec 不支持的编码名
var ErrUnknownCodec = errors.New("unknown codec")

// Codec 出站消息编码；msgpack 复用 json 标签，两种编码字段名一致
type Codec interface {
	Name() string
	Marshal(v any) ([]byte, error)
	MessageType() int
}

type jsonCodec struct{}

func (jsonCodec) Name() string                  { return "json" }
func (jsonCodec) Marshal(v any) ([]byte, error) { return json.Marshal(v) }
func (jsonCodec) MessageType() int              { return websocket.TextMessage }

type msgpackCodec struct{}

func (msgpackCodec) Name() string     { return "msgpack" }
func (msgpackCodec) MessageType() int { return websocket.BinaryMessage }

func (msgpackCodec) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	enc.UseCompactInts(true)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var (
	JSONCodec    Codec = jsonCodec{}
	MsgpackCodec Codec = msgpackCodec{}
)

// CodecByName "" 视为 json
func CodecByName(name string) (Codec, error) {
	switch strings.ToLower(name) {
	case "", "json":
		return JSONCodec, nil
	case "msgpack", "mp":
		return MsgpackCodec, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// DecodeInput 按 WebSocket 帧类型解码入站消息
func DecodeInput(messageType int, data []byte) (InputMessage, error) {
	var im InputMessage
	switch messageType {
	case websocket.BinaryMessage:
		dec := msgpack.NewDecoder(bytes.NewReader(data))
		dec.SetCustomStructTag("json")
		if err := dec.Decode(&im); err != nil {
			return im, fmt.Errorf("decode msgpack input: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &im); err != nil {
			return im, fmt.Errorf("decode json input: %w", err)
		}
	}
	return im, nil
}
