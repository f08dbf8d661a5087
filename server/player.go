package server

import "time"

// PlayerID 表示玩家唯一标识
type PlayerID string

// Conn 房间向客户端发送数据的最小接口；实现必须非阻塞
type Conn interface {
	Enqueue(b []byte)
	Close()
}

// Client 房间内的一个连接。房间按加入顺序选出操控者，其余为观战。
type Client struct {
	ID       PlayerID
	Conn     Conn
	Codec    Codec
	JoinedAt time.Time
}

// NewClient 未指定编码时使用 JSON
func NewClient(id PlayerID, conn Conn, codec Codec) *Client {
	if codec == nil {
		codec = JSONCodec
	}
	return &Client{ID: id, Conn: conn, Codec: codec, JoinedAt: time.Now()}
}
