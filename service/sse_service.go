/*
 * @module service/sse_service
 * @description Server-Sent Events (SSE) 服务 - 产线状态变更与系统事件的实时推送
 * @architecture 服务层
 * @documentReference DESIGN-000.md
 * @stateFlow 客户端连接 -> 流订阅 -> 实时推送 -> 连接管理
 * @rules 支持产线状态、系统事件的实时推送；推送失败不影响引擎
 * @dependencies net/http, sync, context
 */

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
)

// SSEEventType SSE事件类型
type SSEEventType string

const (
	SSEEventTypeLineUpdate  SSEEventType = "line_update"
	SSEEventTypeSystemEvent SSEEventType = "system_event"
	SSEEventTypeHeartbeat   SSEEventType = "heartbeat"
)

// SSEMessage SSE消息格式
type SSEMessage struct {
	Event     SSEEventType `json:"event"`
	Data      interface{}  `json:"data"`
	Timestamp time.Time    `json:"timestamp"`
	ID        string       `json:"id,omitempty"`
}

// LineEvent 产线状态变更事件
type LineEvent struct {
	LineID      string  `json:"lineId"`
	DisplayName string  `json:"name"`
	IsRunning   bool    `json:"isRunning"`
	Speed       float64 `json:"speed"`
	Product     string  `json:"product,omitempty"`
	Reason      string  `json:"reason"` // telemetry（上报触发）/ offline（离线巡检触发）
	Timestamp   int64   `json:"timestamp"`
}

// SystemEvent 系统事件
type SystemEvent struct {
	Type      string    `json:"type"`
	Level     string    `json:"level"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	Source    string    `json:"source"`
	Timestamp time.Time `json:"timestamp"`
}

// SSEService SSE服务接口
type SSEService interface {
	HandleLineEvents(w http.ResponseWriter, r *http.Request) error
	HandleSystemEvents(w http.ResponseWriter, r *http.Request) error

	BroadcastLineUpdate(event *LineEvent) error
	BroadcastSystemEvent(event *SystemEvent) error

	GetConnectionStats() *ConnectionStats
	CloseAllConnections() error
}

// SSEClient SSE客户端连接
type SSEClient struct {
	ID             string
	Channel        string // lines, system
	ResponseWriter http.ResponseWriter
	Flusher        http.Flusher
	Context        context.Context
	Cancel         context.CancelFunc
	ConnectedAt    time.Time
	LastPingAt     time.Time
}

// ConnectionStats 连接统计
type ConnectionStats struct {
	TotalConnections     int            `json:"total_connections"`
	ConnectionsByChannel map[string]int `json:"connections_by_channel"`
	ActiveSince          time.Time      `json:"active_since"`
}

// sseService SSE服务实现
type sseService struct {
	clients     map[string]*SSEClient
	clientMutex sync.RWMutex
	channels    map[string][]*SSEClient // channel -> clients
	startTime   time.Time
}

// NewSSEService 创建SSE服务实例
func NewSSEService() SSEService {
	return &sseService{
		clients:   make(map[string]*SSEClient),
		channels:  make(map[string][]*SSEClient),
		startTime: time.Now(),
	}
}

// HandleLineEvents 处理产线事件流
func (s *sseService) HandleLineEvents(w http.ResponseWriter, r *http.Request) error {
	return s.handleSSEConnection(w, r, "lines")
}

// HandleSystemEvents 处理系统事件流
func (s *sseService) HandleSystemEvents(w http.ResponseWriter, r *http.Request) error {
	return s.handleSSEConnection(w, r, "system")
}

// handleSSEConnection 通用SSE连接处理
func (s *sseService) handleSSEConnection(w http.ResponseWriter, r *http.Request, channel string) error {
	// 检查是否支持SSE
	flusher, ok := w.(http.Flusher)
	if !ok {
		return fmt.Errorf("server does not support Server-Sent Events")
	}

	// 设置SSE响应头
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Cache-Control")

	ctx, cancel := context.WithCancel(r.Context())

	client := &SSEClient{
		ID:             s.generateClientID(),
		Channel:        channel,
		ResponseWriter: w,
		Flusher:        flusher,
		Context:        ctx,
		Cancel:         cancel,
		ConnectedAt:    time.Now(),
		LastPingAt:     time.Now(),
	}

	s.registerClient(client)
	defer s.unregisterClient(client.ID)

	log.Printf("[SSE] Client connected - ID: %s, Channel: %s", client.ID, channel)

	// 发送连接确认消息
	s.sendToClient(client, SSEMessage{
		Event: SSEEventTypeSystemEvent,
		Data: map[string]interface{}{
			"type":      "connected",
			"channel":   channel,
			"client_id": client.ID,
			"message":   fmt.Sprintf("已连接到%s事件流", channel),
		},
		Timestamp: time.Now(),
		ID:        fmt.Sprintf("connect_%s_%d", client.ID, time.Now().Unix()),
	})

	// 启动心跳
	go s.heartbeatLoop(client)

	// 保持连接直到客户端断开
	<-ctx.Done()

	log.Printf("[SSE] Client disconnected - ID: %s, Channel: %s", client.ID, channel)
	return nil
}

// BroadcastLineUpdate 广播产线状态变更
func (s *sseService) BroadcastLineUpdate(event *LineEvent) error {
	message := SSEMessage{
		Event:     SSEEventTypeLineUpdate,
		Data:      event,
		Timestamp: time.Now(),
		ID:        fmt.Sprintf("line_%s_%d", event.LineID, time.Now().UnixNano()),
	}

	return s.broadcastToChannel("lines", message)
}

// BroadcastSystemEvent 广播系统事件
func (s *sseService) BroadcastSystemEvent(event *SystemEvent) error {
	message := SSEMessage{
		Event:     SSEEventTypeSystemEvent,
		Data:      event,
		Timestamp: time.Now(),
		ID:        fmt.Sprintf("event_%s_%d", event.Type, time.Now().Unix()),
	}

	return s.broadcastToChannel("system", message)
}

// GetConnectionStats 获取连接统计
func (s *sseService) GetConnectionStats() *ConnectionStats {
	s.clientMutex.RLock()
	defer s.clientMutex.RUnlock()

	channelStats := make(map[string]int)
	for _, client := range s.clients {
		channelStats[client.Channel]++
	}

	return &ConnectionStats{
		TotalConnections:     len(s.clients),
		ConnectionsByChannel: channelStats,
		ActiveSince:          s.startTime,
	}
}

// CloseAllConnections 关闭所有连接
func (s *sseService) CloseAllConnections() error {
	s.clientMutex.Lock()
	defer s.clientMutex.Unlock()

	for _, client := range s.clients {
		client.Cancel()
	}

	s.clients = make(map[string]*SSEClient)
	s.channels = make(map[string][]*SSEClient)

	log.Println("[SSE] All connections closed")
	return nil
}

// registerClient 注册客户端
func (s *sseService) registerClient(client *SSEClient) {
	s.clientMutex.Lock()
	defer s.clientMutex.Unlock()

	s.clients[client.ID] = client

	if s.channels[client.Channel] == nil {
		s.channels[client.Channel] = make([]*SSEClient, 0)
	}
	s.channels[client.Channel] = append(s.channels[client.Channel], client)
}

// unregisterClient 注销客户端
func (s *sseService) unregisterClient(clientID string) {
	s.clientMutex.Lock()
	defer s.clientMutex.Unlock()

	client, exists := s.clients[clientID]
	if !exists {
		return
	}

	// 从频道中移除
	if clients, exists := s.channels[client.Channel]; exists {
		for i, c := range clients {
			if c.ID == clientID {
				s.channels[client.Channel] = append(clients[:i], clients[i+1:]...)
				break
			}
		}
	}

	delete(s.clients, clientID)
}

// broadcastToChannel 向指定频道广播消息
func (s *sseService) broadcastToChannel(channel string, message SSEMessage) error {
	s.clientMutex.RLock()
	clients := s.channels[channel]
	s.clientMutex.RUnlock()

	if len(clients) == 0 {
		return nil
	}

	for _, client := range clients {
		go s.sendToClient(client, message)
	}

	return nil
}

// sendToClient 向单个客户端发送消息
func (s *sseService) sendToClient(client *SSEClient, message SSEMessage) {
	select {
	case <-client.Context.Done():
		return
	default:
	}

	data, err := json.Marshal(message.Data)
	if err != nil {
		log.Printf("[SSE] Failed to marshal message data for client %s: %v", client.ID, err)
		return
	}

	if message.ID != "" {
		fmt.Fprintf(client.ResponseWriter, "id: %s\n", message.ID)
	}
	fmt.Fprintf(client.ResponseWriter, "event: %s\n", message.Event)
	fmt.Fprintf(client.ResponseWriter, "data: %s\n\n", string(data))

	client.Flusher.Flush()
	client.LastPingAt = time.Now()
}

// heartbeatLoop 心跳循环
func (s *sseService) heartbeatLoop(client *SSEClient) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-client.Context.Done():
			return
		case <-ticker.C:
			heartbeatMsg := SSEMessage{
				Event: SSEEventTypeHeartbeat,
				Data: map[string]interface{}{
					"server_time": time.Now().Unix(),
					"client_id":   client.ID,
					"channel":     client.Channel,
				},
				Timestamp: time.Now(),
				ID:        fmt.Sprintf("heartbeat_%s_%d", client.ID, time.Now().Unix()),
			}

			s.sendToClient(client, heartbeatMsg)
		}
	}
}

// generateClientID 生成客户端ID
func (s *sseService) generateClientID() string {
	return fmt.Sprintf("sse_%d", time.Now().UnixNano())
}
